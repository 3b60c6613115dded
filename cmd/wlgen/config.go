// Copyright (C) 2024  Nexedi SA and Contributors.
//                     Kirill Smelkov <kirr@nexedi.com>
//
// This program is free software: you can Use, Study, Modify and Redistribute
// it under the terms of the GNU General Public License version 3, or (at your
// option) any later version, as published by the Free Software Foundation.
//
// You can also Link and Combine this program with other software covered by
// the terms of any of the Free Software licenses or any of the Open Source
// Initiative approved licenses and Convey the resulting work. Corresponding
// source of such a combination shall include the source code for all other
// software used.
//
// This program is distributed WITHOUT ANY WARRANTY; without even the implied
// warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
//
// See COPYING file for full licensing terms.
// See https://www.nexedi.com/licensing for rationale and options.


package main
// batch configuration

import (
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/verdiwm/waynest-sub003/gen"
)

// Config describes one generation batch.
type Config struct {
	Output       string     // directory receiving <role>/<package> trees
	ImportPrefix string     // import path of Output
	Roles        []gen.Role // sides to generate, in order
	Protocols    []string   // protocol documents
}

// defaultConfig returns configuration used when no config file is given.
func defaultConfig() Config {
	return Config{
		Output: ".",
		Roles:  []gen.Role{gen.Client, gen.Server},
	}
}

type rawConfig struct {
	Output       string   `toml:"output"`
	ImportPrefix string   `toml:"import_prefix"`
	Roles        []string `toml:"roles"`
	Protocols    []string `toml:"protocols"`
}

// loadConfig reads batch configuration from TOML file at path.
//
// Keys not present in the file keep their default values. Relative paths
// are taken relative to directory of the config file.
func loadConfig(path string) (cfg Config, err error) {
	cfg = defaultConfig()

	var raw rawConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return cfg, errors.Wrapf(err, "%s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) != 0 {
		keyv := make([]string, len(undecoded))
		for i, key := range undecoded {
			keyv[i] = key.String()
		}
		return cfg, errors.Errorf("%s: unknown keys: %s", path, strings.Join(keyv, ", "))
	}

	dir := filepath.Dir(path)
	if meta.IsDefined("output") {
		cfg.Output = relTo(dir, raw.Output)
	} else {
		cfg.Output = dir
	}
	if meta.IsDefined("import_prefix") {
		cfg.ImportPrefix = strings.TrimSuffix(raw.ImportPrefix, "/")
	}
	if meta.IsDefined("roles") {
		cfg.Roles, err = parseRoles(raw.Roles...)
		if err != nil {
			return cfg, errors.Wrapf(err, "%s", path)
		}
	}
	if meta.IsDefined("protocols") {
		for _, doc := range raw.Protocols {
			cfg.Protocols = append(cfg.Protocols, relTo(dir, doc))
		}
	}
	return cfg, nil
}

func relTo(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// parseRoles converts role names to roles.
//
// "both" means client and server. Duplicates are collapsed.
func parseRoles(namev ...string) ([]gen.Role, error) {
	if len(namev) == 0 {
		return nil, errors.New("roles: empty")
	}
	var rolev []gen.Role
	seen := map[gen.Role]bool{}
	add := func(r gen.Role) {
		if !seen[r] {
			seen[r] = true
			rolev = append(rolev, r)
		}
	}
	for _, name := range namev {
		switch name {
		case "client":
			add(gen.Client)
		case "server":
			add(gen.Server)
		case "both":
			add(gen.Client)
			add(gen.Server)
		default:
			return nil, errors.Errorf("roles: invalid role %q", name)
		}
	}
	return rolev, nil
}

// check verifies cfg is complete enough to run generation.
func (cfg *Config) check() error {
	if len(cfg.Protocols) == 0 {
		return errors.New("no protocol documents")
	}
	if cfg.Output == "" {
		return errors.New("no output directory")
	}
	if len(cfg.Roles) == 0 {
		return errors.New("no roles")
	}
	return nil
}
