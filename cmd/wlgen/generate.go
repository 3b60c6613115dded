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
// wlgen generate

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"lab.nexedi.com/kirr/go123/prog"
	"lab.nexedi.com/kirr/go123/xerr"

	"github.com/verdiwm/waynest-sub003/gen"
	"github.com/verdiwm/waynest-sub003/internal/log"
	"github.com/verdiwm/waynest-sub003/internal/task"
	"github.com/verdiwm/waynest-sub003/protocol"
)

// Load parses protocol documents and resolves them into one batch.
//
// Problems of all documents are reported together.
func Load(docv []string) (*protocol.Batch, error) {
	var errv xerr.Errorv
	var protov []*protocol.Protocol
	for _, doc := range docv {
		proto, err := protocol.ParseFile(doc)
		if err != nil {
			errv.Append(err)
			continue
		}
		protov = append(protov, proto)
	}
	if err := errv.Err(); err != nil {
		return nil, err
	}
	return protocol.Resolve(protov...)
}

// Generate runs generation for batch cfg and updates files under cfg.Output.
//
// All files are produced before anything is written, so a broken document
// leaves previous output intact. Files whose content did not change are not
// touched. Paths of written files are returned.
func Generate(ctx context.Context, cfg Config) (written []string, err error) {
	defer task.Running(&ctx, "generate")(&err)

	err = cfg.check()
	if err != nil {
		return nil, err
	}
	b, err := Load(cfg.Protocols)
	if err != nil {
		return nil, err
	}

	opt := gen.Options{ImportPrefix: cfg.ImportPrefix, Generator: "wlgen"}
	var filev []gen.File
	for _, role := range cfg.Roles {
		fv, err := gen.Generate(b, role, opt)
		if err != nil {
			return nil, err
		}
		filev = append(filev, fv...)
	}

	for _, f := range filev {
		path := filepath.Join(cfg.Output, filepath.FromSlash(f.Path))
		old, err := os.ReadFile(path)
		if err == nil && bytes.Equal(old, f.Source) {
			if log.V(1) {
				log.Infof(ctx, "%s: unchanged", path)
			}
			continue
		}
		err = writeFile(path, f.Source)
		if err != nil {
			return written, err
		}
		log.Infof(ctx, "%s: written", path)
		written = append(written, path)
	}
	return written, nil
}

// writeFile replaces file at path with data atomically.
func writeFile(path string, data []byte) (err error) {
	defer xerr.Contextf(&err, "write %s", path)

	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(f.Name())
		}
	}()

	_, err = f.Write(data)
	err2 := f.Close()
	if err == nil {
		err = err2
	}
	if err != nil {
		return err
	}
	err = os.Chmod(f.Name(), 0644)
	if err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// batchFlags are options shared by generate and watch.
type batchFlags struct {
	config  string
	output  string
	roles   string
	imports string
}

func (bf *batchFlags) register(flags *flag.FlagSet) {
	flags.StringVar(&bf.config, "config", "", "batch config file")
	flags.StringVar(&bf.output, "o", "", "output directory")
	flags.StringVar(&bf.roles, "role", "", "roles to generate: client, server or both")
	flags.StringVar(&bf.imports, "import", "", "import path of output directory")
}

// batchConfig combines config file, flags and documents given on command line.
func (bf *batchFlags) batchConfig(docv []string) (cfg Config, configPath string, err error) {
	cfg = defaultConfig()
	if bf.config != "" {
		configPath = bf.config
		cfg, err = loadConfig(configPath)
		if err != nil {
			return cfg, "", err
		}
	}
	if bf.output != "" {
		cfg.Output = bf.output
	}
	if bf.roles != "" {
		cfg.Roles, err = parseRoles(strings.Split(bf.roles, ",")...)
		if err != nil {
			return cfg, "", err
		}
	}
	if bf.imports != "" {
		cfg.ImportPrefix = strings.TrimSuffix(bf.imports, "/")
	}
	cfg.Protocols = append(cfg.Protocols, docv...)
	err = cfg.check()
	if err != nil {
		return cfg, "", errors.Wrap(err, "wlgen")
	}
	return cfg, configPath, nil
}

// ----------------------------------------

const generateSummary = "generate Go bindings for Wayland protocols"

func generateUsage(w io.Writer) {
	fmt.Fprintf(w,
`Usage: wlgen generate [OPTIONS] [<protocol.xml> ...]
Generate Go bindings for Wayland protocols.

Documents given on command line are added to those listed in config file.
For every document and role a package <output>/<role>/<name> is generated.

Options:

	-h --help       this help text.
	-config <file>  batch config file (see 'wlgen help config').
	-o <dir>        output directory.
	-role <roles>   roles to generate: client, server or both.
	-import <path>  import path of output directory.
`)
}

func generateMain(argv []string) {
	var bf batchFlags
	flags := flag.FlagSet{Usage: func() { generateUsage(os.Stderr) }}
	flags.Init("", flag.ExitOnError)
	bf.register(&flags)
	flags.Parse(argv[1:])

	cfg, _, err := bf.batchConfig(flags.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flags.Usage()
		prog.Exit(2)
	}

	_, err = Generate(context.Background(), cfg)
	if err != nil {
		prog.Fatal(err)
	}
}
