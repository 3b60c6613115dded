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
// wlgen watch

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"lab.nexedi.com/kirr/go123/prog"

	"github.com/verdiwm/waynest-sub003/internal/log"
	"github.com/verdiwm/waynest-sub003/internal/task"
)

// settleTime is how long watch waits after last change before regenerating.
//
// Editors usually save a file in several steps.
var settleTime = 200 * time.Millisecond

// WatchOptions configure Watch.
type WatchOptions struct {
	// Load returns current batch configuration. It is called before
	// every generation, so changes of the config file are picked up.
	Load func() (Config, error)

	// ConfigPath, if not empty, is watched in addition to documents.
	ConfigPath string

	// Notify, if not nil, is called after every generation.
	Notify func(written []string, err error)
}

// Watch regenerates bindings whenever protocol documents or the config file change.
//
// Generation runs once at start. Generation errors are logged and reported
// to opt.Notify but do not stop watching. Watch returns when ctx is done or
// when file notifications fail.
func Watch(ctx context.Context, opt WatchOptions) (err error) {
	defer task.Running(&ctx, "watch")(&err)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		err2 := w.Close()
		if err == nil {
			err = err2
		}
	}()

	// files we react to, and directories watched for them.
	// directories are watched because editors replace files via rename.
	files := map[string]bool{}
	dirs := map[string]bool{}
	track := func(path string) error {
		path, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		files[path] = true
		dir := filepath.Dir(path)
		if dirs[dir] {
			return nil
		}
		err = w.Add(dir)
		if err != nil {
			return errors.Wrapf(err, "watch %s", dir)
		}
		dirs[dir] = true
		return nil
	}
	if opt.ConfigPath != "" {
		err = track(opt.ConfigPath)
		if err != nil {
			return err
		}
	}

	regen := func() error {
		cfg, err := opt.Load()
		if err == nil {
			for _, doc := range cfg.Protocols {
				err = track(doc)
				if err != nil {
					return err // notification setup failure is fatal
				}
			}
		}
		var written []string
		if err == nil {
			written, err = Generate(ctx, cfg)
		}
		if err != nil {
			log.Error(ctx, err)
		}
		if opt.Notify != nil {
			opt.Notify(written, err)
		}
		return nil
	}

	err = regen()
	if err != nil {
		return err
	}

	var settle *time.Timer
	var settled <-chan time.Time
	defer func() {
		if settle != nil {
			settle.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-w.Errors:
			if err != fsnotify.ErrEventOverflow {
				return err
			}
			// events lost: regenerate to be sure
			log.Warning(ctx, err)

		case ev := <-w.Events:
			if !files[filepath.Clean(ev.Name)] {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if log.V(1) {
				log.Infof(ctx, "%s", ev)
			}

		case <-settled:
			settled = nil
			err = regen()
			if err != nil {
				return err
			}
			continue
		}

		if settle == nil {
			settle = time.NewTimer(settleTime)
		} else {
			if !settle.Stop() {
				select {
				case <-settle.C:
				default:
				}
			}
			settle.Reset(settleTime)
		}
		settled = settle.C
	}
}

// ----------------------------------------

const watchSummary = "regenerate bindings whenever protocol documents change"

func watchUsage(w io.Writer) {
	fmt.Fprintf(w,
`Usage: wlgen watch [OPTIONS] [<protocol.xml> ...]
Watch protocol documents and regenerate bindings on every change.

Bindings are generated once at start. When the config file is given it is
watched too and reread on change. Errors in documents are reported and
watching continues.

Options are the same as for 'wlgen generate':

	-h --help       this help text.
	-config <file>  batch config file (see 'wlgen help config').
	-o <dir>        output directory.
	-role <roles>   roles to generate: client, server or both.
	-import <path>  import path of output directory.
`)
}

func watchMain(argv []string) {
	var bf batchFlags
	flags := flag.FlagSet{Usage: func() { watchUsage(os.Stderr) }}
	flags.Init("", flag.ExitOnError)
	bf.register(&flags)
	flags.Parse(argv[1:])
	docv := flags.Args()

	_, configPath, err := bf.batchConfig(docv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flags.Usage()
		prog.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err = Watch(ctx, WatchOptions{
		Load: func() (Config, error) {
			cfg, _, err := bf.batchConfig(docv)
			return cfg, err
		},
		ConfigPath: configPath,
	})
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil {
		prog.Fatal(err)
	}
}
