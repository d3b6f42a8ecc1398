// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/gogpu/matc/build"
	"github.com/gogpu/matc/frontend"
	"github.com/gogpu/matc/material"
)

func newWatchCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [flags] <material>...",
		Short: "Rebuild material files when they change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := o.logger(cmd.ErrOrStderr())
			opts, err := o.buildOptions(log)
			if err != nil {
				return err
			}
			return runWatch(cmd.Context(), cmd.OutOrStdout(), log, o.toolchain(log), opts, o.output, args)
		},
	}
	addBuildFlags(cmd, o)
	return cmd
}

// runWatch builds every input, then rebuilds an input whenever it is
// written, until ctx is done. Directories are watched rather than files
// since editors often save by replacing the file.
func runWatch(ctx context.Context, out io.Writer, log *slog.Logger, fe frontend.FrontEnd, opts build.Options, output string, inputs []string) error {
	h := frontend.NewHandle(fe)
	if _, err := h.Acquire(); err != nil {
		return err
	}
	defer func() {
		if err := h.Release(); err != nil {
			log.Warn("front end shutdown", "err", err)
		}
	}()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	targets, err := watchTargets(inputs)
	if err != nil {
		return err
	}
	dirs := map[string]bool{}
	watchDirs := func() error {
		for path := range targets {
			dir := filepath.Dir(path)
			if dirs[dir] {
				continue
			}
			if err := watcher.Add(dir); err != nil {
				return err
			}
			dirs[dir] = true
		}
		return nil
	}
	if err := watchDirs(); err != nil {
		return err
	}

	several := len(inputs) > 1
	rebuild := func(input string) {
		if err := compileFile(ctx, out, h, opts, input, output, several); err != nil {
			log.Error("build failed", "material", input, "err", err)
		}
	}
	for _, input := range inputs {
		rebuild(input)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			input, ok := targets[filepath.Clean(event.Name)]
			if !ok || !rebuildOn(event.Op) {
				continue
			}
			log.Info("changed", "material", input, "file", event.Name, "op", event.Op)
			rebuild(input)
			// The material may now reference other shader files.
			if err := addTargets(targets, input); err != nil {
				log.Warn("watch", "material", input, "err", err)
			} else if err := watchDirs(); err != nil {
				log.Warn("watch", "material", input, "err", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch", "err", err)
		}
	}
}

// watchTargets maps the absolute path of every input, and of every shader
// file an input reads its bodies from, to the input as given. An input that
// does not load yet is still watched itself.
func watchTargets(inputs []string) (map[string]string, error) {
	targets := make(map[string]string, len(inputs))
	for _, input := range inputs {
		if err := addTargets(targets, input); err != nil {
			return nil, err
		}
	}
	return targets, nil
}

func addTargets(targets map[string]string, input string) error {
	path, err := homedir.Expand(input)
	if err != nil {
		return err
	}
	paths := []string{path}
	if m, err := material.Load(input); err == nil {
		for _, s := range []material.Shader{m.Fragment, m.Vertex} {
			if s.File != "" {
				paths = append(paths, s.File)
			}
		}
	}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		targets[abs] = input
	}
	return nil
}

func rebuildOn(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create)
}
