// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gogpu/matc"
	"github.com/gogpu/matc/build"
	"github.com/gogpu/matc/frontend"
	"github.com/gogpu/matc/material"
)

func newBuildCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [flags] <material>...",
		Short: "Compile material files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := o.logger(cmd.ErrOrStderr())
			opts, err := o.buildOptions(log)
			if err != nil {
				return err
			}
			return runBuild(cmd.Context(), cmd.OutOrStdout(), log, o.toolchain(log), opts, o.output, args)
		},
	}
	addBuildFlags(cmd, o)
	return cmd
}

// runBuild compiles every input, keeping the front end initialized between
// materials.
func runBuild(ctx context.Context, out io.Writer, log *slog.Logger, fe frontend.FrontEnd, opts build.Options, output string, inputs []string) error {
	h := frontend.NewHandle(fe)
	if _, err := h.Acquire(); err != nil {
		return err
	}
	defer func() {
		if err := h.Release(); err != nil {
			log.Warn("front end shutdown", "err", err)
		}
	}()

	failed := 0
	for _, input := range inputs {
		if err := compileFile(ctx, out, h, opts, input, output, len(inputs) > 1); err != nil {
			log.Error("build failed", "material", input, "err", err)
			failed++
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d materials failed", failed, len(inputs))
	}
	return nil
}

// compileFile builds one material and writes its package. Packages with
// failed programs are written too so they can be inspected.
func compileFile(ctx context.Context, out io.Writer, h *frontend.Handle, opts build.Options, input, output string, several bool) error {
	m, err := material.Load(input)
	if err != nil {
		return err
	}
	pkg, buildErr := matc.CompileWith(ctx, h, m, opts)
	if pkg == nil {
		return buildErr
	}

	path, err := outputPath(input, output, several)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, pkg.Bytes, 0o644); err != nil {
		return err
	}
	printSummary(out, input, path, pkg)
	return buildErr
}

func printSummary(out io.Writer, input, path string, pkg *build.Package) {
	s := pkg.Stats
	fmt.Fprintf(out, "%s -> %s (%s, %d programs", input, path, humanize.Bytes(uint64(s.Size)), s.Cells-s.Failed)
	if s.Failed > 0 {
		fmt.Fprintf(out, ", %d failed", s.Failed)
	}
	fmt.Fprintln(out, ")")
	for _, d := range pkg.Diagnostics {
		fmt.Fprintf(out, "  %s\n", d)
	}
}
