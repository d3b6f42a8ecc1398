// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Command matc compiles material files into material packages.
//
// Usage:
//
//	matc build [flags] <material>...
//	matc inspect <package>
//	matc watch [flags] <material>...
//
// Examples:
//
//	matc build painted.toml                  # Write painted.filamat
//	matc build -p mobile -a opengl lit.yaml  # Mobile OpenGL ES only
//	matc build -o out/ *.toml                # One package per material in out/
//	matc inspect painted.filamat             # Describe a package
//	matc watch -v painted.toml               # Rebuild on every save
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/gogpu/matc/build"
	"github.com/gogpu/matc/frontend"
	"github.com/gogpu/matc/variant"
)

// packageExt is the extension of written packages.
const packageExt = ".filamat"

const matcVersion = "0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// options holds the command line flags.
type options struct {
	verbose bool

	output       string
	platform     string
	api          string
	optimization string
	workers      int
	noInfer      bool

	glslang    string
	spirvOpt   string
	spirvCross string
}

func newRootCommand() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:          "matc",
		Short:        "Compile materials into material packages",
		Version:      matcVersion,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "log every build step")
	root.AddCommand(newBuildCommand(o), newInspectCommand(), newDisasmCommand(), newWatchCommand(o))
	return root
}

func addBuildFlags(cmd *cobra.Command, o *options) {
	f := cmd.Flags()
	f.StringVarP(&o.output, "output", "o", "", "output file, or directory when building several materials")
	f.StringVarP(&o.platform, "platform", "p", "all", "target platform: all, mobile or desktop")
	f.StringVarP(&o.api, "api", "a", "all", "target APIs: all, or a list of opengl, vulkan, metal")
	f.StringVarP(&o.optimization, "optimize", "O", "performance", "SPIR-V optimization: none, size or performance")
	f.IntVarP(&o.workers, "jobs", "j", 0, "concurrent compiler invocations (0: one per CPU)")
	f.BoolVar(&o.noInfer, "no-infer", false, "only use the properties declared in the material")
	f.StringVar(&o.glslang, "glslang", frontend.DefaultGlslang, "glslangValidator executable")
	f.StringVar(&o.spirvOpt, "spirv-opt", frontend.DefaultSpirvOpt, "spirv-opt executable")
	f.StringVar(&o.spirvCross, "spirv-cross", frontend.DefaultSpirvCross, "spirv-cross executable")
}

// logger returns a text logger at debug level when verbose, warnings otherwise.
func (o *options) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (o *options) buildOptions(log *slog.Logger) (build.Options, error) {
	platform, err := variant.ParsePlatform(o.platform)
	if err != nil {
		return build.Options{}, err
	}
	api, err := variant.ParseAPI(o.api)
	if err != nil {
		return build.Options{}, err
	}
	level, err := frontend.ParseOptimization(o.optimization)
	if err != nil {
		return build.Options{}, err
	}
	return build.Options{
		Platform:        platform,
		API:             api,
		Optimization:    level,
		Workers:         o.workers,
		Logger:          log,
		InferProperties: !o.noInfer,
	}, nil
}

func (o *options) toolchain(log *slog.Logger) *frontend.Toolchain {
	tc := frontend.NewToolchain()
	tc.Glslang = o.glslang
	tc.SpirvOpt = o.spirvOpt
	tc.SpirvCross = o.spirvCross
	tc.Logger = log
	return tc
}

// outputPath returns where the package built from input is written. An
// empty output writes next to the input; with several inputs output names
// a directory.
func outputPath(input, output string, several bool) (string, error) {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + packageExt
	if output == "" {
		return filepath.Join(filepath.Dir(input), base), nil
	}
	out, err := homedir.Expand(output)
	if err != nil {
		return "", fmt.Errorf("output %q: %w", output, err)
	}
	if several || strings.HasSuffix(output, "/") {
		return filepath.Join(out, base), nil
	}
	if fi, err := os.Stat(out); err == nil && fi.IsDir() {
		return filepath.Join(out, base), nil
	}
	return out, nil
}
