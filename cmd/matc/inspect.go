// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/gogpu/matc"
)

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <package>",
		Short: "Describe a material package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := homedir.Expand(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			info, err := matc.Inspect(data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			printInfo(cmd.OutOrStdout(), info, len(data))
			return nil
		},
	}
}

func printInfo(out io.Writer, info *matc.Info, size int) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "name\t%s\n", info.Name)
	fmt.Fprintf(tw, "version\t%d\n", info.Version)
	fmt.Fprintf(tw, "size\t%s\n", humanize.Bytes(uint64(size)))
	fmt.Fprintf(tw, "valid\t%t\n", info.Valid)
	fmt.Fprintf(tw, "shading\t%s\n", info.Shading)
	fmt.Fprintf(tw, "blending\t%s\n", info.Blending)
	fmt.Fprintf(tw, "domain\t%s\n", info.Domain)
	fmt.Fprintf(tw, "custom depth\t%t\n", info.CustomDepth)
	fmt.Fprintf(tw, "properties\t%s\n", info.Properties)
	fmt.Fprintf(tw, "shader models\t%v\n", info.ShaderModels)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "chunk\tsize\tprograms")
	for _, c := range info.Chunks {
		programs := ""
		if n, ok := info.Programs[c.Tag]; ok {
			programs = humanize.Comma(int64(n))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Tag, humanize.Bytes(uint64(c.Size)), programs)
	}
	tw.Flush()
}
