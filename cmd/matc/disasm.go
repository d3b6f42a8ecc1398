// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/gogpu/matc/chunk"
	"github.com/gogpu/matc/dict"
	"github.com/gogpu/matc/spirv"
	"github.com/gogpu/matc/variant"
)

var errNoSPIRV = errors.New("package has no SPIR-V programs")

// programFilter selects records. Empty fields match everything.
type programFilter struct {
	model string
	key   string
	stage string
}

func (f programFilter) match(r chunk.Record) (bool, error) {
	if f.model != "" && f.model != r.ShaderModel.String() {
		return false, nil
	}
	if f.stage != "" && f.stage != r.Stage.String() {
		return false, nil
	}
	if f.key != "" {
		k, err := strconv.ParseUint(f.key, 0, 8)
		if err != nil {
			return false, fmt.Errorf("invalid key %q", f.key)
		}
		if variant.Key(k) != r.Key {
			return false, nil
		}
	}
	return true, nil
}

func newDisasmCommand() *cobra.Command {
	var f programFilter
	cmd := &cobra.Command{
		Use:   "disasm <package>",
		Short: "Disassemble the SPIR-V programs of a material package",
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
			if err := disassemble(cmd.OutOrStdout(), data, f); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.model, "model", "", "shader model: mobile or desktop")
	flags.StringVar(&f.key, "key", "", "variant key, e.g. 0x05")
	flags.StringVar(&f.stage, "stage", "", "stage: vertex or fragment")
	return cmd
}

// disassemble prints every SPIR-V record of the package matching f.
func disassemble(out io.Writer, data []byte, f programFilter) error {
	pkg, err := chunk.Parse(data)
	if err != nil {
		return err
	}
	rawDict, ok := pkg.Find(chunk.DictionarySPIRV)
	if !ok {
		return errNoSPIRV
	}
	rawRecs, ok := pkg.Find(chunk.MaterialSPIRV)
	if !ok {
		return errNoSPIRV
	}
	blobs, err := rawDict.BlobDictionary()
	if err != nil {
		return err
	}
	recs, err := rawRecs.BinaryShaders()
	if err != nil {
		return err
	}

	printed := 0
	for _, rec := range recs {
		ok, err := f.match(rec.Record)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if int(rec.Blob) >= len(blobs) {
			return fmt.Errorf("record %s/%s/%s: blob %d out of range", rec.ShaderModel, rec.Key, rec.Stage, rec.Blob)
		}
		m, err := spirv.Parse(dict.BytesToWords(blobs[rec.Blob]))
		if err != nil {
			return fmt.Errorf("record %s/%s/%s: %w", rec.ShaderModel, rec.Key, rec.Stage, err)
		}
		if printed > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "; %s key %s (0x%02x) %s\n", rec.ShaderModel, rec.Key, uint8(rec.Key), rec.Stage)
		if err := spirv.Disassemble(out, m); err != nil {
			return err
		}
		printed++
	}
	if printed == 0 {
		return errors.New("no program matches")
	}
	return nil
}
