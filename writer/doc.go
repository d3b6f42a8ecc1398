// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package writer provides the sequential binary emitter used to serialize
// material packages.
//
// A package is written twice: a dry run over a Counter computes the exact size,
// then a real pass over a Buffer of that capacity produces the bytes:
//
//	dry := writer.NewDryRun()
//	emit(dry)
//	w := writer.NewBuffered(dry.Pos())
//	emit(w)
//	if err := w.Finish(); err != nil {
//		return err
//	}
//	data := w.Bytes()
//
// Both passes share the same Writer type, so they cannot diverge.
package writer
