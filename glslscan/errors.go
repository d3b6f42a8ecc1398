// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glslscan

import (
	"fmt"
	"strings"
)

// Error is a parse error with its source position.
type Error struct {
	Message string
	Line    int
	Column  int

	// Offset and Source locate the physical text for Excerpt.
	Offset int
	Source string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Line == 0 {
		return e.Message
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Log formats the error the way glslangValidator reports compile errors,
// so scanner failures read like the rest of a compile log.
func (e *Error) Log() string {
	return fmt.Sprintf("ERROR: 0:%d: %s", e.Line, e.Message)
}

// Excerpt returns the offending source line with a caret under the error,
// or "" when the position is unknown.
func (e *Error) Excerpt() string {
	if e.Line < 1 || e.Offset < 0 || e.Offset > len(e.Source) {
		return ""
	}
	start := strings.LastIndexByte(e.Source[:e.Offset], '\n') + 1
	text, _, _ := strings.Cut(e.Source[start:], "\n")
	text = strings.TrimSuffix(text, "\r")
	col := min(e.Offset-start, len(text)) + 1
	return fmt.Sprintf("%5d | %s\n      | %*s", e.Line, text, col, "^")
}

// Errors is the list of errors of one parse.
type Errors []*Error

// Error implements the error interface.
func (el Errors) Error() string {
	switch len(el) {
	case 0:
		return "no errors"
	case 1:
		return el[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", el[0].Error(), len(el)-1)
}

// FormatAll returns a compile log: one glslang style line per error,
// followed by its excerpt.
func (el Errors) FormatAll() string {
	var sb strings.Builder
	for _, e := range el {
		sb.WriteString(e.Log())
		sb.WriteByte('\n')
		if ex := e.Excerpt(); ex != "" {
			sb.WriteString(ex)
			sb.WriteByte('\n')
		}
	}
	fmt.Fprintf(&sb, "%d compilation errors.", len(el))
	return sb.String()
}
