// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package analyzer

import (
	"strconv"
	"strings"

	"github.com/gogpu/matc/shaderast"
)

type accessKind uint8

const (
	accessField accessKind = iota
	accessSwizzle
	accessCall
)

// access is one step applied to a traced symbol.
type access struct {
	kind accessKind
	name string // field, swizzle pattern or callee
	arg  int    // argument index for calls
	argc int
}

// chain is a symbol with its accesses in source order.
type chain struct {
	base     string
	accesses []access
}

// chainOf walks an lvalue from the outermost access down to its symbol.
// Indexing does not change which property is written and is skipped.
func chainOf(n shaderast.Node) (chain, bool) {
	var accesses []access
	for {
		switch x := n.(type) {
		case *shaderast.Swizzle:
			accesses = append(accesses, access{kind: accessSwizzle, name: x.Pattern})
			n = x.Base
		case *shaderast.FieldAccess:
			accesses = append(accesses, access{kind: accessField, name: x.Field})
			n = x.Base
		case *shaderast.Index:
			n = x.Base
		case *shaderast.Symbol:
			for i, j := 0, len(accesses)-1; i < j; i, j = i+1, j-1 {
				accesses[i], accesses[j] = accesses[j], accesses[i]
			}
			return chain{base: x.Name, accesses: accesses}, true
		default:
			return chain{}, false
		}
	}
}

func (c chain) firstCall() (access, bool) {
	for _, a := range c.accesses {
		if a.kind == accessCall {
			return a, true
		}
	}
	return access{}, false
}

// String renders the chain, e.g. "material.baseColor.rgb" or
// "material->applyTint#0".
func (c chain) String() string {
	var sb strings.Builder
	sb.WriteString(c.base)
	for _, a := range c.accesses {
		switch a.kind {
		case accessCall:
			sb.WriteString("->")
			sb.WriteString(a.name)
			sb.WriteByte('#')
			sb.WriteString(strconv.Itoa(a.arg))
		default:
			sb.WriteByte('.')
			sb.WriteString(a.name)
		}
	}
	return sb.String()
}
