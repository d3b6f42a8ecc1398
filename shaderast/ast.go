// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package shaderast is the reduced shader syntax tree consumed by property
// inference. Front ends lower their own trees into these node kinds.
//
// Operators are represented as FunctionCall nodes whose callee is the
// operator spelling (e.g. "+", "!"), and constructors or builtins as calls
// to names the translation unit does not define. Statements without a
// dedicated kind are flattened into Blocks of their expressions.
package shaderast

import (
	"strings"
)

// Pos is a 1-based source position.
type Pos struct {
	Line   int
	Column int
}

// Node is implemented by every syntax tree node.
type Node interface {
	Position() Pos
}

// Qualifier is a function parameter storage qualifier.
type Qualifier uint8

const (
	In Qualifier = iota
	Out
	InOut
	Const
)

// String returns the GLSL spelling.
func (q Qualifier) String() string {
	switch q {
	case Out:
		return "out"
	case InOut:
		return "inout"
	case Const:
		return "const"
	default:
		return "in"
	}
}

// Writable reports whether a callee may write through the parameter.
func (q Qualifier) Writable() bool {
	return q == Out || q == InOut
}

// Param is a function parameter.
type Param struct {
	Name      string
	Type      string
	Qualifier Qualifier
}

// TranslationUnit is a parsed shader.
type TranslationUnit struct {
	Functions []*FunctionDefinition
}

// Lookup finds a function by exact signature, e.g. "material(MaterialInputs)".
func (u *TranslationUnit) Lookup(signature string) *FunctionDefinition {
	for _, f := range u.Functions {
		if f.Signature() == signature {
			return f
		}
	}
	return nil
}

// LookupName returns the first function named name.
func (u *TranslationUnit) LookupName(name string) *FunctionDefinition {
	for _, f := range u.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// FunctionDefinition is a function with a body. Prototypes are not kept.
type FunctionDefinition struct {
	Pos
	Name       string
	ReturnType string
	Params     []Param
	Body       *Block
}

// Signature returns the name followed by the parameter types.
func (f *FunctionDefinition) Signature() string {
	types := make([]string, len(f.Params))
	for i, p := range f.Params {
		types[i] = p.Type
	}
	return f.Name + "(" + strings.Join(types, ",") + ")"
}

// Block is a sequence of statements.
type Block struct {
	Pos
	Stmts []Node
}

// FunctionCall is a call, constructor or operator application.
type FunctionCall struct {
	Pos
	Callee string
	Args   []Node
}

// Assignment stores RHS into LHS. Op is "=" or a compound operator such
// as "+="; declarations with an initializer are assignments too.
type Assignment struct {
	Pos
	LHS Node
	Op  string
	RHS Node
}

// FieldAccess selects a struct member.
type FieldAccess struct {
	Pos
	Base  Node
	Field string
}

// Swizzle selects vector components, e.g. "xyz".
type Swizzle struct {
	Pos
	Base    Node
	Pattern string
}

// Index is an array or vector subscript.
type Index struct {
	Pos
	Base  Node
	Index Node
}

// Symbol references a variable. Type is empty when unknown.
type Symbol struct {
	Pos
	Name string
	Type string
}

// Literal is a numeric or boolean constant.
type Literal struct {
	Pos
	Value string
}

// Position implements Node.
func (p Pos) Position() Pos { return p }

// Inspect traverses the tree rooted at n in depth-first order, calling f
// for each node. Children are skipped when f returns false.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	switch n := n.(type) {
	case *TranslationUnit:
		for _, fn := range n.Functions {
			Inspect(fn, f)
		}
	case *FunctionDefinition:
		if n.Body != nil {
			Inspect(n.Body, f)
		}
	case *Block:
		for _, s := range n.Stmts {
			Inspect(s, f)
		}
	case *FunctionCall:
		for _, a := range n.Args {
			Inspect(a, f)
		}
	case *Assignment:
		Inspect(n.LHS, f)
		Inspect(n.RHS, f)
	case *FieldAccess:
		Inspect(n.Base, f)
	case *Swizzle:
		Inspect(n.Base, f)
	case *Index:
		Inspect(n.Base, f)
		Inspect(n.Index, f)
	}
}

// Position implements Node.
func (u *TranslationUnit) Position() Pos { return Pos{} }
