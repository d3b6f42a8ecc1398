// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package analyzer infers which material properties a shader writes.
//
// The analyzer traces the material parameter of the entry function through
// assignments and out/inout call arguments. A property counts as written
// when a chain rooted at the traced parameter starts with the property's
// field, e.g. material.baseColor.rgb = ... or helper(material.roughness)
// where the helper declares the parameter out or inout.
package analyzer

import (
	"github.com/gogpu/matc/material"
	"github.com/gogpu/matc/shaderast"
)

const (
	// EntrySignature is the exact signature of the material entry point.
	EntrySignature = "material(MaterialInputs)"

	// EntryName is the fallback lookup when optional fields change the
	// signature.
	EntryName = "material"
)

// defaultSkip lists helpers whose bodies are generated and never assign
// user-visible properties.
var defaultSkip = []string{"prepareMaterial"}

// Analyzer traces property writes in one translation unit.
type Analyzer struct {
	unit    *shaderast.TranslationUnit
	skip    map[string]bool
	visited map[target]bool
	queue   []target
	props   material.PropertySet
}

// target is one (function, parameter) pair to analyze.
type target struct {
	fn    *shaderast.FunctionDefinition
	param int
}

// New creates an analyzer for unit. Calls to the named helpers are ignored
// in addition to the default skip list.
func New(unit *shaderast.TranslationUnit, skip ...string) *Analyzer {
	a := &Analyzer{
		unit: unit,
		skip: make(map[string]bool, len(defaultSkip)+len(skip)),
	}
	for _, name := range defaultSkip {
		a.skip[name] = true
	}
	for _, name := range skip {
		a.skip[name] = true
	}
	return a
}

// Infer returns the properties written through the first parameter of the
// material entry function.
func Infer(unit *shaderast.TranslationUnit) (material.PropertySet, error) {
	return New(unit).Entry(EntrySignature, EntryName, 0)
}

// Entry analyzes parameter param of the function with the given signature,
// falling back to the first function called name.
func (a *Analyzer) Entry(signature, name string, param int) (material.PropertySet, error) {
	fn := a.unit.Lookup(signature)
	if fn == nil {
		fn = a.unit.LookupName(name)
	}
	if fn == nil {
		return 0, &Error{Function: signature, Param: -1, Err: ErrEntryNotFound}
	}
	if param < 0 || param >= len(fn.Params) {
		return 0, &Error{Function: fn.Signature(), Param: param, Err: ErrTooFewParams}
	}

	a.visited = make(map[target]bool)
	a.queue = a.queue[:0]
	a.props = 0
	a.push(target{fn: fn, param: param})

	for len(a.queue) > 0 {
		t := a.queue[0]
		a.queue = a.queue[1:]
		if err := a.analyze(t); err != nil {
			return a.props, err
		}
	}
	return a.props, nil
}

func (a *Analyzer) push(t target) {
	if a.visited[t] {
		return
	}
	a.visited[t] = true
	a.queue = append(a.queue, t)
}

func (a *Analyzer) analyze(t target) error {
	param := t.fn.Params[t.param]
	if !param.Qualifier.Writable() {
		return nil
	}
	for _, c := range a.chains(t.fn) {
		if c.base != param.Name || len(c.accesses) == 0 {
			continue
		}
		if err := a.resolve(c); err != nil {
			return err
		}
	}
	return nil
}

// resolve records the property a chain writes, or queues the callee that
// receives the whole aggregate.
func (a *Analyzer) resolve(c chain) error {
	first := c.accesses[0]
	switch first.kind {
	case accessField:
		prop, ok := material.PropertyByField(first.name)
		if !ok {
			return nil
		}
		call, ok := c.firstCall()
		if !ok {
			a.props = a.props.Add(prop)
			return nil
		}
		p, err := a.calleeParam(call)
		if err != nil {
			return err
		}
		if p.Qualifier.Writable() {
			a.props = a.props.Add(prop)
		}
	case accessCall:
		fn := a.callee(first)
		if fn == nil {
			return nil
		}
		p, err := a.calleeParam(first)
		if err != nil {
			return err
		}
		if p.Qualifier.Writable() {
			a.push(target{fn: fn, param: first.arg})
		}
	}
	return nil
}

// callee finds the definition a call resolves to, preferring an overload
// with a matching argument count.
func (a *Analyzer) callee(call access) *shaderast.FunctionDefinition {
	var byName *shaderast.FunctionDefinition
	for _, fn := range a.unit.Functions {
		if fn.Name != call.name {
			continue
		}
		if len(fn.Params) == call.argc {
			return fn
		}
		if byName == nil {
			byName = fn
		}
	}
	return byName
}

func (a *Analyzer) calleeParam(call access) (shaderast.Param, error) {
	fn := a.callee(call)
	if fn == nil {
		return shaderast.Param{}, &Error{Function: call.name, Param: call.arg, Err: ErrEntryNotFound}
	}
	if call.arg >= len(fn.Params) {
		return shaderast.Param{}, &Error{Function: fn.Signature(), Param: call.arg, Err: ErrTooFewParams}
	}
	return fn.Params[call.arg], nil
}

// chains collects the access chains of every assignment target and every
// argument of a call to a user-defined function in fn.
func (a *Analyzer) chains(fn *shaderast.FunctionDefinition) []chain {
	var out []chain
	shaderast.Inspect(fn.Body, func(n shaderast.Node) bool {
		switch n := n.(type) {
		case *shaderast.Assignment:
			if c, ok := chainOf(n.LHS); ok {
				out = append(out, c)
			}
		case *shaderast.FunctionCall:
			if a.skip[n.Callee] {
				return false
			}
			if a.unit.LookupName(n.Callee) == nil {
				// Operators and builtins.
				return true
			}
			for i, arg := range n.Args {
				c, ok := chainOf(arg)
				if !ok {
					continue
				}
				c.accesses = append(c.accesses, access{
					kind: accessCall,
					name: n.Callee,
					arg:  i,
					argc: len(n.Args),
				})
				out = append(out, c)
			}
		}
		return true
	})
	return out
}
