// Copyright © 2025 Aurelian Labs, Inc.
//
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metaschema describes the shape of the ABI format itself, version by
// version, and generates the canonical schema document for each version. The
// generated documents are what the compatibility checker diffs, so generation
// must be byte-for-byte deterministic.
package metaschema

import (
	"context"
	"fmt"
	"sort"

	"github.com/aurelian-io/scribe/pkg/scribemsgs"
	"github.com/hyperledger/firefly-common/pkg/i18n"
)

// TypeGraph is the in-memory definition of one version of the ABI format: a
// name-indexed arena of type definitions plus the name of the root document
// type. Cycles between definitions are expected (TypeSchema refers to itself).
type TypeGraph struct {
	Version string
	Root    string
	Defs    map[string]*TypeDef
}

// TypeDef is one named type in the graph. Exactly one of the kind fields must
// be set.
type TypeDef struct {
	Doc    string
	Object *ObjectDef
	Enum   []string
	Union  *UnionDef
	Alias  *TypeExpr
}

// ObjectDef is a struct-like type with named fields. Objects are closed to
// unknown fields unless Open is set.
type ObjectDef struct {
	Fields []*FieldDef
	Open   bool
}

type FieldDef struct {
	Name     string
	Doc      string
	Type     *TypeExpr
	Optional bool
}

// UnionDef is a tagged union: the tag field selects the case, and each case
// contributes its own fields alongside the tag
type UnionDef struct {
	TagField string
	Cases    []*UnionCase
}

type UnionCase struct {
	TagValue string
	Fields   []*FieldDef
}

// TypeExpr is an anonymous type expression appearing in field positions.
// Exactly one of the kind fields must be set, except Any which stands alone
// as the unconstrained schema.
type TypeExpr struct {
	// Prim is a JSON Schema primitive type name (string, integer, boolean)
	Prim string
	// Named references another definition in the graph by name
	Named string
	// Array of a single element type
	Array *TypeExpr
	// Map is a string-keyed map with a single value type
	Map *TypeExpr
	// Any accepts any value
	Any bool
}

func prim(name string) *TypeExpr    { return &TypeExpr{Prim: name} }
func named(name string) *TypeExpr   { return &TypeExpr{Named: name} }
func arrayOf(e *TypeExpr) *TypeExpr { return &TypeExpr{Array: e} }
func mapOf(e *TypeExpr) *TypeExpr   { return &TypeExpr{Map: e} }

// Validate checks the structural integrity of the graph: the root resolves,
// every definition has exactly one kind, every type expression has exactly
// one kind, and every named edge resolves to a definition. Iteration is in
// sorted name order so the first error reported is stable.
func (g *TypeGraph) Validate(ctx context.Context) error {
	if g.Defs[g.Root] == nil {
		return i18n.NewError(ctx, scribemsgs.MsgMetaschemaMissingRoot, g.Root)
	}
	names := make([]string, 0, len(g.Defs))
	for name := range g.Defs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := g.validateDef(ctx, name, g.Defs[name]); err != nil {
			return err
		}
	}
	return nil
}

func (g *TypeGraph) validateDef(ctx context.Context, name string, def *TypeDef) error {
	kinds := 0
	if def.Object != nil {
		kinds++
	}
	if def.Enum != nil {
		kinds++
	}
	if def.Union != nil {
		kinds++
	}
	if def.Alias != nil {
		kinds++
	}
	if kinds != 1 {
		return i18n.NewError(ctx, scribemsgs.MsgMetaschemaInvalidDef, name, fmt.Sprintf("%d kinds set", kinds))
	}
	switch {
	case def.Object != nil:
		return g.validateFields(ctx, name, def.Object.Fields)
	case def.Enum != nil:
		if len(def.Enum) == 0 {
			return i18n.NewError(ctx, scribemsgs.MsgMetaschemaInvalidDef, name, "enum with no values")
		}
	case def.Union != nil:
		if def.Union.TagField == "" || len(def.Union.Cases) == 0 {
			return i18n.NewError(ctx, scribemsgs.MsgMetaschemaInvalidDef, name, "union needs a tag field and at least one case")
		}
		for _, c := range def.Union.Cases {
			if err := g.validateFields(ctx, name, c.Fields); err != nil {
				return err
			}
		}
	case def.Alias != nil:
		return g.validateExpr(ctx, name, def.Alias)
	}
	return nil
}

func (g *TypeGraph) validateFields(ctx context.Context, name string, fields []*FieldDef) error {
	for _, f := range fields {
		if f.Name == "" || f.Type == nil {
			return i18n.NewError(ctx, scribemsgs.MsgMetaschemaInvalidDef, name, "field with no name or type")
		}
		if err := g.validateExpr(ctx, fmt.Sprintf("%s.%s", name, f.Name), f.Type); err != nil {
			return err
		}
	}
	return nil
}

func (g *TypeGraph) validateExpr(ctx context.Context, path string, e *TypeExpr) error {
	kinds := 0
	if e.Prim != "" {
		kinds++
	}
	if e.Named != "" {
		kinds++
	}
	if e.Array != nil {
		kinds++
	}
	if e.Map != nil {
		kinds++
	}
	if e.Any {
		kinds++
	}
	if kinds != 1 {
		return i18n.NewError(ctx, scribemsgs.MsgMetaschemaInvalidTypeExpr, path)
	}
	switch {
	case e.Named != "":
		if g.Defs[e.Named] == nil {
			return i18n.NewError(ctx, scribemsgs.MsgMetaschemaDanglingRef, path, e.Named)
		}
	case e.Array != nil:
		return g.validateExpr(ctx, path, e.Array)
	case e.Map != nil:
		return g.validateExpr(ctx, path, e.Map)
	}
	return nil
}
