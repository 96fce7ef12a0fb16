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

package metaschema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinGraphsValid(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, CurrentGraph().Validate(ctx))
	require.NoError(t, LegacyGraph().Validate(ctx))
}

func TestValidateMissingRoot(t *testing.T) {
	g := &TypeGraph{Version: "1.0.0", Root: "Missing", Defs: map[string]*TypeDef{}}
	assert.Regexp(t, "SC010201.*Missing", g.Validate(context.Background()))
}

func TestValidateDefKinds(t *testing.T) {
	ctx := context.Background()

	g := &TypeGraph{Version: "1.0.0", Root: "A", Defs: map[string]*TypeDef{
		"A": {}, // no kind at all
	}}
	assert.Regexp(t, "SC010203.*A", g.Validate(ctx))

	g.Defs["A"] = &TypeDef{Enum: []string{"x"}, Alias: prim("string")}
	assert.Regexp(t, "SC010203.*A", g.Validate(ctx))

	g.Defs["A"] = &TypeDef{Enum: []string{}}
	assert.Regexp(t, "SC010203.*A.*no values", g.Validate(ctx))

	g.Defs["A"] = &TypeDef{Union: &UnionDef{}}
	assert.Regexp(t, "SC010203.*A", g.Validate(ctx))

	g.Defs["A"] = &TypeDef{Object: &ObjectDef{Fields: []*FieldDef{{Name: "f"}}}}
	assert.Regexp(t, "SC010203.*A", g.Validate(ctx))
}

func TestValidateDanglingNamedRef(t *testing.T) {
	ctx := context.Background()

	g := &TypeGraph{Version: "1.0.0", Root: "A", Defs: map[string]*TypeDef{
		"A": {Object: &ObjectDef{Fields: []*FieldDef{
			{Name: "b", Type: named("B")},
		}}},
	}}
	assert.Regexp(t, "SC010202.*A\\.b.*B", g.Validate(ctx))

	// Dangling refs are found through array and map elements too
	g.Defs["A"] = &TypeDef{Alias: arrayOf(mapOf(named("B")))}
	assert.Regexp(t, "SC010202.*A.*B", g.Validate(ctx))
}

func TestValidateTypeExprKinds(t *testing.T) {
	ctx := context.Background()

	g := &TypeGraph{Version: "1.0.0", Root: "A", Defs: map[string]*TypeDef{
		"A": {Object: &ObjectDef{Fields: []*FieldDef{
			{Name: "f", Type: &TypeExpr{}},
		}}},
	}}
	assert.Regexp(t, "SC010206.*A\\.f", g.Validate(ctx))

	g.Defs["A"].Object.Fields[0].Type = &TypeExpr{Prim: "string", Named: "A"}
	assert.Regexp(t, "SC010206.*A\\.f", g.Validate(ctx))
}

func TestValidateUnionCaseFields(t *testing.T) {
	g := &TypeGraph{Version: "1.0.0", Root: "A", Defs: map[string]*TypeDef{
		"A": {Union: &UnionDef{TagField: "tag", Cases: []*UnionCase{
			{TagValue: "x", Fields: []*FieldDef{{Name: "f", Type: named("B")}}},
		}}},
	}}
	assert.Regexp(t, "SC010202.*A\\.f.*B", g.Validate(context.Background()))
}
