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
	"bytes"
	"context"
	"encoding/json"
	"sort"

	"github.com/aurelian-io/scribe/pkg/abi"
	"github.com/aurelian-io/scribe/pkg/scribemsgs"
	"github.com/hyperledger/firefly-common/pkg/i18n"
)

const (
	// SchemaDialect is the JSON Schema dialect generated documents declare
	SchemaDialect = "http://json-schema.org/draft-07/schema#"
	// DefsRefPrefix is the reference prefix between definitions of a
	// generated schema document
	DefsRefPrefix = "#/$defs/"
)

// SchemaDocument is the generated JSON Schema for one version of the ABI
// format. Its canonical byte form is what gets frozen per released version,
// and what the compatibility checker compares.
type SchemaDocument struct {
	Schema        string                     `json:"$schema"`
	Title         string                     `json:"title"`
	SchemaVersion string                     `json:"schema_version"`
	Ref           string                     `json:"$ref"`
	Defs          map[string]*abi.TypeSchema `json:"$defs"`
}

// Generate lowers a type graph to its schema document. Only definitions
// reachable from the root are emitted, in a deterministic traversal order, so
// two generations of the same graph always produce identical documents.
func Generate(ctx context.Context, graph *TypeGraph) (*SchemaDocument, error) {
	if err := graph.Validate(ctx); err != nil {
		return nil, err
	}

	doc := &SchemaDocument{
		Schema:        SchemaDialect,
		Title:         graph.Root,
		SchemaVersion: graph.Version,
		Ref:           DefsRefPrefix + graph.Root,
		Defs:          map[string]*abi.TypeSchema{},
	}

	// Iterative DFS with a visited set, so recursive definitions terminate
	pending := []string{graph.Root}
	for len(pending) > 0 {
		name := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if _, visited := doc.Defs[name]; visited {
			continue
		}
		doc.Defs[name] = lowerDef(graph.Defs[name])
		pending = append(pending, referencedDefs(graph.Defs[name])...)
	}

	return doc, nil
}

// GenerateForVersion generates the schema document for a registered format
// version line
func GenerateForVersion(ctx context.Context, version string) (*SchemaDocument, error) {
	graph, err := GraphForVersion(ctx, version)
	if err != nil {
		return nil, err
	}
	return Generate(ctx, graph)
}

// CanonicalBytes is the single byte representation of a document: two-space
// indented JSON with sorted object keys and a trailing newline
func (d *SchemaDocument) CanonicalBytes(ctx context.Context) ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, i18n.WrapError(ctx, err, scribemsgs.MsgMetaschemaParseFailed, err.Error())
	}
	return append(data, '\n'), nil
}

// ParseSchemaDocument reads a previously generated document, rejecting
// unknown fields and trailing content
func ParseSchemaDocument(ctx context.Context, data []byte) (*SchemaDocument, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	var doc SchemaDocument
	if err := decoder.Decode(&doc); err != nil {
		return nil, i18n.WrapError(ctx, err, scribemsgs.MsgMetaschemaParseFailed, err.Error())
	}
	if decoder.More() {
		return nil, i18n.NewError(ctx, scribemsgs.MsgMetaschemaParseFailed, "unexpected content after the document")
	}
	return &doc, nil
}

// referencedDefs lists the definitions a definition points at, sorted and
// deduplicated
func referencedDefs(def *TypeDef) []string {
	seen := map[string]bool{}
	var collectExpr func(e *TypeExpr)
	collectExpr = func(e *TypeExpr) {
		switch {
		case e == nil:
		case e.Named != "":
			seen[e.Named] = true
		case e.Array != nil:
			collectExpr(e.Array)
		case e.Map != nil:
			collectExpr(e.Map)
		}
	}
	collectFields := func(fields []*FieldDef) {
		for _, f := range fields {
			collectExpr(f.Type)
		}
	}
	switch {
	case def.Object != nil:
		collectFields(def.Object.Fields)
	case def.Union != nil:
		for _, c := range def.Union.Cases {
			collectFields(c.Fields)
		}
	case def.Alias != nil:
		collectExpr(def.Alias)
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lowerDef(def *TypeDef) *abi.TypeSchema {
	var node *abi.TypeSchema
	switch {
	case def.Object != nil:
		node = lowerObject(def.Object.Fields, "", "", def.Object.Open)
	case def.Enum != nil:
		node = &abi.TypeSchema{Type: "string", Enum: def.Enum}
	case def.Union != nil:
		node = &abi.TypeSchema{}
		for _, c := range def.Union.Cases {
			node.OneOf = append(node.OneOf, lowerObject(c.Fields, def.Union.TagField, c.TagValue, false))
		}
	case def.Alias != nil:
		node = lowerExpr(def.Alias)
	}
	if node.Ref == "" {
		node.Description = def.Doc
	}
	return node
}

// lowerObject builds a closed (or explicitly open) object schema with an
// alphabetically sorted required list. When a tag field/value pair is given,
// a const-constrained tag property is added and always required.
func lowerObject(fields []*FieldDef, tagField, tagValue string, open bool) *abi.TypeSchema {
	node := &abi.TypeSchema{
		Type:       "object",
		Properties: map[string]*abi.TypeSchema{},
	}
	if !open {
		node.AdditionalProperties = abi.Closed()
	}
	var required []string
	if tagField != "" {
		node.Properties[tagField] = &abi.TypeSchema{Type: "string", Const: tagValue}
		required = append(required, tagField)
	}
	for _, f := range fields {
		prop := lowerExpr(f.Type)
		if f.Doc != "" && prop.Ref == "" {
			prop.Description = f.Doc
		}
		node.Properties[f.Name] = prop
		if !f.Optional {
			required = append(required, f.Name)
		}
	}
	sort.Strings(required)
	node.Required = required
	return node
}

func lowerExpr(e *TypeExpr) *abi.TypeSchema {
	switch {
	case e.Prim != "":
		return &abi.TypeSchema{Type: e.Prim}
	case e.Named != "":
		return &abi.TypeSchema{Ref: DefsRefPrefix + e.Named}
	case e.Array != nil:
		return &abi.TypeSchema{Type: "array", Items: lowerExpr(e.Array)}
	case e.Map != nil:
		return &abi.TypeSchema{Type: "object", AdditionalProperties: abi.Schemaed(lowerExpr(e.Map))}
	default: // Any
		return &abi.TypeSchema{}
	}
}
