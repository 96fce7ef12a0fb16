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

	"github.com/aurelian-io/scribe/pkg/abi"
	"github.com/aurelian-io/scribe/pkg/scribemsgs"
	"github.com/hyperledger/firefly-common/pkg/i18n"
)

// GraphForVersion returns the format definition for a schema version line.
// Only versions this library was built with knowledge of are available - the
// graphs are code, not data, so an unknown version cannot be synthesized.
func GraphForVersion(ctx context.Context, version string) (*TypeGraph, error) {
	switch version {
	case abi.SchemaVersion:
		return CurrentGraph(), nil
	case abi.LegacySchemaVersion:
		return LegacyGraph(), nil
	default:
		return nil, i18n.NewError(ctx, scribemsgs.MsgMetaschemaUnknownVersion, version)
	}
}

// Versions lists the format versions with registered graphs, oldest first
func Versions() []string {
	return []string{abi.LegacySchemaVersion, abi.SchemaVersion}
}

// typeSchemaDefs returns the self-describing schema-node types shared by
// every format version: the recursive TypeSchema node and the registry that
// holds named definitions.
func typeSchemaDefs() map[string]*TypeDef {
	return map[string]*TypeDef{
		"TypeSchema": {
			Doc: "A structural description of one type, in JSON Schema vocabulary",
			Object: &ObjectDef{Fields: []*FieldDef{
				{Name: "$ref", Type: prim("string"), Optional: true},
				{Name: "type", Type: prim("string"), Optional: true},
				{Name: "description", Type: prim("string"), Optional: true},
				{Name: "properties", Type: mapOf(named("TypeSchema")), Optional: true},
				{Name: "required", Type: arrayOf(prim("string")), Optional: true},
				// Boolean gate or value schema, so unconstrained here
				{Name: "additionalProperties", Type: &TypeExpr{Any: true}, Optional: true},
				{Name: "items", Type: named("TypeSchema"), Optional: true},
				{Name: "enum", Type: arrayOf(prim("string")), Optional: true},
				{Name: "const", Type: prim("string"), Optional: true},
				{Name: "oneOf", Type: arrayOf(named("TypeSchema")), Optional: true},
			}},
		},
		"TypeRegistry": {
			Doc: "A deduplicated collection of named type definitions",
			Object: &ObjectDef{Fields: []*FieldDef{
				{Name: "definitions", Type: mapOf(named("TypeSchema")), Optional: true},
			}},
		},
	}
}

// CurrentGraph is the format definition for the current schema version line,
// where function behavior is split into a kind plus a modifier set, and
// parameter lists carry an explicit serialization type tag.
func CurrentGraph() *TypeGraph {
	defs := typeSchemaDefs()

	defs["AbiRoot"] = &TypeDef{
		Doc: "A complete contract ABI document",
		Object: &ObjectDef{Fields: []*FieldDef{
			{Name: "schema_version", Doc: "Semver of the ABI schema format", Type: prim("string")},
			{Name: "metadata", Type: named("AbiMetadata")},
			{Name: "body", Type: named("AbiBody")},
		}},
	}
	defs["AbiMetadata"] = &TypeDef{
		Doc: "Metadata information about the contract",
		// Open: producer toolchains may attach custom string metadata keys
		Object: &ObjectDef{Open: true, Fields: []*FieldDef{
			{Name: "name", Type: prim("string"), Optional: true},
			{Name: "version", Type: prim("string"), Optional: true},
			{Name: "authors", Type: arrayOf(prim("string")), Optional: true},
			{Name: "build_info", Type: named("BuildInfo"), Optional: true},
			{Name: "wasm_hash", Doc: "Base58 SHA-256 of the WASM artifact", Type: prim("string"), Optional: true},
		}},
	}
	defs["BuildInfo"] = &TypeDef{
		Doc: "The information about how the contract was built",
		Object: &ObjectDef{Fields: []*FieldDef{
			{Name: "compiler", Type: prim("string")},
			{Name: "builder", Type: prim("string")},
			{Name: "image", Type: prim("string"), Optional: true},
			{Name: "toolchain_version", Type: prim("string"), Optional: true},
			{Name: "build_command", Type: arrayOf(prim("string")), Optional: true},
		}},
	}
	defs["AbiBody"] = &TypeDef{
		Doc: "Core ABI information - functions and types",
		Object: &ObjectDef{Fields: []*FieldDef{
			{Name: "functions", Type: arrayOf(named("AbiFunction"))},
			{Name: "root_schema", Type: named("TypeRegistry")},
		}},
	}
	defs["AbiFunction"] = &TypeDef{
		Doc: "The ABI of a single contract function",
		Object: &ObjectDef{Fields: []*FieldDef{
			{Name: "name", Type: prim("string")},
			{Name: "doc", Type: prim("string"), Optional: true},
			{Name: "kind", Type: named("FunctionKind")},
			{Name: "modifiers", Type: arrayOf(named("FunctionModifier")), Optional: true},
			{Name: "params", Type: named("FunctionParams"), Optional: true},
			{Name: "callbacks", Type: arrayOf(prim("string")), Optional: true},
			{Name: "callbacks_vec", Type: prim("string"), Optional: true},
			{Name: "result", Type: prim("string"), Optional: true},
		}},
	}
	defs["FunctionKind"] = &TypeDef{
		Doc:  "Whether invocation requires a signed transaction",
		Enum: abi.FunctionKind("").Options(),
	}
	defs["FunctionModifier"] = &TypeDef{
		Doc:  "Modifiers affecting how the function may be called",
		Enum: abi.FunctionModifier("").Options(),
	}
	defs["FunctionParams"] = &TypeDef{
		Doc: "Function parameters, tagged with their shared serialization type",
		Union: &UnionDef{
			TagField: "serialization_type",
			Cases: []*UnionCase{
				{TagValue: string(abi.SerializationTypeJSON), Fields: []*FieldDef{
					{Name: "args", Type: arrayOf(named("Parameter"))},
				}},
				{TagValue: string(abi.SerializationTypeBorsh), Fields: []*FieldDef{
					{Name: "args", Type: arrayOf(named("Parameter"))},
				}},
			},
		},
	}
	defs["Parameter"] = &TypeDef{
		Doc: "A single named function parameter",
		Object: &ObjectDef{Fields: []*FieldDef{
			{Name: "name", Type: prim("string")},
			{Name: "type_ref", Type: prim("string")},
		}},
	}

	return &TypeGraph{
		Version: abi.SchemaVersion,
		Root:    "AbiRoot",
		Defs:    defs,
	}
}

// LegacyGraph is the format definition for the last pre-split version line,
// where function behavior was four independent boolean flags, parameter lists
// were bare arrays with JSON encoding implied, and build information lived
// under a "build" key.
func LegacyGraph() *TypeGraph {
	defs := typeSchemaDefs()

	defs["AbiRoot"] = &TypeDef{
		Doc: "A complete contract ABI document",
		Object: &ObjectDef{Fields: []*FieldDef{
			{Name: "schema_version", Doc: "Semver of the ABI schema format", Type: prim("string")},
			{Name: "metadata", Type: named("AbiMetadata")},
			{Name: "body", Type: named("AbiBody")},
		}},
	}
	defs["AbiMetadata"] = &TypeDef{
		Doc: "Metadata information about the contract",
		// Open: custom string metadata keys predate the 0.4 line
		Object: &ObjectDef{Open: true, Fields: []*FieldDef{
			{Name: "name", Type: prim("string"), Optional: true},
			{Name: "version", Type: prim("string"), Optional: true},
			{Name: "authors", Type: arrayOf(prim("string")), Optional: true},
			{Name: "build", Type: named("BuildInfo"), Optional: true},
		}},
	}
	defs["BuildInfo"] = &TypeDef{
		Doc: "The information about how the contract was built",
		Object: &ObjectDef{Fields: []*FieldDef{
			{Name: "compiler", Type: prim("string")},
			{Name: "builder", Type: prim("string")},
			{Name: "image", Type: prim("string"), Optional: true},
		}},
	}
	defs["AbiBody"] = &TypeDef{
		Doc: "Core ABI information - functions and types",
		Object: &ObjectDef{Fields: []*FieldDef{
			{Name: "functions", Type: arrayOf(named("AbiFunction"))},
			{Name: "root_schema", Type: named("TypeRegistry")},
		}},
	}
	defs["AbiFunction"] = &TypeDef{
		Doc: "The ABI of a single contract function",
		Object: &ObjectDef{Fields: []*FieldDef{
			{Name: "name", Type: prim("string")},
			{Name: "doc", Type: prim("string"), Optional: true},
			{Name: "is_view", Type: prim("boolean"), Optional: true},
			{Name: "is_init", Type: prim("boolean"), Optional: true},
			{Name: "is_payable", Type: prim("boolean"), Optional: true},
			{Name: "is_private", Type: prim("boolean"), Optional: true},
			{Name: "params", Type: arrayOf(named("Parameter")), Optional: true},
			{Name: "callbacks", Type: arrayOf(prim("string")), Optional: true},
			{Name: "callbacks_vec", Type: prim("string"), Optional: true},
			{Name: "result", Type: prim("string"), Optional: true},
		}},
	}
	defs["Parameter"] = &TypeDef{
		Doc: "A single named function parameter",
		Object: &ObjectDef{Fields: []*FieldDef{
			{Name: "name", Type: prim("string")},
			{Name: "type_ref", Type: prim("string")},
		}},
	}

	return &TypeGraph{
		Version: abi.LegacySchemaVersion,
		Root:    "AbiRoot",
		Defs:    defs,
	}
}
