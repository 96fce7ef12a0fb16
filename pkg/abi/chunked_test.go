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

package abi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineChunkedEntries(t *testing.T) {
	ctx := context.Background()

	chunkA := NewChunkedAbiEntry(
		[]*AbiFunction{{
			Name:   "set_value",
			Kind:   FunctionKindCall.Enum(),
			Params: JSONParams(&Parameter{Name: "value", TypeRef: "String"}),
		}},
		TypeRegistry{Definitions: map[string]*TypeSchema{
			"String": {Type: "string"},
			"U64":    {Type: "integer"},
		}},
	)
	chunkB := NewChunkedAbiEntry(
		[]*AbiFunction{{
			Name:   "get_value",
			Kind:   FunctionKindView.Enum(),
			Result: "String",
		}},
		TypeRegistry{Definitions: map[string]*TypeSchema{
			// Same name, same definition - deduplicated on merge
			"String": {Type: "string"},
		}},
	)

	combined, err := CombineChunkedEntries(ctx, []*ChunkedAbiEntry{chunkA, chunkB})
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, combined.SchemaVersion)

	// Functions come back sorted by name regardless of chunk order
	require.Len(t, combined.Functions, 2)
	assert.Equal(t, "get_value", combined.Functions[0].Name)
	assert.Equal(t, "set_value", combined.Functions[1].Name)
	assert.Len(t, combined.RootSchema.Definitions, 2)

	root, err := combined.IntoRoot(ctx, AbiMetadata{Name: "kv-store", Version: "1.0.0"})
	require.NoError(t, err)
	assert.Equal(t, "kv-store", root.Metadata.Name)
	require.NoError(t, root.Validate(ctx))
}

func TestCombineChunkedEntriesVersionConflict(t *testing.T) {
	chunkA := NewChunkedAbiEntry(nil, TypeRegistry{})
	chunkB := &ChunkedAbiEntry{SchemaVersion: "0.3.0"}
	chunkC := &ChunkedAbiEntry{SchemaVersion: "0.2.0"}

	// All conflicting versions are reported together, sorted
	_, err := CombineChunkedEntries(context.Background(), []*ChunkedAbiEntry{chunkA, chunkB, chunkC})
	assert.Regexp(t, "SC010107.*0\\.4\\.0.*0\\.2\\.0, 0\\.3\\.0", err)
}

func TestCombineChunkedEntriesDefinitionConflict(t *testing.T) {
	chunkA := NewChunkedAbiEntry(nil, TypeRegistry{Definitions: map[string]*TypeSchema{
		"String": {Type: "string"},
	}})
	chunkB := NewChunkedAbiEntry(nil, TypeRegistry{Definitions: map[string]*TypeSchema{
		"String": {Type: "integer"},
	}})

	_, err := CombineChunkedEntries(context.Background(), []*ChunkedAbiEntry{chunkA, chunkB})
	assert.Regexp(t, "SC010108.*String", err)
}

func TestDecodeChunkedEntryJSON(t *testing.T) {
	ctx := context.Background()

	entry, err := DecodeChunkedEntryJSON(ctx, []byte(`{
	  "schema_version": "0.4.0",
	  "functions": [ { "name": "get_value", "kind": "view" } ],
	  "root_schema": {}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "0.4.0", entry.SchemaVersion)
	require.Len(t, entry.Functions, 1)

	_, err = DecodeChunkedEntryJSON(ctx, []byte(`{"wibble":true}`))
	assert.Regexp(t, "SC010100", err)

	_, err = DecodeChunkedEntryJSON(ctx, []byte(`{"schema_version":"0.4.0"}{}`))
	assert.Regexp(t, "SC010100", err)
}

func TestDecodeChunkedEntryJSONVersionLine(t *testing.T) {
	ctx := context.Background()

	// A fragment from a different format line is rejected at decode time,
	// before it can poison a combined document
	_, err := DecodeChunkedEntryJSON(ctx, []byte(`{"schema_version":"9.9.9","functions":[],"root_schema":{}}`))
	assert.Regexp(t, "SC010102", err)

	_, err = DecodeChunkedEntryJSON(ctx, []byte(`{"schema_version":"0.3.0","functions":[],"root_schema":{}}`))
	assert.Regexp(t, "SC010101", err)

	_, err = DecodeChunkedEntryJSON(ctx, []byte(`{"schema_version":"wibble","functions":[],"root_schema":{}}`))
	assert.Regexp(t, "SC010007", err)
}

func TestCombineChunkedEntriesEmpty(t *testing.T) {
	_, err := CombineChunkedEntries(context.Background(), nil)
	assert.Regexp(t, "SC010111", err)

	_, err = CombineChunkedEntries(context.Background(), []*ChunkedAbiEntry{})
	assert.Regexp(t, "SC010111", err)
}

func TestIntoRootInvalidBody(t *testing.T) {
	combined := NewChunkedAbiEntry([]*AbiFunction{{
		Name:   "get_value",
		Kind:   FunctionKindView.Enum(),
		Result: "Missing",
	}}, TypeRegistry{})

	_, err := combined.IntoRoot(context.Background(), AbiMetadata{})
	assert.Regexp(t, "SC010002", err)
}
