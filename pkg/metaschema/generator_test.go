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

	"github.com/aurelian-io/scribe/pkg/abi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCurrentGraph(t *testing.T) {
	ctx := context.Background()

	doc, err := Generate(ctx, CurrentGraph())
	require.NoError(t, err)
	assert.Equal(t, SchemaDialect, doc.Schema)
	assert.Equal(t, abi.SchemaVersion, doc.SchemaVersion)
	assert.Equal(t, "#/$defs/AbiRoot", doc.Ref)

	// Every definition of the graph is reachable from the root
	assert.Len(t, doc.Defs, len(CurrentGraph().Defs))

	// Objects are closed, with sorted required lists
	root := doc.Defs["AbiRoot"]
	require.NotNil(t, root)
	assert.True(t, root.AdditionalProperties.IsClosed())
	assert.Equal(t, []string{"body", "metadata", "schema_version"}, root.Required)

	// Except metadata, which stays open for custom producer keys
	metadata := doc.Defs["AbiMetadata"]
	require.NotNil(t, metadata)
	assert.False(t, metadata.AdditionalProperties.IsClosed())

	// Enums lower to string enum lists
	kind := doc.Defs["FunctionKind"]
	require.NotNil(t, kind)
	assert.Equal(t, "string", kind.Type)
	assert.Equal(t, []string{"view", "call"}, kind.Enum)

	// Unions lower to oneOf with const-constrained tags
	params := doc.Defs["FunctionParams"]
	require.NotNil(t, params)
	require.Len(t, params.OneOf, 2)
	assert.Equal(t, "json", params.OneOf[0].Properties["serialization_type"].Const)
	assert.Equal(t, "borsh", params.OneOf[1].Properties["serialization_type"].Const)
	assert.Contains(t, params.OneOf[0].Required, "serialization_type")

	// The recursive TypeSchema definition terminates and self-references
	ts := doc.Defs["TypeSchema"]
	require.NotNil(t, ts)
	assert.Equal(t, "#/$defs/TypeSchema", ts.Properties["items"].Ref)
}

func TestGenerateLegacyGraph(t *testing.T) {
	ctx := context.Background()

	doc, err := Generate(ctx, LegacyGraph())
	require.NoError(t, err)
	assert.Equal(t, abi.LegacySchemaVersion, doc.SchemaVersion)

	fn := doc.Defs["AbiFunction"]
	require.NotNil(t, fn)
	assert.Equal(t, "boolean", fn.Properties["is_view"].Type)
	assert.Nil(t, doc.Defs["FunctionKind"])
	assert.Nil(t, doc.Defs["FunctionParams"])
}

func TestGenerateDeterministic(t *testing.T) {
	ctx := context.Background()

	for _, version := range Versions() {
		doc1, err := GenerateForVersion(ctx, version)
		require.NoError(t, err)
		doc2, err := GenerateForVersion(ctx, version)
		require.NoError(t, err)

		bytes1, err := doc1.CanonicalBytes(ctx)
		require.NoError(t, err)
		bytes2, err := doc2.CanonicalBytes(ctx)
		require.NoError(t, err)
		assert.Equal(t, bytes1, bytes2, "version %s", version)
	}
}

func TestCanonicalBytesParseRoundTrip(t *testing.T) {
	ctx := context.Background()

	doc, err := GenerateForVersion(ctx, abi.SchemaVersion)
	require.NoError(t, err)
	data, err := doc.CanonicalBytes(ctx)
	require.NoError(t, err)

	parsed, err := ParseSchemaDocument(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, doc, parsed)

	reData, err := parsed.CanonicalBytes(ctx)
	require.NoError(t, err)
	assert.Equal(t, data, reData)
}

func TestParseSchemaDocumentBadInput(t *testing.T) {
	ctx := context.Background()

	_, err := ParseSchemaDocument(ctx, []byte(`!!!`))
	assert.Regexp(t, "SC010205", err)

	_, err = ParseSchemaDocument(ctx, []byte(`{"$schema":"x","wibble":true}`))
	assert.Regexp(t, "SC010205", err)

	_, err = ParseSchemaDocument(ctx, []byte(`{"$schema":"x"}{}`))
	assert.Regexp(t, "SC010205", err)
}

func TestGenerateForVersionUnknown(t *testing.T) {
	_, err := GenerateForVersion(context.Background(), "0.1.0")
	assert.Regexp(t, "SC010200.*0\\.1\\.0", err)
}
