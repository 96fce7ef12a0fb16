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

const legacyDocument = `{
  "schema_version": "0.3.0",
  "metadata": {
    "name": "kv-store",
    "version": "0.9.0",
    "authors": ["Aurelian Labs"],
    "standard": "nep330",
    "build": {
      "compiler": "rustc 1.69.0",
      "builder": "cargo-near 0.3.1"
    }
  },
  "body": {
    "functions": [
      {
        "name": "new",
        "is_init": true,
        "is_private": true
      },
      {
        "name": "get_value",
        "is_view": true,
        "params": [
          { "name": "key", "type_ref": "String" }
        ],
        "result": "String"
      },
      {
        "name": "set_value",
        "is_payable": true,
        "params": [
          { "name": "key", "type_ref": "String" },
          { "name": "value", "type_ref": "String" }
        ]
      }
    ],
    "root_schema": {
      "definitions": {
        "String": { "type": "string" }
      }
    }
  }
}
`

func TestDecodeLegacyDocument(t *testing.T) {
	ctx := context.Background()

	root, err := DecodeJSONAnyVersion(ctx, []byte(legacyDocument))
	require.NoError(t, err)

	// Migrated documents carry the current version in memory
	assert.Equal(t, SchemaVersion, root.SchemaVersion)
	assert.Equal(t, "kv-store", root.Metadata.Name)
	require.NotNil(t, root.Metadata.BuildInfo)
	assert.Equal(t, "rustc 1.69.0", root.Metadata.BuildInfo.Compiler)
	assert.Nil(t, root.Metadata.WasmHash)

	// Custom metadata keys survive the migration
	assert.Equal(t, map[string]string{"standard": "nep330"}, root.Metadata.Other)

	require.Len(t, root.Body.Functions, 3)

	newFn := root.Body.Functions[0]
	assert.Equal(t, FunctionKindCall, newFn.Kind.V())
	assert.True(t, newFn.HasModifier(FunctionModifierInit))
	assert.True(t, newFn.HasModifier(FunctionModifierPrivate))
	assert.Nil(t, newFn.Params)

	getFn := root.Body.Functions[1]
	assert.Equal(t, FunctionKindView, getFn.Kind.V())
	assert.Empty(t, getFn.Modifiers)
	require.NotNil(t, getFn.Params)
	assert.Equal(t, SerializationTypeJSON, getFn.Params.SerializationType.V())
	assert.Equal(t, TypeRef("String"), getFn.Result)

	setFn := root.Body.Functions[2]
	assert.Equal(t, FunctionKindCall, setFn.Kind.V())
	assert.True(t, setFn.HasModifier(FunctionModifierPayable))
	assert.Len(t, setFn.Params.Args, 2)
}

func TestDecodeAnyVersionCurrentLine(t *testing.T) {
	ctx := context.Background()
	data, err := testRoot(t).EncodeJSON(ctx)
	require.NoError(t, err)

	root, err := DecodeJSONAnyVersion(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, root.SchemaVersion)
}

func TestDecodeAnyVersionUnsupported(t *testing.T) {
	_, err := DecodeJSONAnyVersion(context.Background(), []byte(`{"schema_version":"0.2.0"}`))
	assert.Regexp(t, "SC010105.*0\\.2\\.0", err)
}

func TestDecodeAnyVersionBadInput(t *testing.T) {
	ctx := context.Background()

	_, err := DecodeJSONAnyVersion(ctx, []byte(`!!!`))
	assert.Regexp(t, "SC010100", err)

	_, err = DecodeJSONAnyVersion(ctx, []byte(`{"schema_version":"wibble"}`))
	assert.Regexp(t, "SC010007", err)
}

func TestDecodeLegacyRejectsUnknownField(t *testing.T) {
	doc := `{
  "schema_version": "0.3.0",
  "metadata": {},
  "body": { "functions": [], "root_schema": {}, "extra": true }
}`
	_, err := DecodeJSONAnyVersion(context.Background(), []byte(doc))
	assert.Regexp(t, "SC010100", err)
}
