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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataCustomKeysJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	root := testRoot(t)
	root.Metadata.Other = map[string]string{
		"standard": "nep330",
		"website":  "https://example.com",
	}

	data, err := root.EncodeJSON(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"website"`)
	assert.Contains(t, string(data), `"standard"`)

	decoded, err := DecodeJSON(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, root, decoded)

	data2, err := decoded.EncodeJSON(ctx)
	require.NoError(t, err)
	assert.Equal(t, data, data2)
}

func TestMetadataCustomKeysCompactRoundTrip(t *testing.T) {
	ctx := context.Background()
	root := testRoot(t)
	root.Metadata.Other = map[string]string{"standard": "nep330"}

	data, err := root.EncodeCompact(ctx)
	require.NoError(t, err)

	decoded, err := DecodeCompact(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, root, decoded)

	data2, err := decoded.EncodeCompact(ctx)
	require.NoError(t, err)
	assert.Equal(t, data, data2)
}

func TestMetadataCustomKeysAbsentStaysNil(t *testing.T) {
	ctx := context.Background()
	data, err := testRoot(t).EncodeJSON(ctx)
	require.NoError(t, err)

	decoded, err := DecodeJSON(ctx, data)
	require.NoError(t, err)
	assert.Nil(t, decoded.Metadata.Other)
}

func TestMetadataCustomKeyCannotShadowNamedField(t *testing.T) {
	ctx := context.Background()
	root := testRoot(t)
	root.Metadata.Other = map[string]string{"name": "impostor"}

	data, err := root.EncodeJSON(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "kv-store"`)
	assert.NotContains(t, string(data), "impostor")
}

func TestMetadataCustomKeyValueMustBeString(t *testing.T) {
	ctx := context.Background()
	root := testRoot(t)

	data, err := root.EncodeJSON(ctx)
	require.NoError(t, err)

	mangled := strings.Replace(string(data), `"name": "kv-store",`, `"name": "kv-store", "population": 42,`, 1)
	_, err = DecodeJSON(ctx, []byte(mangled))
	assert.Regexp(t, "SC010110.*population", err)

	// Same rule on the compact path
	bad, err := cborEncMode.Marshal(map[string]interface{}{"population": 42})
	require.NoError(t, err)
	var metadata AbiMetadata
	assert.Regexp(t, "SC010110.*population", metadata.UnmarshalCBOR(bad))
}
