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
	"crypto/sha256"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBase58SumRoundTrip(t *testing.T) {
	ctx := context.Background()

	sum := NewBase58Sum([]byte("some wasm bytes"))
	expected := sha256.Sum256([]byte("some wasm bytes"))
	assert.Equal(t, expected[:], []byte(sum))

	parsed, err := ParseBase58Sum(ctx, sum.String())
	require.NoError(t, err)
	assert.True(t, sum.Equals(parsed))
}

func TestBase58SumInvalid(t *testing.T) {
	// 0, O, I and l are outside the base58 alphabet
	_, err := ParseBase58Sum(context.Background(), "0OIl")
	assert.Regexp(t, "SC010106", err)
}

func TestBase58SumEmpty(t *testing.T) {
	parsed, err := ParseBase58Sum(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, parsed)
	assert.Equal(t, "", Base58Sum(nil).String())
}

func TestBase58SumJSON(t *testing.T) {
	sum := NewBase58Sum([]byte("wasm"))
	data, err := json.Marshal(sum)
	require.NoError(t, err)

	var decoded Base58Sum
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, sum.Equals(decoded))

	assert.Error(t, json.Unmarshal([]byte(`"0OIl"`), &decoded))
}
