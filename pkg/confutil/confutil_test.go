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

package confutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInt(t *testing.T) {
	assert.Equal(t, 123, Int(nil, 123))
	assert.Equal(t, 456, Int(P(456), 123))
}

func TestIntMin(t *testing.T) {
	assert.Equal(t, 123, IntMin(nil, 10, 123))
	assert.Equal(t, 10, IntMin(P(5), 10, 123))
	assert.Equal(t, 456, IntMin(P(456), 10, 123))
}

func TestBool(t *testing.T) {
	assert.True(t, Bool(nil, true))
	assert.False(t, Bool(P(false), true))
}

func TestStringNotEmpty(t *testing.T) {
	assert.Equal(t, "def", StringNotEmpty(nil, "def"))
	assert.Equal(t, "def", StringNotEmpty(P(""), "def"))
	assert.Equal(t, "val", StringNotEmpty(P("val"), "def"))
}

func TestStringOrEmpty(t *testing.T) {
	assert.Equal(t, "def", StringOrEmpty(nil, "def"))
	assert.Equal(t, "", StringOrEmpty(P(""), "def"))
}

func TestStringSlice(t *testing.T) {
	assert.Equal(t, []string{"def"}, StringSlice(nil, []string{"def"}))
	assert.Equal(t, []string{"val"}, StringSlice([]string{"val"}, []string{"def"}))
}

func TestDurationMin(t *testing.T) {
	assert.Equal(t, 10*time.Second, DurationMin(nil, 0, "10s"))
	assert.Equal(t, 10*time.Second, DurationMin(P("wibble"), 0, "10s"))
	assert.Equal(t, 1*time.Second, DurationMin(P("100ms"), 1*time.Second, "10s"))
	assert.Equal(t, 30*time.Second, DurationMin(P("30s"), 1*time.Second, "10s"))
}

func TestDurationSeconds(t *testing.T) {
	assert.Equal(t, int64(10), DurationSeconds(nil, 0, "10s"))
	assert.Equal(t, int64(1), DurationSeconds(P("100ms"), 0, "10s"))
}

func TestByteSize(t *testing.T) {
	assert.Equal(t, int64(1024), ByteSize(nil, 0, "1Kb"))
	assert.Equal(t, int64(1024), ByteSize(P("wibble"), 0, "1Kb"))
	assert.Equal(t, int64(1024*1024), ByteSize(P("1Mb"), 0, "1Kb"))
	assert.Equal(t, int64(512), ByteSize(P("16"), 512, "1Kb"))
}
