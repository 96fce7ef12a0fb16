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

package conf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAndParseYAMLFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "scribe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  output: stdout
store:
  dir: /tmp/schemas
`), 0644))

	var cfg ScribeConfig
	require.NoError(t, ReadAndParseYAMLFile(ctx, path, &cfg))
	assert.Equal(t, "debug", *cfg.Log.Level)
	assert.Equal(t, "stdout", *cfg.Log.Output)
	assert.Equal(t, "/tmp/schemas", *cfg.Store.Dir)

	// Unset fields stay nil for the defaults to apply downstream
	assert.Nil(t, cfg.Log.Format)
}

func TestReadAndParseYAMLFileMissing(t *testing.T) {
	var cfg ScribeConfig
	err := ReadAndParseYAMLFile(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"), &cfg)
	assert.Regexp(t, "SC010500", err)
}

func TestReadAndParseYAMLFileBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{{{"), 0644))

	var cfg ScribeConfig
	err := ReadAndParseYAMLFile(context.Background(), path, &cfg)
	assert.Regexp(t, "SC010502", err)
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, "abi/schemas", *StoreDefaults.Dir)
	assert.Equal(t, "info", *LogDefaults.Level)
	assert.Equal(t, "simple", *LogDefaults.Format)
}
