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
	"bytes"
	"context"
	"encoding/json"
	"reflect"
	"sort"
	"strings"

	"github.com/aurelian-io/scribe/pkg/scribemsgs"
	"github.com/hyperledger/firefly-common/pkg/i18n"
)

// ChunkedAbiEntry is a partial ABI fragment emitted per compilation unit by
// producer toolchains, before the fragments of one contract are merged into
// a single root document. It is a body plus the schema version it was
// generated against, with no metadata of its own.
type ChunkedAbiEntry struct {
	SchemaVersion string         `json:"schema_version"`
	Functions     []*AbiFunction `json:"functions"`
	RootSchema    TypeRegistry   `json:"root_schema"`
}

// NewChunkedAbiEntry stamps a fragment with the current schema version
func NewChunkedAbiEntry(functions []*AbiFunction, rootSchema TypeRegistry) *ChunkedAbiEntry {
	return &ChunkedAbiEntry{
		SchemaVersion: SchemaVersion,
		Functions:     functions,
		RootSchema:    rootSchema,
	}
}

// DecodeChunkedEntryJSON parses one fragment from its descriptive encoding.
// The schema version line is checked here, like any other decode - reference
// validation happens later, once the fragments are combined into a root.
func DecodeChunkedEntryJSON(ctx context.Context, data []byte) (*ChunkedAbiEntry, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	var entry ChunkedAbiEntry
	if err := decoder.Decode(&entry); err != nil {
		return nil, i18n.WrapError(ctx, err, scribemsgs.MsgDecodeInvalidJSON, err.Error())
	}
	if decoder.More() {
		return nil, i18n.NewError(ctx, scribemsgs.MsgDecodeInvalidJSON, "unexpected content after the document")
	}
	if err := checkSchemaVersion(ctx, entry.SchemaVersion); err != nil {
		return nil, err
	}
	return &entry, nil
}

// CombineChunkedEntries merges fragments into one entry. All fragments must
// carry the same schema version - conflicting versions are collected and
// reported together. Function lists concatenate and sort by name; type
// registries union, and a name defined by two fragments must have an
// identical definition in both.
func CombineChunkedEntries(ctx context.Context, entries []*ChunkedAbiEntry) (*ChunkedAbiEntry, error) {
	if len(entries) == 0 {
		return nil, i18n.NewError(ctx, scribemsgs.MsgCombineNoEntries)
	}
	var schemaVersion string
	var functions []*AbiFunction
	definitions := map[string]*TypeSchema{}
	unexpectedVersions := map[string]bool{}

	for _, entry := range entries {
		if schemaVersion == "" {
			schemaVersion = entry.SchemaVersion
		} else if entry.SchemaVersion != schemaVersion {
			unexpectedVersions[entry.SchemaVersion] = true
			continue
		}

		defNames := make([]string, 0, len(entry.RootSchema.Definitions))
		for name := range entry.RootSchema.Definitions {
			defNames = append(defNames, name)
		}
		sort.Strings(defNames)
		for _, name := range defNames {
			def := entry.RootSchema.Definitions[name]
			if existing, ok := definitions[name]; ok && !reflect.DeepEqual(existing, def) {
				return nil, i18n.NewError(ctx, scribemsgs.MsgCombineDefinitionConflict, name)
			}
			definitions[name] = def
		}

		functions = append(functions, entry.Functions...)
	}

	if len(unexpectedVersions) > 0 {
		found := make([]string, 0, len(unexpectedVersions))
		for v := range unexpectedVersions {
			found = append(found, v)
		}
		sort.Strings(found)
		return nil, i18n.NewError(ctx, scribemsgs.MsgCombineVersionConflict, schemaVersion, strings.Join(found, ", "))
	}

	// Sort the function list for readability of the combined document
	sort.Slice(functions, func(i, j int) bool {
		return functions[i].Name < functions[j].Name
	})

	return &ChunkedAbiEntry{
		SchemaVersion: schemaVersion,
		Functions:     functions,
		RootSchema:    TypeRegistry{Definitions: definitions},
	}, nil
}

// IntoRoot lifts a combined entry to a full document with the supplied
// metadata, validating the result
func (e *ChunkedAbiEntry) IntoRoot(ctx context.Context, metadata AbiMetadata) (*AbiRoot, error) {
	root := &AbiRoot{
		SchemaVersion: e.SchemaVersion,
		Metadata:      metadata,
		Body: AbiBody{
			Functions:  e.Functions,
			RootSchema: e.RootSchema,
		},
	}
	if err := root.Validate(ctx); err != nil {
		return nil, err
	}
	return root, nil
}
