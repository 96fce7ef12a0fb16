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
	"encoding/json"
	"strings"

	"github.com/aurelian-io/scribe/pkg/scribemsgs"
	"github.com/hyperledger/firefly-common/pkg/i18n"
)

// DefinitionsRefPrefix is the JSON pointer prefix for reference edges between
// definitions inside a TypeRegistry
const DefinitionsRefPrefix = "#/definitions/"

// TypeSchema is a structural (JSON-Schema-like) description of one type.
// The same node shape is used for contract types held in a TypeRegistry, and
// for the format's own metaschema documents.
//
// Reference edges are always emitted as named pointers rather than inline
// expansions, which keeps recursive and mutually-recursive types
// representable in a flat name-indexed arena.
type TypeSchema struct {
	Ref                  string                `json:"$ref,omitempty"`
	Type                 string                `json:"type,omitempty"`
	Description          string                `json:"description,omitempty"`
	Properties           map[string]*TypeSchema `json:"properties,omitempty"`
	Required             []string              `json:"required,omitempty"`
	AdditionalProperties *AdditionalProperties `json:"additionalProperties,omitempty"`
	Items                *TypeSchema           `json:"items,omitempty"`
	Enum                 []string              `json:"enum,omitempty"`
	Const                string                `json:"const,omitempty"`
	OneOf                []*TypeSchema         `json:"oneOf,omitempty"`
}

// RefName returns the bare definition name of a reference node, and whether
// the node is a well-formed reference under the supplied prefix
func (ts *TypeSchema) RefName(prefix string) (string, bool) {
	if ts == nil || ts.Ref == "" {
		return "", false
	}
	name, ok := strings.CutPrefix(ts.Ref, prefix)
	return name, ok && name != ""
}

// AdditionalProperties carries the JSON-Schema "additionalProperties" keyword,
// which is either a boolean gate or a schema for unnamed properties
type AdditionalProperties struct {
	Allowed *bool
	Schema  *TypeSchema
}

// Closed is the conventional marker for entities that reject unknown fields
func Closed() *AdditionalProperties {
	allowed := false
	return &AdditionalProperties{Allowed: &allowed}
}

// Schemaed wraps a value schema, which is how string-keyed maps are expressed
func Schemaed(schema *TypeSchema) *AdditionalProperties {
	return &AdditionalProperties{Schema: schema}
}

// IsClosed reports whether the node forbids unnamed properties outright.
// A nil receiver is the JSON-Schema default (anything goes).
func (ap *AdditionalProperties) IsClosed() bool {
	return ap != nil && ap.Allowed != nil && !*ap.Allowed
}

func (ap *AdditionalProperties) MarshalJSON() ([]byte, error) {
	if ap.Allowed != nil {
		return json.Marshal(*ap.Allowed)
	}
	return json.Marshal(ap.Schema)
}

func (ap *AdditionalProperties) UnmarshalJSON(data []byte) error {
	if ap == nil {
		return i18n.NewError(context.Background(), scribemsgs.MsgTypesUnmarshalNil)
	}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "true" || trimmed == "false" {
		allowed := trimmed == "true"
		*ap = AdditionalProperties{Allowed: &allowed}
		return nil
	}
	if !strings.HasPrefix(trimmed, "{") {
		return i18n.NewError(context.Background(), scribemsgs.MsgDecodeAdditionalPropsValue)
	}
	var schema TypeSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return err
	}
	*ap = AdditionalProperties{Schema: &schema}
	return nil
}

// TypeRegistry is a deduplicated collection of named type definitions. All
// structural types live here; functions and schema nodes point at them by
// name only, so ownership cycles cannot arise however the types refer to
// each other.
type TypeRegistry struct {
	Definitions map[string]*TypeSchema `json:"definitions,omitempty"`
}

// Resolve looks up a TypeRef, returning nil for a dangling reference
func (r *TypeRegistry) Resolve(ref TypeRef) *TypeSchema {
	if r.Definitions == nil {
		return nil
	}
	return r.Definitions[string(ref)]
}
