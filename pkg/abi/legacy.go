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

	"github.com/Masterminds/semver/v3"
	"github.com/aurelian-io/scribe/pkg/log"
	"github.com/aurelian-io/scribe/pkg/scribemsgs"
	"github.com/hyperledger/firefly-common/pkg/i18n"
)

// LegacySchemaVersion is the last format line before functions gained the
// kind/modifiers split. Documents on this line are still readable through
// DecodeJSONAnyVersion, which migrates them forward in memory.
const LegacySchemaVersion = "0.3.0"

// The 0.3 format modelled function behavior as independent boolean flags,
// carried parameter lists as bare arrays with JSON encoding implied, and kept
// build information under a "build" key with no toolchain or command fields.
type legacyAbiRoot struct {
	SchemaVersion string            `json:"schema_version"`
	Metadata      legacyAbiMetadata `json:"metadata"`
	Body          legacyAbiBody     `json:"body"`
}

type legacyAbiMetadata struct {
	Name    string            `json:"name,omitempty"`
	Version string            `json:"version,omitempty"`
	Authors []string          `json:"authors,omitempty"`
	Build   *legacyBuildInfo  `json:"build,omitempty"`
	Other   map[string]string `json:"-"`
}

// Custom string metadata keys were legal on the 0.3 line too, under the same
// flattening rule as the current model
func (m *legacyAbiMetadata) UnmarshalJSON(data []byte) error {
	if m == nil {
		return i18n.NewError(context.Background(), scribemsgs.MsgTypesUnmarshalNil)
	}
	type legacyMetadataFields legacyAbiMetadata
	var known legacyMetadataFields
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range []string{"name", "version", "authors", "build"} {
		delete(all, k)
	}
	if len(all) > 0 {
		known.Other = make(map[string]string, len(all))
		for k, raw := range all {
			var v string
			if err := json.Unmarshal(raw, &v); err != nil {
				return i18n.NewError(context.Background(), scribemsgs.MsgDecodeMetadataValueNotString, k)
			}
			known.Other[k] = v
		}
	}
	*m = legacyAbiMetadata(known)
	return nil
}

type legacyBuildInfo struct {
	Compiler string `json:"compiler"`
	Builder  string `json:"builder"`
	Image    string `json:"image,omitempty"`
}

type legacyAbiBody struct {
	Functions  []*legacyAbiFunction `json:"functions"`
	RootSchema TypeRegistry         `json:"root_schema"`
}

type legacyAbiFunction struct {
	Name         string       `json:"name"`
	Doc          string       `json:"doc,omitempty"`
	IsView       bool         `json:"is_view,omitempty"`
	IsInit       bool         `json:"is_init,omitempty"`
	IsPayable    bool         `json:"is_payable,omitempty"`
	IsPrivate    bool         `json:"is_private,omitempty"`
	Params       []*Parameter `json:"params,omitempty"`
	Callbacks    []TypeRef    `json:"callbacks,omitempty"`
	CallbacksVec TypeRef      `json:"callbacks_vec,omitempty"`
	Result       TypeRef      `json:"result,omitempty"`
}

// DecodeJSONAnyVersion sniffs the schema_version of a descriptive-encoding
// document, and decodes current-line documents directly, or migrates legacy
// 0.3 documents forward to the current model. Anything outside those two
// lines is rejected - there is no best-effort partial parse of an unknown
// format.
func DecodeJSONAnyVersion(ctx context.Context, data []byte) (*AbiRoot, error) {
	var sniff struct {
		SchemaVersion string `json:"schema_version"`
	}
	if err := json.Unmarshal(data, &sniff); err != nil {
		return nil, i18n.WrapError(ctx, err, scribemsgs.MsgDecodeInvalidJSON, err.Error())
	}
	v, err := semver.StrictNewVersion(sniff.SchemaVersion)
	if err != nil {
		return nil, i18n.NewError(ctx, scribemsgs.MsgModelInvalidSchemaVersion, sniff.SchemaVersion)
	}

	current := currentSemver()
	legacy := semver.MustParse(LegacySchemaVersion)
	switch {
	case v.Major() == current.Major() && v.Minor() == current.Minor():
		return DecodeJSON(ctx, data)
	case v.Major() == legacy.Major() && v.Minor() == legacy.Minor():
		log.L(ctx).Debugf("Migrating legacy ABI document from schema version %s", sniff.SchemaVersion)
		return decodeLegacyJSON(ctx, data)
	default:
		return nil, i18n.NewError(ctx, scribemsgs.MsgDecodeUnsupportedVersion, sniff.SchemaVersion)
	}
}

func decodeLegacyJSON(ctx context.Context, data []byte) (*AbiRoot, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	var legacy legacyAbiRoot
	if err := decoder.Decode(&legacy); err != nil {
		return nil, i18n.WrapError(ctx, err, scribemsgs.MsgDecodeInvalidJSON, err.Error())
	}
	if decoder.More() {
		return nil, i18n.NewError(ctx, scribemsgs.MsgDecodeInvalidJSON, "unexpected content after the document")
	}

	root := &AbiRoot{
		SchemaVersion: SchemaVersion,
		Metadata: AbiMetadata{
			Name:    legacy.Metadata.Name,
			Version: legacy.Metadata.Version,
			Authors: legacy.Metadata.Authors,
			Other:   legacy.Metadata.Other,
		},
		Body: AbiBody{
			Functions:  make([]*AbiFunction, len(legacy.Body.Functions)),
			RootSchema: legacy.Body.RootSchema,
		},
	}
	if legacy.Metadata.Build != nil {
		root.Metadata.BuildInfo = &BuildInfo{
			Compiler: legacy.Metadata.Build.Compiler,
			Builder:  legacy.Metadata.Build.Builder,
			Image:    legacy.Metadata.Build.Image,
		}
	}
	for i, lf := range legacy.Body.Functions {
		root.Body.Functions[i] = migrateLegacyFunction(lf)
	}

	if err := root.Validate(ctx); err != nil {
		return nil, err
	}
	return root, nil
}

// The flags map onto the split model as: is_view selects the kind, and the
// remaining three become modifiers. The 0.3 line could only express JSON
// parameter encoding, so migrated parameter lists always carry that tag.
func migrateLegacyFunction(lf *legacyAbiFunction) *AbiFunction {
	kind := FunctionKindCall
	if lf.IsView {
		kind = FunctionKindView
	}
	var modifiers []Enum[FunctionModifier]
	if lf.IsInit {
		modifiers = append(modifiers, FunctionModifierInit.Enum())
	}
	if lf.IsPayable {
		modifiers = append(modifiers, FunctionModifierPayable.Enum())
	}
	if lf.IsPrivate {
		modifiers = append(modifiers, FunctionModifierPrivate.Enum())
	}
	f := &AbiFunction{
		Name:         lf.Name,
		Doc:          lf.Doc,
		Kind:         kind.Enum(),
		Modifiers:    modifiers,
		Callbacks:    lf.Callbacks,
		CallbacksVec: lf.CallbacksVec,
		Result:       lf.Result,
	}
	if lf.Params != nil {
		f.Params = JSONParams(lf.Params...)
	}
	return f
}
