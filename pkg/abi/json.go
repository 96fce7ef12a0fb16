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

	"github.com/aurelian-io/scribe/pkg/scribemsgs"
	"github.com/hyperledger/firefly-common/pkg/i18n"
)

// EncodeJSON produces the descriptive encoding: stable two-space indented
// JSON with a trailing newline. Optional fields that are absent are omitted
// entirely - absence on the wire is indistinguishable from "not present".
func (a *AbiRoot) EncodeJSON(ctx context.Context) ([]byte, error) {
	if err := a.Validate(ctx); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return nil, i18n.WrapError(ctx, err, scribemsgs.MsgDecodeInvalidJSON, err.Error())
	}
	return append(data, '\n'), nil
}

// DecodeJSON parses the descriptive encoding. Unknown fields are rejected,
// the schema_version is checked against the current format line, and the
// document is fully validated before being returned - a partial or invalid
// document is never handed back.
func DecodeJSON(ctx context.Context, data []byte) (*AbiRoot, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	var root AbiRoot
	if err := decoder.Decode(&root); err != nil {
		return nil, i18n.WrapError(ctx, err, scribemsgs.MsgDecodeInvalidJSON, err.Error())
	}
	if decoder.More() {
		return nil, i18n.NewError(ctx, scribemsgs.MsgDecodeInvalidJSON, "unexpected content after the document")
	}
	if err := checkSchemaVersion(ctx, root.SchemaVersion); err != nil {
		return nil, err
	}
	if err := root.Validate(ctx); err != nil {
		return nil, err
	}
	return &root, nil
}
