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
	"errors"

	"github.com/aurelian-io/scribe/pkg/scribemsgs"
	"github.com/fxamacker/cbor/v2"
	"github.com/hyperledger/firefly-common/pkg/i18n"
)

// The compact encoding is CBOR with the core deterministic encoding rules,
// so a given document always has exactly one byte representation. Field
// names follow the same json tags as the descriptive encoding.
var (
	cborEncMode cbor.EncMode
	cborDecMode cbor.DecMode
	// Without the unknown-field check, for the metadata object where custom
	// keys are legal (see metadata.go)
	cborLaxDecMode cbor.DecMode
)

func init() {
	var err error
	cborEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err == nil {
		cborDecMode, err = cbor.DecOptions{
			ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
		}.DecMode()
	}
	if err == nil {
		cborLaxDecMode, err = cbor.DecOptions{}.DecMode()
	}
	if err != nil {
		panic(err)
	}
}

// EncodeCompact produces the compact binary encoding of a valid document
func (a *AbiRoot) EncodeCompact(ctx context.Context) ([]byte, error) {
	if err := a.Validate(ctx); err != nil {
		return nil, err
	}
	data, err := cborEncMode.Marshal(a)
	if err != nil {
		return nil, i18n.WrapError(ctx, err, scribemsgs.MsgDecodeInvalidCompact, err.Error())
	}
	return data, nil
}

// DecodeCompact parses the compact binary encoding. Truncated input, unknown
// fields and trailing bytes are all rejected - decoding aborts rather than
// producing a partial document.
func DecodeCompact(ctx context.Context, data []byte) (*AbiRoot, error) {
	var root AbiRoot
	if err := cborDecMode.Unmarshal(data, &root); err != nil {
		var extraErr *cbor.ExtraneousDataError
		if errors.As(err, &extraErr) {
			return nil, i18n.NewError(ctx, scribemsgs.MsgDecodeTrailingBytes, extraErr.Error())
		}
		return nil, i18n.WrapError(ctx, err, scribemsgs.MsgDecodeInvalidCompact, err.Error())
	}
	if err := checkSchemaVersion(ctx, root.SchemaVersion); err != nil {
		return nil, err
	}
	if err := root.Validate(ctx); err != nil {
		return nil, err
	}
	return &root, nil
}

// CBOR needs the same bool-or-schema handling as JSON for this node
func (ap *AdditionalProperties) MarshalCBOR() ([]byte, error) {
	if ap.Allowed != nil {
		return cborEncMode.Marshal(*ap.Allowed)
	}
	return cborEncMode.Marshal(ap.Schema)
}

func (ap *AdditionalProperties) UnmarshalCBOR(data []byte) error {
	if ap == nil {
		return i18n.NewError(context.Background(), scribemsgs.MsgTypesUnmarshalNil)
	}
	if len(data) == 1 && (data[0] == 0xf4 || data[0] == 0xf5) {
		allowed := data[0] == 0xf5
		*ap = AdditionalProperties{Allowed: &allowed}
		return nil
	}
	var schema TypeSchema
	if err := cborDecMode.Unmarshal(data, &schema); err != nil {
		return err
	}
	*ap = AdditionalProperties{Schema: &schema}
	return nil
}
