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

	"github.com/aurelian-io/scribe/pkg/scribemsgs"
	"github.com/fxamacker/cbor/v2"
	"github.com/hyperledger/firefly-common/pkg/i18n"
)

// Producer toolchains attach their own string metadata to a contract, so the
// metadata object is the one place in the document where unknown keys are not
// an error: they flatten alongside the named fields on the wire, and survive
// a round trip through the Other map. Values must be strings.
var metadataKnownKeys = []string{"name", "version", "authors", "build_info", "wasm_hash"}

func (m AbiMetadata) MarshalJSON() ([]byte, error) {
	type metadataFields AbiMetadata
	known, err := json.Marshal(metadataFields(m))
	if err != nil {
		return nil, err
	}
	if len(m.Other) == 0 {
		return known, nil
	}
	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	for k, v := range m.Other {
		if _, clash := merged[k]; clash {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		merged[k] = raw
	}
	return json.Marshal(merged)
}

func (m *AbiMetadata) UnmarshalJSON(data []byte) error {
	if m == nil {
		return i18n.NewError(context.Background(), scribemsgs.MsgTypesUnmarshalNil)
	}
	type metadataFields AbiMetadata
	var known metadataFields
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range metadataKnownKeys {
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
	*m = AbiMetadata(known)
	return nil
}

func (m AbiMetadata) MarshalCBOR() ([]byte, error) {
	type metadataFields AbiMetadata
	known, err := cborEncMode.Marshal(metadataFields(m))
	if err != nil {
		return nil, err
	}
	if len(m.Other) == 0 {
		return known, nil
	}
	merged := map[string]cbor.RawMessage{}
	if err := cborLaxDecMode.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	for k, v := range m.Other {
		if _, clash := merged[k]; clash {
			continue
		}
		raw, err := cborEncMode.Marshal(v)
		if err != nil {
			return nil, err
		}
		merged[k] = raw
	}
	return cborEncMode.Marshal(merged)
}

func (m *AbiMetadata) UnmarshalCBOR(data []byte) error {
	if m == nil {
		return i18n.NewError(context.Background(), scribemsgs.MsgTypesUnmarshalNil)
	}
	type metadataFields AbiMetadata
	var known metadataFields
	if err := cborLaxDecMode.Unmarshal(data, &known); err != nil {
		return err
	}
	var all map[string]cbor.RawMessage
	if err := cborLaxDecMode.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range metadataKnownKeys {
		delete(all, k)
	}
	if len(all) > 0 {
		known.Other = make(map[string]string, len(all))
		for k, raw := range all {
			var v string
			if err := cborLaxDecMode.Unmarshal(raw, &v); err != nil {
				return i18n.NewError(context.Background(), scribemsgs.MsgDecodeMetadataValueNotString, k)
			}
			known.Other[k] = v
		}
	}
	*m = AbiMetadata(known)
	return nil
}
