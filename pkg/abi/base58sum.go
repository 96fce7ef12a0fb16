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
	"crypto/sha256"

	"github.com/aurelian-io/scribe/pkg/scribemsgs"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/hyperledger/firefly-common/pkg/i18n"
)

// Base58Sum is a byte slice that is formatted in JSON as a base58 string.
// In the compact encoding it travels as raw bytes.
type Base58Sum []byte

// NewBase58Sum computes the SHA-256 identity hash of a WASM artifact
func NewBase58Sum(wasm []byte) Base58Sum {
	sum := sha256.Sum256(wasm)
	return sum[:]
}

// Parse a base58 string
func ParseBase58Sum(ctx context.Context, s string) (Base58Sum, error) {
	decoded := base58.Decode(s)
	if len(decoded) == 0 && s != "" {
		return nil, i18n.NewError(ctx, scribemsgs.MsgDecodeInvalidBase58, s)
	}
	return decoded, nil
}

func (b Base58Sum) String() string {
	if b == nil {
		return ""
	}
	return base58.Encode(b)
}

func (b Base58Sum) Equals(b2 Base58Sum) bool {
	return bytes.Equal(b, b2)
}

// JSON representation is a base58 string
func (b Base58Sum) MarshalText() ([]byte, error) {
	return ([]byte)(b.String()), nil
}

func (b *Base58Sum) UnmarshalText(text []byte) error {
	if b == nil {
		return i18n.NewError(context.Background(), scribemsgs.MsgTypesUnmarshalNil)
	}
	parsed, err := ParseBase58Sum(context.Background(), string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
