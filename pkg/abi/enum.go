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
	"strings"

	"github.com/aurelian-io/scribe/pkg/scribemsgs"
	"github.com/hyperledger/firefly-common/pkg/i18n"
)

type EnumStringOptions interface {
	~string
	Options() []string
}

// Enum is a wire wrapper for an enum with a fixed set of options, that
// validates against those options rather than passing unknown tags through
type Enum[O EnumStringOptions] string

func (p Enum[O]) V() O {
	return O(p)
}

func (p Enum[O]) Options() []string {
	return O(p).Options()
}

// Case sensitive validation - these values are part of the wire format
func (p Enum[O]) Validate(ctx context.Context) (O, error) {
	validator := (*new(O))
	for _, o := range validator.Options() {
		if o == (string)(p) {
			return O(o), nil
		}
	}
	return "", i18n.NewError(ctx, scribemsgs.MsgTypesEnumValueInvalid, strings.Join(validator.Options(), ","))
}

func MapEnum[O EnumStringOptions, T any](ctx context.Context, p Enum[O], mapped map[O]T) (ret T, err error) {
	v, err := p.Validate(ctx)
	if err != nil {
		return
	}
	ret, ok := mapped[v]
	if !ok {
		allOpts := (*new(O)).Options()
		mappedOpts := []string{}
		for k := range mapped {
			for _, o := range allOpts {
				if string(k) == o {
					mappedOpts = append(mappedOpts, o)
				}
			}
		}
		err = i18n.NewError(ctx, scribemsgs.MsgTypesEnumValueInvalid, strings.Join(mappedOpts, ","))
		return
	}
	return
}
