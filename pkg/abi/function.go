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

// TypeRef is a named pointer into the enclosing body's root schema. It is
// resolved at validation time - a TypeRef that does not match a definition
// key is a validation error, never a panic.
type TypeRef string

// FunctionKind regulates whether invoking the function requires a signed
// transaction (call functions) or not (view functions)
type FunctionKind string

const (
	FunctionKindView FunctionKind = "view"
	FunctionKindCall FunctionKind = "call"
)

func (fk FunctionKind) Enum() Enum[FunctionKind] {
	return Enum[FunctionKind](fk)
}

func (fk FunctionKind) Options() []string {
	return []string{
		string(FunctionKindView),
		string(FunctionKindCall),
	}
}

// FunctionModifier constrains how a function may be called. Modifiers are
// deliberately a separate dimension from the kind - a function can be
// simultaneously call+payable+init - so the two must never be folded into
// one flag set.
type FunctionModifier string

const (
	// Init functions can be used to initialize the state of the contract
	FunctionModifierInit FunctionModifier = "init"
	// Payable functions can accept a token transfer together with the call
	FunctionModifierPayable FunctionModifier = "payable"
	// Private functions can only be called by the contract containing them,
	// which is how cross-contract callback entry points are protected
	FunctionModifierPrivate FunctionModifier = "private"
)

func (fm FunctionModifier) Enum() Enum[FunctionModifier] {
	return Enum[FunctionModifier](fm)
}

func (fm FunctionModifier) Options() []string {
	return []string{
		string(FunctionModifierInit),
		string(FunctionModifierPayable),
		string(FunctionModifierPrivate),
	}
}

// SerializationType is the encoding a function declares once for all of its
// parameters - parameters of a single function never mix encodings
type SerializationType string

const (
	SerializationTypeJSON  SerializationType = "json"
	SerializationTypeBorsh SerializationType = "borsh"
)

func (st SerializationType) Enum() Enum[SerializationType] {
	return Enum[SerializationType](st)
}

func (st SerializationType) Options() []string {
	return []string{
		string(SerializationTypeJSON),
		string(SerializationTypeBorsh),
	}
}

// AbiFunction is the ABI of a single contract function
type AbiFunction struct {
	Name string `json:"name"`
	// Human-readable documentation parsed from the source file
	Doc string `json:"doc,omitempty"`
	// Function kind that regulates whether the function has to be invoked from a transaction
	Kind Enum[FunctionKind] `json:"kind"`
	// List of modifiers affecting the function
	Modifiers []Enum[FunctionModifier] `json:"modifiers,omitempty"`
	// The function parameters, all sharing one serialization type
	Params *FunctionParams `json:"params,omitempty"`
	// Types of the callbacks of the function
	Callbacks []TypeRef `json:"callbacks,omitempty"`
	// Type of the vararg callbacks of the function
	CallbacksVec TypeRef `json:"callbacks_vec,omitempty"`
	// Return type
	Result TypeRef `json:"result,omitempty"`
}

// HasModifier reports whether the modifier is present, independent of order
func (f *AbiFunction) HasModifier(fm FunctionModifier) bool {
	for _, m := range f.Modifiers {
		if m.V() == fm {
			return true
		}
	}
	return false
}

// FunctionParams is the closed union of per-encoding parameter lists. The
// serialization_type tag is validated against the SerializationType options,
// so an unknown encoding fails validation rather than being silently carried.
type FunctionParams struct {
	SerializationType Enum[SerializationType] `json:"serialization_type"`
	Args              []*Parameter            `json:"args"`
}

// Parameter is a single named function parameter
type Parameter struct {
	Name    string  `json:"name"`
	TypeRef TypeRef `json:"type_ref"`
}

// JSONParams is a convenience constructor for the common case
func JSONParams(args ...*Parameter) *FunctionParams {
	return &FunctionParams{
		SerializationType: SerializationTypeJSON.Enum(),
		Args:              args,
	}
}

func BorshParams(args ...*Parameter) *FunctionParams {
	return &FunctionParams{
		SerializationType: SerializationTypeBorsh.Enum(),
		Args:              args,
	}
}
