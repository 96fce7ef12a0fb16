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

// Package abi defines the versioned interface-description document for WASM
// smart-contract modules: the callable functions a contract exposes, the
// structural types those functions reference, and build metadata, together
// with the descriptive (JSON) and compact (CBOR) wire encodings.
package abi

import (
	"context"

	"github.com/Masterminds/semver/v3"
	"github.com/aurelian-io/scribe/pkg/scribemsgs"
	"github.com/hyperledger/firefly-common/pkg/i18n"
)

// SchemaVersion is the current version of the ABI schema format itself - the
// shape of this document - as distinct from the Version field of the contract
// described inside it. Bumped only when the format changes shape.
const SchemaVersion = "0.4.0"

// AbiRoot is a complete contract ABI document
type AbiRoot struct {
	// Semver of the ABI schema format
	SchemaVersion string `json:"schema_version"`
	// Metadata information about the contract
	Metadata AbiMetadata `json:"metadata"`
	// Core ABI information (functions and types)
	Body AbiBody `json:"body"`
}

type AbiMetadata struct {
	// The name of the smart contract
	Name string `json:"name,omitempty"`
	// The version of the smart contract
	Version string `json:"version,omitempty"`
	// The authors of the smart contract
	Authors []string `json:"authors,omitempty"`
	// The information about how this contract was built
	BuildInfo *BuildInfo `json:"build_info,omitempty"`
	// The SHA-256 hash of the contract WASM artifact, base58 on the wire
	WasmHash Base58Sum `json:"wasm_hash,omitempty"`
	// Custom string metadata from producer toolchains, carried flattened
	// alongside the named fields on the wire (see metadata.go)
	Other map[string]string `json:"-"`
}

type BuildInfo struct {
	// The compiler (versioned) that was used to build the contract
	Compiler string `json:"compiler"`
	// The build tool (versioned) that was used to build the contract
	Builder string `json:"builder"`
	// The docker image (versioned) where the contract was built
	Image string `json:"image,omitempty"`
	// The toolchain version the build was pinned to
	ToolchainVersion string `json:"toolchain_version,omitempty"`
	// The full command line the builder was invoked with
	BuildCommand []string `json:"build_command,omitempty"`
}

// AbiBody is the core ABI information
type AbiBody struct {
	// ABIs of all the contract's functions
	Functions []*AbiFunction `json:"functions"`
	// Registry of all structural types referenced from the functions
	RootSchema TypeRegistry `json:"root_schema"`
}

// NewAbiRoot builds a freshly-produced document carrying the current schema
// version, and validates all construction-time invariants before returning it
func NewAbiRoot(ctx context.Context, metadata AbiMetadata, body AbiBody) (*AbiRoot, error) {
	root := &AbiRoot{
		SchemaVersion: SchemaVersion,
		Metadata:      metadata,
		Body:          body,
	}
	if err := root.Validate(ctx); err != nil {
		return nil, err
	}
	return root, nil
}

func currentSemver() *semver.Version {
	return semver.MustParse(SchemaVersion)
}

// checkSchemaVersion enforces that a decoded document's schema_version is in
// the same major.minor line as this library, with distinct diagnostics for
// too-old (re-generate the ABI) and too-new (upgrade this library) documents.
func checkSchemaVersion(ctx context.Context, schemaVersion string) error {
	v, err := semver.StrictNewVersion(schemaVersion)
	if err != nil {
		return i18n.NewError(ctx, scribemsgs.MsgModelInvalidSchemaVersion, schemaVersion)
	}
	current := currentSemver()
	if v.Major() != current.Major() || v.Minor() != current.Minor() {
		if v.LessThan(current) {
			return i18n.NewError(ctx, scribemsgs.MsgDecodeSchemaVersionTooOld, current.Major(), current.Minor(), schemaVersion)
		}
		return i18n.NewError(ctx, scribemsgs.MsgDecodeSchemaVersionTooNew, current.Major(), current.Minor(), schemaVersion)
	}
	return nil
}
