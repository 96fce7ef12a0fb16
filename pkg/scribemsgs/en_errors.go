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

package scribemsgs

import (
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"golang.org/x/text/language"
)

var registered = false
var ffe = func(key, translation string, statusHint ...int) i18n.ErrorMessageKey {
	if !registered {
		i18n.RegisterPrefix("SC01", "Scribe ABI Tooling")
		registered = true
	}
	return i18n.FFE(language.AmericanEnglish, key, translation, statusHint...)
}

var (
	// ABI model SC0100XX
	MsgContextCanceled           = ffe("SC010000", "Context canceled")
	MsgModelDuplicateFunction    = ffe("SC010001", "Duplicate function name '%s' in ABI body")
	MsgModelDanglingTypeRef      = ffe("SC010002", "Function '%s' references type '%s' which is not defined in the root schema")
	MsgModelDanglingSchemaRef    = ffe("SC010003", "Type definition '%s' contains reference '%s' which does not resolve in the root schema")
	MsgModelMalformedRef         = ffe("SC010004", "Type definition '%s' contains malformed reference '%s' (expected '%s<name>')")
	MsgModelDuplicateModifier    = ffe("SC010005", "Function '%s' declares modifier '%s' more than once")
	MsgTypesEnumValueInvalid     = ffe("SC010006", "Value must be one of %s")
	MsgModelInvalidSchemaVersion = ffe("SC010007", "ABI 'schema_version' is not a valid semver value: '%s'")
	MsgModelEmptyFunctionName    = ffe("SC010008", "Function at index %d has an empty name")
	MsgTypesUnmarshalNil         = ffe("SC010009", "Unmarshal on nil pointer")

	// Encoding SC0101XX
	MsgDecodeInvalidJSON            = ffe("SC010100", "ABI JSON decode failed: %s")
	MsgDecodeSchemaVersionTooOld    = ffe("SC010101", "Expected 'schema_version' to be ~%d.%d but got %s: re-generate the ABI with a newer toolchain")
	MsgDecodeSchemaVersionTooNew    = ffe("SC010102", "Expected 'schema_version' to be ~%d.%d but got %s: upgrade this library to a newer version")
	MsgDecodeInvalidCompact         = ffe("SC010103", "ABI compact decode failed: %s")
	MsgDecodeTrailingBytes          = ffe("SC010104", "ABI compact decode rejected trailing input: %s")
	MsgDecodeUnsupportedVersion     = ffe("SC010105", "Unsupported ABI schema version: %s")
	MsgDecodeInvalidBase58          = ffe("SC010106", "Invalid base58 hash string: %s")
	MsgCombineVersionConflict       = ffe("SC010107", "ABI schema version conflict while combining chunks: expected %s, found %s")
	MsgCombineDefinitionConflict    = ffe("SC010108", "Conflicting definitions for type '%s' while combining chunks")
	MsgDecodeAdditionalPropsValue   = ffe("SC010109", "Value for 'additionalProperties' must be a boolean or a schema object")
	MsgDecodeMetadataValueNotString = ffe("SC010110", "Custom metadata key '%s' must have a string value")
	MsgCombineNoEntries             = ffe("SC010111", "No ABI chunks supplied to combine")

	// Metaschema generation SC0102XX
	MsgMetaschemaUnknownVersion   = ffe("SC010200", "No format definition registered for schema version %s")
	MsgMetaschemaMissingRoot      = ffe("SC010201", "Type graph root '%s' is not defined")
	MsgMetaschemaDanglingRef      = ffe("SC010202", "Type '%s' references '%s' which is not defined in the graph")
	MsgMetaschemaInvalidDef       = ffe("SC010203", "Type '%s' has an invalid definition: %s")
	MsgMetaschemaNonDeterministic = ffe("SC010204", "Schema generation for version %s produced differing output across two runs - this invalidates schema diffing and is a bug")
	MsgMetaschemaParseFailed      = ffe("SC010205", "Schema document parse failed: %s")
	MsgMetaschemaInvalidTypeExpr  = ffe("SC010206", "Type expression under '%s' must set exactly one of prim/named/array/map")

	// Compatibility SC0103XX
	MsgCompatMissingRootDef     = ffe("SC010300", "Schema document root reference '%s' does not resolve to a definition")
	MsgCompatReleaseBlocked     = ffe("SC010301", "Schema change is not backward compatible (%d violations): 'schema_version' %s does not bump the major (or pre-1.0 minor) version over released %s")
	MsgCompatDocumentNilDefs    = ffe("SC010302", "Schema document has no definitions to compare")

	// Schema store SC0104XX
	MsgStoreDirCreateFailed  = ffe("SC010400", "Failed to create schema store directory '%s': %s")
	MsgStoreReadFailed       = ffe("SC010401", "Failed to read schema document '%s': %s")
	MsgStoreWriteFailed      = ffe("SC010402", "Failed to write schema document '%s': %s")
	MsgStoreVersionFrozen    = ffe("SC010403", "Schema version %s is already frozen - released schema documents are immutable")
	MsgStoreNoCurrent        = ffe("SC010404", "No current schema document found at '%s' - generate it first")
	MsgStoreCurrentStale     = ffe("SC010405", "Current schema document '%s' does not match a fresh generation - re-generate it")
	MsgStoreNoReleases       = ffe("SC010406", "No released schema documents found in '%s'")
	MsgStoreVersionMismatch  = ffe("SC010407", "Requested freeze of version %s but the current document carries schema version %s")
	MsgStoreInvalidVersion   = ffe("SC010408", "'%s' is not a valid semver version string")

	// Config SC0105XX
	MsgConfigFileMissing    = ffe("SC010500", "Config file not found at path: %s")
	MsgConfigFileReadError  = ffe("SC010501", "Failed to read config file %s with error: %s")
	MsgConfigFileParseError = ffe("SC010502", "Failed to parse config file %s with error: %s")
)
