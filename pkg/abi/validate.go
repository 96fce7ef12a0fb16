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
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/aurelian-io/scribe/pkg/scribemsgs"
	"github.com/hyperledger/firefly-common/pkg/i18n"
)

// Validate enforces all construction-time invariants of the document:
// function-name uniqueness, well-formed kind/modifier/serialization tags,
// and resolvability of every type reference reachable from the body.
//
// Violations surface as coded errors naming the offending entity - they are
// never silently dropped or coerced.
func (a *AbiRoot) Validate(ctx context.Context) error {
	if _, err := semver.StrictNewVersion(a.SchemaVersion); err != nil {
		return i18n.NewError(ctx, scribemsgs.MsgModelInvalidSchemaVersion, a.SchemaVersion)
	}

	seen := make(map[string]bool, len(a.Body.Functions))
	for i, f := range a.Body.Functions {
		if f.Name == "" {
			return i18n.NewError(ctx, scribemsgs.MsgModelEmptyFunctionName, i)
		}
		if seen[f.Name] {
			return i18n.NewError(ctx, scribemsgs.MsgModelDuplicateFunction, f.Name)
		}
		seen[f.Name] = true
		if err := f.validate(ctx, &a.Body.RootSchema); err != nil {
			return err
		}
	}

	return a.Body.RootSchema.validateRefs(ctx)
}

func (f *AbiFunction) validate(ctx context.Context, registry *TypeRegistry) error {
	if _, err := f.Kind.Validate(ctx); err != nil {
		return err
	}

	seenMods := make(map[FunctionModifier]bool, len(f.Modifiers))
	for _, m := range f.Modifiers {
		v, err := m.Validate(ctx)
		if err != nil {
			return err
		}
		if seenMods[v] {
			return i18n.NewError(ctx, scribemsgs.MsgModelDuplicateModifier, f.Name, v)
		}
		seenMods[v] = true
	}

	refs := make([]TypeRef, 0, len(f.Callbacks)+2)
	if f.Params != nil {
		if _, err := f.Params.SerializationType.Validate(ctx); err != nil {
			return err
		}
		for _, arg := range f.Params.Args {
			refs = append(refs, arg.TypeRef)
		}
	}
	refs = append(refs, f.Callbacks...)
	if f.CallbacksVec != "" {
		refs = append(refs, f.CallbacksVec)
	}
	if f.Result != "" {
		refs = append(refs, f.Result)
	}
	for _, ref := range refs {
		if registry.Resolve(ref) == nil {
			return i18n.NewError(ctx, scribemsgs.MsgModelDanglingTypeRef, f.Name, ref)
		}
	}
	return nil
}

// validateRefs checks every "$ref" edge inside the registry resolves back to
// a definition key. Cycles (a type referencing itself directly or
// transitively) are legal, so this is a pure edge check, not a walk to a
// fixed point.
func (r *TypeRegistry) validateRefs(ctx context.Context) error {
	names := make([]string, 0, len(r.Definitions))
	for name := range r.Definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		var refErr error
		walkTypeSchema(r.Definitions[name], func(node *TypeSchema) {
			if refErr != nil || node.Ref == "" {
				return
			}
			target, ok := node.RefName(DefinitionsRefPrefix)
			if !ok {
				refErr = i18n.NewError(ctx, scribemsgs.MsgModelMalformedRef, name, node.Ref, DefinitionsRefPrefix)
				return
			}
			if r.Resolve(TypeRef(target)) == nil {
				refErr = i18n.NewError(ctx, scribemsgs.MsgModelDanglingSchemaRef, name, node.Ref)
			}
		})
		if refErr != nil {
			return refErr
		}
	}
	return nil
}

// walkTypeSchema visits a schema node and all its inline children in a
// deterministic order. It does not follow reference edges.
func walkTypeSchema(node *TypeSchema, fn func(*TypeSchema)) {
	if node == nil {
		return
	}
	fn(node)
	propNames := make([]string, 0, len(node.Properties))
	for propName := range node.Properties {
		propNames = append(propNames, propName)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		walkTypeSchema(node.Properties[propName], fn)
	}
	walkTypeSchema(node.Items, fn)
	for _, branch := range node.OneOf {
		walkTypeSchema(branch, fn)
	}
	if node.AdditionalProperties != nil {
		walkTypeSchema(node.AdditionalProperties.Schema, fn)
	}
}
