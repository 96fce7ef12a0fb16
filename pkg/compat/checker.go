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

// Package compat diffs two generated schema documents for backward
// compatibility: every document valid under the old schema must remain valid
// under the new one. The comparison runs to completion and reports the full
// violation list, never just the first finding.
package compat

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aurelian-io/scribe/pkg/abi"
	"github.com/aurelian-io/scribe/pkg/log"
	"github.com/aurelian-io/scribe/pkg/metaschema"
	"github.com/aurelian-io/scribe/pkg/scribemsgs"
	"github.com/hyperledger/firefly-common/pkg/i18n"
)

type ViolationCode string

const (
	// A definition reachable in the old schema no longer resolves
	CodeDefinitionRemoved ViolationCode = "definition_removed"
	// A property was removed from a closed object
	CodeFieldRemoved ViolationCode = "field_removed"
	// A property the old schema did not know is now required
	CodeFieldAddedRequired ViolationCode = "field_added_required"
	// A previously optional property is now required
	CodeFieldBecameRequired ViolationCode = "field_became_required"
	// An enum lost a value the old schema accepted
	CodeEnumVariantRemoved ViolationCode = "enum_variant_removed"
	// A tagged union lost a case the old schema accepted
	CodeUnionCaseRemoved ViolationCode = "union_case_removed"
	// A node's accepted value shape changed or narrowed
	CodeTypeChanged ViolationCode = "type_changed"
	// An object that accepted unnamed properties no longer does
	CodeAdditionalPropsNarrowed ViolationCode = "additional_properties_narrowed"
)

// Violation is one backward-compatibility break, located by the dotted path
// of the schema node it was found at
type Violation struct {
	Code    ViolationCode `json:"code"`
	Path    string        `json:"path"`
	Message string        `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("[%s] %s: %s", v.Code, v.Path, v.Message)
}

// Result is the complete outcome of one comparison
type Result struct {
	OldVersion string      `json:"old_version"`
	NewVersion string      `json:"new_version"`
	Violations []Violation `json:"violations,omitempty"`
}

// Compatible reports whether no violations were found
func (r *Result) Compatible() bool {
	return len(r.Violations) == 0
}

type checker struct {
	oldDoc *metaschema.SchemaDocument
	newDoc *metaschema.SchemaDocument
	// visited pairs of (old ref, new ref), so recursive definitions are
	// compared exactly once
	visited    map[string]bool
	violations []Violation
}

// Compare walks the two documents in lockstep from their roots, comparing
// only nodes reachable from the old root - an unreachable old definition
// cannot invalidate any old document, so it cannot block a release.
func Compare(ctx context.Context, oldDoc, newDoc *metaschema.SchemaDocument) (*Result, error) {
	if ctx.Err() != nil {
		return nil, i18n.NewError(ctx, scribemsgs.MsgContextCanceled)
	}
	if oldDoc.Defs == nil || newDoc.Defs == nil {
		return nil, i18n.NewError(ctx, scribemsgs.MsgCompatDocumentNilDefs)
	}
	oldRoot, ok := strings.CutPrefix(oldDoc.Ref, metaschema.DefsRefPrefix)
	if !ok || oldDoc.Defs[oldRoot] == nil {
		return nil, i18n.NewError(ctx, scribemsgs.MsgCompatMissingRootDef, oldDoc.Ref)
	}
	newRoot, ok := strings.CutPrefix(newDoc.Ref, metaschema.DefsRefPrefix)
	if !ok || newDoc.Defs[newRoot] == nil {
		return nil, i18n.NewError(ctx, scribemsgs.MsgCompatMissingRootDef, newDoc.Ref)
	}

	c := &checker{
		oldDoc:  oldDoc,
		newDoc:  newDoc,
		visited: map[string]bool{},
	}
	c.compareNode(oldRoot, oldDoc.Defs[oldRoot], newDoc.Defs[newRoot])

	result := &Result{
		OldVersion: oldDoc.SchemaVersion,
		NewVersion: newDoc.SchemaVersion,
		Violations: c.violations,
	}
	log.L(ctx).Infof("Compared schema %s against %s: %d violations", oldDoc.SchemaVersion, newDoc.SchemaVersion, len(result.Violations))
	return result, nil
}

func (c *checker) violate(code ViolationCode, path, format string, args ...interface{}) {
	c.violations = append(c.violations, Violation{
		Code:    code,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	})
}

// resolve chases a reference edge to its definition in the given arena.
// Generated documents only ever nest one level of reference, so a single
// chase is sufficient.
func resolve(defs map[string]*abi.TypeSchema, node *abi.TypeSchema) (*abi.TypeSchema, string, bool) {
	name, ok := node.RefName(metaschema.DefsRefPrefix)
	if !ok {
		return node, "", true
	}
	target := defs[name]
	if target == nil {
		return nil, name, false
	}
	return target, name, true
}

func (c *checker) compareNode(path string, oldNode, newNode *abi.TypeSchema) {
	oldResolved, oldName, ok := resolve(c.oldDoc.Defs, oldNode)
	if !ok {
		// Malformed old document rather than an incompatibility - nothing
		// useful to compare underneath
		return
	}
	newResolved, newName, ok := resolve(c.newDoc.Defs, newNode)
	if !ok {
		c.violate(CodeDefinitionRemoved, path, "definition '%s' is referenced but no longer defined", newName)
		return
	}
	if oldName != "" && newName != "" {
		pairKey := oldName + "\x00" + newName
		if c.visited[pairKey] {
			return
		}
		c.visited[pairKey] = true
	}

	// A new node with no constraints accepts everything the old one did
	if isUnconstrained(newResolved) {
		return
	}
	if isUnconstrained(oldResolved) {
		c.violate(CodeTypeChanged, path, "previously unconstrained value now requires %s", describeNode(newResolved))
		return
	}

	if len(oldResolved.OneOf) > 0 || len(newResolved.OneOf) > 0 {
		c.compareUnions(path, oldResolved, newResolved)
		return
	}

	if oldResolved.Type != "" && newResolved.Type != "" && oldResolved.Type != newResolved.Type {
		c.violate(CodeTypeChanged, path, "type changed from '%s' to '%s'", oldResolved.Type, newResolved.Type)
		return
	}

	c.compareValues(path, oldResolved, newResolved)

	if oldResolved.Type == "object" {
		c.compareObjects(path, oldResolved, newResolved)
	}
	if oldResolved.Items != nil && newResolved.Items != nil {
		c.compareNode(path+"[]", oldResolved.Items, newResolved.Items)
	}
}

// compareValues checks the enum/const value constraints: every value the old
// node accepted must still be accepted
func (c *checker) compareValues(path string, oldNode, newNode *abi.TypeSchema) {
	accepts := func(value string) bool {
		if newNode.Const != "" {
			return newNode.Const == value
		}
		if len(newNode.Enum) > 0 {
			for _, v := range newNode.Enum {
				if v == value {
					return true
				}
			}
			return false
		}
		return true
	}

	if oldNode.Const != "" {
		if !accepts(oldNode.Const) {
			c.violate(CodeTypeChanged, path, "constant value '%s' is no longer accepted", oldNode.Const)
		}
		return
	}
	for _, value := range oldNode.Enum {
		if !accepts(value) {
			c.violate(CodeEnumVariantRemoved, path, "enum value '%s' was removed", value)
		}
	}
	if len(oldNode.Enum) == 0 && (newNode.Const != "" || len(newNode.Enum) > 0) {
		c.violate(CodeTypeChanged, path, "previously unrestricted value now limited to %s", describeNode(newNode))
	}
}

func (c *checker) compareObjects(path string, oldNode, newNode *abi.TypeSchema) {
	oldRequired := stringSet(oldNode.Required)

	// New required properties must have been required before
	for _, name := range newNode.Required {
		if oldRequired[name] {
			continue
		}
		fieldPath := path + "." + name
		if _, known := oldNode.Properties[name]; known {
			c.violate(CodeFieldBecameRequired, fieldPath, "optional property '%s' is now required", name)
		} else {
			c.violate(CodeFieldAddedRequired, fieldPath, "new property '%s' is required", name)
		}
	}

	// Old properties must survive (when the new object is closed) and their
	// schemas must remain compatible
	oldPropNames := make([]string, 0, len(oldNode.Properties))
	for name := range oldNode.Properties {
		oldPropNames = append(oldPropNames, name)
	}
	sort.Strings(oldPropNames)
	for _, name := range oldPropNames {
		fieldPath := path + "." + name
		newProp, ok := newNode.Properties[name]
		if !ok {
			if newNode.AdditionalProperties.IsClosed() {
				c.violate(CodeFieldRemoved, fieldPath, "property '%s' was removed from a closed object", name)
			}
			continue
		}
		c.compareNode(fieldPath, oldNode.Properties[name], newProp)
	}

	// Unnamed properties the old schema accepted must still be accepted
	oldAP, newAP := oldNode.AdditionalProperties, newNode.AdditionalProperties
	if !oldAP.IsClosed() && newAP.IsClosed() {
		c.violate(CodeAdditionalPropsNarrowed, path+".*", "unnamed properties are no longer accepted")
		return
	}
	if oldAP != nil && oldAP.Schema != nil {
		switch {
		case newAP == nil || (newAP.Allowed != nil && *newAP.Allowed):
			// Widened to anything
		case newAP.Schema != nil:
			c.compareNode(path+".*", oldAP.Schema, newAP.Schema)
		}
	}
}

// compareUnions matches oneOf branches by the const value of their tag
// property. A branch the old schema accepted with no counterpart in the new
// schema is a removal; new-only branches are a compatible widening.
func (c *checker) compareUnions(path string, oldNode, newNode *abi.TypeSchema) {
	if len(oldNode.OneOf) == 0 || len(newNode.OneOf) == 0 {
		c.violate(CodeTypeChanged, path, "node changed between a union and a non-union shape")
		return
	}
	newByTag := map[string]*abi.TypeSchema{}
	for _, branch := range newNode.OneOf {
		if tag, ok := branchTag(branch); ok {
			newByTag[tag] = branch
		}
	}
	for i, branch := range oldNode.OneOf {
		tag, ok := branchTag(branch)
		if !ok {
			// Untagged branches match positionally
			if i < len(newNode.OneOf) {
				c.compareNode(fmt.Sprintf("%s{%d}", path, i), branch, newNode.OneOf[i])
			} else {
				c.violate(CodeUnionCaseRemoved, path, "untagged union case %d was removed", i)
			}
			continue
		}
		newBranch, found := newByTag[tag]
		if !found {
			c.violate(CodeUnionCaseRemoved, path, "union case '%s' was removed", tag)
			continue
		}
		c.compareNode(fmt.Sprintf("%s{%s}", path, tag), branch, newBranch)
	}
}

// branchTag finds the const-constrained property that discriminates a union
// branch, favouring a deterministic pick if several exist
func branchTag(branch *abi.TypeSchema) (string, bool) {
	names := make([]string, 0, len(branch.Properties))
	for name := range branch.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if prop := branch.Properties[name]; prop != nil && prop.Const != "" {
			return prop.Const, true
		}
	}
	return "", false
}

func isUnconstrained(node *abi.TypeSchema) bool {
	return node.Type == "" && node.Const == "" &&
		len(node.Enum) == 0 && len(node.OneOf) == 0 &&
		len(node.Properties) == 0 && node.Items == nil &&
		!node.AdditionalProperties.IsClosed()
}

func describeNode(node *abi.TypeSchema) string {
	switch {
	case node.Const != "":
		return fmt.Sprintf("constant '%s'", node.Const)
	case len(node.Enum) > 0:
		return fmt.Sprintf("one of [%s]", strings.Join(node.Enum, ", "))
	case node.Type != "":
		return fmt.Sprintf("type '%s'", node.Type)
	default:
		return "a restricted shape"
	}
}

func stringSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
