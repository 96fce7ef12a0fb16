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

// Package schemastore keeps generated schema documents on disk: a mutable
// "current" document regenerated from code, and an append-only set of frozen
// per-version documents that released format versions are diffed against.
package schemastore

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/aurelian-io/scribe/pkg/abi"
	"github.com/aurelian-io/scribe/pkg/compat"
	"github.com/aurelian-io/scribe/pkg/conf"
	"github.com/aurelian-io/scribe/pkg/confutil"
	"github.com/aurelian-io/scribe/pkg/log"
	"github.com/aurelian-io/scribe/pkg/metaschema"
	"github.com/aurelian-io/scribe/pkg/scribemsgs"
	"github.com/hyperledger/firefly-common/pkg/i18n"
)

const (
	currentFileName = "abi_schema_current.json"
	releasedPrefix  = "abi_schema_"
	releasedSuffix  = ".json"
)

type Store struct {
	dir string
}

func NewStore(ctx context.Context, storeConf *conf.StoreConfig) (*Store, error) {
	dir := confutil.StringNotEmpty(storeConf.Dir, *conf.StoreDefaults.Dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, i18n.WrapError(ctx, err, scribemsgs.MsgStoreDirCreateFailed, dir, err.Error())
	}
	return &Store{dir: dir}, nil
}

func (s *Store) currentPath() string {
	return filepath.Join(s.dir, currentFileName)
}

func (s *Store) releasedPath(version string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s%s%s", releasedPrefix, version, releasedSuffix))
}

// GenerateCurrent generates the schema document for the current format
// version twice, and fails if the two runs differ - non-determinism here
// would make every schema diff meaningless, so it is treated as fatal rather
// than tolerated.
func (s *Store) GenerateCurrent(ctx context.Context) (*metaschema.SchemaDocument, []byte, error) {
	doc, err := metaschema.GenerateForVersion(ctx, abi.SchemaVersion)
	if err != nil {
		return nil, nil, err
	}
	data, err := doc.CanonicalBytes(ctx)
	if err != nil {
		return nil, nil, err
	}
	checkDoc, err := metaschema.GenerateForVersion(ctx, abi.SchemaVersion)
	if err != nil {
		return nil, nil, err
	}
	checkData, err := checkDoc.CanonicalBytes(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !bytes.Equal(data, checkData) {
		return nil, nil, i18n.NewError(ctx, scribemsgs.MsgMetaschemaNonDeterministic, abi.SchemaVersion)
	}
	return doc, data, nil
}

// WriteCurrent regenerates the current schema document and writes it. Unlike
// frozen documents the current one is freely overwritten - it tracks the code.
func (s *Store) WriteCurrent(ctx context.Context) ([]byte, error) {
	_, data, err := s.GenerateCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(s.currentPath(), data, 0644); err != nil {
		return nil, i18n.WrapError(ctx, err, scribemsgs.MsgStoreWriteFailed, s.currentPath(), err.Error())
	}
	log.L(ctx).Infof("Wrote current schema document for version %s (%d bytes)", abi.SchemaVersion, len(data))
	return data, nil
}

func (s *Store) readDocument(ctx context.Context, path string) (*metaschema.SchemaDocument, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, i18n.WrapError(ctx, err, scribemsgs.MsgStoreReadFailed, path, err.Error())
	}
	doc, err := metaschema.ParseSchemaDocument(ctx, data)
	if err != nil {
		return nil, nil, err
	}
	return doc, data, nil
}

// ReadCurrent reads the stored current schema document
func (s *Store) ReadCurrent(ctx context.Context) (*metaschema.SchemaDocument, []byte, error) {
	if _, err := os.Stat(s.currentPath()); os.IsNotExist(err) {
		return nil, nil, i18n.NewError(ctx, scribemsgs.MsgStoreNoCurrent, s.currentPath())
	}
	return s.readDocument(ctx, s.currentPath())
}

// ReadReleased reads a frozen schema document by version
func (s *Store) ReadReleased(ctx context.Context, version string) (*metaschema.SchemaDocument, []byte, error) {
	return s.readDocument(ctx, s.releasedPath(version))
}

// VerifyCurrent checks the stored current document byte-for-byte against a
// fresh generation, which is how CI catches a format change committed without
// regenerating the document
func (s *Store) VerifyCurrent(ctx context.Context) error {
	_, stored, err := s.ReadCurrent(ctx)
	if err != nil {
		return err
	}
	_, fresh, err := s.GenerateCurrent(ctx)
	if err != nil {
		return err
	}
	if !bytes.Equal(stored, fresh) {
		return i18n.NewError(ctx, scribemsgs.MsgStoreCurrentStale, s.currentPath())
	}
	return nil
}

// Freeze copies the current document into the append-only released set under
// the requested version. A version can only ever be frozen once - the frozen
// set is the historical record the compatibility gate relies on.
func (s *Store) Freeze(ctx context.Context, version string) error {
	if _, err := semver.StrictNewVersion(version); err != nil {
		return i18n.NewError(ctx, scribemsgs.MsgStoreInvalidVersion, version)
	}
	doc, data, err := s.ReadCurrent(ctx)
	if err != nil {
		return err
	}
	if doc.SchemaVersion != version {
		return i18n.NewError(ctx, scribemsgs.MsgStoreVersionMismatch, version, doc.SchemaVersion)
	}

	// O_EXCL enforces the append-only property at the filesystem level
	path := s.releasedPath(version)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return i18n.NewError(ctx, scribemsgs.MsgStoreVersionFrozen, version)
		}
		return i18n.WrapError(ctx, err, scribemsgs.MsgStoreWriteFailed, path, err.Error())
	}
	_, writeErr := f.Write(data)
	closeErr := f.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		return i18n.WrapError(ctx, writeErr, scribemsgs.MsgStoreWriteFailed, path, writeErr.Error())
	}
	log.L(ctx).Infof("Froze schema document for version %s", version)
	return nil
}

// ListReleased returns the frozen versions in ascending semver order
func (s *Store) ListReleased(ctx context.Context) ([]*semver.Version, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, i18n.WrapError(ctx, err, scribemsgs.MsgStoreReadFailed, s.dir, err.Error())
	}
	var versions []*semver.Version
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == currentFileName ||
			!strings.HasPrefix(name, releasedPrefix) || !strings.HasSuffix(name, releasedSuffix) {
			continue
		}
		raw := strings.TrimSuffix(strings.TrimPrefix(name, releasedPrefix), releasedSuffix)
		v, err := semver.StrictNewVersion(raw)
		if err != nil {
			log.L(ctx).Warnf("Ignoring unparseable schema document file '%s'", name)
			continue
		}
		versions = append(versions, v)
	}
	sort.Sort(semver.Collection(versions))
	return versions, nil
}

// LatestReleased returns the highest frozen version
func (s *Store) LatestReleased(ctx context.Context) (*semver.Version, error) {
	versions, err := s.ListReleased(ctx)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, i18n.NewError(ctx, scribemsgs.MsgStoreNoReleases, s.dir)
	}
	return versions[len(versions)-1], nil
}

// CheckCompatibility diffs a fresh generation of the current document against
// the latest frozen release. Incompatible changes are allowed only together
// with a sufficient schema version bump - major, or minor while the major is
// still 0. Anything less (patch bump, unchanged, or a version at or below the
// release) blocks, and the result carrying the full violation list is
// returned alongside the error.
func (s *Store) CheckCompatibility(ctx context.Context) (*compat.Result, error) {
	latest, err := s.LatestReleased(ctx)
	if err != nil {
		return nil, err
	}
	releasedDoc, releasedData, err := s.ReadReleased(ctx, latest.String())
	if err != nil {
		return nil, err
	}
	currentDoc, currentData, err := s.GenerateCurrent(ctx)
	if err != nil {
		return nil, err
	}

	if bytes.Equal(releasedData, currentData) {
		return &compat.Result{
			OldVersion: releasedDoc.SchemaVersion,
			NewVersion: currentDoc.SchemaVersion,
		}, nil
	}

	result, err := compat.Compare(ctx, releasedDoc, currentDoc)
	if err != nil {
		return nil, err
	}
	if !result.Compatible() {
		current, err := semver.StrictNewVersion(currentDoc.SchemaVersion)
		if err != nil {
			return nil, i18n.NewError(ctx, scribemsgs.MsgStoreInvalidVersion, currentDoc.SchemaVersion)
		}
		released, err := semver.StrictNewVersion(releasedDoc.SchemaVersion)
		if err != nil {
			return nil, i18n.NewError(ctx, scribemsgs.MsgStoreInvalidVersion, releasedDoc.SchemaVersion)
		}
		if !breakingBumpAllowed(released, current) {
			return result, i18n.NewError(ctx, scribemsgs.MsgCompatReleaseBlocked, len(result.Violations), currentDoc.SchemaVersion, releasedDoc.SchemaVersion)
		}
	}
	return result, nil
}

// breakingBumpAllowed applies the semver rule for breaking format changes:
// the major version must increase, except while the major is still 0, where
// a minor increase carries the same meaning.
func breakingBumpAllowed(released, current *semver.Version) bool {
	if current.Major() != released.Major() {
		return current.Major() > released.Major()
	}
	return released.Major() == 0 && current.Minor() > released.Minor()
}
