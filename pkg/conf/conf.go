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

package conf

import (
	"context"
	"os"

	"github.com/aurelian-io/scribe/pkg/confutil"
	"github.com/aurelian-io/scribe/pkg/scribemsgs"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"sigs.k8s.io/yaml" // the k8s YAML parser handles json tags, so one set of tags serves both encodings
)

type ScribeConfig struct {
	Log   LogConfig   `json:"log"`
	Store StoreConfig `json:"store"`
}

type StoreConfig struct {
	// the directory holding the generated schema documents (current + frozen releases)
	Dir *string `json:"dir"`
}

var StoreDefaults = &StoreConfig{
	Dir: confutil.P("abi/schemas"),
}

func ReadAndParseYAMLFile(ctx context.Context, filePath string, config interface{}) error {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return i18n.NewError(ctx, scribemsgs.MsgConfigFileMissing, filePath)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return i18n.NewError(ctx, scribemsgs.MsgConfigFileReadError, filePath, err.Error())
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return i18n.NewError(ctx, scribemsgs.MsgConfigFileParseError, filePath, err.Error())
	}

	return nil
}
