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

// scribe is the command line for the ABI tooling: generating and verifying
// the schema document for the current format version, freezing released
// versions, gating releases on backward compatibility, and working with
// contract ABI files.
package main

import (
	"fmt"
	"os"

	"github.com/aurelian-io/scribe/pkg/abi"
	"github.com/aurelian-io/scribe/pkg/conf"
	"github.com/aurelian-io/scribe/pkg/log"
	"github.com/aurelian-io/scribe/pkg/schemastore"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var configFile string
	var logLevel string
	cfg := &conf.ScribeConfig{}

	cmd := &cobra.Command{
		Use:           "scribe",
		Short:         "Versioned smart-contract ABI tooling",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				if err := conf.ReadAndParseYAMLFile(cmd.Context(), configFile, cfg); err != nil {
					return err
				}
			}
			log.InitConfig(&cfg.Log)
			if logLevel != "" {
				log.SetLevel(logLevel)
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVarP(&configFile, "config", "f", "", "YAML configuration file")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")

	cmd.AddCommand(
		generateCommand(cfg),
		verifyCommand(cfg),
		checkCommand(cfg),
		freezeCommand(cfg),
		validateCommand(),
		combineCommand(),
	)
	return cmd
}

func generateCommand(cfg *conf.ScribeConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate the schema document for the current format version and store it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := schemastore.NewStore(ctx, &cfg.Store)
			if err != nil {
				return err
			}
			if _, err := store.WriteCurrent(ctx); err != nil {
				return err
			}
			return nil
		},
	}
}

func verifyCommand(cfg *conf.ScribeConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verify the stored current schema document matches the code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := schemastore.NewStore(ctx, &cfg.Store)
			if err != nil {
				return err
			}
			if err := store.VerifyCurrent(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema document for version %s is up to date\n", abi.SchemaVersion)
			return nil
		},
	}
}

func checkCommand(cfg *conf.ScribeConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the current format against the latest frozen release for backward compatibility",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := schemastore.NewStore(ctx, &cfg.Store)
			if err != nil {
				return err
			}
			result, err := store.CheckCompatibility(ctx)
			if result != nil {
				for _, v := range result.Violations {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\n", v)
				}
			}
			if err != nil {
				return err
			}
			if result.Compatible() {
				fmt.Fprintf(cmd.OutOrStdout(), "Schema %s is backward compatible with release %s\n", result.NewVersion, result.OldVersion)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Schema %s has %d incompatible changes against release %s - allowed by the version bump\n",
					result.NewVersion, len(result.Violations), result.OldVersion)
			}
			return nil
		},
	}
}

func freezeCommand(cfg *conf.ScribeConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "freeze <version>",
		Short: "Freeze the current schema document as an immutable released version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := schemastore.NewStore(ctx, &cfg.Store)
			if err != nil {
				return err
			}
			return store.Freeze(ctx, args[0])
		},
	}
}

func validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <abi-file> ...",
		Short: "Validate contract ABI files, migrating legacy versions in memory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				root, err := abi.DecodeJSONAnyVersion(ctx, data)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: valid - contract '%s' with %d functions\n",
					path, root.Metadata.Name, len(root.Body.Functions))
			}
			return nil
		},
	}
}

func combineCommand() *cobra.Command {
	var output string
	var name string
	var contractVersion string

	cmd := &cobra.Command{
		Use:   "combine <chunk-file> ...",
		Short: "Combine per-compilation-unit ABI chunks into a single contract ABI document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			entries := make([]*abi.ChunkedAbiEntry, len(args))
			for i, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				entry, err := abi.DecodeChunkedEntryJSON(ctx, data)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				entries[i] = entry
			}
			combined, err := abi.CombineChunkedEntries(ctx, entries)
			if err != nil {
				return err
			}
			root, err := combined.IntoRoot(ctx, abi.AbiMetadata{
				Name:    name,
				Version: contractVersion,
			})
			if err != nil {
				return err
			}
			data, err := root.EncodeJSON(ctx)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(output, data, 0644)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the combined document to a file instead of stdout")
	cmd.Flags().StringVar(&name, "name", "", "contract name for the combined document metadata")
	cmd.Flags().StringVar(&contractVersion, "contract-version", "", "contract version for the combined document metadata")
	return cmd
}
