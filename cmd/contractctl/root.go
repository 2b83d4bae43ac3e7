package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/akolanti/ContractRAG/internal/bootstrap"
	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/rag"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"
)

var (
	configPath string
	backend    string

	ragService rag.Service

	// buildService is swapped out in tests.
	buildService = func(ctx context.Context, settings config.Settings) (rag.Service, error) {
		app, err := bootstrap.Build(ctx, settings)
		if err != nil {
			return nil, err
		}
		return app.Service, nil
	}
)

var rootCmd = &cobra.Command{
	Use:   "contractctl",
	Short: "Upload contracts and analyze them for risk",
	Long: `contractctl runs the contract RAG pipeline without the HTTP API.

Settings come from --config (default config.yaml, optional) and the
environment; a .env file in the working directory is loaded first.
Output is JSON on stdout, logs go to stderr.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultSettingsPath, "settings file")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "vector store backend: qdrant, pgvector or memory")
}

func setup(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger_i.InitStderr(settings.LogLevel())

	if backend != "" {
		settings.VectorStore.Backend = backend
	}

	svc, err := buildService(cmd.Context(), *settings)
	if err != nil {
		return goerr.Wrap(err, "failed to start pipeline", goerr.V("backend", settings.VectorStore.Backend))
	}
	ragService = svc
	return nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode output")
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
