package main

import (
	"strings"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"
)

var (
	askJurisdiction string
	askContractType string
	retrieveK       int
)

var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Analyze stored contracts for a question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.TrimSpace(args[0])
		if query == "" {
			return goerr.New("query is empty")
		}
		res, err := ragService.Ask(cmd.Context(), contractModel.AskRequest{
			Query:        query,
			Jurisdiction: askJurisdiction,
			ContractType: askContractType,
		})
		if werr := writeJSON(cmd, res); werr != nil {
			return werr
		}
		return err
	},
}

var retrieveCmd = &cobra.Command{
	Use:   "retrieve <query>",
	Short: "Print the stored sections closest to a query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hits, err := ragService.Retrieve(cmd.Context(), args[0], retrieveK)
		if err != nil {
			return err
		}
		if hits == nil {
			hits = []contractModel.SearchHit{}
		}
		return writeJSON(cmd, hits)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vector index status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeJSON(cmd, ragService.IndexStats(cmd.Context()))
	},
}

func init() {
	askCmd.Flags().StringVar(&askJurisdiction, "jurisdiction", "", "governing jurisdiction")
	askCmd.Flags().StringVar(&askContractType, "contract-type", "", "kind of contract")
	retrieveCmd.Flags().IntVarP(&retrieveK, "top-k", "k", config.RetrievalTopK, "number of sections")
	rootCmd.AddCommand(askCmd, retrieveCmd, statsCmd)
}
