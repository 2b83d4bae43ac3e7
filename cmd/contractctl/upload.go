package main

import (
	"os"
	"path/filepath"

	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"
)

var uploadReq contractModel.UploadRequest

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Index a plain-text contract",
	Long: `Chunks the file, skips sections that are already stored or nearly
identical to stored ones, and indexes the rest. Prints the upload result.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	f := uploadCmd.Flags()
	f.StringVar(&uploadReq.Filename, "filename", "", "name used in citations (default: base name of <file>)")
	f.StringVar(&uploadReq.UploadedBy, "uploaded-by", "", "uploader recorded with each chunk")
	f.StringVar(&uploadReq.Jurisdiction, "jurisdiction", "", "governing jurisdiction")
	f.StringVar(&uploadReq.ContractType, "contract-type", "", "kind of contract, e.g. NDA")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	text, err := os.ReadFile(args[0])
	if err != nil {
		return goerr.Wrap(err, "failed to read contract", goerr.V("path", args[0]))
	}

	req := uploadReq
	req.Text = string(text)
	if req.Filename == "" {
		req.Filename = filepath.Base(args[0])
	}

	res, err := ragService.Upload(cmd.Context(), req)
	if werr := writeJSON(cmd, res); werr != nil {
		return werr
	}
	return err
}
