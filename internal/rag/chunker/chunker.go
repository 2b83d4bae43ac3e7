package chunker

import (
	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/m-mizutani/goerr/v2"
)

type Config struct {
	ChunkSize int
	Overlap   int
}

// Chunker splits documents into overlapping token windows.
type Chunker struct {
	tok  Tokenizer
	size int
	step int
}

// New validates cfg up front: an overlap that reaches the chunk size would
// never advance the window.
func New(tok Tokenizer, cfg Config) (*Chunker, error) {
	if tok == nil {
		return nil, goerr.Wrap(contractModel.ErrConfiguration, "tokenizer is required")
	}
	if cfg.ChunkSize <= 0 || cfg.Overlap < 0 || cfg.Overlap >= cfg.ChunkSize {
		return nil, goerr.Wrap(contractModel.ErrConfiguration, "invalid chunk window",
			goerr.V("chunk_size", cfg.ChunkSize), goerr.V("overlap", cfg.Overlap))
	}
	return &Chunker{tok: tok, size: cfg.ChunkSize, step: cfg.ChunkSize - cfg.Overlap}, nil
}

// Encode exposes the tokenizer so callers can count and split with one pass.
func (c *Chunker) Encode(text string) []int {
	return c.tok.Encode(text)
}

// Split returns the windows of text in order. Chunk ids are left empty; they
// are assigned once dedup has decided which chunks get stored.
func (c *Chunker) Split(text, filename, documentID string) []contractModel.Chunk {
	return c.SplitTokens(c.tok.Encode(text), filename, documentID)
}

func (c *Chunker) SplitTokens(tokens []int, filename, documentID string) []contractModel.Chunk {
	var chunks []contractModel.Chunk
	for start := 0; start < len(tokens); start += c.step {
		end := min(start+c.size, len(tokens))
		window := c.tok.Decode(tokens[start:end])
		chunks = append(chunks, contractModel.Chunk{
			Text:        window,
			Filename:    filename,
			DocumentID:  documentID,
			ChunkIndex:  len(chunks),
			TokenCount:  end - start,
			StartToken:  start,
			EndToken:    end,
			ContentHash: ContentHash(filename, window),
		})
		if end == len(tokens) {
			break
		}
	}
	return chunks
}
