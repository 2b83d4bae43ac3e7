package contractModel

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Chunk is one token window of an uploaded document.
type Chunk struct {
	Text        string `json:"text"`
	Filename    string `json:"filename"`
	DocumentID  string `json:"doc_id"`
	ChunkID     string `json:"chunk_id,omitempty"`
	ChunkIndex  int    `json:"chunk_index"`
	TokenCount  int    `json:"token_count"`
	StartToken  int    `json:"start_token"`
	EndToken    int    `json:"end_token"`
	ContentHash string `json:"content_hash"`
}

// FormatChunkID renders the 1-based position of a stored chunk.
func FormatChunkID(position int) string {
	return fmt.Sprintf("chunk_%03d", position)
}

const (
	DefaultJurisdiction = "unspecified"
	DefaultContractType = "unspecified"
	DefaultUploader     = "anonymous"
)

// ChunkMetadata is persisted next to every vector. Field names are read
// verbatim by downstream renderers.
type ChunkMetadata struct {
	DocumentID   string `json:"doc_id"`
	ChunkID      string `json:"chunk_id"`
	Filename     string `json:"filename"`
	Text         string `json:"text"`
	ChunkIndex   int    `json:"chunk_index"`
	TokenCount   int    `json:"token_count"`
	Jurisdiction string `json:"jurisdiction"`
	ContractType string `json:"contract_type"`
	UploadedBy   string `json:"uploaded_by"`
	SourceURL    string `json:"source_url"`
	UploadDate   string `json:"upload_date"`
	ContentHash  string `json:"content_hash"`
}

// VectorRecord is the unit written to a vector store. ID is the content hash.
type VectorRecord struct {
	ID       string        `json:"id"`
	Values   []float32     `json:"values"`
	Metadata ChunkMetadata `json:"metadata"`
}

// SearchHit is one nearest-neighbour result.
type SearchHit struct {
	ID       string        `json:"id"`
	Score    float32       `json:"score"`
	Metadata ChunkMetadata `json:"metadata"`
}

// NewMetadata builds the stored metadata for a chunk that survived dedup.
func NewMetadata(chunk Chunk, req UploadRequest, uploadedAt time.Time, limit int) ChunkMetadata {
	return ChunkMetadata{
		DocumentID:   chunk.DocumentID,
		ChunkID:      chunk.ChunkID,
		Filename:     chunk.Filename,
		Text:         TruncateText(chunk.Text, limit),
		ChunkIndex:   chunk.ChunkIndex,
		TokenCount:   chunk.TokenCount,
		Jurisdiction: orDefault(req.Jurisdiction, DefaultJurisdiction),
		ContractType: orDefault(req.ContractType, DefaultContractType),
		UploadedBy:   orDefault(req.UploadedBy, DefaultUploader),
		UploadDate:   uploadedAt.UTC().Format(time.RFC3339),
		ContentHash:  chunk.ContentHash,
	}
}

// TruncateText cuts s to at most limit characters without splitting a rune.
func TruncateText(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// IndexStats describes the live vector index.
type IndexStats struct {
	Status       string `json:"status"`
	TotalVectors uint64 `json:"total_vectors"`
	IndexName    string `json:"index_name"`
	Dimension    int    `json:"dimension,omitempty"`
	StorageType  string `json:"storage_type,omitempty"`
	Error        string `json:"error,omitempty"`
}

const (
	IndexConnected    = "connected"
	IndexDisconnected = "disconnected"
	IndexError        = "error"
)
