package qdrantDB

import (
	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/qdrant/go-client/qdrant"
)

func toPayload(m contractModel.ChunkMetadata) map[string]any {
	return map[string]any{
		"doc_id":        m.DocumentID,
		"chunk_id":      m.ChunkID,
		"filename":      m.Filename,
		"text":          m.Text,
		"chunk_index":   m.ChunkIndex,
		"token_count":   m.TokenCount,
		"jurisdiction":  m.Jurisdiction,
		"contract_type": m.ContractType,
		"uploaded_by":   m.UploadedBy,
		"source_url":    m.SourceURL,
		"upload_date":   m.UploadDate,
		"content_hash":  m.ContentHash,
	}
}

func fromPayload(p map[string]*qdrant.Value) contractModel.ChunkMetadata {
	return contractModel.ChunkMetadata{
		DocumentID:   p["doc_id"].GetStringValue(),
		ChunkID:      p["chunk_id"].GetStringValue(),
		Filename:     p["filename"].GetStringValue(),
		Text:         p["text"].GetStringValue(),
		ChunkIndex:   int(p["chunk_index"].GetIntegerValue()),
		TokenCount:   int(p["token_count"].GetIntegerValue()),
		Jurisdiction: p["jurisdiction"].GetStringValue(),
		ContractType: p["contract_type"].GetStringValue(),
		UploadedBy:   p["uploaded_by"].GetStringValue(),
		SourceURL:    p["source_url"].GetStringValue(),
		UploadDate:   p["upload_date"].GetStringValue(),
		ContentHash:  p["content_hash"].GetStringValue(),
	}
}
