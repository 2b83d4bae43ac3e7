package ingest

import (
	"context"
	"time"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/akolanti/ContractRAG/internal/metrics"
	"github.com/akolanti/ContractRAG/internal/rag/chunker"
	"github.com/akolanti/ContractRAG/internal/rag/dedup"
	"github.com/akolanti/ContractRAG/internal/rag/embedding"
	"github.com/akolanti/ContractRAG/internal/rag/vectorDB"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"github.com/m-mizutani/goerr/v2"
)

const (
	msgEmptyDocument  = "Empty document - nothing to index"
	msgAlreadyExists  = "Document already exists - no new chunks added"
	msgAllDuplicates  = "All chunks were duplicates - no new vectors added"
	msgDocumentStored = "Document indexed"
)

type Config struct {
	IndexName         string
	EmbeddingModel    string
	UpsertBatchSize   int
	MetadataTextLimit int
	MaxUploadBytes    int
}

func DefaultConfig() Config {
	return Config{
		IndexName:         config.IndexName,
		UpsertBatchSize:   config.UpsertBatchSize,
		MetadataTextLimit: config.MetadataTextLimit,
		MaxUploadBytes:    config.MaxUploadBytes,
	}
}

// Pipeline runs the write path: chunk, drop known hashes, embed, drop near
// duplicates, then upsert what is left.
type Pipeline struct {
	chunker  *chunker.Chunker
	hashes   *dedup.HashDeduplicator
	similar  *dedup.SimilarityDeduplicator
	embedder embedding.Embedder
	store    vectorDB.Store
	cfg      Config
	now      func() time.Time
	logger   *logger_i.Logger
}

func NewPipeline(ch *chunker.Chunker, hashes *dedup.HashDeduplicator, similar *dedup.SimilarityDeduplicator,
	embedder embedding.Embedder, store vectorDB.Store, cfg Config) *Pipeline {
	return &Pipeline{
		chunker:  ch,
		hashes:   hashes,
		similar:  similar,
		embedder: embedder,
		store:    store,
		cfg:      cfg,
		now:      time.Now,
		logger:   logger_i.NewLogger("Document Ingestion"),
	}
}

// WithClock replaces the upload timestamp source.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Upload indexes one document. On failure the returned result is the
// structured error callers render, and err carries the classified cause.
// A failed upsert may leave earlier batches committed.
func (p *Pipeline) Upload(ctx context.Context, req contractModel.UploadRequest) (contractModel.UploadResult, error) {
	filename := chunker.SanitizeFilename(req.Filename)
	log := p.logger.WithTrace(ctx).With("filename", filename)

	if p.cfg.MaxUploadBytes > 0 && len(req.Text) > p.cfg.MaxUploadBytes {
		err := goerr.Wrap(contractModel.ErrInvalidUpload, "document too large",
			goerr.V("bytes", len(req.Text)), goerr.V("limit", p.cfg.MaxUploadBytes))
		return contractModel.UploadErrorResult(filename, err), err
	}

	uploadedAt := p.now()
	result := contractModel.UploadResult{
		Status:         contractModel.UploadStatusSuccess,
		Filename:       filename,
		DocumentID:     chunker.DocumentID(filename, uploadedAt),
		IndexName:      p.cfg.IndexName,
		EmbeddingModel: p.cfg.EmbeddingModel,
	}

	tokens := p.chunker.Encode(req.Text)
	result.TotalTokens = len(tokens)
	chunks := p.chunker.SplitTokens(tokens, filename, result.DocumentID)
	log.Debug("Document chunked", "tokens", len(tokens), "chunks", len(chunks))
	if len(chunks) == 0 {
		result.Message = msgEmptyDocument
		return result, nil
	}

	fresh, skippedHash, err := p.dropKnownHashes(ctx, chunks)
	if err != nil {
		log.Err("Hash lookup failed", err)
		return contractModel.UploadErrorResult(filename, err), err
	}
	result.ChunksSkippedHash = skippedHash
	if len(fresh) == 0 {
		result.Message = msgAlreadyExists
		metrics.CaptureUploadMetrics(0, skippedHash, 0)
		return result, nil
	}

	texts := make([]string, len(fresh))
	for i, c := range fresh {
		texts[i] = c.Text
	}
	vectors, err := p.embedder.BatchEmbedding(ctx, texts)
	if err != nil {
		log.Err("Embedding failed", err)
		return contractModel.UploadErrorResult(filename, err), err
	}

	dups, err := p.similar.DuplicateIndices(ctx, vectors)
	if err != nil {
		log.Err("Similarity check failed", err)
		return contractModel.UploadErrorResult(filename, err), err
	}
	result.ChunksSkippedSimilarity = len(dups)

	records := p.buildRecords(fresh, vectors, dups, req, uploadedAt)
	if len(records) == 0 {
		result.Message = msgAllDuplicates
		metrics.CaptureUploadMetrics(0, skippedHash, len(dups))
		return result, nil
	}

	written, err := vectorDB.UpsertInBatches(ctx, p.store, records, p.cfg.UpsertBatchSize)
	if err != nil {
		log.Err("Upsert failed", err, "written", written)
		return contractModel.UploadErrorResult(filename, err), err
	}

	result.ChunksCreated = written
	result.Message = msgDocumentStored
	metrics.CaptureUploadMetrics(written, skippedHash, len(dups))
	log.Info("Document indexed", "doc_id", result.DocumentID, "created", written,
		"skipped_hash", skippedHash, "skipped_similarity", len(dups))
	return result, nil
}

// dropKnownHashes removes chunks whose hash is already stored, and repeats
// of a hash within this document.
func (p *Pipeline) dropKnownHashes(ctx context.Context, chunks []contractModel.Chunk) ([]contractModel.Chunk, int, error) {
	hashes := make([]string, 0, len(chunks))
	seen := make(map[string]struct{}, len(chunks))
	for _, c := range chunks {
		if _, ok := seen[c.ContentHash]; !ok {
			seen[c.ContentHash] = struct{}{}
			hashes = append(hashes, c.ContentHash)
		}
	}

	existing, err := p.hashes.ExistingHashes(ctx, hashes)
	if err != nil {
		return nil, 0, err
	}
	stored := make(map[string]struct{}, len(existing))
	for _, h := range existing {
		stored[h] = struct{}{}
	}

	fresh := make([]contractModel.Chunk, 0, len(chunks))
	taken := make(map[string]struct{}, len(chunks))
	for _, c := range chunks {
		if _, ok := stored[c.ContentHash]; ok {
			continue
		}
		if _, ok := taken[c.ContentHash]; ok {
			continue
		}
		taken[c.ContentHash] = struct{}{}
		fresh = append(fresh, c)
	}
	return fresh, len(chunks) - len(fresh), nil
}

// buildRecords numbers the surviving chunks chunk_001, chunk_002, ... in
// document order.
func (p *Pipeline) buildRecords(fresh []contractModel.Chunk, vectors [][]float32, dups map[int]float32,
	req contractModel.UploadRequest, uploadedAt time.Time) []contractModel.VectorRecord {
	records := make([]contractModel.VectorRecord, 0, len(fresh)-len(dups))
	for i, c := range fresh {
		if _, dup := dups[i]; dup {
			continue
		}
		c.ChunkID = contractModel.FormatChunkID(len(records) + 1)
		records = append(records, contractModel.VectorRecord{
			ID:       c.ContentHash,
			Values:   vectors[i],
			Metadata: contractModel.NewMetadata(c, req, uploadedAt, p.cfg.MetadataTextLimit),
		})
	}
	return records
}
