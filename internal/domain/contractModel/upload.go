package contractModel

// UploadRequest is the caller-facing upload input. Only Text and Filename are required.
type UploadRequest struct {
	Text         string `json:"text"`
	Filename     string `json:"filename"`
	UploadedBy   string `json:"uploaded_by,omitempty"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
	ContractType string `json:"contract_type,omitempty"`
}

const (
	UploadStatusSuccess = "success"
	UploadStatusError   = "error"
)

// UploadResult reports what an upload stored and what it skipped.
type UploadResult struct {
	Status                  string `json:"status"`
	Filename                string `json:"filename,omitempty"`
	DocumentID              string `json:"document_id,omitempty"`
	ChunksCreated           int    `json:"chunks_created"`
	ChunksSkippedHash       int    `json:"chunks_skipped_hash"`
	ChunksSkippedSimilarity int    `json:"chunks_skipped_similarity"`
	TotalTokens             int    `json:"total_tokens"`
	IndexName               string `json:"index_name,omitempty"`
	EmbeddingModel          string `json:"embedding_model,omitempty"`
	Message                 string `json:"message,omitempty"`
	Error                   string `json:"error,omitempty"`
}

// UploadErrorResult is the structured failure callers render for an upload.
func UploadErrorResult(filename string, err error) UploadResult {
	msg := "Failed to upload contract: " + err.Error()
	if isStoreOutage(err) {
		msg = StoreUnavailableMessage
	}
	return UploadResult{
		Status:   UploadStatusError,
		Filename: filename,
		Error:    msg,
	}
}
