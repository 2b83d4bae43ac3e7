package chunker

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	maxFilenameLength = 255
	unnamedFile       = "unnamed_file"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// ContentHash is the storage key of a chunk: identical text from the same
// file always maps to the same id.
func ContentHash(filename, text string) string {
	sum := sha256.Sum256([]byte(filename + ":" + strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])
}

// DocumentID identifies one upload event.
func DocumentID(filename string, uploadTime time.Time) string {
	sum := sha256.Sum256([]byte(filename + ":" + uploadTime.UTC().Format(time.RFC3339Nano)))
	return "doc_" + hex.EncodeToString(sum[:])[:12]
}

// SanitizeFilename keeps filenames safe for metadata and hashing.
func SanitizeFilename(name string) string {
	name = unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(name), "_")
	if name == "" {
		return unnamedFile
	}
	if len(name) <= maxFilenameLength {
		return name
	}
	ext := filepath.Ext(name)
	if len(ext) >= maxFilenameLength {
		return name[:maxFilenameLength]
	}
	return name[:maxFilenameLength-len(ext)] + ext
}
