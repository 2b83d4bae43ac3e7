package contractModel

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
)

// Error classes shared by every layer. Check them with errors.Is.
var (
	ErrConfiguration     = goerr.New("invalid configuration")
	ErrTransientProvider = goerr.New("provider temporarily failed")
	ErrStoreUnavailable  = goerr.New("vector store unavailable")
	ErrMalformedResponse = goerr.New("malformed generation response")
	ErrEmbeddingMismatch = goerr.New("embedding response does not match request")
	ErrInvalidUpload     = goerr.New("invalid upload")
)

// StoreUnavailableMessage is what callers see for any store outage.
const StoreUnavailableMessage = "The knowledge database is temporarily unavailable. Please try again shortly."

// Classify joins cause with class so errors.Is matches both.
// Wrap the result with goerr.Wrap to add context.
func Classify(class, cause error) error {
	if cause == nil {
		return class
	}
	return errors.Join(class, cause)
}

// IsRetryable reports whether the caller may retry the whole operation.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransientProvider) || errors.Is(err, ErrStoreUnavailable)
}
