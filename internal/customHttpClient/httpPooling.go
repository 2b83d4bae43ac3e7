package customHttpClient

import (
	"net/http"

	"github.com/akolanti/ContractRAG/internal/config"
)

// NewPooledClient returns a client sharing one keep-alive pool, so the
// embedding and generation clients reuse connections to the same provider.
// Deadlines come from the callers' contexts, not from the client.
func NewPooledClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = config.MaxIdleConns
	transport.MaxIdleConnsPerHost = config.MaxIdleConnsPerHost
	transport.IdleConnTimeout = config.IdleConnTimeout
	return &http.Client{Transport: transport}
}
