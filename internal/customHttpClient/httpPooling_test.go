package customHttpClient

import (
	"net/http"
	"testing"

	"github.com/akolanti/ContractRAG/internal/config"
)

func TestNewPooledClient(t *testing.T) {
	c := NewPooledClient()
	tr, ok := c.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("transport is %T", c.Transport)
	}
	if tr.MaxIdleConnsPerHost != config.MaxIdleConnsPerHost || tr.IdleConnTimeout != config.IdleConnTimeout {
		t.Errorf("pool settings not applied: %d %v", tr.MaxIdleConnsPerHost, tr.IdleConnTimeout)
	}
	if tr == http.DefaultTransport {
		t.Error("default transport must not be shared")
	}
	if c.Timeout != 0 {
		t.Error("client must not impose its own timeout")
	}
}
