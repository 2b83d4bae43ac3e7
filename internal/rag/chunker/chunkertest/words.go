// Package chunkertest provides a deterministic tokenizer for tests: one token
// per whitespace-separated word.
package chunkertest

import (
	"fmt"
	"strings"
	"sync"
)

type WordTokenizer struct {
	mu    sync.Mutex
	ids   map[string]int
	words []string
}

func NewWordTokenizer() *WordTokenizer {
	return &WordTokenizer{ids: map[string]int{}}
}

func (w *WordTokenizer) Encode(text string) []int {
	w.mu.Lock()
	defer w.mu.Unlock()
	fields := strings.Fields(text)
	tokens := make([]int, len(fields))
	for i, f := range fields {
		id, ok := w.ids[f]
		if !ok {
			id = len(w.words)
			w.ids[f] = id
			w.words = append(w.words, f)
		}
		tokens[i] = id
	}
	return tokens
}

func (w *WordTokenizer) Decode(tokens []int) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(tokens))
	for i, id := range tokens {
		out[i] = w.words[id]
	}
	return strings.Join(out, " ")
}

// Document returns n distinct words prefixed with prefix, so every window of
// the document has a distinct hash.
func Document(prefix string, n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return strings.Join(words, " ")
}
