package chunker_test

import (
	"strings"
	"testing"
	"time"

	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/akolanti/ContractRAG/internal/rag/chunker"
	"github.com/akolanti/ContractRAG/internal/rag/chunker/chunkertest"
	"github.com/m-mizutani/gt"
)

func newChunker(t *testing.T, size, overlap int) (*chunker.Chunker, *chunkertest.WordTokenizer) {
	t.Helper()
	tok := chunkertest.NewWordTokenizer()
	c, err := chunker.New(tok, chunker.Config{ChunkSize: size, Overlap: overlap})
	gt.NoError(t, err).Required()
	return c, tok
}

func TestNew_RejectsInvalidWindow(t *testing.T) {
	testCases := []struct {
		name          string
		size, overlap int
	}{
		{"overlap equals size", 800, 800},
		{"overlap exceeds size", 100, 150},
		{"zero size", 0, 0},
		{"negative overlap", 10, -1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := chunker.New(chunkertest.NewWordTokenizer(), chunker.Config{ChunkSize: tc.size, Overlap: tc.overlap})
			gt.Error(t, err).Is(contractModel.ErrConfiguration)
		})
	}
}

func TestSplit_Windows(t *testing.T) {
	c, _ := newChunker(t, 800, 100)
	chunks := c.Split(chunkertest.Document("w", 2000), "msa.txt", "doc_1")

	gt.Array(t, chunks).Length(3).Required()
	wantStarts := []int{0, 700, 1400}
	wantCounts := []int{800, 800, 600}
	for i, ch := range chunks {
		gt.Value(t, ch.StartToken).Equal(wantStarts[i])
		gt.Value(t, ch.TokenCount).Equal(wantCounts[i])
		gt.Value(t, ch.EndToken).Equal(wantStarts[i] + wantCounts[i])
		gt.Value(t, ch.ChunkIndex).Equal(i)
		gt.Value(t, ch.DocumentID).Equal("doc_1")
		gt.Value(t, ch.ContentHash).Equal(chunker.ContentHash("msa.txt", ch.Text))
	}
}

func TestSplit_EdgeCases(t *testing.T) {
	c, _ := newChunker(t, 800, 100)

	t.Run("empty text gives no chunks", func(t *testing.T) {
		gt.Array(t, c.Split("", "a.txt", "doc")).Length(0)
		gt.Array(t, c.Split("  \n\t ", "a.txt", "doc")).Length(0)
	})

	t.Run("short text is one chunk", func(t *testing.T) {
		chunks := c.Split(chunkertest.Document("s", 50), "a.txt", "doc")
		gt.Array(t, chunks).Length(1).Required()
		gt.Value(t, chunks[0].TokenCount).Equal(50)
	})

	t.Run("exactly one window does not emit a contained tail", func(t *testing.T) {
		gt.Array(t, c.Split(chunkertest.Document("e", 800), "a.txt", "doc")).Length(1)
	})

	t.Run("one token past a window starts a second", func(t *testing.T) {
		chunks := c.Split(chunkertest.Document("p", 801), "a.txt", "doc")
		gt.Array(t, chunks).Length(2).Required()
		gt.Value(t, chunks[1].StartToken).Equal(700)
		gt.Value(t, chunks[1].TokenCount).Equal(101)
	})
}

func TestSplit_CoverageAndOverlap(t *testing.T) {
	for _, n := range []int{1, 99, 100, 101, 250, 999, 1234} {
		c, tok := newChunker(t, 100, 30)
		text := chunkertest.Document("t", n)
		want := tok.Encode(text)
		chunks := c.Split(text, "cov.txt", "doc")

		var rebuilt []int
		for i, ch := range chunks {
			gt.Bool(t, ch.TokenCount <= 100).True()
			windowTokens := tok.Encode(ch.Text)
			if i == 0 {
				rebuilt = append(rebuilt, windowTokens...)
				continue
			}
			prev := chunks[i-1]
			shared := prev.EndToken - ch.StartToken
			gt.Value(t, shared).Equal(30)
			rebuilt = append(rebuilt, windowTokens[shared:]...)
		}
		gt.Value(t, rebuilt).Equal(want)
	}
}

func TestContentHash(t *testing.T) {
	h := chunker.ContentHash("a.txt", "  Indemnity clause \n")
	gt.Value(t, h).Equal(chunker.ContentHash("a.txt", "Indemnity clause"))
	gt.Value(t, h).NotEqual(chunker.ContentHash("b.txt", "Indemnity clause"))
	gt.Value(t, len(h)).Equal(64)
}

func TestDocumentID(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	id := chunker.DocumentID("msa.txt", at)
	gt.Bool(t, strings.HasPrefix(id, "doc_")).True()
	gt.Value(t, len(id)).Equal(16)
	gt.Value(t, id).Equal(chunker.DocumentID("msa.txt", at))
	gt.Value(t, id).NotEqual(chunker.DocumentID("msa.txt", at.Add(time.Second)))
}

func TestSanitizeFilename(t *testing.T) {
	testCases := []struct {
		in, want string
	}{
		{"Master Services Agreement.txt", "Master_Services_Agreement.txt"},
		{"nda-v2.final.txt", "nda-v2.final.txt"},
		{"../etc/passwd", ".._etc_passwd"},
		{"", "unnamed_file"},
		{"   ", "unnamed_file"},
	}
	for _, tc := range testCases {
		gt.Value(t, chunker.SanitizeFilename(tc.in)).Equal(tc.want)
	}

	long := strings.Repeat("a", 300) + ".txt"
	got := chunker.SanitizeFilename(long)
	gt.Value(t, len(got)).Equal(255)
	gt.Bool(t, strings.HasSuffix(got, ".txt")).True()
}

func TestTiktokenRoundTrip(t *testing.T) {
	tok, err := chunker.NewTiktokenTokenizer("cl100k_base")
	gt.NoError(t, err).Required()

	text := "This Master Services Agreement is entered into by and between the parties."
	tokens := tok.Encode(text)
	gt.Bool(t, len(tokens) > 0).True()
	gt.Value(t, tok.Decode(tokens)).Equal(text)
}
