package generate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/factgate/factgate/internal/extract"
)

// Chunk is one retrievable piece of a source document
type Chunk struct {
	Source string // Originating file
	Index  int    // Chunk position within the file
	Text   string
}

// LoadDocuments reads and chunks the given text/markdown/HTML files. HTML
// markup is stripped before chunking.
func LoadDocuments(paths []string, chunkSize, chunkOverlap int) ([]Chunk, error) {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 5
	}

	var chunks []Chunk
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read document %s: %w", path, err)
		}

		text := string(data)
		if isHTMLFile(path) {
			text = extract.CleanText(text)
		}

		for i, piece := range splitChunks(text, chunkSize, chunkOverlap) {
			chunks = append(chunks, Chunk{
				Source: filepath.Base(path),
				Index:  i,
				Text:   piece,
			})
		}
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("no document content loaded from %d file(s)", len(paths))
	}
	return chunks, nil
}

func isHTMLFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// splitChunks cuts text into fixed-size overlapping windows, preferring to
// break at whitespace near the boundary.
func splitChunks(text string, size, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= size {
		return []string{text}
	}

	var chunks []string
	step := size - overlap
	for start := 0; start < len(text); start += step {
		end := start + size
		if end >= len(text) {
			chunks = append(chunks, strings.TrimSpace(text[start:]))
			break
		}

		// Back up to the nearest whitespace so words stay intact
		cut := end
		for cut > start+step && !isSpace(text[cut]) {
			cut--
		}
		if cut == start+step {
			cut = end
		}
		chunks = append(chunks, strings.TrimSpace(text[start:cut]))
	}
	return chunks
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}
