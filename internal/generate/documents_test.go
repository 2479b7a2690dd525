package generate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDocuments(t *testing.T) {
	dir := t.TempDir()
	txt := writeDoc(t, dir, "contract.txt", "Alice provides a mortgage loan to Bob.")
	htm := writeDoc(t, dir, "page.html", "<html><body><p>The borrower is MegaCorp.</p><script>x()</script></body></html>")

	chunks, err := LoadDocuments([]string{txt, htm}, 1000, 200)
	if err != nil {
		t.Fatalf("LoadDocuments failed: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("chunks = %d, want 2", len(chunks))
	}

	if chunks[0].Source != "contract.txt" || chunks[0].Index != 0 {
		t.Errorf("chunk 0 = %+v", chunks[0])
	}
	if strings.Contains(chunks[1].Text, "<") || strings.Contains(chunks[1].Text, "x()") {
		t.Errorf("HTML not stripped: %q", chunks[1].Text)
	}
	if !strings.Contains(chunks[1].Text, "MegaCorp") {
		t.Errorf("visible text lost: %q", chunks[1].Text)
	}
}

func TestLoadDocuments_MissingFile(t *testing.T) {
	_, err := LoadDocuments([]string{"no_such_doc.txt"}, 1000, 200)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadDocuments_EmptyContent(t *testing.T) {
	dir := t.TempDir()
	empty := writeDoc(t, dir, "empty.txt", "   \n  ")

	_, err := LoadDocuments([]string{empty}, 1000, 200)
	if err == nil {
		t.Fatal("expected error when no content loads")
	}
}

func TestSplitChunks(t *testing.T) {
	words := make([]string, 100)
	for i := range words {
		words[i] = "word"
	}
	text := strings.Join(words, " ") // 499 bytes

	chunks := splitChunks(text, 100, 20)
	if len(chunks) < 5 {
		t.Fatalf("chunks = %d, want several windows", len(chunks))
	}

	for i, c := range chunks {
		if len(c) > 100 {
			t.Errorf("chunk %d length %d exceeds size", i, len(c))
		}
		// Whitespace-aware splitting must not cut words apart
		for _, w := range strings.Fields(c) {
			if w != "word" {
				t.Errorf("chunk %d contains split word %q", i, w)
			}
		}
	}
}

func TestSplitChunks_ShortText(t *testing.T) {
	chunks := splitChunks("short text", 1000, 200)
	if len(chunks) != 1 || chunks[0] != "short text" {
		t.Errorf("chunks = %v, want the whole text as one chunk", chunks)
	}

	if got := splitChunks("   ", 1000, 200); got != nil {
		t.Errorf("blank text should produce no chunks, got %v", got)
	}
}

func TestSplitChunks_Overlap(t *testing.T) {
	words := make([]string, 60)
	for i := range words {
		words[i] = string(rune('a'+i%26)) + "0123456789"
	}
	text := strings.Join(words, " ")

	chunks := splitChunks(text, 120, 60)
	if len(chunks) < 2 {
		t.Fatal("expected multiple chunks")
	}

	// With overlap, the tail words of one chunk reappear in the next
	firstWords := strings.Fields(chunks[0])
	last := firstWords[len(firstWords)-1]
	if !strings.Contains(chunks[1], last) {
		t.Errorf("chunk 1 missing overlapping word %q", last)
	}
}
