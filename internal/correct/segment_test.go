package correct

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	for _, text := range []string{"a", "hello world", strings.Repeat("あ", 2900)} {
		chunks := Split(text, 3000)
		if len(chunks) != 1 {
			t.Fatalf("Split(%d runes) = %d chunks, want 1", utf8.RuneCountInString(text), len(chunks))
		}
		if chunks[0] != text {
			t.Error("single chunk should equal the input text")
		}
	}
}

func TestSplit_ExactBoundaryIsSingleChunk(t *testing.T) {
	text := strings.Repeat("x", 3000)
	chunks := Split(text, 3000)
	if len(chunks) != 1 {
		t.Errorf("Split(3000 runes, max 3000) = %d chunks, want 1", len(chunks))
	}
}

func TestSplit_ConcatenationReconstructsInput(t *testing.T) {
	text := strings.Repeat("こんにちは。今日はいい天気ですね。", 300) // ~5100 runes
	chunks := Split(text, 3000)
	if strings.Join(chunks, "") != text {
		t.Error("concatenated chunks should reconstruct the input exactly")
	}
}

func TestSplit_PrefersSentenceBoundary(t *testing.T) {
	// Sentence mark at rune offset 3100 — inside the 500-rune lookahead and
	// past the midpoint, so the first chunk ends just after it.
	text := strings.Repeat("あ", 3100) + "。" + strings.Repeat("い", 2899)
	chunks := Split(text, 3000)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	first := []rune(chunks[0])
	if len(first) != 3101 {
		t.Errorf("first chunk = %d runes, want 3101", len(first))
	}
	if first[len(first)-1] != '。' {
		t.Errorf("first chunk ends with %q, want 。", first[len(first)-1])
	}
	if utf8.RuneCountInString(chunks[1]) != 2899 {
		t.Errorf("second chunk = %d runes, want 2899", utf8.RuneCountInString(chunks[1]))
	}
}

func TestSplit_IgnoresEarlySentenceBoundary(t *testing.T) {
	// The only sentence mark sits before the midpoint, so it is rejected and
	// the cut falls back to the hard boundary.
	text := strings.Repeat("a", 40) + "." + strings.Repeat("b", 200)
	chunks := Split(text, 100)
	if len(chunks[0]) != 100 {
		t.Errorf("first chunk = %d runes, want hard cut at 100", len(chunks[0]))
	}
}

func TestSplit_FallsBackToLineBreak(t *testing.T) {
	// No sentence punctuation anywhere; a newline past the midpoint wins.
	text := strings.Repeat("a", 80) + "\n" + strings.Repeat("b", 120)
	chunks := Split(text, 100)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want at least 2", len(chunks))
	}
	if !strings.HasSuffix(chunks[0], "\n") {
		t.Error("first chunk should end just after the line break")
	}
	if len(chunks[0]) != 81 {
		t.Errorf("first chunk = %d runes, want 81", len(chunks[0]))
	}
}

func TestSplit_HardCutWithoutBoundaries(t *testing.T) {
	text := strings.Repeat("x", 250)
	chunks := Split(text, 100)
	want := []int{100, 100, 50}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks, want %d", len(chunks), len(want))
	}
	for i, n := range want {
		if len(chunks[i]) != n {
			t.Errorf("chunk %d = %d runes, want %d", i, len(chunks[i]), n)
		}
	}
}

func TestSplit_DropsBlankChunks(t *testing.T) {
	text := "abcd" + strings.Repeat(" ", 4)
	chunks := Split(text, 4)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1 (whitespace-only chunk dropped)", len(chunks))
	}
	if chunks[0] != "abcd" {
		t.Errorf("chunk = %q, want %q", chunks[0], "abcd")
	}
}

func TestSplit_ChunkCountBounded(t *testing.T) {
	text := strings.Repeat("あいうえお。", 2000) // 12000 runes
	maxSize := 3000
	chunks := Split(text, maxSize)
	// Accepted boundaries always lie past maxSize/2, so the chunk count can
	// never exceed twice the naive ceiling.
	limit := 2*(utf8.RuneCountInString(text)/maxSize) + 2
	if len(chunks) == 0 {
		t.Fatal("non-empty input must yield at least one chunk")
	}
	if len(chunks) > limit {
		t.Errorf("got %d chunks, want at most %d", len(chunks), limit)
	}
}
