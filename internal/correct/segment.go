package correct

import "strings"

// sentenceEnders are the marks treated as sentence boundaries when choosing a
// split point. Covers Japanese full stops alongside Western terminal
// punctuation.
const sentenceEnders = "。．！？.!?"

// Split divides text into chunks of at most maxSize runes plus a small
// lookahead, preferring to cut just after sentence-ending punctuation, then
// after a line break, then at a hard rune boundary. A boundary is only
// accepted when it lies past the midpoint of the chunk, so chunks never
// degenerate below half the configured size. Chunks that are entirely
// whitespace are dropped.
//
// Text that fits in a single chunk is returned unmodified. Concatenating the
// chunks reproduces the input exactly, minus any dropped whitespace-only
// chunks.
func Split(text string, maxSize int) []string {
	runes := []rune(text)
	if len(runes) <= maxSize {
		return []string{text}
	}

	// Mirrors a 500-rune lookahead at the default 3000-rune chunk size.
	lookahead := maxSize / 6
	var chunks []string

	cursor := 0
	for cursor < len(runes) {
		end := cursor + maxSize
		if end > len(runes) {
			end = len(runes)
		}

		if end < len(runes) {
			searchEnd := end + lookahead
			if searchEnd > len(runes) {
				searchEnd = len(runes)
			}
			if p := lastIndexAny(runes[cursor:searchEnd], sentenceEnders); p > maxSize/2 {
				end = cursor + p + 1
			} else if p := lastIndexRune(runes[cursor:end], '\n'); p > maxSize/2 {
				end = cursor + p + 1
			}
		}

		chunk := string(runes[cursor:end])
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
		cursor = end
	}

	return chunks
}

func lastIndexAny(rs []rune, chars string) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if strings.ContainsRune(chars, rs[i]) {
			return i
		}
	}
	return -1
}

func lastIndexRune(rs []rune, r rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == r {
			return i
		}
	}
	return -1
}
