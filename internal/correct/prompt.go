package correct

import (
	"fmt"
	"strings"
)

// ChunkPrompt builds the compact instruction used for one chunk of a long
// transcript. Kept short so large transcripts stay within the oracle's call
// timeout.
func ChunkPrompt(chunk string, keywords []string) string {
	var b strings.Builder
	b.WriteString("Remove filler words, false starts, and redundant phrasing from the text below and rewrite it as natural prose.\n")
	b.WriteString("Important: respond in the same language as the original text (Japanese stays Japanese, English stays English). Do not translate.\n\n")
	if len(keywords) > 0 {
		fmt.Fprintf(&b, "Domain keywords for technical terms and proper nouns: %s\n\n", strings.Join(keywords, ", "))
	}
	b.WriteString("Original text:\n")
	b.WriteString(chunk)
	b.WriteString("\n\nCorrected text:")
	return b.String()
}

// FullPrompt builds the richer editor-role instruction used when the whole
// transcript fits in a single oracle call.
func FullPrompt(text string, keywords []string) string {
	var b strings.Builder
	b.WriteString("Role: you are a professional transcript editor.\n\n")
	b.WriteString("Goal: from the raw transcript below, remove filler words (\"um\", \"uh\", \"えー\", \"あのー\"), obvious misspeaks, and duplicated phrases, fix unnatural grammar and overly colloquial wording, and produce a clean, readable text.\n\n")
	b.WriteString("Important: respond in the same language as the original text. Japanese stays Japanese, English stays English. Never translate or switch languages.\n\n")
	if len(keywords) > 0 {
		b.WriteString("Context: the conversation relates to the keywords below. Use them to choose the right spelling and kanji for technical terms and proper nouns.\n\n")
		fmt.Fprintf(&b, "Keywords: %s\n\n", strings.Join(keywords, ", "))
	}
	b.WriteString("Raw transcript:\n")
	b.WriteString(text)
	b.WriteString("\n\nCleaned transcript:")
	return b.String()
}

// ParseKeywords splits a comma-separated keyword string into a trimmed list,
// dropping empty entries.
func ParseKeywords(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, k := range strings.Split(s, ",") {
		k = strings.TrimSpace(k)
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
