package quiz

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaterialWindow is the number of leading characters of the study
// material embedded in the prompt. Longer documents are truncated to
// keep the request inside the completion service's practical input
// limit.
const MaterialWindow = 3000

// buildPrompt constructs the quiz-generation prompt. The output format
// is a fixed plain-text template the parser in parse.go understands.
func buildPrompt(material string, count int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an expert education quiz assistant. Based on this study material, generate exactly %d MCQs. Each question should follow this format:\n\n", count)
	b.WriteString("Q: What is ...\n")
	b.WriteString("A) Option A\n")
	b.WriteString("B) Option B\n")
	b.WriteString("C) Option C\n")
	b.WriteString("D) Option D\n")
	b.WriteString("Answer: B\n\n")
	b.WriteString("Here is the theory material:\n")
	b.WriteString(Window(material, MaterialWindow))

	return b.String()
}

// Window returns the leading n bytes of s, or s itself when it is
// already short enough. The cut backs up to a rune boundary so a
// multi-byte character is never split.
func Window(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
