package quiz

import "strings"

// Parse splits raw completion text into questions. It is a best-effort
// structural parse of the fixed prompt template, not a validated
// grammar:
//
//   - the text is split on the literal marker "Q:" and the segment
//     before the first marker is discarded
//   - within a block, the first non-empty line is the prompt and the
//     next four lines are the options, kept verbatim
//   - the correct label comes from the first line containing "Answer:",
//     taking the text after the last colon, trimmed; a block with no
//     such line defaults to "A"
//   - blocks with fewer than five usable lines are skipped as malformed
//     rather than padded into half-empty questions
func Parse(raw string) QuizSet {
	blocks := strings.Split(strings.TrimSpace(raw), "Q:")
	if len(blocks) <= 1 {
		return nil
	}

	var set QuizSet
	for _, block := range blocks[1:] {
		if q, ok := parseBlock(block); ok {
			set = append(set, q)
		}
	}
	return set
}

func parseBlock(block string) (Question, bool) {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(block), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	if len(lines) < 1+optionsPerQuestion {
		return Question{}, false
	}

	q := Question{
		Prompt:       lines[0],
		Options:      lines[1 : 1+optionsPerQuestion],
		CorrectLabel: "A",
	}

	for _, line := range lines {
		if strings.Contains(line, "Answer:") {
			idx := strings.LastIndex(line, ":")
			if label := normalizeLabel(line[idx+1:]); label != "" {
				q.CorrectLabel = label
			}
			break
		}
	}

	return q, true
}

// normalizeLabel folds a claimed answer label to its canonical A-D
// form. Anything that is not one of the four labels yields "".
func normalizeLabel(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, l := range optionLabels {
		if s == l {
			return l
		}
	}
	return ""
}

// OptionLabel extracts the leading letter of an option string: the text
// before the first ")", trimmed and upper-cased. "B) Paris" and
// "b) Paris" both yield "B". Typed bare letters fold the same way, so
// a submission of "b" matches a stored label of "B".
func OptionLabel(option string) string {
	label, _, found := strings.Cut(option, ")")
	if !found {
		label = option
	}
	label = strings.TrimSpace(label)
	if l := normalizeLabel(label); l != "" {
		return l
	}
	return label
}
