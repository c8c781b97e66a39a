package asm

import "strings"

// rawLine is one source line stripped of comments, with its optional
// label and the mnemonic/operand text that remains. Tokenizing a whole
// line at a time (rather than bassosimone-risc32's rune-at-a-time lexer)
// suits QCPU's one-statement-per-line syntax.
type rawLine struct {
	Lineno int
	Label  string // "" if none
	Text   string // mnemonic + operands, label and comment stripped
}

// lex splits src into rawLines, dropping blank lines and comment-only
// lines. A line may open with "label:" before its instruction, or be a
// bare "label:" on its own.
func lex(src string) []rawLine {
	var out []rawLine
	for i, raw := range strings.Split(src, "\n") {
		line := raw
		if idx := strings.IndexByte(line, ';'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lineno := i + 1
		label := ""
		if idx := strings.IndexByte(line, ':'); idx >= 0 {
			label = strings.TrimSpace(line[:idx])
			line = strings.TrimSpace(line[idx+1:])
		}
		if label == "" && line == "" {
			continue
		}
		out = append(out, rawLine{Lineno: lineno, Label: label, Text: line})
	}
	return out
}
