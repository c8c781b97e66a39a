package inst

import "strings"

// Disassemble renders a decoded instruction as assembler-syntax text, e.g.
// "MOV X, #42" or "JNE [120], A, #10". Used by the CLI's --trace flag and
// by pkg/asm's round-trip tests. args must have exactly Arity(op) entries;
// Disassemble does not itself validate op (callers get op from DecodeHeader,
// which already has).
func Disassemble(op OpCode, args []Arg) string {
	var b strings.Builder
	b.WriteString(Mnemonic(op))
	for i, a := range args {
		if i == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	return b.String()
}
