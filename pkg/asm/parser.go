package asm

import (
	"fmt"
	"strings"

	"github.com/qcpuvm/qcpu/pkg/inst"
)

// statement is one parsed source line: either a real instruction or a
// .WORD directive. .WORD is the one pseudo-instruction this assembler
// supports, the same role bassosimone-risc32's InstructionDATA (.SPACE/
// .FILL) plays there: it reserves one raw word, letting a program embed
// constants or build a jump table without a dedicated data segment.
type statement struct {
	Lineno     int
	Label      string
	LabelOnly  bool // a bare "label:" line, defines a label but emits nothing
	IsData     bool
	Data       operand     // valid when IsData
	Op         inst.OpCode
	Operands   []operand // valid when !IsData && !LabelOnly
}

// size reports how many memory words the statement occupies once
// assembled: zero for a bare label, one for a .WORD, or 1 (header) +
// arity for an instruction.
func (s statement) size() int {
	if s.LabelOnly {
		return 0
	}
	if s.IsData {
		return 1
	}
	return 1 + inst.Arity(s.Op)
}

func parseLine(rl rawLine) (statement, error) {
	st := statement{Lineno: rl.Lineno, Label: rl.Label}
	if rl.Text == "" {
		st.LabelOnly = true
		return st, nil
	}

	fields := strings.SplitN(rl.Text, " ", 2)
	head := fields[0]
	rest := ""
	if len(fields) == 2 {
		rest = fields[1]
	}

	if strings.EqualFold(head, ".WORD") {
		lit := strings.TrimSpace(rest)
		if lit == "" {
			return statement{}, lineErr(rl.Lineno, fmt.Errorf("%w: .WORD needs a value", ErrBadDirective))
		}
		st.IsData = true
		op, err := parseOperand(lit)
		if err != nil {
			return statement{}, lineErr(rl.Lineno, err)
		}
		st.Data = op
		return st, nil
	}

	op, ok := inst.Lookup(strings.ToUpper(head))
	if !ok {
		return statement{}, lineErr(rl.Lineno, fmt.Errorf("%w: %q", ErrUnknownMnemonic, head))
	}
	st.Op = op

	want := inst.Arity(op)
	var texts []string
	if strings.TrimSpace(rest) != "" {
		texts = splitOperands(rest)
	}
	if len(texts) != want {
		return statement{}, lineErr(rl.Lineno,
			fmt.Errorf("%w: %s wants %d operand(s), got %d", ErrArityMismatch, inst.Mnemonic(op), want, len(texts)))
	}
	for _, t := range texts {
		parsed, err := parseOperand(t)
		if err != nil {
			return statement{}, lineErr(rl.Lineno, err)
		}
		st.Operands = append(st.Operands, parsed)
	}
	return st, nil
}

// splitOperands splits a comma-separated operand list, respecting
// parens so "(A), [4]" doesn't break on a comma that isn't there.
func splitOperands(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	out = append(out, strings.TrimSpace(s[start:]))
	return out
}
