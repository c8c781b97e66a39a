package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/qcpuvm/qcpu/pkg/inst"
)

// operand is an operand as written in source, before label addresses are
// known. literal is either a register name (REGISTER/INDIRECT modes) or a
// number/label (IMMEDIATE/ABSOLUTE modes), resolved in the second pass the
// same way bassosimone-risc32's ResolveImmediate resolves a label against
// the address table built in its first pass.
type operand struct {
	Mode    inst.AddressingMode
	Literal string
}

// parseOperand recognizes the four operand syntaxes documented in
// SPEC_FULL.md §4.9:
//
//	(Rn)     INDIRECT, Rn a register name
//	Rn       REGISTER, n in A/B/C/D/X/Y
//	[N]      ABSOLUTE, N a number or label
//	#N or N  IMMEDIATE, N a number or label ('#' is an optional marker)
func parseOperand(text string) (operand, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return operand{}, ErrBadOperand
	}
	if strings.HasPrefix(text, "(") {
		if !strings.HasSuffix(text, ")") {
			return operand{}, fmt.Errorf("%w: unterminated '('", ErrBadOperand)
		}
		return operand{Mode: inst.INDIRECT, Literal: strings.TrimSpace(text[1 : len(text)-1])}, nil
	}
	if strings.HasPrefix(text, "[") {
		if !strings.HasSuffix(text, "]") {
			return operand{}, fmt.Errorf("%w: unterminated '['", ErrBadOperand)
		}
		return operand{Mode: inst.ABSOLUTE, Literal: strings.TrimSpace(text[1 : len(text)-1])}, nil
	}
	if strings.HasPrefix(text, "#") {
		return operand{Mode: inst.IMMEDIATE, Literal: strings.TrimSpace(text[1:])}, nil
	}
	if _, ok := inst.LookupRegister(strings.ToUpper(text)); ok {
		return operand{Mode: inst.REGISTER, Literal: strings.ToUpper(text)}, nil
	}
	return operand{Mode: inst.IMMEDIATE, Literal: text}, nil
}

// resolve turns an operand into a concrete inst.Arg. REGISTER and
// INDIRECT literals name a register; IMMEDIATE and ABSOLUTE literals are
// either a number (parsed with base 0, so "0x100" and "42" both work) or
// a label present in labels.
func (o operand) resolve(labels map[string]uint16) (inst.Arg, error) {
	switch o.Mode {
	case inst.REGISTER, inst.INDIRECT:
		r, ok := inst.LookupRegister(o.Literal)
		if !ok {
			return inst.Arg{}, fmt.Errorf("%w: register %q", ErrBadOperand, o.Literal)
		}
		return inst.Arg{Mode: o.Mode, Value: r}, nil
	default:
		if v, err := strconv.ParseUint(o.Literal, 0, 16); err == nil {
			return inst.Arg{Mode: o.Mode, Value: uint16(v)}, nil
		}
		v, ok := labels[o.Literal]
		if !ok {
			return inst.Arg{}, fmt.Errorf("%w: %q", ErrUnknownLabel, o.Literal)
		}
		return inst.Arg{Mode: o.Mode, Value: v}, nil
	}
}
