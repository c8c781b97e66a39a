// Package asm assembles QCPU source text into the little-endian word
// stream pkg/loader expects. It follows the two-pass shape of
// bassosimone-risc32's pkg/asm/AssemblerAsync: a first pass walks every
// statement to build a label-to-address table, a second pass encodes
// each statement against that table. That repo streams InstructionOrError
// down a channel because its CLI prints one encoded instruction per line
// as it goes; cmd/qcpu instead writes one binary file, so Assemble here
// returns the whole word slice instead of a channel.
package asm

import (
	"fmt"
	"io"
	"strings"

	"github.com/qcpuvm/qcpu/pkg/inst"
)

// Assemble reads QCPU assembly source from r and returns the assembled
// program as a flat word slice, ready for pkg/loader.Encode or direct
// use as cpu.Machine memory contents.
func Assemble(r io.Reader) ([]uint16, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	lines := lex(string(buf))
	statements := make([]statement, 0, len(lines))
	labels := make(map[string]uint16)

	var addr uint16
	for _, rl := range lines {
		st, err := parseLine(rl)
		if err != nil {
			return nil, err
		}
		if st.Label != "" {
			if _, dup := labels[st.Label]; dup {
				return nil, lineErr(st.Lineno, fmt.Errorf("%w: %q", ErrDuplicateLabel, st.Label))
			}
			labels[st.Label] = addr
		}
		addr += uint16(st.size())
		statements = append(statements, st)
	}

	out := make([]uint16, 0, addr)
	for _, st := range statements {
		if st.LabelOnly {
			continue
		}
		if st.IsData {
			arg, err := st.Data.resolve(labels)
			if err != nil {
				return nil, lineErr(st.Lineno, err)
			}
			out = append(out, arg.Value)
			continue
		}
		args := make([]inst.Arg, len(st.Operands))
		var modes [4]inst.AddressingMode
		for i, o := range st.Operands {
			arg, err := o.resolve(labels)
			if err != nil {
				return nil, lineErr(st.Lineno, err)
			}
			args[i] = arg
			modes[i] = arg.Mode
		}
		out = append(out, inst.EncodeHeader(st.Op, modes))
		for _, a := range args {
			out = append(out, a.Value)
		}
	}
	return out, nil
}

// AssembleString is a convenience wrapper over Assemble for tests and
// small embedded programs.
func AssembleString(src string) ([]uint16, error) {
	return Assemble(strings.NewReader(src))
}
