package asm

import (
	"testing"

	"github.com/qcpuvm/qcpu/pkg/inst"
)

func TestAssembleImmediateMove(t *testing.T) {
	words, err := AssembleString(`MOV X, #42`)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint16{
		inst.EncodeHeader(inst.MOV, [4]inst.AddressingMode{inst.REGISTER, inst.IMMEDIATE}),
		uint16(inst.RegX), 42,
	}
	if len(words) != len(want) {
		t.Fatalf("got %d words, want %d: %#v", len(words), len(want), words)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("word %d = %#04x, want %#04x", i, words[i], want[i])
		}
	}
}

func TestAssembleLabelResolvesToAddress(t *testing.T) {
	src := `
loop:
	ADD A, #1
	JNE loop, A, #10
	EXT #0
`
	words, err := AssembleString(src)
	if err != nil {
		t.Fatal(err)
	}
	// loop: is address 0. ADD is 1 header + 2 args = 3 words.
	// JNE's first operand should resolve to 0 (IMMEDIATE, loop's address).
	jneHeaderIdx := 3
	if words[jneHeaderIdx+1] != 0 {
		t.Errorf("loop target = %#04x, want 0", words[jneHeaderIdx+1])
	}
}

func TestAssembleRejectsUnknownMnemonic(t *testing.T) {
	_, err := AssembleString(`FROB A, B`)
	if err == nil {
		t.Fatal("expected error for unknown mnemonic")
	}
}

func TestAssembleRejectsArityMismatch(t *testing.T) {
	_, err := AssembleString(`MOV A`)
	if err == nil {
		t.Fatal("expected error for wrong operand count")
	}
}

func TestAssembleRejectsUnknownLabel(t *testing.T) {
	_, err := AssembleString(`JMP nowhere`)
	if err == nil {
		t.Fatal("expected error for unresolved label")
	}
}

func TestAssembleRejectsDuplicateLabel(t *testing.T) {
	src := `
top: NOP
top: NOP
`
	_, err := AssembleString(src)
	if err == nil {
		t.Fatal("expected error for duplicate label")
	}
}

func TestAssembleOperandForms(t *testing.T) {
	src := `
	MOV (A), B
	MOV [4], #7
`
	words, err := AssembleString(src)
	if err != nil {
		t.Fatal(err)
	}
	h0, modes0, ok := inst.DecodeHeader(words[0])
	if !ok || h0 != inst.MOV || modes0[0] != inst.INDIRECT || modes0[1] != inst.REGISTER {
		t.Fatalf("unexpected first header: %#04x modes=%v", words[0], modes0)
	}
	h1, modes1, ok := inst.DecodeHeader(words[3])
	if !ok || h1 != inst.MOV || modes1[0] != inst.ABSOLUTE || modes1[1] != inst.IMMEDIATE {
		t.Fatalf("unexpected second header: %#04x modes=%v", words[3], modes1)
	}
}

func TestAssembleWordDirective(t *testing.T) {
	words, err := AssembleString(".WORD 0xBEEF")
	if err != nil {
		t.Fatal(err)
	}
	if len(words) != 1 || words[0] != 0xBEEF {
		t.Fatalf("got %#v, want [0xbeef]", words)
	}
}

func TestAssembleRoundTripsThroughDisassemble(t *testing.T) {
	words, err := AssembleString(`ADD A, #1`)
	if err != nil {
		t.Fatal(err)
	}
	op, modes, ok := inst.DecodeHeader(words[0])
	if !ok {
		t.Fatal("bad header")
	}
	args := []inst.Arg{{Mode: modes[0], Value: words[1]}, {Mode: modes[1], Value: words[2]}}
	got := inst.Disassemble(op, args)
	want := "ADD A, #1"
	if got != want {
		t.Errorf("disassembled %q, want %q", got, want)
	}
}
