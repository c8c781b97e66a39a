package host

import (
	"bytes"
	"strings"
	"testing"

	"github.com/qcpuvm/qcpu/pkg/cpu"
	"github.com/qcpuvm/qcpu/pkg/inst"
)

func hdr(op inst.OpCode, modes ...inst.AddressingMode) uint16 {
	var m [4]inst.AddressingMode
	copy(m[:], modes)
	return inst.EncodeHeader(op, m)
}

func TestEmitCharWritesColoredOutput(t *testing.T) {
	var out bytes.Buffer
	h := New(strings.NewReader(""), &out)
	vm := cpu.NewMachine()
	h.Install(vm)

	copy(vm.Memory[:], []uint16{
		hdr(inst.MOV, inst.REGISTER, inst.IMMEDIATE), uint16(inst.RegX), 'Q',
		hdr(inst.SYS, inst.IMMEDIATE), SysEmitChar,
		hdr(inst.EXT, inst.IMMEDIATE), 0,
	})
	if _, err := vm.RunUntilHalt(100); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Q") {
		t.Errorf("output %q does not contain emitted char", out.String())
	}
}

func TestReadCharSetsRegisterX(t *testing.T) {
	h := New(strings.NewReader("Z"), &bytes.Buffer{})
	vm := cpu.NewMachine()
	h.Install(vm)

	copy(vm.Memory[:], []uint16{
		hdr(inst.SYS, inst.IMMEDIATE), SysReadChar,
		hdr(inst.EXT, inst.IMMEDIATE), 0,
	})
	if _, err := vm.RunUntilHalt(100); err != nil {
		t.Fatal(err)
	}
	if vm.Registers[inst.RegX] != 'Z' {
		t.Errorf("R.X = %d, want %d ('Z')", vm.Registers[inst.RegX], 'Z')
	}
}

func TestSetColorSyscalls(t *testing.T) {
	h := New(strings.NewReader(""), &bytes.Buffer{})
	vm := cpu.NewMachine()
	h.Install(vm)

	copy(vm.Memory[:], []uint16{
		hdr(inst.MOV, inst.REGISTER, inst.IMMEDIATE), uint16(inst.RegX), 4,
		hdr(inst.SYS, inst.IMMEDIATE), SysSetFgColor,
		hdr(inst.MOV, inst.REGISTER, inst.IMMEDIATE), uint16(inst.RegX), 2,
		hdr(inst.SYS, inst.IMMEDIATE), SysSetBgColor,
		hdr(inst.EXT, inst.IMMEDIATE), 0,
	})
	if _, err := vm.RunUntilHalt(100); err != nil {
		t.Fatal(err)
	}
	if vm.FgColor != 4 || vm.BgColor != 2 {
		t.Errorf("fg,bg = %d,%d, want 4,2", vm.FgColor, vm.BgColor)
	}
}

func TestEmitCharWithUnknownColorIsFatal(t *testing.T) {
	var out bytes.Buffer
	h := New(strings.NewReader(""), &out)
	vm := cpu.NewMachine()
	h.Install(vm)
	vm.FgColor = 20 // outside 0..=8

	copy(vm.Memory[:], []uint16{
		hdr(inst.MOV, inst.REGISTER, inst.IMMEDIATE), uint16(inst.RegX), 'Q',
		hdr(inst.SYS, inst.IMMEDIATE), SysEmitChar,
	})
	_, err := vm.RunUntilHalt(100)
	vmErr, ok := err.(*cpu.VMError)
	if !ok || vmErr.Kind != cpu.UnknownColor {
		t.Fatalf("expected UnknownColor, got %v", err)
	}
}
