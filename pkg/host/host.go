// Package host provides the reference implementations of QCPU's four
// documented syscall bindings (spec.md §4.6, keys 0x06/0x07/0x0B/0x0C).
// These are host policy, not core VM behavior — the VM core only
// guarantees dispatch (spec.md §4.6) — but a runnable reference host needs
// some concrete instance of them, so this package is that instance.
//
// I/O is buffered with bufio, the same idiom the example pack's
// KTStephano-GVM console device uses for guest-visible stdin/stdout, kept
// synchronous here (no background goroutine) since spec.md §5 treats SYS
// as atomic from the VM's perspective.
package host

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/qcpuvm/qcpu/pkg/cpu"
	"github.com/qcpuvm/qcpu/pkg/inst"
)

// Documented syscall keys.
const (
	SysEmitChar   uint16 = 0x06
	SysReadChar   uint16 = 0x07
	SysSetFgColor uint16 = 0x0B
	SysSetBgColor uint16 = 0x0C
)

// ansiColor maps a 0..8 QCPU color code to an ANSI SGR parameter. 0-7 are
// the standard terminal colors (black, red, green, yellow, blue, magenta,
// cyan, white); 8 resets to the terminal's default.
var ansiColor = [9]int{30, 31, 32, 33, 34, 35, 36, 37, 39}

// Host owns the buffered stdio a reference QCPU program's reserved
// syscalls read and write through.
type Host struct {
	out *bufio.Writer
	in  *bufio.Reader
}

// New returns a Host reading from r and writing to w.
func New(r io.Reader, w io.Writer) *Host {
	return &Host{out: bufio.NewWriter(w), in: bufio.NewReader(r)}
}

// NewStdio returns a Host wired to os.Stdin/os.Stdout.
func NewStdio() *Host {
	return New(os.Stdin, os.Stdout)
}

// Install registers all four documented bindings on vm.
func (h *Host) Install(vm *cpu.Machine) {
	vm.RegisterSyscall(SysEmitChar, h.emitChar)
	vm.RegisterSyscall(SysReadChar, h.readChar)
	vm.RegisterSyscall(SysSetFgColor, h.setFgColor)
	vm.RegisterSyscall(SysSetBgColor, h.setBgColor)
}

// Flush flushes any buffered output. Callers should defer this after
// installing a Host on a Machine that is about to run.
func (h *Host) Flush() error {
	return h.out.Flush()
}

// emitChar is syscall 0x06: emit the character in register X, colored by
// the machine's current fg/bg attributes. Colors are validated lazily,
// here at the point of emission, per spec.md §9.
func (h *Host) emitChar(vm *cpu.Machine, _ inst.Arg) error {
	if int(vm.FgColor) >= len(ansiColor) {
		return &cpu.VMError{Kind: cpu.UnknownColor, Value: vm.FgColor, PC: vm.PC}
	}
	if int(vm.BgColor) >= len(ansiColor) {
		return &cpu.VMError{Kind: cpu.UnknownColor, Value: vm.BgColor, PC: vm.PC}
	}
	ch := rune(vm.Registers[inst.RegX])
	fg := ansiColor[vm.FgColor]
	bg := ansiColor[vm.BgColor] + 10 // background SGR codes are foreground+10
	fmt.Fprintf(h.out, "\x1b[%d;%dm%c\x1b[0m", fg, bg, ch)
	return h.out.Flush()
}

// readChar is syscall 0x07: read one byte from stdin into register X.
func (h *Host) readChar(vm *cpu.Machine, _ inst.Arg) error {
	b, err := h.in.ReadByte()
	if err != nil {
		return fmt.Errorf("host: read char: %w", err)
	}
	vm.Registers[inst.RegX] = uint16(b)
	return nil
}

// setFgColor is syscall 0x0B: current_fg_color <- register X.
func (h *Host) setFgColor(vm *cpu.Machine, _ inst.Arg) error {
	vm.FgColor = vm.Registers[inst.RegX]
	return nil
}

// setBgColor is syscall 0x0C: current_bg_color <- register X.
func (h *Host) setBgColor(vm *cpu.Machine, _ inst.Arg) error {
	vm.BgColor = vm.Registers[inst.RegX]
	return nil
}
