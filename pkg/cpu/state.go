// Package cpu implements the QCPU machine state and the fetch/decode/execute
// loop: the non-trivial engineering spec.md describes as "the core".
package cpu

import "github.com/qcpuvm/qcpu/pkg/inst"

// MemorySize is the number of addressable 16-bit memory cells.
const MemorySize = 65535

// NumRegisters mirrors inst.NumRegisters; kept local so cpu callers don't
// need to import inst just for the register count.
const NumRegisters = inst.NumRegisters

// haltRunning is the sentinel Halt value meaning "still executing".
const haltRunning int32 = -1

// Documented startup colors.
const (
	defaultFgColor uint16 = 0
	defaultBgColor uint16 = 7
)

// SyscallFunc is a host-provided callback bound to a 16-bit syscall code.
// It receives mutable access to the machine and the SYS instruction's own
// (unresolved) argument, per spec.md §4.6. Handlers are plain functions
// rather than closures over host state, so a handler never holds a
// back-reference to its host; a host that needs shared state carries it in
// a receiver or package-level value it controls, not in the Machine.
type SyscallFunc func(vm *Machine, arg inst.Arg) error

// Machine is the entire state of one QCPU instance: its memory image,
// registers, program counter, halt flag, data and call stacks, color
// attributes, and syscall table. The instance exclusively owns its memory
// and stacks; the host owns the SyscallFunc values and the Machine holds
// only the map of them.
type Machine struct {
	Memory    [MemorySize]uint16
	Registers [NumRegisters]uint16
	PC        uint16

	// Halt is -1 while running; any non-negative value is the guest's EXT
	// exit code, read back through ExitCode as a uint16 (see spec.md §9,
	// "Signed halt flag").
	Halt int32

	DataStack []uint16
	CallStack []uint16

	FgColor uint16
	BgColor uint16

	Syscalls map[uint16]SyscallFunc
}

// NewMachine returns a freshly initialized Machine: zeroed memory and
// registers, PC at 0, halt flag running, empty stacks, and the documented
// default colors (fg=0, bg=7).
func NewMachine() *Machine {
	return &Machine{
		Halt:     haltRunning,
		FgColor:  defaultFgColor,
		BgColor:  defaultBgColor,
		Syscalls: make(map[uint16]SyscallFunc),
	}
}

// IsRunning reports whether the machine has not yet halted.
func (vm *Machine) IsRunning() bool {
	return vm.Halt == haltRunning
}

// ExitCode returns the guest's EXT exit code and true once halted; while
// still running it returns (0, false).
func (vm *Machine) ExitCode() (uint16, bool) {
	if vm.IsRunning() {
		return 0, false
	}
	return uint16(vm.Halt), true
}

// RegisterSyscall binds a host callback to a 16-bit syscall code. Meant to
// be called only during initialization; the table is not mutated during
// execution.
func (vm *Machine) RegisterSyscall(code uint16, fn SyscallFunc) {
	vm.Syscalls[code] = fn
}
