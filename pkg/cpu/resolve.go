package cpu

import "github.com/qcpuvm/qcpu/pkg/inst"

// read resolves an argument for reading, per spec.md §4.4:
//   IMMEDIATE -> the value itself
//   ABSOLUTE  -> memory[value]
//   INDIRECT  -> memory[registers[value]], value is a register number
//   REGISTER  -> registers[value]
func (vm *Machine) read(a inst.Arg) (uint16, error) {
	switch a.Mode {
	case inst.IMMEDIATE:
		return a.Value, nil
	case inst.ABSOLUTE:
		if int(a.Value) >= MemorySize {
			return 0, newErr(OutOfRangeAddress, a.Value, vm.PC)
		}
		return vm.Memory[a.Value], nil
	case inst.INDIRECT:
		if int(a.Value) >= NumRegisters {
			return 0, newErr(InvalidRegister, a.Value, vm.PC)
		}
		addr := vm.Registers[a.Value]
		if int(addr) >= MemorySize {
			return 0, newErr(OutOfRangeAddress, addr, vm.PC)
		}
		return vm.Memory[addr], nil
	case inst.REGISTER:
		if int(a.Value) >= NumRegisters {
			return 0, newErr(InvalidRegister, a.Value, vm.PC)
		}
		return vm.Registers[a.Value], nil
	default:
		return 0, newErr(InvalidAddressingMode, a.Value, vm.PC)
	}
}

// write resolves an argument for writing, per spec.md §4.4. IMMEDIATE has
// no destination and is always fatal.
func (vm *Machine) write(a inst.Arg, v uint16) error {
	switch a.Mode {
	case inst.IMMEDIATE:
		return newErr(WriteToImmediate, a.Value, vm.PC)
	case inst.ABSOLUTE:
		if int(a.Value) >= MemorySize {
			return newErr(OutOfRangeAddress, a.Value, vm.PC)
		}
		vm.Memory[a.Value] = v
		return nil
	case inst.INDIRECT:
		if int(a.Value) >= NumRegisters {
			return newErr(InvalidRegister, a.Value, vm.PC)
		}
		addr := vm.Registers[a.Value]
		if int(addr) >= MemorySize {
			return newErr(OutOfRangeAddress, addr, vm.PC)
		}
		vm.Memory[addr] = v
		return nil
	case inst.REGISTER:
		if int(a.Value) >= NumRegisters {
			return newErr(InvalidRegister, a.Value, vm.PC)
		}
		vm.Registers[a.Value] = v
		return nil
	default:
		return newErr(InvalidAddressingMode, a.Value, vm.PC)
	}
}
