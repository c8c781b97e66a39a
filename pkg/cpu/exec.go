package cpu

import "github.com/qcpuvm/qcpu/pkg/inst"

// Step executes exactly one instruction: fetch the header word at PC,
// decode opcode and addressing modes, consume arity argument words,
// advance PC past them, then dispatch. Jumps, JSR, and RET further
// override PC during dispatch; everything else leaves PC exactly
// 1+arity past where the instruction started (spec.md §8 law 1).
func (vm *Machine) Step() error {
	start := vm.PC
	if int(start) >= MemorySize {
		return newErr(OutOfRangeAddress, start, start)
	}
	header := vm.Memory[start]
	op, modes, ok := inst.DecodeHeader(header)
	if !ok {
		return newErr(InvalidOpcode, uint16(header&0x00FF), start)
	}
	vm.PC++

	arity := inst.Arity(op)
	args := make([]inst.Arg, arity)
	for i := 0; i < arity; i++ {
		if int(vm.PC) >= MemorySize {
			return newErr(OutOfRangeAddress, vm.PC, vm.PC)
		}
		args[i] = inst.Arg{Mode: modes[i], Value: vm.Memory[vm.PC]}
		vm.PC++
	}

	return vm.dispatch(op, args)
}

// RunUntilHalt steps the machine until it halts or hits a fatal error.
// maxSteps bounds the run to guard against a guest program that never
// halts; 0 means unlimited. It returns the step count actually executed.
func (vm *Machine) RunUntilHalt(maxSteps int) (int, error) {
	steps := 0
	for vm.IsRunning() {
		if maxSteps > 0 && steps >= maxSteps {
			return steps, nil
		}
		if err := vm.Step(); err != nil {
			return steps, err
		}
		steps++
	}
	return steps, nil
}

func (vm *Machine) dispatch(op inst.OpCode, args []inst.Arg) error {
	switch op {
	case inst.NOP:
		return nil

	case inst.EXT:
		v, err := vm.read(args[0])
		if err != nil {
			return err
		}
		vm.Halt = int32(int16(v))
		return nil

	case inst.SYS:
		code, err := vm.read(args[0])
		if err != nil {
			return err
		}
		handler, ok := vm.Syscalls[code]
		if !ok {
			return newErr(UnknownSyscall, code, vm.PC)
		}
		return handler(vm, args[0])

	case inst.MOV:
		v, err := vm.read(args[1])
		if err != nil {
			return err
		}
		return vm.write(args[0], v)

	case inst.JMP:
		target, err := vm.read(args[0])
		if err != nil {
			return err
		}
		vm.PC = target
		return nil

	case inst.JEQ, inst.JNE, inst.JGT, inst.JGE, inst.JLT, inst.JLE:
		return vm.dispatchJump(op, args)

	case inst.JSR:
		target, err := vm.read(args[0])
		if err != nil {
			return err
		}
		vm.CallStack = append(vm.CallStack, vm.PC)
		vm.PC = target
		return nil

	case inst.RET:
		if len(vm.CallStack) == 0 {
			return newErr(EmptyCallStack, 0, vm.PC)
		}
		top := len(vm.CallStack) - 1
		vm.PC = vm.CallStack[top]
		vm.CallStack = vm.CallStack[:top]
		return nil

	case inst.ADD:
		return vm.arith(args, func(x, y uint16) (uint16, error) { return x + y, nil })
	case inst.SUB:
		return vm.arith(args, func(x, y uint16) (uint16, error) { return x - y, nil })
	case inst.MUL:
		return vm.arith(args, func(x, y uint16) (uint16, error) { return x * y, nil })
	case inst.MDL:
		return vm.arith(args, func(x, y uint16) (uint16, error) {
			if y == 0 {
				return 0, newErr(DivideByZero, 0, vm.PC)
			}
			return x % y, nil
		})
	case inst.AND:
		return vm.arith(args, func(x, y uint16) (uint16, error) { return x & y, nil })
	case inst.ORR:
		return vm.arith(args, func(x, y uint16) (uint16, error) { return x | y, nil })
	case inst.XOR:
		return vm.arith(args, func(x, y uint16) (uint16, error) { return x ^ y, nil })
	case inst.LSL:
		return vm.arith(args, func(x, y uint16) (uint16, error) { return x << y, nil })
	case inst.LSR:
		return vm.arith(args, func(x, y uint16) (uint16, error) { return x >> y, nil })

	case inst.NOT:
		x, err := vm.read(args[0])
		if err != nil {
			return err
		}
		return vm.write(args[0], ^x)

	case inst.PSH:
		v, err := vm.read(args[0])
		if err != nil {
			return err
		}
		vm.DataStack = append(vm.DataStack, v)
		return nil

	case inst.POP:
		if len(vm.DataStack) == 0 {
			return newErr(EmptyStack, 0, vm.PC)
		}
		top := len(vm.DataStack) - 1
		v := vm.DataStack[top]
		vm.DataStack = vm.DataStack[:top]
		return vm.write(args[0], v)

	default:
		return newErr(InvalidOpcode, uint16(op), vm.PC)
	}
}

// dispatchJump implements JEQ/JNE/JGT/JGE/JLT/JLE: jump to read(args[0]) if
// read(args[1]) compares against read(args[2]) as specified. All
// comparisons are unsigned (spec.md §9: "assume unsigned everywhere").
func (vm *Machine) dispatchJump(op inst.OpCode, args []inst.Arg) error {
	target, err := vm.read(args[0])
	if err != nil {
		return err
	}
	b, err := vm.read(args[1])
	if err != nil {
		return err
	}
	c, err := vm.read(args[2])
	if err != nil {
		return err
	}

	var taken bool
	switch op {
	case inst.JEQ:
		taken = b == c
	case inst.JNE:
		taken = b != c
	case inst.JGT:
		taken = b > c
	case inst.JGE:
		taken = b >= c
	case inst.JLT:
		taken = b < c
	case inst.JLE:
		taken = b <= c
	}
	if taken {
		vm.PC = target
	}
	return nil
}

// arith reads args[0] and args[1], applies op (which may itself produce a
// fatal error, e.g. MDL by zero), and writes the result back through
// args[0] — the first argument is both source and destination, per
// spec.md §4.4.
func (vm *Machine) arith(args []inst.Arg, op func(x, y uint16) (uint16, error)) error {
	x, err := vm.read(args[0])
	if err != nil {
		return err
	}
	y, err := vm.read(args[1])
	if err != nil {
		return err
	}
	result, err := op(x, y)
	if err != nil {
		return err
	}
	return vm.write(args[0], result)
}
