// Command qcpu is the reference runner and assembler for the QCPU
// virtual machine, built the way the teacher repo's z80opt builds its
// cobra CLI: a root command plus subcommands, flags declared next to
// the command that uses them, RunE returning errors for cobra to print
// and translate into a process exit code.
package main

import (
	"fmt"
	"os"

	"github.com/qcpuvm/qcpu/pkg/asm"
	"github.com/qcpuvm/qcpu/pkg/cpu"
	"github.com/qcpuvm/qcpu/pkg/host"
	"github.com/qcpuvm/qcpu/pkg/inst"
	"github.com/qcpuvm/qcpu/pkg/loader"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "qcpu <program>",
		Short: "Run a QCPU binary program",
		Args:  cobra.ExactArgs(1),
	}

	var trace bool
	var maxSteps int

	runCmd := &cobra.Command{
		Use:   "run <program>",
		Short: "Load and run a QCPU binary program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgram(args[0], trace, maxSteps)
		},
	}
	runCmd.Flags().BoolVar(&trace, "trace", false, "print a disassembled trace of every executed instruction")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "stop after this many instructions (0 = unlimited)")

	// Running "qcpu <program>" directly (no subcommand) is equivalent to
	// "qcpu run <program>", the common case.
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runProgram(args[0], trace, maxSteps)
	}

	var outPath string
	asmCmd := &cobra.Command{
		Use:   "assemble <input.qasm> [output]",
		Short: "Assemble QCPU source into a binary program",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outPath
			if out == "" {
				if len(args) == 2 {
					out = args[1]
				} else {
					out = args[0] + ".bin"
				}
			}
			return assembleProgram(args[0], out)
		},
	}
	asmCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default: <input>.bin)")

	rootCmd.AddCommand(runCmd, asmCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runProgram(path string, trace bool, maxSteps int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	vm := cpu.NewMachine()
	if err := loader.Load(vm.Memory[:], data); err != nil {
		return err
	}

	h := host.NewStdio()
	h.Install(vm)
	defer h.Flush()

	if trace {
		err = runTraced(vm, maxSteps)
	} else {
		_, err = vm.RunUntilHalt(maxSteps)
	}
	if err != nil {
		return err
	}

	if code, halted := vm.ExitCode(); halted {
		os.Exit(int(code))
	}
	return fmt.Errorf("qcpu: program stopped after %d steps without halting", maxSteps)
}

// runTraced steps the machine one instruction at a time, disassembling
// and printing each instruction to stderr before it executes — the
// debug-mode idiom KTStephano-GVM's interpreter uses for its own
// single-step trace, adapted here to this VM's header+args encoding.
func runTraced(vm *cpu.Machine, maxSteps int) error {
	steps := 0
	for vm.IsRunning() {
		if maxSteps > 0 && steps >= maxSteps {
			return nil
		}
		pc := vm.PC
		header := vm.Memory[pc]
		op, modes, ok := inst.DecodeHeader(header)
		if ok && int(pc)+1+inst.Arity(op) <= len(vm.Memory) {
			arity := inst.Arity(op)
			argWords := vm.Memory[pc+1 : pc+1+uint16(arity)]
			decoded := make([]inst.Arg, arity)
			for i, w := range argWords {
				decoded[i] = inst.Arg{Mode: modes[i], Value: w}
			}
			fmt.Fprintf(os.Stderr, "%#04x: %s\n", pc, inst.Disassemble(op, decoded))
		}
		if err := vm.Step(); err != nil {
			return err
		}
		steps++
	}
	return nil
}

func assembleProgram(inPath, outPath string) error {
	f, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer f.Close()

	words, err := asm.Assemble(f)
	if err != nil {
		return err
	}

	return os.WriteFile(outPath, loader.Encode(words), 0o644)
}
