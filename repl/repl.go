// Package repl implements the interactive command loop that drives
// the simulator: Initialize, Single_step, Simulate N, Display,
// ShowMem, SetMem, and q. It owns the current CPU and the asm file
// path it was built from, and prints to an io.Writer so tests can
// capture output without touching stdout.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/apexsim/asmparser"
	"github.com/sarchlab/apexsim/pipeline"
)

// REPL holds the simulator state across commands.
type REPL struct {
	asmPath string
	opts    []pipeline.Option
	cpu     *pipeline.CPU
	out     io.Writer
}

// fatalErr marks an error that must end the process with a nonzero
// exit status — a parse error, as opposed to a malformed command or
// argument, which the REPL reports and survives.
type fatalErr struct{ err error }

func (f fatalErr) Error() string { return f.err.Error() }
func (f fatalErr) Unwrap() error { return f.err }

// New returns a REPL bound to asmPath, not yet initialized — Initialize
// must run before Single_step, Simulate, Display, ShowMem, or SetMem do
// anything useful.
func New(asmPath string, out io.Writer, opts ...pipeline.Option) *REPL {
	return &REPL{asmPath: asmPath, opts: opts, out: out}
}

// Run drives the command loop from in until it reads "q" or EOF,
// printing prompts and results to the REPL's writer. It returns the
// process exit status: 0 on "q" or EOF, nonzero if a fatal simulator
// error is ever observed.
func (r *REPL) Run(in io.Reader) int {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "q" {
			return 0
		}
		if err := r.dispatch(line); err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
			var fe fatalErr
			if errors.As(err, &fe) {
				return 1
			}
		}
		if r.cpu != nil && r.cpu.Err() != nil {
			fmt.Fprintf(r.out, "fatal: %v\n", r.cpu.Err())
			return 1
		}
	}
	return 0
}

// dispatch parses and executes one command line. A malformed command
// or argument is a REPL input error: reported to the caller, never
// fatal.
func (r *REPL) dispatch(line string) error {
	fields := strings.Fields(line)
	cmd := fields[0]
	args := fields[1:]

	switch cmd {
	case "Initialize":
		return r.initialize()
	case "Single_step":
		return r.singleStep()
	case "Simulate":
		return r.simulate(args)
	case "Display":
		return r.display()
	case "ShowMem":
		return r.showMem(args)
	case "SetMem":
		return r.setMem(args)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (r *REPL) initialize() error {
	src, err := os.ReadFile(r.asmPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", r.asmPath, err)
	}
	program, err := asmparser.Parse(string(src))
	if err != nil {
		return fatalErr{err}
	}
	r.cpu = pipeline.NewCPU(program, r.opts...)
	return nil
}

func (r *REPL) requireCPU() error {
	if r.cpu == nil {
		return fmt.Errorf("Initialize must run first")
	}
	return nil
}

func (r *REPL) singleStep() error {
	if err := r.requireCPU(); err != nil {
		return err
	}
	return r.cpu.Run(1)
}

func (r *REPL) simulate(args []string) error {
	if err := r.requireCPU(); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("Simulate takes exactly one argument")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return fmt.Errorf("Simulate: %q is not a valid cycle count", args[0])
	}
	return r.cpu.Run(n)
}

func (r *REPL) showMem(args []string) error {
	if err := r.requireCPU(); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("ShowMem takes exactly one argument")
	}
	addr, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("ShowMem: %q is not a valid address", args[0])
	}
	if addr < 0 || addr >= 4096 {
		return fmt.Errorf("ShowMem: address %d out of range [0, 4096)", addr)
	}
	v := r.cpu.Memory().Read(addr)
	fmt.Fprintf(r.out, "memory[%d] = 0x%X (%d)\n", addr, uint32(v), v)
	return nil
}

func (r *REPL) setMem(args []string) error {
	if err := r.requireCPU(); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("SetMem takes exactly one argument")
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	line := strings.TrimSpace(string(raw))
	values, err := parseMemImage(line)
	if err != nil {
		return err
	}
	return r.cpu.Memory().LoadImage(values)
}

func parseMemImage(line string) ([]int32, error) {
	if line == "" {
		return nil, nil
	}
	parts := strings.Split(line, ",")
	values := make([]int32, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("SetMem: %q is not a valid integer", p)
		}
		values[i] = int32(v)
	}
	return values, nil
}

// display prints pipeline stage occupancy, all 32 architectural
// registers, and the first 20 memory cells.
func (r *REPL) display() error {
	if err := r.requireCPU(); err != nil {
		return err
	}

	fmt.Fprintf(r.out, "--- cycle %d ---\n", r.cpu.Cycle())
	fmt.Fprintf(r.out, "Fetch:   %s\n", describeLatch(r.cpu.FetchLatch()))
	fmt.Fprintf(r.out, "Decode1: %s\n", describeLatch(r.cpu.Decode1Latch()))
	if pc, ok := r.cpu.PendingDispatch(); ok {
		fmt.Fprintf(r.out, "Pending dispatch: PC=%d\n", pc)
	} else {
		fmt.Fprintf(r.out, "Pending dispatch: -\n")
	}
	fmt.Fprintf(r.out, "ROB: %d  IRS: %d  MRS: %d  LSQ: %d\n",
		r.cpu.ROBLen(), r.cpu.IRSLen(), r.cpu.MRSLen(), r.cpu.LSQLen())

	regs := r.cpu.ArchRegisters()
	for i := 0; i < len(regs); i += 4 {
		fmt.Fprintf(r.out, "R%-2d=%-8d R%-2d=%-8d R%-2d=%-8d R%-2d=%-8d\n",
			i, regs[i], i+1, regs[i+1], i+2, regs[i+2], i+3, regs[i+3])
	}

	cc := r.cpu.CC()
	fmt.Fprintf(r.out, "CC: Z=%t N=%t P=%t\n", cc.Z, cc.N, cc.P)

	mem := r.cpu.MemoryDump(20)
	fmt.Fprintf(r.out, "mem[0:20]: %v\n", mem)
	return nil
}

func describeLatch(l pipeline.LatchState) string {
	if !l.Valid {
		return "-"
	}
	return fmt.Sprintf("%s (PC=%d)", l.Instruction.Op, l.Instruction.PC)
}
