// Package memory provides a flat, word-addressed data memory: no
// caches, no TLBs, no access timing. Reads and writes happen only at
// commit; address computation happens earlier, in MemFU.
package memory

import "fmt"

// Size is the number of addressable word cells.
const Size = 4096

// Memory is a flat array of signed 32-bit words.
type Memory struct {
	cells [Size]int32
}

// New returns a zeroed data memory.
func New() *Memory {
	return &Memory{}
}

// InRange reports whether addr is a legal cell index.
func InRange(addr int) bool {
	return addr >= 0 && addr < Size
}

// Read returns memory[addr]. It panics on an out-of-range address: a
// well-formed program's effective addresses are validated before commit
// reaches this call, so an out-of-range address here is a bug in the
// caller, not a recoverable runtime condition.
func (m *Memory) Read(addr int) int32 {
	if !InRange(addr) {
		panic(fmt.Sprintf("memory: read out of range: %d", addr))
	}
	return m.cells[addr]
}

// Write sets memory[addr] = value.
func (m *Memory) Write(addr int, value int32) {
	if !InRange(addr) {
		panic(fmt.Sprintf("memory: write out of range: %d", addr))
	}
	m.cells[addr] = value
}

// LoadImage overwrites memory starting at offset 0 with values, per the
// SetMem REPL command. Returns an error if values would overflow Size.
func (m *Memory) LoadImage(values []int32) error {
	if len(values) > Size {
		return fmt.Errorf("memory: image has %d words, exceeds capacity %d", len(values), Size)
	}
	copy(m.cells[:], values)
	return nil
}

// Dump returns the first n cells, for the Display command.
func (m *Memory) Dump(n int) []int32 {
	if n > Size {
		n = Size
	}
	out := make([]int32, n)
	copy(out, m.cells[:n])
	return out
}
