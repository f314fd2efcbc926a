// Package rename implements the architectural-to-physical rename table
// and owns the two physical free lists it allocates from. It is the
// component responsible for the invariant that every architectural
// register maps to exactly one physical slot, and that a displaced
// slot returns to the free list only when the instruction that
// displaced it commits.
package rename

import (
	"fmt"

	"github.com/sarchlab/apexsim/regfile"
)

// Table is the current arch->physical mapping plus the two free lists
// it draws from.
type Table struct {
	archToPhys [regfile.ArchRegCount]int
	ccPhys     int

	uprfFree *regfile.FreeList
	ucrfFree *regfile.FreeList
}

// New returns a rename table with R0..R31 mapped to physical slots
// 0..31, CC mapped to UCRF slot 0, UPRF slots 32..59 free, and UCRF
// slots 1..9 free — the table's reset state.
func New() *Table {
	t := &Table{ccPhys: 0}
	for i := range t.archToPhys {
		t.archToPhys[i] = i
	}

	uprfInitial := make([]int, 0, regfile.UPRFSize-regfile.ArchRegCount)
	for i := regfile.ArchRegCount; i < regfile.UPRFSize; i++ {
		uprfInitial = append(uprfInitial, i)
	}
	t.uprfFree = regfile.NewFreeList(regfile.UPRFSize, uprfInitial)

	ucrfInitial := make([]int, 0, regfile.UCRFSize-1)
	for i := 1; i < regfile.UCRFSize; i++ {
		ucrfInitial = append(ucrfInitial, i)
	}
	t.ucrfFree = regfile.NewFreeList(regfile.UCRFSize, ucrfInitial)

	return t
}

// Current returns the physical slot currently backing archReg.
func (t *Table) Current(archReg int) int {
	return t.archToPhys[archReg]
}

// CurrentCC returns the physical slot currently backing CC.
func (t *Table) CurrentCC() int {
	return t.ccPhys
}

// RenameDest allocates a fresh physical slot for archReg, installs it as
// the new mapping, and returns (newPhys, oldPhys). The caller is
// responsible for releasing oldPhys to the free list when — and only
// when — the renaming instruction commits.
func (t *Table) RenameDest(archReg int) (newPhys int, oldPhys int, err error) {
	newPhys, err = t.uprfFree.Pop()
	if err != nil {
		return 0, 0, fmt.Errorf("rename: allocating dest for R%d: %w", archReg, err)
	}
	oldPhys = t.archToPhys[archReg]
	t.archToPhys[archReg] = newPhys
	return newPhys, oldPhys, nil
}

// RenameCC allocates a fresh UCRF slot, installs it as the current CC
// mapping, and returns (newPhys, oldPhys).
func (t *Table) RenameCC() (newPhys int, oldPhys int, err error) {
	newPhys, err = t.ucrfFree.Pop()
	if err != nil {
		return 0, 0, fmt.Errorf("rename: allocating CC slot: %w", err)
	}
	oldPhys = t.ccPhys
	t.ccPhys = newPhys
	return newPhys, oldPhys, nil
}

// ReleaseUPRF returns a displaced UPRF slot to the free list. Called
// only at commit of the instruction that displaced it.
func (t *Table) ReleaseUPRF(idx int) error {
	if err := t.uprfFree.Push(idx); err != nil {
		return fmt.Errorf("rename: releasing UPRF slot %d: %w", idx, err)
	}
	return nil
}

// ReleaseUCRF returns a displaced UCRF slot to the free list.
func (t *Table) ReleaseUCRF(idx int) error {
	if err := t.ucrfFree.Push(idx); err != nil {
		return fmt.Errorf("rename: releasing UCRF slot %d: %w", idx, err)
	}
	return nil
}

// Snapshot is a deep copy of the rename table's entire state: the
// architectural map, the CC map, and both free lists. BIS embeds one of
// these per dispatched instruction.
type Snapshot struct {
	archToPhys [regfile.ArchRegCount]int
	ccPhys     int
	uprfFree   regfile.FreeList
	ucrfFree   regfile.FreeList
}

// Snapshot captures the rename table's current state.
func (t *Table) Snapshot() Snapshot {
	return Snapshot{
		archToPhys: t.archToPhys,
		ccPhys:     t.ccPhys,
		uprfFree:   t.uprfFree.Snapshot(),
		ucrfFree:   t.ucrfFree.Snapshot(),
	}
}

// Restore overwrites the live rename table with a previously captured
// snapshot.
func (t *Table) Restore(snap Snapshot) {
	t.archToPhys = snap.archToPhys
	t.ccPhys = snap.ccPhys
	t.uprfFree.Restore(snap.uprfFree)
	t.ucrfFree.Restore(snap.ucrfFree)
}
