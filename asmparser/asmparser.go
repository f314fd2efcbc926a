// Package asmparser turns APEX assembly text into the flat array of
// decoded isa.Instruction records the pipeline fetches from. It has
// no knowledge of the pipeline itself — only of the ISA's operand
// shapes and the line-oriented assembly syntax.
package asmparser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sarchlab/apexsim/isa"
)

// operandKind identifies what an instruction's Nth assembly operand
// means: a destination register, a source register (consumed in
// left-to-right order into Rs1, Rs2, then Rs3), or a signed immediate.
type operandKind int

const (
	regDest operandKind = iota
	regSrc
	imm
)

// shapes gives the ordered operand list for every opcode, matching the
// ISA's destination/source/immediate order left to right.
var shapes = map[isa.Op][]operandKind{
	isa.OpNOP:  {},
	isa.OpHALT: {},

	isa.OpADD: {regDest, regSrc, regSrc},
	isa.OpSUB: {regDest, regSrc, regSrc},
	isa.OpAND: {regDest, regSrc, regSrc},
	isa.OpOR:  {regDest, regSrc, regSrc},
	isa.OpXOR: {regDest, regSrc, regSrc},

	isa.OpADDL: {regDest, regSrc, imm},
	isa.OpSUBL: {regDest, regSrc, imm},

	isa.OpMOVC: {regDest, imm},

	isa.OpCMP: {regSrc, regSrc},
	isa.OpCML: {regSrc, imm},

	isa.OpBZ:  {imm},
	isa.OpBNZ: {imm},
	isa.OpBP:  {imm},
	isa.OpBN:  {imm},
	isa.OpBNP: {imm},

	isa.OpJUMP: {regSrc, imm},
	isa.OpJALP: {regDest, imm},
	isa.OpRET:  {regSrc},

	isa.OpMUL: {regDest, regSrc, regSrc},
	isa.OpDIV: {regDest, regSrc, regSrc},

	isa.OpLOAD:  {regDest, regSrc, imm},
	isa.OpSTORE: {regSrc, regSrc, imm},
	isa.OpLDR:   {regDest, regSrc, regSrc},
	isa.OpSTR:   {regSrc, regSrc, regSrc},
}

// Parse decodes assembly source into a flat instruction array, in
// source order. Every error is fatal and names the offending line: an
// unknown mnemonic, a wrong operand count, an illegal register index,
// a malformed immediate, or an illegal character.
func Parse(source string) ([]isa.Instruction, error) {
	var program []isa.Instruction

	for i, raw := range strings.Split(source, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(strings.TrimRight(raw, "\r"))
		if line == "" {
			continue
		}

		tokens, err := tokenize(line, lineNo)
		if err != nil {
			return nil, err
		}
		if len(tokens) == 0 {
			continue
		}

		op, ok := isa.Mnemonics[tokens[0]]
		if !ok {
			return nil, fmt.Errorf("asmparser: line %d: unknown mnemonic %q", lineNo, tokens[0])
		}

		inst, err := parseOperands(op, tokens[1:], lineNo)
		if err != nil {
			return nil, err
		}
		inst.Line = lineNo
		program = append(program, inst)
	}

	return program, nil
}

// tokenize splits a trimmed, non-empty line into tokens on whitespace
// and commas. Every non-separator character must be an ASCII
// alphanumeric, '#', or '-' (the last only ever legal as a sign inside
// an immediate token) — anything else is a fatal parse error.
func tokenize(line string, lineNo int) ([]string, error) {
	var tokens []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for _, r := range line {
		switch {
		case r == ' ' || r == '\t' || r == ',':
			flush()
		case isTokenRune(r):
			cur.WriteRune(r)
		default:
			return nil, fmt.Errorf("asmparser: line %d: illegal character %q", lineNo, r)
		}
	}
	flush()
	return tokens, nil
}

func isTokenRune(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == '#' || r == '-':
		return true
	default:
		return false
	}
}

// parseOperands maps tokens onto op's shape, producing a decoded
// Instruction with every unused field sentinel-valued.
func parseOperands(op isa.Op, tokens []string, lineNo int) (isa.Instruction, error) {
	shape, known := shapes[op]
	if !known {
		return isa.Instruction{}, fmt.Errorf("asmparser: line %d: unsupported opcode %s", lineNo, op)
	}
	if len(tokens) != len(shape) {
		return isa.Instruction{}, fmt.Errorf(
			"asmparser: line %d: %s expects %d operand(s), got %d", lineNo, op, len(shape), len(tokens))
	}

	inst := isa.Zero()
	inst.Op = op
	rsSlot := 0

	for i, kind := range shape {
		tok := tokens[i]
		switch kind {
		case regDest:
			reg, err := parseReg(tok, lineNo, op)
			if err != nil {
				return isa.Instruction{}, err
			}
			inst.Rd = reg
		case regSrc:
			reg, err := parseReg(tok, lineNo, op)
			if err != nil {
				return isa.Instruction{}, err
			}
			switch rsSlot {
			case 0:
				inst.Rs1 = reg
			case 1:
				inst.Rs2 = reg
			default:
				inst.Rs3 = reg
			}
			rsSlot++
		case imm:
			v, err := parseImm(tok, lineNo, op)
			if err != nil {
				return isa.Instruction{}, err
			}
			inst.Imm = v
		}
	}

	return inst, nil
}

func parseReg(tok string, lineNo int, op isa.Op) (int, error) {
	if len(tok) < 2 || tok[0] != 'R' {
		return 0, fmt.Errorf("asmparser: line %d: %s: %q is not a register operand", lineNo, op, tok)
	}
	n, err := strconv.Atoi(tok[1:])
	if err != nil {
		return 0, fmt.Errorf("asmparser: line %d: %s: %q is not a register operand", lineNo, op, tok)
	}
	if n < 0 || n >= 32 {
		return 0, fmt.Errorf("asmparser: line %d: %s: register index %d out of range", lineNo, op, n)
	}
	return n, nil
}

func parseImm(tok string, lineNo int, op isa.Op) (int32, error) {
	if len(tok) < 2 || tok[0] != '#' {
		return 0, fmt.Errorf("asmparser: line %d: %s: %q is not an immediate operand", lineNo, op, tok)
	}
	v, err := strconv.ParseInt(tok[1:], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("asmparser: line %d: %s: %q is not a valid immediate", lineNo, op, tok)
	}
	return int32(v), nil
}
