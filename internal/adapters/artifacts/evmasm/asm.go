// Package evmasm assembles the EVM listings behind the bundled proxy artifacts.
//
// A listing is a sequence of sections laid out in order. Every PUSH names its
// width, so the layout is fixed before any operand is resolved.
//
//	.const NAME 0x..       named constant
//	.section NAME          code section; labels are local to it
//	.embed NAME CONTRACT   section holding another listing's creation code
//	label:                 marks the next instruction, which must be a JUMPDEST
//	PUSHn OPERAND          0x literal, constant, @label, #total, #size:NAME or #offset:NAME
//
// Everything after ';' on a line is a comment.
package evmasm

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Resolver returns the creation code of another listing, for .embed sections
type Resolver func(contract string) ([]byte, error)

// Program is an assembled listing
type Program struct {
	// Code is every section, in order
	Code     []byte
	sections map[string][]byte
}

// Section returns the bytes of the named section, or nil
func (p *Program) Section(name string) []byte {
	return p.sections[name]
}

const opJumpdest = 0x5b

var opcodes = map[string]byte{
	"STOP": 0x00, "ADD": 0x01, "SUB": 0x03, "LT": 0x10, "GT": 0x11, "EQ": 0x14, "ISZERO": 0x15,
	"AND": 0x16, "OR": 0x17, "NOT": 0x19, "SHL": 0x1b, "SHR": 0x1c,
	"ADDRESS": 0x30, "CALLER": 0x33, "CALLVALUE": 0x34, "CALLDATALOAD": 0x35, "CALLDATASIZE": 0x36,
	"CALLDATACOPY": 0x37, "CODESIZE": 0x38, "CODECOPY": 0x39, "EXTCODESIZE": 0x3b,
	"RETURNDATASIZE": 0x3d, "RETURNDATACOPY": 0x3e,
	"POP": 0x50, "MLOAD": 0x51, "MSTORE": 0x52, "SLOAD": 0x54, "SSTORE": 0x55,
	"JUMP": 0x56, "JUMPI": 0x57, "GAS": 0x5a, "JUMPDEST": opJumpdest,
	"CREATE": 0xf0, "CALL": 0xf1, "RETURN": 0xf3, "DELEGATECALL": 0xf4, "STATICCALL": 0xfa, "REVERT": 0xfd,
}

func init() {
	for i := 1; i <= 32; i++ {
		opcodes["PUSH"+strconv.Itoa(i)] = byte(0x5f + i)
	}
	for i := 1; i <= 16; i++ {
		opcodes["DUP"+strconv.Itoa(i)] = byte(0x7f + i)
		opcodes["SWAP"+strconv.Itoa(i)] = byte(0x8f + i)
	}
	for i := 0; i <= 4; i++ {
		opcodes["LOG"+strconv.Itoa(i)] = byte(0xa0 + i)
	}
}

type item struct {
	line    int
	label   string
	op      byte
	width   int // PUSH operand bytes
	operand string
}

type section struct {
	name   string
	embed  string
	items  []item
	labels map[string]int
	code   []byte
	size   int
}

// Assemble translates src into bytecode. embed may be nil when src has no .embed sections.
func Assemble(src string, embed Resolver) (*Program, error) {
	consts, sections, err := parse(src)
	if err != nil {
		return nil, err
	}

	// layout
	byName := make(map[string]*section, len(sections))
	offsets := make(map[string]int, len(sections))
	total := 0
	for _, s := range sections {
		if _, dup := byName[s.name]; dup {
			return nil, fmt.Errorf("duplicate section %s", s.name)
		}
		byName[s.name] = s

		if s.embed != "" {
			if embed == nil {
				return nil, fmt.Errorf("section %s embeds %s but no resolver was given", s.name, s.embed)
			}
			code, err := embed(s.embed)
			if err != nil {
				return nil, fmt.Errorf("section %s: %w", s.name, err)
			}
			s.code = code
			s.size = len(code)
		} else {
			s.labels = make(map[string]int)
			for _, it := range s.items {
				switch {
				case it.label != "":
					s.labels[it.label] = s.size
				default:
					s.size += 1 + it.width
				}
			}
		}

		offsets[s.name] = total
		total += s.size
	}

	value := func(s *section, it item) (*big.Int, error) {
		op := it.operand
		switch {
		case strings.HasPrefix(op, "0x"):
			v, ok := new(big.Int).SetString(op[2:], 16)
			if !ok {
				return nil, fmt.Errorf("line %d: invalid literal %s", it.line, op)
			}
			return v, nil
		case strings.HasPrefix(op, "@"):
			pc, ok := s.labels[op[1:]]
			if !ok {
				return nil, fmt.Errorf("line %d: unknown label %s", it.line, op)
			}
			return big.NewInt(int64(pc)), nil
		case op == "#total":
			return big.NewInt(int64(total)), nil
		case strings.HasPrefix(op, "#size:"):
			target, ok := byName[op[len("#size:"):]]
			if !ok {
				return nil, fmt.Errorf("line %d: unknown section in %s", it.line, op)
			}
			return big.NewInt(int64(target.size)), nil
		case strings.HasPrefix(op, "#offset:"):
			offset, ok := offsets[op[len("#offset:"):]]
			if !ok {
				return nil, fmt.Errorf("line %d: unknown section in %s", it.line, op)
			}
			return big.NewInt(int64(offset)), nil
		}
		if v, ok := consts[op]; ok {
			return v, nil
		}
		return nil, fmt.Errorf("line %d: unknown operand %s", it.line, op)
	}

	prog := &Program{sections: make(map[string][]byte, len(sections))}
	for _, s := range sections {
		if s.embed == "" {
			code := make([]byte, 0, s.size)
			for _, it := range s.items {
				if it.label != "" {
					continue
				}
				code = append(code, it.op)
				if it.width == 0 {
					continue
				}
				v, err := value(s, it)
				if err != nil {
					return nil, err
				}
				if v.Sign() < 0 || v.BitLen() > 8*it.width {
					return nil, fmt.Errorf("line %d: %s does not fit PUSH%d", it.line, it.operand, it.width)
				}
				code = append(code, v.FillBytes(make([]byte, it.width))...)
			}
			for label, pc := range s.labels {
				if pc >= len(code) || code[pc] != opJumpdest {
					return nil, fmt.Errorf("label %s is not a JUMPDEST", label)
				}
			}
			s.code = code
		}
		prog.sections[s.name] = s.code
		prog.Code = append(prog.Code, s.code...)
	}

	return prog, nil
}

func parse(src string) (map[string]*big.Int, []*section, error) {
	consts := make(map[string]*big.Int)
	var sections []*section
	var cur *section

	for n, raw := range strings.Split(src, "\n") {
		line := n + 1
		text, _, _ := strings.Cut(raw, ";")
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		switch {
		case fields[0] == ".const":
			if len(fields) != 3 {
				return nil, nil, fmt.Errorf("line %d: .const NAME VALUE", line)
			}
			v, ok := new(big.Int).SetString(strings.TrimPrefix(fields[2], "0x"), 16)
			if !ok {
				return nil, nil, fmt.Errorf("line %d: invalid constant %s", line, fields[2])
			}
			consts[fields[1]] = v
		case fields[0] == ".section":
			if len(fields) != 2 {
				return nil, nil, fmt.Errorf("line %d: .section NAME", line)
			}
			cur = &section{name: fields[1]}
			sections = append(sections, cur)
		case fields[0] == ".embed":
			if len(fields) != 3 {
				return nil, nil, fmt.Errorf("line %d: .embed NAME CONTRACT", line)
			}
			sections = append(sections, &section{name: fields[1], embed: fields[2]})
			cur = nil
		case cur == nil:
			return nil, nil, fmt.Errorf("line %d: %s outside a section", line, fields[0])
		case len(fields) == 1 && strings.HasSuffix(fields[0], ":"):
			cur.items = append(cur.items, item{line: line, label: strings.TrimSuffix(fields[0], ":")})
		default:
			mnemonic := strings.ToUpper(fields[0])
			op, ok := opcodes[mnemonic]
			if !ok {
				return nil, nil, fmt.Errorf("line %d: unknown instruction %s", line, fields[0])
			}
			it := item{line: line, op: op}
			if strings.HasPrefix(mnemonic, "PUSH") {
				if len(fields) != 2 {
					return nil, nil, fmt.Errorf("line %d: %s takes one operand", line, mnemonic)
				}
				it.width = int(op) - 0x5f
				it.operand = fields[1]
			} else if len(fields) != 1 {
				return nil, nil, fmt.Errorf("line %d: %s takes no operand", line, mnemonic)
			}
			cur.items = append(cur.items, it)
		}
	}

	return consts, sections, nil
}
