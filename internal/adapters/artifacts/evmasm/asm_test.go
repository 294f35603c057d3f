package evmasm

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const deployer = `
.const ANSWER 0x2a

.section init
    PUSH2 #size:runtime
    PUSH2 #offset:runtime
    PUSH1 0x00
    CODECOPY
    PUSH2 #size:runtime
    PUSH1 0x00
    RETURN

.section runtime
    PUSH1 ANSWER   ; comment
    PUSH2 @done
    jump
done:
    JUMPDEST
    STOP
`

func TestAssemble(t *testing.T) {
	prog, err := Assemble(deployer, nil)
	require.NoError(t, err)

	assert.Equal(t, common.FromHex("0x61000861000f6000396100086000f3602a610006565b00"), prog.Code)
	assert.Equal(t, common.FromHex("0x602a610006565b00"), prog.Section("runtime"))
	assert.Nil(t, prog.Section("missing"))
}

func TestAssemble_Embed(t *testing.T) {
	src := `
.section main
    PUSH2 #total
    PUSH2 #offset:child
.embed child Child
`
	var requested string
	prog, err := Assemble(src, func(contract string) ([]byte, error) {
		requested = contract
		return []byte{0xaa, 0xbb}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Child", requested)
	assert.Equal(t, common.FromHex("0x610008610006aabb"), prog.Code)
	assert.Equal(t, []byte{0xaa, 0xbb}, prog.Section("child"))

	failure := errors.New("no such listing")
	_, err = Assemble(src, func(string) ([]byte, error) { return nil, failure })
	assert.ErrorIs(t, err, failure)
}

func TestAssemble_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"unknown instruction", ".section a\n    PUSH0", "unknown instruction PUSH0"},
		{"operand too wide", ".section a\n    PUSH1 0x0100", "does not fit PUSH1"},
		{"unknown label", ".section a\n    PUSH2 @nowhere", "unknown label @nowhere"},
		{"unknown constant", ".section a\n    PUSH32 SLOT", "unknown operand SLOT"},
		{"unknown section", ".section a\n    PUSH2 #size:b", "unknown section"},
		{"label on a non-jumpdest", ".section a\nloop:\n    STOP", "label loop is not a JUMPDEST"},
		{"dangling label", ".section a\n    STOP\nend:", "label end is not a JUMPDEST"},
		{"instruction outside a section", "    STOP", "line 1: STOP outside a section"},
		{"instruction after an embed", ".section a\n    STOP\n.embed b B\n    STOP", "line 4: STOP outside a section"},
		{"operand on a plain instruction", ".section a\n    STOP 0x00", "STOP takes no operand"},
		{"push without operand", ".section a\n    PUSH1", "PUSH1 takes one operand"},
		{"duplicate section", ".section a\n    STOP\n.section a\n    STOP", "duplicate section a"},
		{"embed without resolver", ".embed b B", "no resolver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assemble(tt.src, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoader(t *testing.T) {
	fsys := fstest.MapFS{
		"Outer.evm": {Data: []byte(".section main\n    PUSH2 #size:inner\n.embed inner Inner\n")},
		"Inner.evm": {Data: []byte(".section main\n    STOP\n")},
		"Loop.evm":  {Data: []byte(".embed self Loop\n")},
	}
	loader := NewLoader(fsys)

	outer, err := loader.Load("Outer")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x61, 0x00, 0x01, 0x00}, outer.Code)

	inner, err := loader.Load("Inner")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, inner.Code)

	_, err = loader.Load("Loop")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Loop embeds itself")

	_, err = loader.Load("Missing")
	require.Error(t, err)
}
