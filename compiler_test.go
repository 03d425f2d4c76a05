package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileProg(t *testing.T, prog string, opts ...VMOption) *VM {
	t.Helper()
	vm := New(append([]VMOption{WithProg(prog)}, opts...)...)
	require.NoError(t, vm.Compile(), "unexpected compile error")
	return vm
}

func TestCompile_entrypoint(t *testing.T) {
	vm := compileProg(t, ": double dup + ; 3 double")

	addr, found := vm.findWord(entryWord)
	require.True(t, found, "expected a spliced entry word")
	assert.Equal(t, addr+1, vm.pctr, "expected pctr parked on the entry body")

	first, last := vm.wordExtent(addr)
	assert.Equal(t, opRet, vm.core[last].op, "expected entry body to end in ret")
	for a := first; a <= last; a++ {
		assert.Equal(t, cellCode, vm.core[a].kind, "expected only instructions @%v", a)
	}
}

// After splice no jump may still carry the forward sentinel, and every jump
// in the entry body must land inside the entry body.
func TestCompile_jump_patching(t *testing.T) {
	for _, prog := range []string{
		": t 1 2 > if 7 else 8 then ; t",
		": z 0 begin 1 + dup 3 = until ; z",
		": c 10 0 do i loop ; c",
		"1 2 > if 7 else 8 then",
		"0 begin 1 + dup 3 = until",
	} {
		t.Run(prog, func(t *testing.T) {
			vm := compileProg(t, prog)
			for a := vm.romLen; a < vm.hereCom; a++ {
				c := vm.core[a]
				if c.kind == cellCode && (c.op == opJump || c.op == opJumpz) {
					assert.NotEqual(t, -1, c.num, "unpatched jump @%v", a)
				}
			}
			addr, found := vm.findWord(entryWord)
			require.True(t, found)
			first, last := vm.wordExtent(addr)
			for a := first; a <= last; a++ {
				c := vm.core[a]
				if c.kind == cellCode && (c.op == opJump || c.op == opJumpz) {
					assert.GreaterOrEqual(t, c.num, first, "jump @%v target below entry", a)
					assert.LessOrEqual(t, c.num, last, "jump @%v target past entry", a)
				}
			}
		})
	}
}

func TestCompile_base_rom_integrity(t *testing.T) {
	vm := New(WithProg(": double dup + ; 3 double"))
	require.NoError(t, vm.Compile())
	require.NoError(t, vm.Run(testContext(t)))
	require.Equal(t, len(baseROM), vm.romLen)
	assert.Equal(t, baseROM, vm.core[:vm.romLen], "expected base ROM untouched")
}

func TestCompile_shadowing(t *testing.T) {
	vm := compileProg(t, ": f 1 ; : f 2 ;")
	addr, found := vm.findWord("f")
	require.True(t, found)
	first, _ := vm.wordExtent(addr)
	assert.Equal(t, opConst, vm.core[first].op)
	assert.Equal(t, 2, vm.core[first].num, "expected the later definition to win")
}

func TestCompile_variable_layout(t *testing.T) {
	vm := compileProg(t, "variable v")
	addr, found := vm.findWord("v")
	require.True(t, found)
	assert.Equal(t, opArgCell(opConst, addr+3), vm.core[addr+1], "expected const of the slot address")
	assert.Equal(t, opCell(opRet), vm.core[addr+2])
	assert.Equal(t, intCell(0), vm.core[addr+3], "expected a zeroed slot")
}

// Words compile before the immediate table is consulted, so the dictionary
// holds none of the compile-time names.
func TestCompile_immediates_not_in_dict(t *testing.T) {
	vm := compileProg(t, ": f 1 ;")
	for name := range immediates {
		_, found := vm.findWord(name)
		assert.False(t, found, "immediate %q should not be a dictionary word", name)
	}
}

func TestCompile_core_overflow(t *testing.T) {
	vm := New(
		WithProg(": w 1 2 3 4 5 ;"),
		WithCoreSize(len(baseROM)+4),
	)
	err := vm.Compile()
	assert.ErrorIs(t, err, errCoreOverflow)

	var cerr compileError
	assert.ErrorAs(t, err, &cerr, "expected compile cursors on the error")
}

func TestCompile_only_once(t *testing.T) {
	vm := compileProg(t, "1 2")
	here := vm.hereCom
	require.NoError(t, vm.Compile(), "recompile should be a no-op")
	assert.Equal(t, here, vm.hereCom)
}
