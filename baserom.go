package main

// The base ROM is the constant prelude of primitive words laid down at
// core[0] before any user code, so that lookup sees them and the loop
// immediates can find their helpers. Each entry is a name marker, a body,
// and a closing ret.
var baseROM = buildBaseROM()

func buildBaseROM() []cell {
	var rom []cell
	word := func(name string, body ...cell) {
		rom = append(rom, nameCell(name))
		rom = append(rom, body...)
		rom = append(rom, opCell(opRet))
	}

	word("dup", opArgCell(opStk, 0))
	word("drop", opCell(opDrop))
	word("swap", opCell(opSwap))
	word("over", opArgCell(opStk, 1))
	word("@", opCell(opLoad))
	word("!", opCell(opStore))
	word("+", opCell(opAdd))
	word("-", opCell(opSub))
	word("=", opCell(opEqu))
	word(">", opCell(opGtr))
	word("<", opCell(opLtn))
	word("not", opCell(opNot))
	word("and", opCell(opAnd))
	word("or", opCell(opOr))

	// Inside a loop body the return stack reads ra, index, limit from the
	// top, plus one more frame per enclosing call, so the loop index words
	// are plain return-stack peeks.
	word("i", opArgCell(opRstk, 1))
	word("i'", opArgCell(opRstk, 2))
	word("j", opArgCell(opRstk, 3))

	// >r and r> must reach under their own return address to touch the
	// caller's return stack; the rswap shuffles it out of the way.
	word(">r", opCell(opStr), opCell(opRswap))
	word("r>", opCell(opRswap), opCell(opRts))

	// [loop] advances the return-stack-resident index and pushes the
	// continue flag for the jumpz the loop immediate emits: zero while
	// index+step < limit, true once the loop is done. [+loop] takes the
	// step from the data stack instead of using one.
	word("[loop]",
		opCell(opRswap),
		opCell(opRts),
		opArgCell(opConst, 1),
		opCell(opAdd),
		opArgCell(opStk, 0),
		opArgCell(opRstk, 1),
		opCell(opLtn),
		opCell(opNot),
		opCell(opSwap),
		opCell(opStr),
		opCell(opRswap),
	)
	word("[+loop]",
		opCell(opRswap),
		opCell(opRts),
		opCell(opAdd),
		opArgCell(opStk, 0),
		opArgCell(opRstk, 1),
		opCell(opLtn),
		opCell(opNot),
		opCell(opSwap),
		opCell(opStr),
		opCell(opRswap),
	)

	return rom
}

// installROM lays the base ROM into the bottom of core memory and parks the
// compile cursor just past it.
func (vm *VM) installROM() {
	if len(baseROM) > len(vm.core) {
		panic(vmHaltError{compileError{errCoreOverflow, 0, 0, 0}})
	}
	copy(vm.core, baseROM)
	vm.hereCom = len(baseROM)
	vm.romLen = len(baseROM)
}
