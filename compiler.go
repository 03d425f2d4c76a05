package main

// The compiler makes one pass over the token stream. Colon definitions fill
// the compiling region (core memory, after the base ROM); everything outside
// a definition fills the smaller interpreting region. At end of input the
// interpreting region is spliced into core under a synthetic entry word and
// the program counter is parked on its first instruction.
type compiler struct {
	vm      *VM
	toks    tokenizer
	intr    []cell
	hereInt int
	active  region
	marks   []int
}

type region uint8

const (
	regionCompiling region = iota
	regionInterpreting
)

// entryWord names the synthetic word the splice builds. A user definition
// of the same name is harmless: the splice emits its marker last, so lookup
// finds it first.
const entryWord = "[entrypoint]"

func newCompiler(vm *VM) *compiler {
	return &compiler{
		vm:   vm,
		toks: tokenizer{source: vm.source},
		intr: make([]cell, vm.interpSize),
	}
}

// fail throws err through the panic path, decorated with the tokenizer head
// and both emission cursors. The API boundary recovers it.
func (c *compiler) fail(err error) {
	err = compileError{err, c.toks.head, c.vm.hereCom, c.hereInt}
	c.vm.logf("compile error: %v", err)
	panic(vmHaltError{err})
}

//// Emission

// here is the active cursor: the address the next emit will fill.
func (c *compiler) here() int {
	if c.active == regionCompiling {
		return c.vm.hereCom
	}
	return c.hereInt
}

func (c *compiler) emit(cl cell) {
	if c.active == regionCompiling {
		if c.vm.hereCom >= len(c.vm.core) {
			c.fail(errCoreOverflow)
		}
		c.vm.core[c.vm.hereCom] = cl
		c.vm.hereCom++
		return
	}
	if c.hereInt >= len(c.intr) {
		c.fail(errCoreOverflow)
	}
	c.intr[c.hereInt] = cl
	c.hereInt++
}

// patch overwrites the argument of an already-emitted instruction in the
// active region. Control structures never straddle regions, so the slot a
// mark refers to is always in the region that is active when it is resolved.
func (c *compiler) patch(addr, target int) {
	if c.active == regionCompiling {
		c.vm.core[addr].num = target
	} else {
		c.intr[addr].num = target
	}
}

//// Mark stack

// Marks are the forward/back reference scratch: if and begin push, their
// closers pop. Popping an empty stack means a closer with no opener.
func (c *compiler) pushMark(addr int) { c.marks = append(c.marks, addr) }

func (c *compiler) popMark() int {
	if len(c.marks) == 0 {
		c.fail(errUnbalanced)
	}
	addr := c.marks[len(c.marks)-1]
	c.marks = c.marks[:len(c.marks)-1]
	return addr
}

//// Driver

// compile loops tokens into literals, calls, or immediate invocations, then
// splices. Dictionary lookup runs before the immediate table, so a user
// definition may shadow anything except the tokens the dictionary never
// holds.
func (c *compiler) compile() {
	if c.vm.logfn != nil {
		defer c.vm.withLogPrefix("	")()
	}
	c.active = regionInterpreting
	for {
		tok, ok := c.toks.word()
		if !ok {
			break
		}
		c.vm.logf("token %v -- here-com:%v here-int:%v", tok, c.vm.hereCom, c.hereInt)
		if tok.lit {
			c.emit(opArgCell(opConst, tok.num))
			continue
		}
		if addr, found := c.vm.findWord(tok.text); found {
			c.emit(opArgCell(opCall, addr+1))
			continue
		}
		if imm, found := immediates[tok.text]; found {
			imm(c)
			continue
		}
		c.fail(unknownWordError(tok.text))
	}
	c.splice()
}

// splice relocates the interpreting region into core under the entry word.
// Only jump arguments move: they were resolved to interpreting-region
// offsets, while call and address arguments already name absolute compiling
// addresses.
func (c *compiler) splice() {
	if len(c.marks) != 0 {
		c.fail(errUnbalanced)
	}
	c.active = regionCompiling
	c.emit(nameCell(entryWord))
	base := c.vm.hereCom
	for i := 0; i < c.hereInt; i++ {
		ins := c.intr[i]
		if ins.kind == cellCode && (ins.op == opJump || ins.op == opJumpz) {
			ins.num += base
		}
		c.emit(ins)
	}
	c.emit(opCell(opRet))
	addr, _ := c.vm.findWord(entryWord)
	c.vm.pctr = addr + 1
	c.vm.empty = c.hereInt == 0
	c.vm.logf("spliced %v cells @%v, pctr=%v", c.hereInt, base, c.vm.pctr)
}
