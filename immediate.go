package main

// Immediate words are compile-time macros: instead of compiling into a call,
// the token runs one of these against the compiler. Each entry that touches
// the mark stack documents its net effect on it; at splice time the stack
// must be empty.
var immediates = map[string]func(*compiler){
	":":        immColon,
	";":        immSemi,
	"exit":     immExit,
	"if":       immIf,
	"else":     immElse,
	"then":     immThen,
	"begin":    immBegin,
	"until":    immUntil,
	"repeat":   immRepeat,
	"do":       immDo,
	"loop":     immLoop,
	"+loop":    immPlusLoop,
	"variable": immVariable,
}

// name reads the next token as a definition name. Numbers do not name words.
func (c *compiler) name() string {
	tok, ok := c.toks.word()
	if !ok || tok.lit {
		c.fail(errMissingName)
	}
	return tok.text
}

// : switches to the compiling region and lays down the name marker; the
// following tokens compile into the definition body.
func immColon(c *compiler) {
	c.active = regionCompiling
	c.emit(nameCell(c.name()))
}

// ; closes the definition with a ret and resumes top-level emission.
func immSemi(c *compiler) {
	c.emit(opCell(opRet))
	c.active = regionInterpreting
}

// exit is an early ret, leaving the definition open.
func immExit(c *compiler) {
	c.emit(opCell(opRet))
}

// if marks the branch slot and emits a jumpz with a sentinel target; else or
// then patches it. Net mark effect: +1.
func immIf(c *compiler) {
	c.pushMark(c.here())
	c.emit(opArgCell(opJumpz, -1))
}

// else closes the true arm with an unconditional jump (sentinel, patched by
// then) and retargets the if's jumpz past it. Net mark effect: -1 +1.
func immElse(c *compiler) {
	at := c.popMark()
	c.pushMark(c.here())
	c.emit(opArgCell(opJump, -1))
	c.patch(at, c.here())
}

// then patches the pending branch to fall through here. Net mark effect: -1.
func immThen(c *compiler) {
	c.patch(c.popMark(), c.here())
}

// begin marks the loop-back target. Net mark effect: +1.
func immBegin(c *compiler) {
	c.pushMark(c.here())
}

// until jumps back to the begin mark when the popped flag is zero. Net mark
// effect: -1.
func immUntil(c *compiler) {
	c.emit(opArgCell(opJumpz, c.popMark()))
}

// repeat jumps back unconditionally. Net mark effect: -1.
func immRepeat(c *compiler) {
	c.emit(opArgCell(opJump, c.popMark()))
}

// do moves limit and index onto the return stack, index on top, and marks
// the body start. Net mark effect: +1.
func immDo(c *compiler) {
	c.emit(opCell(opSwap))
	c.emit(opCell(opStr))
	c.emit(opCell(opStr))
	c.pushMark(c.here())
}

// loop and +loop call the base-ROM helper that advances the index and
// pushes the continue flag, jump back while it is zero, then clear the
// index/limit pair. Net mark effect: -1.
func immLoop(c *compiler)     { c.loopBack("[loop]") }
func immPlusLoop(c *compiler) { c.loopBack("[+loop]") }

func (c *compiler) loopBack(helper string) {
	addr, found := c.vm.findWord(helper)
	if !found {
		c.fail(unknownWordError(helper))
	}
	c.emit(opArgCell(opCall, addr+1))
	c.emit(opArgCell(opJumpz, c.popMark()))
	c.emit(opCell(opRdrop))
	c.emit(opCell(opRdrop))
}

// variable defines a word that pushes the address of its one data cell. The
// cell sits right after the ret, so the const argument is two cells past
// its own slot.
func immVariable(c *compiler) {
	c.active = regionCompiling
	c.emit(nameCell(c.name()))
	c.emit(opArgCell(opConst, c.vm.hereCom+2))
	c.emit(opCell(opRet))
	c.emit(intCell(0))
	c.active = regionInterpreting
}
