package main

import (
	"context"
	"errors"
)

// VM is a two-stack machine over a single core memory of cells. The core
// holds the base ROM, every compiled word, and variable slots; the data and
// return stacks are separate fixed arrays with explicit head pointers.
//
// The machine is strictly single threaded: the compiler mutates the core
// before the run starts, only step mutates afterward, and the trace pager
// observes read-only snapshots between steps.
type VM struct {
	logging
	config

	source string

	core    []cell
	hereCom int
	romLen  int

	data stack
	ret  stack
	pctr int

	steps    int
	empty    bool
	compiled bool

	pager func(StepView) error
}

type config struct {
	coreSize      int
	interpSize    int
	dataSize      int
	returnSize    int
	stackElements int
	stepLimit     int
}

func (vm *VM) alloc() {
	vm.core = make([]cell, vm.coreSize)
	vm.data = newStack("data", vm.dataSize)
	vm.ret = newStack("return", vm.returnSize)
}

type logging struct {
	logfn func(mess string, args ...interface{})
}

func (log logging) logf(mess string, args ...interface{}) {
	if log.logfn != nil {
		log.logfn(mess, args...)
	}
}

func (log *logging) withLogPrefix(prefix string) func() {
	logfn := log.logfn
	log.logfn = func(mess string, args ...interface{}) {
		logfn(prefix+mess, args...)
	}
	return func() {
		log.logfn = logfn
	}
}

//// Halting

// halt throws err through the panic path; the API boundary recovers it.
// A nil (or errHalt) cause is the normal end of a run, everything else is
// fatal and gets decorated with the machine cursors.
func (vm *VM) halt(err error) {
	if err == nil || errors.Is(err, errHalt) {
		vm.logf("halt")
		panic(vmHaltError{nil})
	}
	err = runError{err, vm.pctr, vm.data.ptr, vm.ret.ptr}
	vm.logf("halt error: %v", err)
	panic(vmHaltError{err})
}

func (vm *VM) haltif(err error) {
	if err != nil {
		vm.halt(err)
	}
}

//// Core memory access

// fetch reads the instruction cell at addr; landing anywhere else in core
// memory means the program counter has been smashed.
func (vm *VM) fetch(addr int) cell {
	if addr < 0 || addr >= len(vm.core) {
		vm.halt(progError(addr))
	}
	c := vm.core[addr]
	if c.kind != cellCode {
		vm.halt(progError(addr))
	}
	return c
}

func (vm *VM) loadInt(addr int) int {
	if addr < 0 || addr >= len(vm.core) {
		vm.halt(memAccessError{addr, "load"})
	}
	c := vm.core[addr]
	if c.kind != cellInt {
		vm.halt(memAccessError{addr, "load"})
	}
	return c.num
}

func (vm *VM) storInt(addr, val int) {
	if addr < 0 || addr >= len(vm.core) {
		vm.halt(memAccessError{addr, "store"})
	}
	vm.core[addr] = intCell(val)
}

//// Stack access

func (vm *VM) push(v int)  { vm.haltif(vm.data.push(v)) }
func (vm *VM) pushr(v int) { vm.haltif(vm.ret.push(v)) }

func (vm *VM) pop() int {
	v, err := vm.data.pop()
	vm.haltif(err)
	return v
}

func (vm *VM) popr() int {
	v, err := vm.ret.pop()
	vm.haltif(err)
	return v
}

//// Instructions

// True is -1 and false is 0 throughout.
func forthBool(b bool) int {
	if b {
		return -1
	}
	return 0
}

// push the argument onto the data stack
func (vm *VM) constOp(arg int) { vm.push(arg) }

// push data[top-k]; k=0 is dup, k=1 is over
func (vm *VM) stkOp(arg int) {
	v, err := vm.data.peek(arg)
	vm.haltif(err)
	vm.push(v)
}

// push return[top-k] onto the data stack
func (vm *VM) rstkOp(arg int) {
	v, err := vm.ret.peek(arg)
	vm.haltif(err)
	vm.push(v)
}

func (vm *VM) dropOp(int)  { vm.pop() }
func (vm *VM) rdropOp(int) { vm.popr() }

func (vm *VM) swapOp(int) {
	b, a := vm.pop(), vm.pop()
	vm.push(b)
	vm.push(a)
}

func (vm *VM) rswapOp(int) {
	b, a := vm.popr(), vm.popr()
	vm.pushr(b)
	vm.pushr(a)
}

// pop data, push onto return (>r without the call plumbing)
func (vm *VM) strOp(int) { vm.pushr(vm.pop()) }

// pop return, push onto data (the partial r>)
func (vm *VM) rtsOp(int) { vm.push(vm.popr()) }

// pop address, push core[addr]
func (vm *VM) loadOp(int) { vm.push(vm.loadInt(vm.pop())) }

// pop address, pop value, write core[addr]
func (vm *VM) storeOp(int) {
	addr := vm.pop()
	vm.storInt(addr, vm.pop())
}

// Binary operations pop b then a and push a OP b.
func (vm *VM) addOp(int) { b, a := vm.pop(), vm.pop(); vm.push(a + b) }
func (vm *VM) subOp(int) { b, a := vm.pop(), vm.pop(); vm.push(a - b) }
func (vm *VM) andOp(int) { b, a := vm.pop(), vm.pop(); vm.push(a & b) }
func (vm *VM) orOp(int)  { b, a := vm.pop(), vm.pop(); vm.push(a | b) }

// Bitwise complement: not 0 = -1 and not -1 = 0 line up with the truth
// convention, while not 5 = -6.
func (vm *VM) notOp(int) { vm.push(^vm.pop()) }

func (vm *VM) equOp(int) { b, a := vm.pop(), vm.pop(); vm.push(forthBool(a == b)) }
func (vm *VM) gtrOp(int) { b, a := vm.pop(), vm.pop(); vm.push(forthBool(a > b)) }
func (vm *VM) ltnOp(int) { b, a := vm.pop(), vm.pop(); vm.push(forthBool(a < b)) }

func (vm *VM) jumpOp(arg int) { vm.pctr = arg }

func (vm *VM) jumpzOp(arg int) {
	if vm.pop() == 0 {
		vm.pctr = arg
	}
}

func (vm *VM) callOp(arg int) {
	vm.pushr(vm.pctr)
	vm.pctr = arg
}

// The run began with an empty return stack, so the entry word's final ret
// finds nothing to pop: that underflow is the one sanctioned way a program
// ends.
func (vm *VM) retOp(int) {
	if vm.ret.ptr < 0 {
		vm.halt(nil)
	}
	vm.pctr = vm.popr()
}

var opTable [opMax]func(vm *VM, arg int)

func init() {
	opTable = [...]func(vm *VM, arg int){
		(*VM).constOp,
		(*VM).stkOp,
		(*VM).rstkOp,
		(*VM).dropOp,
		(*VM).rdropOp,
		(*VM).swapOp,
		(*VM).rswapOp,
		(*VM).strOp,
		(*VM).rtsOp,
		(*VM).loadOp,
		(*VM).storeOp,
		(*VM).addOp,
		(*VM).subOp,
		(*VM).andOp,
		(*VM).orOp,
		(*VM).notOp,
		(*VM).equOp,
		(*VM).gtrOp,
		(*VM).ltnOp,
		(*VM).jumpOp,
		(*VM).jumpzOp,
		(*VM).callOp,
		(*VM).retOp,
	}
}

//// Stepping

// step reads the tuple under the program counter, advances it, then executes
// the opcode; opcodes are atomic.
func (vm *VM) step() {
	at := vm.pctr
	c := vm.fetch(at)
	vm.pctr++
	if vm.logfn != nil {
		vm.logf("step @%v %v -- d:%v r:%v",
			at, c, vm.data.cells[:vm.data.depth()], vm.ret.cells[:vm.ret.depth()])
	}
	opTable[c.op](vm, c.num)
}

func (vm *VM) run(ctx context.Context) {
	if vm.logfn != nil {
		defer vm.withLogPrefix("	")()
	}
	if vm.empty {
		vm.logf("empty program, zero-step run")
		vm.halt(nil)
	}
	for {
		if vm.pager != nil {
			vm.haltif(vm.pager(vm.view()))
		}
		if vm.stepLimit != 0 && vm.steps >= vm.stepLimit {
			vm.halt(stepLimitError(vm.stepLimit))
		}
		vm.step()
		vm.steps++
		vm.haltif(ctx.Err())
	}
}
