package main

import (
	"context"
	"errors"

	"github.com/stepforth/stepforth/internal/panicerr"
)

// New builds a machine from defaults plus the given options and allocates
// its fixed-capacity memory. The returned machine is ready to Compile.
func New(opts ...VMOption) *VM {
	var vm VM
	vm.apply(defaults...)
	vm.apply(opts...)
	vm.alloc()
	return &vm
}

func WithProg(source string) VMOption            { return withProg(source) }
func WithCoreSize(n int) VMOption                { return withCoreSize(n) }
func WithInterpSize(n int) VMOption              { return withInterpSize(n) }
func WithDataSize(n int) VMOption                { return withDataSize(n) }
func WithReturnSize(n int) VMOption              { return withReturnSize(n) }
func WithStackElements(n int) VMOption           { return withStackElements(n) }
func WithStepLimit(n int) VMOption               { return withStepLimit(n) }
func WithPager(fn func(StepView) error) VMOption { return withPager(fn) }

func WithLogf(logfn func(mess string, args ...interface{})) VMOption { return withLogfn(logfn) }

// Compile tokenizes and compiles the source program into core memory,
// leaving the program counter parked on the synthetic entry word. Core
// memory is frozen afterward.
func (vm *VM) Compile() error {
	if vm.compiled {
		return nil
	}
	vm.compiled = true
	return recoverHalt(panicerr.Recover("compile", func() error {
		vm.installROM()
		newCompiler(vm).compile()
		return nil
	}))
}

// Run compiles if needed, then steps the machine to completion. A nil
// return means the program halted through the sanctioned final return-stack
// underflow; any other outcome is an error.
func (vm *VM) Run(ctx context.Context) error {
	if err := vm.Compile(); err != nil {
		return err
	}
	return recoverHalt(panicerr.Recover("run", func() error {
		vm.run(ctx)
		return nil
	}))
}

// recoverHalt unwraps the panic-based halt path back into an ordinary error
// return: a normal halt becomes nil, everything else keeps its cause.
func recoverHalt(err error) error {
	var hlt vmHaltError
	if errors.As(err, &hlt) {
		return hlt.error
	}
	return err
}
