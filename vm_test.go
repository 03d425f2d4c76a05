package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stepforth/stepforth/internal/logio"
	"github.com/stretchr/testify/assert"
)

type vmTestCases []vmTestCase

func (vmts vmTestCases) run(t *testing.T) {
	{
		var exclusive []vmTestCase
		for _, vmt := range vmts {
			if vmt.exclusive {
				exclusive = append(exclusive, vmt)
			}
		}
		if len(exclusive) > 0 {
			vmts = exclusive
		}
	}
	for _, vmt := range vmts {
		if !t.Run(vmt.name, vmt.run) {
			return
		}
	}
}

func vmTest(name string) (vmt vmTestCase) {
	vmt.name = name
	return vmt
}

type vmTestCase struct {
	name    string
	prog    string
	opts    []VMOption
	views   []func(t *testing.T) func(StepView) error
	expect  []func(t *testing.T, vm *VM)
	timeout time.Duration
	wantErr error

	exclusive bool
}

func (vmt vmTestCase) exclusiveTest() vmTestCase {
	vmt.exclusive = true
	return vmt
}

func (vmt vmTestCase) withProg(prog string) vmTestCase {
	vmt.prog = prog
	return vmt
}

func (vmt vmTestCase) withOptions(opts ...VMOption) vmTestCase {
	vmt.opts = append(vmt.opts, opts...)
	return vmt
}

func (vmt vmTestCase) withTimeout(timeout time.Duration) vmTestCase {
	vmt.timeout = timeout
	return vmt
}

// withPages renders each step through a pageRenderer into the test log, so
// a failing trace is readable in test output.
func (vmt vmTestCase) withPages() vmTestCase {
	vmt.views = append(vmt.views, func(t *testing.T) func(StepView) error {
		lw := &logio.Writer{Logf: t.Logf}
		t.Cleanup(func() { lw.Sync() })
		return newPageRenderer(lw, 0).page
	})
	return vmt
}

// withEachView feeds every step snapshot to fn, for per-step invariant
// checks.
func (vmt vmTestCase) withEachView(fn func(t *testing.T, v StepView)) vmTestCase {
	vmt.views = append(vmt.views, func(t *testing.T) func(StepView) error {
		return func(v StepView) error {
			fn(t, v)
			return nil
		}
	})
	return vmt
}

func (vmt vmTestCase) expectError(err error) vmTestCase {
	vmt.wantErr = err
	return vmt
}

// expectData asserts the final data stack, bottom first.
func (vmt vmTestCase) expectData(values ...int) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		if values == nil {
			values = []int{}
		}
		assert.Equal(t, values, vm.data.cells[:vm.data.depth()], "expected data stack")
	})
	return vmt
}

// expectHalted asserts the sanctioned end state: the return stack
// underflowed to empty.
func (vmt vmTestCase) expectHalted() vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, -1, vm.ret.ptr, "expected return stack underflowed")
	})
	return vmt
}

func (vmt vmTestCase) expectSteps(within int) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.LessOrEqual(t, vm.steps, within, "expected a bounded run")
	})
	return vmt
}

func (vmt vmTestCase) expectWord(name string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		_, found := vm.findWord(name)
		assert.True(t, found, "expected %q defined", name)
	})
	return vmt
}

func (vmt vmTestCase) expectExpects(t *testing.T, vm *VM) {
	for _, expect := range vmt.expect {
		expect(t, vm)
	}
}

func (vmt vmTestCase) run(t *testing.T) {
	if testFails(func(t *testing.T) {
		vmt.runVMTest(context.Background(), t, vmt.buildVM(t))
	}) {
		vm := vmt.buildVM(t)
		vm.apply(withLogfn(t.Logf))
		vmt.runVMTest(context.Background(), t, vm)
	}
}

func (vmt vmTestCase) runVMTest(ctx context.Context, t *testing.T, vm *VM) {
	const defaultTimeout = time.Second
	timeout := vmt.timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if t.Failed() {
			dumpToTest(t, vm)
		}
	}()

	if err := vm.Run(ctx); vmt.wantErr != nil {
		assert.True(t, errors.Is(err, vmt.wantErr), "expected error: %v\ngot: %+v", vmt.wantErr, err)
	} else {
		assert.NoError(t, err, "unexpected VM run error")
	}

	if !t.Failed() {
		vmt.expectExpects(t, vm)
	}
}

func (vmt vmTestCase) buildVM(t *testing.T) *VM {
	opts := []VMOption{WithProg(vmt.prog)}
	opts = append(opts, vmt.opts...)
	for _, view := range vmt.views {
		opts = append(opts, WithPager(view(t)))
	}
	return New(opts...)
}

func dumpToTest(t *testing.T, vm *VM) {
	lw := logio.Writer{Logf: t.Logf}
	defer lw.Close()
	dump := vmDumper{vm: vm, out: &lw}
	dump.dump()
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	t.Cleanup(cancel)
	return ctx
}

// testFails runs fn against a throwaway testing.T, reporting whether it
// failed; used to re-run a failing case with logging enabled.
func testFails(fn func(t *testing.T)) bool {
	var fakeT testing.T
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn(&fakeT)
	}()
	<-done
	return fakeT.Failed()
}
