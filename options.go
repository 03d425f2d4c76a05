package main

type VMOption interface{ apply(vm *VM) }

var defaults = []VMOption{
	withCoreSize(1000),
	withInterpSize(100),
	withDataSize(10),
	withReturnSize(10),
	withStackElements(10),
}

func (vm *VM) apply(opts ...VMOption) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(vm)
		}
	}
}

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(vm *VM) {
	vm.logfn = logfn
}

type progOption string
type coreSizeOption int
type interpSizeOption int
type dataSizeOption int
type returnSizeOption int
type stackElementsOption int
type stepLimitOption int
type pagerOption func(StepView) error

func withProg(source string) progOption             { return progOption(source) }
func withCoreSize(n int) coreSizeOption             { return coreSizeOption(n) }
func withInterpSize(n int) interpSizeOption         { return interpSizeOption(n) }
func withDataSize(n int) dataSizeOption             { return dataSizeOption(n) }
func withReturnSize(n int) returnSizeOption         { return returnSizeOption(n) }
func withStackElements(n int) stackElementsOption   { return stackElementsOption(n) }
func withStepLimit(n int) stepLimitOption           { return stepLimitOption(n) }
func withPager(fn func(StepView) error) pagerOption { return pagerOption(fn) }

func (p progOption) apply(vm *VM)          { vm.source = string(p) }
func (n coreSizeOption) apply(vm *VM)      { vm.coreSize = int(n) }
func (n interpSizeOption) apply(vm *VM)    { vm.interpSize = int(n) }
func (n dataSizeOption) apply(vm *VM)      { vm.dataSize = int(n) }
func (n returnSizeOption) apply(vm *VM)    { vm.returnSize = int(n) }
func (n stackElementsOption) apply(vm *VM) { vm.stackElements = int(n) }
func (n stepLimitOption) apply(vm *VM)     { vm.stepLimit = int(n) }

func (fn pagerOption) apply(vm *VM) {
	if fn == nil {
		vm.pager = nil
	} else {
		prior := vm.pager
		if prior == nil {
			vm.pager = fn
		} else {
			vm.pager = func(v StepView) error {
				if err := prior(v); err != nil {
					return err
				}
				return fn(v)
			}
		}
	}
}
