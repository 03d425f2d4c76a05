package main

// The trace interface is the read-only contract between the machine and a
// page renderer: one snapshot per step, taken before the step executes.
// Everything in a view is copied, so a renderer may hold snapshots across
// steps without seeing later mutation.

// StackView is a copied snapshot of one stack.
type StackView struct {
	Ptr   int
	Cap   int
	Cells []int
}

// Depth is the number of live cells, 0 when empty.
func (sv StackView) Depth() int { return sv.Ptr + 1 }

// Instruction is one decoded tuple of the current word's body.
type Instruction struct {
	Addr     int
	Mnemonic string
	Arg      int
	HasArg   bool
}

// WordView names the word containing the program counter and the address
// range of its instructions.
type WordView struct {
	Name  string
	First int
	Last  int
}

// StepView is the full per-step snapshot.
type StepView struct {
	Step   int
	Pctr   int
	Source string
	Word   WordView
	Body   []Instruction
	Data   StackView
	Return StackView

	// Elements is how many stack cells the renderer should draw; visual
	// only, never a bound on the machine.
	Elements int
}

// thisWord recovers the word containing pctr: backward to the nearest name
// marker, forward to the last instruction cell.
func (vm *VM) thisWord() WordView {
	addr := vm.pctr
	if addr >= vm.hereCom {
		addr = vm.hereCom - 1
	}
	for addr > 0 && vm.core[addr].kind != cellName {
		addr--
	}
	first, last := vm.wordExtent(addr)
	return WordView{Name: vm.core[addr].name, First: first, Last: last}
}

func (vm *VM) view() StepView {
	word := vm.thisWord()
	body := make([]Instruction, 0, word.Last-word.First+1)
	for addr := word.First; addr <= word.Last; addr++ {
		mn, arg, hasArg := decode(vm.core[addr])
		body = append(body, Instruction{Addr: addr, Mnemonic: mn, Arg: arg, HasArg: hasArg})
	}
	return StepView{
		Step:     vm.steps,
		Pctr:     vm.pctr,
		Source:   vm.source,
		Word:     word,
		Body:     body,
		Data:     vm.data.view(),
		Return:   vm.ret.view(),
		Elements: vm.stackElements,
	}
}
