package main

import (
	"fmt"
	"io"
	"strconv"
)

// vmDumper writes a full post-mortem listing of the machine: the program,
// the dictionary, both stacks, and every occupied cell of core memory with
// instructions decoded in place.
type vmDumper struct {
	vm  *VM
	out io.Writer

	addrWidth int
}

func (dump *vmDumper) dump() {
	fmt.Fprintf(dump.out, "# VM Dump\n")
	fmt.Fprintf(dump.out, "  prog: %q\n", dump.vm.source)
	fmt.Fprintf(dump.out, "  pctr: @%v steps: %v\n", dump.vm.pctr, dump.vm.steps)

	fmt.Fprintf(dump.out, "  dict:")
	for _, addr := range dump.scanWords() {
		fmt.Fprintf(dump.out, " %v@%v", dump.vm.core[addr].name, addr)
	}
	fmt.Fprintf(dump.out, "\n")

	dump.dumpStack("data", dump.vm.data)
	dump.dumpStack("return", dump.vm.ret)
	dump.dumpCore()
}

func (dump *vmDumper) dumpStack(name string, s stack) {
	fmt.Fprintf(dump.out, "  %v stack: %v ptr=%v\n", name, s.cells[:s.depth()], s.ptr)
}

func (dump *vmDumper) dumpCore() {
	if dump.addrWidth == 0 {
		dump.addrWidth = len(strconv.Itoa(dump.vm.hereCom)) + 1
	}
	fmt.Fprintf(dump.out, "# Core Memory (%v/%v cells)\n", dump.vm.hereCom, len(dump.vm.core))
	for addr := 0; addr < dump.vm.hereCom; addr++ {
		if addr == dump.vm.romLen {
			fmt.Fprintf(dump.out, "# User Words @%v\n", addr)
		}
		c := dump.vm.core[addr]
		marker := ""
		if addr == dump.vm.pctr {
			marker = " <- pctr"
		}
		fmt.Fprintf(dump.out, "  @% *v %v%s\n", dump.addrWidth, addr, c, marker)
	}
}

// scanWords collects every name marker address, lowest first.
func (dump *vmDumper) scanWords() []int {
	var words []int
	for addr := 0; addr < dump.vm.hereCom; addr++ {
		if dump.vm.core[addr].kind == cellName {
			words = append(words, addr)
		}
	}
	return words
}
