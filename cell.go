package main

import (
	"fmt"
	"strconv"
)

// Core memory is an ordered sequence of cells. A cell holds one of three
// things: an integer payload (data, variable slots, spliced-in arguments),
// an instruction tuple, or a name marker string labelling the start of a
// compiled word. Mixing markers in with instructions is deliberate: walking
// backward from the program counter to the nearest marker recovers the name
// of the word currently executing.
type cell struct {
	kind cellKind
	num  int    // integer payload, or the instruction argument
	op   opcode // meaningful only when kind == cellCode
	name string // meaningful only when kind == cellName
}

type cellKind uint8

const (
	cellInt cellKind = iota
	cellCode
	cellName
)

func intCell(n int) cell                { return cell{kind: cellInt, num: n} }
func opCell(op opcode) cell             { return cell{kind: cellCode, op: op} }
func opArgCell(op opcode, arg int) cell { return cell{kind: cellCode, op: op, num: arg} }
func nameCell(name string) cell         { return cell{kind: cellName, name: name} }

func (c cell) String() string {
	switch c.kind {
	case cellCode:
		if mn, arg, hasArg := decode(c); hasArg {
			return fmt.Sprintf("%v(%v)", mn, arg)
		} else {
			return mn
		}
	case cellName:
		return ": " + c.name
	default:
		return strconv.Itoa(c.num)
	}
}

// An opcode names one machine primitive. Instructions are (opcode, arg?)
// tuples; whether an opcode carries an argument is table-driven, so the
// decoder and the step loop never disagree about operand presence.
type opcode uint8

const (
	opConst opcode = iota // push the argument
	opStk                 // push data[top-k]
	opRstk                // push return[top-k]
	opDrop                // discard data top
	opRdrop               // discard return top
	opSwap                // swap the two data tops
	opRswap               // swap the two return tops
	opStr                 // pop data, push onto return
	opRts                 // pop return, push onto data
	opLoad                // pop address, push core[addr]
	opStore               // pop address, pop value, core[addr] <- value
	opAdd
	opSub
	opAnd
	opOr
	opNot // bitwise complement of data top
	opEqu
	opGtr
	opLtn
	opJump  // pctr <- arg
	opJumpz // pop; jump when zero
	opCall  // push pctr onto return; pctr <- arg
	opRet   // pop return into pctr

	opMax
)

var opNames = [opMax]string{
	"const",
	"stk",
	"rstk",
	"drop",
	"rdrop",
	"swap",
	"rswap",
	"str",
	"rts",
	"load",
	"store",
	"add",
	"sub",
	"and",
	"or",
	"not",
	"equ",
	"gtr",
	"ltn",
	"jump",
	"jumpz",
	"call",
	"ret",
}

var opTakesArg = [opMax]bool{
	opConst: true,
	opStk:   true,
	opRstk:  true,
	opJump:  true,
	opJumpz: true,
	opCall:  true,
}

// decode yields the mnemonic of an instruction cell, along with its argument
// when the opcode carries one. Every defined opcode has a non-empty
// mnemonic.
func decode(c cell) (mnemonic string, arg int, hasArg bool) {
	if c.kind != cellCode || c.op >= opMax {
		return "", 0, false
	}
	return opNames[c.op], c.num, opTakesArg[c.op]
}
