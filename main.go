package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/goforj/godump"
	"golang.org/x/term"
)

func main() {
	ctx := context.Background()

	var (
		prog          string
		file          string
		timeout       time.Duration
		trace         bool
		debug         bool
		dumpCore      bool
		coreSize      int
		interpSize    int
		dataSize      int
		returnSize    int
		stackElements int
		stepLimit     int
		width         int
	)
	flag.StringVar(&prog, "prog", "", "Forth source to compile and run")
	flag.StringVar(&file, "file", "", "read the source from a file instead")
	flag.DurationVar(&timeout, "timeout", 0, "specify a time limit")
	flag.BoolVar(&trace, "trace", false, "enable trace logging")
	flag.BoolVar(&debug, "debug", false, "dump each step snapshot")
	flag.BoolVar(&dumpCore, "dump", false, "dump the machine after the run")
	flag.IntVar(&coreSize, "core-size", 1000, "cells of core memory")
	flag.IntVar(&interpSize, "interp-size", 100, "cells of interpreting region")
	flag.IntVar(&dataSize, "data-size", 10, "data stack capacity")
	flag.IntVar(&returnSize, "return-size", 10, "return stack capacity")
	flag.IntVar(&stackElements, "stack-elements", 10, "stack cells drawn per page")
	flag.IntVar(&stepLimit, "step-limit", 0, "abort after this many steps")
	flag.IntVar(&width, "width", 0, "page width, 0 to detect")
	flag.Parse()

	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(1)
		}
		prog = string(b)
	}
	if prog == "" && flag.NArg() > 0 {
		prog = strings.Join(flag.Args(), " ")
	}

	if width == 0 {
		if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
			if w, _, err := term.GetSize(fd); err == nil {
				width = w
			}
		}
	}

	render := newPageRenderer(os.Stdout, width)
	opts := []VMOption{
		WithProg(prog),
		WithCoreSize(coreSize),
		WithInterpSize(interpSize),
		WithDataSize(dataSize),
		WithReturnSize(returnSize),
		WithStackElements(stackElements),
		WithStepLimit(stepLimit),
		WithPager(render.page),
	}
	if debug {
		opts = append(opts, WithPager(func(v StepView) error {
			godump.Dump(v)
			return nil
		}))
	}
	if trace {
		opts = append(opts, WithLogf(log.Printf))
	}
	vm := New(opts...)

	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	err := vm.Run(ctx)
	if dumpCore {
		dump := vmDumper{vm: vm, out: os.Stdout}
		dump.dump()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %+v\n", err)
		os.Exit(1)
	}
}
