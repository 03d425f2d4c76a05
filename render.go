package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/stepforth/stepforth/internal/flushio"
)

// pageRenderer draws one page of trace per step: the source, the step
// counter, the current word's disassembly with a cursor arrow, and the two
// stacks. Pages are form-feed separated so a pager or printer splits them.
type pageRenderer struct {
	out   flushio.WriteFlusher
	width int
	pages int
}

func newPageRenderer(w io.Writer, width int) *pageRenderer {
	return &pageRenderer{out: flushio.NewWriteFlusher(w), width: width}
}

// page renders one snapshot; it is shaped to serve as a machine pager.
func (r *pageRenderer) page(v StepView) error {
	var sb strings.Builder
	if r.pages > 0 {
		sb.WriteByte('\f')
	}
	r.pages++

	fmt.Fprintf(&sb, "prog: %s\n", v.Source)
	fmt.Fprintf(&sb, "step %v  pctr @%v\n", v.Step, v.Pctr)
	fmt.Fprintf(&sb, ": %s\n", v.Word.Name)
	for _, ins := range v.Body {
		cursor := "  "
		if ins.Addr == v.Pctr {
			cursor = "->"
		}
		if ins.HasArg {
			fmt.Fprintf(&sb, "%s @%v %s(%v)\n", cursor, ins.Addr, ins.Mnemonic, ins.Arg)
		} else {
			fmt.Fprintf(&sb, "%s @%v %s\n", cursor, ins.Addr, ins.Mnemonic)
		}
	}
	fmt.Fprintf(&sb, "data   %s\n", renderStack(v.Data, v.Elements))
	fmt.Fprintf(&sb, "return %s\n", renderStack(v.Return, v.Elements))

	if err := r.writeClipped(sb.String()); err != nil {
		return err
	}
	return r.out.Flush()
}

// writeClipped writes line by line, cutting anything past the page width.
func (r *pageRenderer) writeClipped(s string) error {
	for len(s) > 0 {
		line := s
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			line, s = s[:i], s[i+1:]
		} else {
			s = ""
		}
		if r.width > 0 && len(line) > r.width {
			line = line[:r.width]
		}
		if _, err := io.WriteString(r.out, line); err != nil {
			return err
		}
		if _, err := io.WriteString(r.out, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// renderStack draws a fixed row of n cells, empty slots as dots, and the
// head pointer after it. Cells beyond the drawn row are elided with their
// count noted.
func renderStack(sv StackView, n int) string {
	if n <= 0 {
		n = sv.Cap
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if i < len(sv.Cells) {
			sb.WriteString(strconv.Itoa(sv.Cells[i]))
		} else {
			sb.WriteByte('.')
		}
	}
	sb.WriteByte(']')
	fmt.Fprintf(&sb, " ptr=%v", sv.Ptr)
	if len(sv.Cells) > n {
		fmt.Fprintf(&sb, " (+%v more)", len(sv.Cells)-n)
	}
	return sb.String()
}
