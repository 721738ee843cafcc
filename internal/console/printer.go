package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Printer displays REPL output. Println is for plain messages, Result for
// evaluation results, and Error for failures.
type Printer interface {
	Println(s string)
	Result(s string)
	Error(s string)
}

// ConsolePrinter writes to a terminal, with results in green and errors in
// red when colored.
type ConsolePrinter struct {
	w   io.Writer
	ok  *color.Color
	bad *color.Color
}

// NewConsolePrinter creates a printer writing to w. Colors are forced on or
// off regardless of whether w is a terminal.
func NewConsolePrinter(w io.Writer, colored bool) *ConsolePrinter {
	p := ConsolePrinter{
		w:   w,
		ok:  color.New(color.FgGreen),
		bad: color.New(color.FgRed, color.Bold),
	}
	if colored {
		p.ok.EnableColor()
		p.bad.EnableColor()
	} else {
		p.ok.DisableColor()
		p.bad.DisableColor()
	}
	return &p
}

func (p *ConsolePrinter) Println(s string) {
	fmt.Fprintln(p.w, s)
}

func (p *ConsolePrinter) Result(s string) {
	p.ok.Fprintln(p.w, s)
}

func (p *ConsolePrinter) Error(s string) {
	p.bad.Fprintln(p.w, s)
}

// FilePrinter appends output lines to a file. Errors are marked so they can
// be found later.
type FilePrinter struct {
	mu sync.Mutex
	f  *os.File
}

// NewFilePrinter opens path for appending, creating it if needed.
func NewFilePrinter(path string) (*FilePrinter, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	return &FilePrinter{f: f}, nil
}

func (p *FilePrinter) Println(s string) {
	p.write(s)
}

func (p *FilePrinter) Result(s string) {
	p.write(s)
}

func (p *FilePrinter) Error(s string) {
	p.write("ERROR " + s)
}

func (p *FilePrinter) write(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	// There is nowhere to report a failed write to the output itself.
	fmt.Fprintln(p.f, s)
}

// Close closes the file.
func (p *FilePrinter) Close() error {
	return p.f.Close()
}

var (
	_ Printer = (*ConsolePrinter)(nil)
	_ Printer = (*FilePrinter)(nil)
)
