// Package console adapts terminals and files to the line-oriented input and
// output the REPL uses.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// LineReader supplies input one line at a time. ReadLine returns io.EOF when
// the input is exhausted.
type LineReader interface {
	ReadLine() (string, error)
}

// ConsoleReader reads lines from a terminal, printing a prompt before each.
type ConsoleReader struct {
	sc     *bufio.Scanner
	w      io.Writer
	prompt string
}

// NewConsoleReader creates a reader over r that writes prompt to w before
// each line. An empty prompt prints nothing.
func NewConsoleReader(r io.Reader, w io.Writer, prompt string) *ConsoleReader {
	return &ConsoleReader{sc: bufio.NewScanner(r), w: w, prompt: prompt}
}

func (c *ConsoleReader) ReadLine() (string, error) {
	if c.prompt != "" {
		if _, err := io.WriteString(c.w, c.prompt); err != nil {
			return "", fmt.Errorf("write prompt: %w", err)
		}
	}
	return scan(c.sc)
}

// FileReader reads lines from a file.
type FileReader struct {
	f  *os.File
	sc *bufio.Scanner
}

// NewFileReader opens path for reading.
func NewFileReader(path string) (*FileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return &FileReader{f: f, sc: bufio.NewScanner(f)}, nil
}

func (r *FileReader) ReadLine() (string, error) {
	return scan(r.sc)
}

// Close closes the file.
func (r *FileReader) Close() error {
	return r.f.Close()
}

func scan(sc *bufio.Scanner) (string, error) {
	if sc.Scan() {
		return sc.Text(), nil
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return "", io.EOF
}

var (
	_ LineReader = (*ConsoleReader)(nil)
	_ LineReader = (*FileReader)(nil)
)
