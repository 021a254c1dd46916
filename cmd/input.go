package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ccoveille/go-safecast"
	"golang.org/x/term"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// prompter reads answers either from the terminal or from piped input.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// Line prints prompt and reads one trimmed line.
func (p *prompter) Line(prompt string) (string, error) {
	if _, err := fmt.Fprint(p.out, prompt+": "); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Password reads a password without echo when stdin is a terminal and
// falls back to a plain line for piped input.
func (p *prompter) Password(prompt string) (string, error) {
	fd, err := fileDescriptor(os.Stdin)
	if err != nil || !isTerminal(fd) {
		line, err := p.Line(prompt)
		return line, err
	}

	if _, err := fmt.Fprint(p.out, prompt+": "); err != nil {
		return "", err
	}
	pw, err := readPassword(fd)
	fmt.Fprintln(p.out) //nolint:errcheck
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// valueOr prompts for a value unless the flag already provided one.
func (p *prompter) valueOr(value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	return p.Line(prompt)
}

// fileDescriptor returns the descriptor of f as the int x/term expects.
func fileDescriptor(f *os.File) (int, error) {
	fd, err := safecast.ToInt(uint64(f.Fd()))
	if err != nil {
		return 0, fmt.Errorf("invalid file descriptor: %w", err)
	}
	return fd, nil
}
