package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// prompter reads answers line by line from one input.
type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{scanner: bufio.NewScanner(in), out: out}
}

// ask prints label and returns the next trimmed line, or def when it is empty.
func (p *prompter) ask(label, def string) string {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	if !p.scanner.Scan() {
		return def
	}
	if v := strings.TrimSpace(p.scanner.Text()); v != "" {
		return v
	}
	return def
}

// credentials asks for whichever of username and password is missing.
func (p *prompter) credentials(username, password string) (string, string) {
	if username == "" {
		username = p.ask("Username", "")
	}
	if password == "" {
		password = p.ask("Password", "")
	}
	return username, password
}

// content reads note content from path, or asks for a single line when
// path is empty. "-" reads the rest of the input.
func (p *prompter) content(path string) (string, error) {
	switch path {
	case "":
		return p.ask("Content", ""), nil
	case "-":
		var b strings.Builder
		for p.scanner.Scan() {
			b.WriteString(p.scanner.Text())
			b.WriteByte('\n')
		}
		return b.String(), p.scanner.Err()
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read file %q: %w", path, err)
		}
		return string(data), nil
	}
}
