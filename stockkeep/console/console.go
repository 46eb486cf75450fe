package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Console reads prompted answers from an input stream and writes to an output stream.
// Secrets are read without echo when the input is a terminal.
type Console struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

func New(in io.Reader, out io.Writer) *Console {
	c := &Console{in: bufio.NewReader(in), out: out, fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		c.fd = int(f.Fd())
	}
	return c
}

func (c *Console) Println(a ...interface{}) {
	fmt.Fprintln(c.out, a...)
}

func (c *Console) Printf(format string, a ...interface{}) {
	fmt.Fprintf(c.out, format, a...)
}

// ReadLine prints prompt and returns the next line without its line ending.
// io.EOF is returned only when no input is left at all.
func (c *Console) ReadLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *Console) ReadPassword(prompt string) (string, error) {
	if c.fd < 0 {
		return c.ReadLine(prompt)
	}

	fmt.Fprint(c.out, prompt)
	b, err := term.ReadPassword(c.fd)
	fmt.Fprintln(c.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadInt repeats prompt until a whole number is entered.
func (c *Console) ReadInt(prompt string) (int, error) {
	for {
		line, err := c.ReadLine(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil {
			return n, nil
		}
		c.Println("Please enter a whole number.")
	}
}

// ReadFloat repeats prompt until a number is entered.
func (c *Console) ReadFloat(prompt string) (float64, error) {
	for {
		line, err := c.ReadLine(prompt)
		if err != nil {
			return 0, err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
		if err == nil {
			return f, nil
		}
		c.Println("Please enter a number.")
	}
}

// ReadOptionalInt is ReadInt that also accepts an empty line, returned as nil.
func (c *Console) ReadOptionalInt(prompt string) (*int, error) {
	for {
		line, err := c.ReadLine(prompt)
		if err != nil {
			return nil, err
		}
		if line == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil {
			return &n, nil
		}
		c.Println("Please enter a whole number or leave empty.")
	}
}

// ReadOptionalFloat is ReadFloat that also accepts an empty line, returned as nil.
func (c *Console) ReadOptionalFloat(prompt string) (*float64, error) {
	for {
		line, err := c.ReadLine(prompt)
		if err != nil {
			return nil, err
		}
		if line == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
		if err == nil {
			return &f, nil
		}
		c.Println("Please enter a number or leave empty.")
	}
}
