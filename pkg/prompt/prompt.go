// Package prompt asks the operator for values missing from flags and
// config.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	itemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	countStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Prompter reads answers from In and writes questions to Out. Passwords
// are read without echo when In is a terminal.
type Prompter struct {
	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

// New returns a prompter on stdin/stdout.
func New() *Prompter {
	return &Prompter{In: os.Stdin, Out: os.Stdout}
}

func (p *Prompter) bufReader() *bufio.Reader {
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	return p.reader
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.bufReader().ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", errors.Wrap(err, "read answer")
	}
	return strings.Trim(line, "\r\n"), nil
}

// Line asks question and returns the trimmed answer.
func (p *Prompter) Line(question string) (string, error) {
	fmt.Fprintf(p.Out, "%s ", question)
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Password asks question and reads the answer without echo.
func (p *Prompter) Password(question string) (string, error) {
	fmt.Fprintf(p.Out, "%s ", question)
	if f, ok := p.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		pwd, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.Out)
		if err != nil {
			return "", errors.Wrap(err, "read password")
		}
		return string(pwd), nil
	}
	return p.readLine()
}

// Choice asks until the answer is one of choices (case-insensitive) and
// returns it lower-cased.
func (p *Prompter) Choice(question string, choices ...string) (string, error) {
	for {
		answer, err := p.Line(fmt.Sprintf("%s [%s]:", question, strings.Join(choices, "/")))
		if err != nil {
			return "", err
		}
		answer = strings.ToLower(answer)
		for _, c := range choices {
			if answer == strings.ToLower(c) {
				return answer, nil
			}
		}
		fmt.Fprintf(p.Out, "Please answer one of %s.\n", strings.Join(choices, ", "))
	}
}

// Confirm asks a yes/no question. Anything but y or yes is a no.
func (p *Prompter) Confirm(question string) (bool, error) {
	answer, err := p.Line(question + " [y/N]:")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// List prints a titled list of names.
func (p *Prompter) List(title string, names []string) {
	fmt.Fprintf(p.Out, "%s %s\n", headerStyle.Render(title), countStyle.Render(fmt.Sprintf("(%d)", len(names))))
	for _, n := range names {
		fmt.Fprintf(p.Out, "  %s\n", itemStyle.Render(n))
	}
}
