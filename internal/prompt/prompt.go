// Package prompt collects a generation request interactively, one question per line.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/mcncl/jsonmodel/internal/errors"
	"github.com/mcncl/jsonmodel/internal/models"
	"github.com/mcncl/jsonmodel/internal/parser"
)

// Prompter asks for the class name, flags and JSON lines
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
	label   *color.Color
	hint    *color.Color
}

// New creates a Prompter reading answers from in and writing questions to out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		scanner: bufio.NewScanner(in),
		out:     out,
		label:   color.New(color.FgCyan, color.Bold),
		hint:    color.New(color.Faint),
	}
}

// Collect asks every question in order, so an answer file lines up one answer per line.
// An empty answer keeps the value from defaults.
func (p *Prompter) Collect(defaults models.Request) (models.Request, error) {
	req := defaults

	className, err := p.ask("Class Name", defaults.ClassName)
	if err != nil {
		return req, err
	}
	if className == "" {
		return req, errors.NewInputError("no class name given", errors.ErrMissingClassName)
	}
	req.ClassName = className

	if req.Options.EmitPersistence, err = p.askYesNo("Database?", defaults.Options.EmitPersistence); err != nil {
		return req, err
	}
	if req.Options.IsMasterEntity, err = p.askYesNo("Master?", defaults.Options.IsMasterEntity); err != nil {
		return req, err
	}
	if req.Options.FilterFieldKey, err = p.ask("Specify filter field (optional)", defaults.Options.FilterFieldKey); err != nil {
		return req, err
	}
	if req.Options.IDFieldKey, err = p.ask("Specify ID field (optional)", defaults.Options.IDFieldKey); err != nil {
		return req, err
	}

	p.label.Fprint(p.out, "JSON: ")
	p.hint.Fprintln(p.out, "(one member per line, finish with '}')")
	if req.Lines, err = parser.ReadLines(p.scanner); err != nil {
		return req, err
	}
	return req, nil
}

func (p *Prompter) ask(question, def string) (string, error) {
	p.label.Fprint(p.out, question)
	if def != "" {
		p.hint.Fprintf(p.out, " [%s]", def)
	}
	fmt.Fprint(p.out, ": ")

	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", errors.NewInputError("error reading input", err)
		}
		return "", errors.NewInputError(fmt.Sprintf("input ended before %q was answered", question), errors.ErrNoInput)
	}

	answer := strings.TrimSpace(p.scanner.Text())
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

func (p *Prompter) askYesNo(question string, def bool) (bool, error) {
	defAnswer := "N"
	if def {
		defAnswer = "Y"
	}
	answer, err := p.ask(question+" (Y/N)", defAnswer)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "Y"), nil
}
