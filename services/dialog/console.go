package dialogsvc

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"classhub/core"
)

// ConsolePrompter asks questions on a terminal.
type ConsolePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

var _ core.Prompter = (*ConsolePrompter)(nil)

func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{in: bufio.NewReader(in), out: out}
}

func (p *ConsolePrompter) Ask(ctx context.Context, prompt core.Prompt) (core.Answer, error) {
	if err := ctx.Err(); err != nil {
		return core.Answer{}, err
	}

	fmt.Fprintln(p.out, prompt.Title)
	if prompt.Text != "" {
		fmt.Fprintln(p.out, prompt.Text)
	}

	if len(prompt.Fields) == 0 {
		fmt.Fprint(p.out, "Proceed? [y/N]: ")
		line, err := p.readLine()
		if err != nil {
			return core.Answer{}, err
		}
		confirmed := strings.EqualFold(line, "y") || strings.EqualFold(line, "yes")
		return core.Answer{Confirmed: confirmed}, nil
	}

	values := make(map[string]string, len(prompt.Fields))
	for _, field := range prompt.Fields {
		if err := ctx.Err(); err != nil {
			return core.Answer{}, err
		}
		for {
			label := field.Label
			if len(field.Options) > 0 {
				label += " (" + strings.Join(field.Options, "/") + ")"
			}
			fmt.Fprintf(p.out, "%s: ", label)
			line, err := p.readLine()
			if err != nil {
				return core.Answer{}, err
			}
			if line == "" && field.Required {
				fmt.Fprintln(p.out, "this field is required")
				continue
			}
			values[field.Name] = line
			break
		}
	}
	return core.Answer{Confirmed: true, Values: values}, nil
}

func (p *ConsolePrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
