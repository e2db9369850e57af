package persist

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// StaticPicker answers dialogs with fixed paths. An empty path cancels.
// The CLI uses it for paths given as flags or arguments.
type StaticPicker struct {
	Open string
	Save string
}

// OpenPath implements Picker.
func (p StaticPicker) OpenPath(ctx context.Context) (string, error) {
	if p.Open == "" {
		return "", Canceled("open")
	}
	return p.Open, nil
}

// SavePath implements Picker.
func (p StaticPicker) SavePath(ctx context.Context, suggested string) (string, error) {
	if p.Save == "" {
		return "", Canceled("save")
	}
	return p.Save, nil
}

// PromptPicker asks for paths on a terminal. An empty answer or end of
// input cancels.
type PromptPicker struct {
	In  io.Reader
	Out io.Writer

	scanner *bufio.Scanner
}

// NewPromptPicker reads answers from in and writes prompts to out.
func NewPromptPicker(in io.Reader, out io.Writer) *PromptPicker {
	return &PromptPicker{In: in, Out: out}
}

// OpenPath implements Picker.
func (p *PromptPicker) OpenPath(ctx context.Context) (string, error) {
	return p.ask(ctx, "Open project: ", "open")
}

// SavePath implements Picker. The suggestion is shown and used when the
// answer is a single ".".
func (p *PromptPicker) SavePath(ctx context.Context, suggested string) (string, error) {
	answer, err := p.ask(ctx, fmt.Sprintf("Save project as [%s]: ", suggested), "save")
	if err != nil {
		return "", err
	}
	if answer == "." {
		return suggested, nil
	}
	return answer, nil
}

func (p *PromptPicker) ask(ctx context.Context, prompt, what string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.scanner == nil {
		p.scanner = bufio.NewScanner(p.In)
	}
	fmt.Fprint(p.Out, prompt)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", fmt.Errorf("read answer: %w", err)
		}
		return "", Canceled(what)
	}
	answer := strings.TrimSpace(p.scanner.Text())
	if answer == "" {
		return "", Canceled(what)
	}
	return answer, nil
}

var (
	_ Picker = StaticPicker{}
	_ Picker = (*PromptPicker)(nil)
)
