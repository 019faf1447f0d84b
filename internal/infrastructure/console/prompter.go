// Package console implements the interactive terminal front end.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"macromanager/internal/domain"
	"macromanager/internal/ports"
)

// Prompter asks the user to resolve each food over a line-oriented terminal.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

var _ ports.Chooser = (*Prompter)(nil)

// NewPrompter reads answers from in and writes prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// ReadLine prints prompt and returns the next trimmed line.
// io.EOF is returned only when no more input is available.
func (p *Prompter) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(p.out, prompt)
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Choose lists the candidates, then asks for one of them and a serving size.
// Answering "s" skips the food.
func (p *Prompter) Choose(ctx context.Context, food string, candidates []domain.FoodCandidate) (domain.FoodSelection, error) {
	if err := ctx.Err(); err != nil {
		return domain.FoodSelection{}, err
	}

	fmt.Fprintf(p.out, "\nSelect an option for %s:\n", food)
	for i, c := range candidates {
		fmt.Fprintf(p.out, "  %2d) %s (fdc_id: %d)\n", i+1, c.DisplayName, c.FDCID)
	}

	var picked domain.FoodCandidate
	for {
		answer, err := p.ReadLine(fmt.Sprintf("Choice [1-%d, s to skip]: ", len(candidates)))
		if err != nil {
			return domain.FoodSelection{}, fmt.Errorf("read choice: %w", err)
		}
		if strings.EqualFold(answer, "s") {
			return domain.FoodSelection{}, ports.ErrSkip
		}
		n, err := strconv.Atoi(answer)
		if err != nil || n < 1 || n > len(candidates) {
			fmt.Fprintf(p.out, "Please enter a number between 1 and %d.\n", len(candidates))
			continue
		}
		picked = candidates[n-1]
		break
	}

	for {
		answer, err := p.ReadLine(fmt.Sprintf("Amount of %s in grams [%g]: ", picked.DisplayName, domain.DefaultAmountGrams))
		if err != nil {
			return domain.FoodSelection{}, fmt.Errorf("read amount: %w", err)
		}
		grams, err := domain.ParseAmount(answer)
		if err != nil {
			fmt.Fprintf(p.out, "%v\n", err)
			continue
		}
		return domain.FoodSelection{FDCID: picked.FDCID, AmountGrams: grams}, nil
	}
}

// NoMatches tells the user the food was not found and will be left out.
func (p *Prompter) NoMatches(ctx context.Context, food string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(p.out, "\nNo results found for %s, skipping it.\n", food)
	return err
}
