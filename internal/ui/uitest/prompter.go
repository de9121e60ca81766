// Package uitest provides a scripted ui.Prompter for tests.
package uitest

import (
	"context"
	"sync"
)

// Prompter answers Confirm from a queue and counts acknowledgments.
// An exhausted queue answers no.
type Prompter struct {
	mu           sync.Mutex
	answers      []bool
	Questions    []string
	Acknowledged []string
}

func NewPrompter(answers ...bool) *Prompter {
	return &Prompter{answers: answers}
}

func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Questions = append(p.Questions, question)
	if len(p.answers) == 0 {
		return false, nil
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

func (p *Prompter) Acknowledge(ctx context.Context, message string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Acknowledged = append(p.Acknowledged, message)
	return nil
}
