package dialogsvc

import (
	"context"
	"sync"

	"classhub/core"
)

// ScriptedPrompter replays canned answers. Test double; it also records
// every prompt it was asked.
type ScriptedPrompter struct {
	mutex   sync.Mutex
	answers []core.Answer
	Prompts []core.Prompt
}

var _ core.Prompter = (*ScriptedPrompter)(nil)

func NewScriptedPrompter(answers ...core.Answer) *ScriptedPrompter {
	return &ScriptedPrompter{answers: answers}
}

// Confirm is a shorthand answer that just confirms.
func Confirm() core.Answer { return core.Answer{Confirmed: true} }

// Decline is a shorthand answer that just declines.
func Decline() core.Answer { return core.Answer{} }

func (p *ScriptedPrompter) Ask(ctx context.Context, prompt core.Prompt) (core.Answer, error) {
	if err := ctx.Err(); err != nil {
		return core.Answer{}, err
	}
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.Prompts = append(p.Prompts, prompt)
	if len(p.answers) == 0 {
		return core.Answer{}, nil
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}
