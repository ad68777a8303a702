package core

import "context"

type (
	// PromptField describes one input the user is asked to fill in.
	PromptField struct {
		Name     string
		Label    string
		Required bool
		Options  []string // non-empty for a fixed-choice field
	}

	Prompt struct {
		Title  string
		Text   string
		Fields []PromptField
	}

	// Answer carries the user's response. Values is keyed by field name
	// and only meaningful when Confirmed.
	Answer struct {
		Confirmed bool
		Values    map[string]string
	}

	// Prompter is any service that can put a question to the user and wait
	// for an answer.
	Prompter interface {
		Ask(ctx context.Context, p Prompt) (Answer, error)
	}
)
