package agent

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MinChoices = 2
	MaxChoices = 4
)

var (
	ErrEmptyQuestion  = errors.New("agent: question cannot be empty")
	ErrTooFewChoices  = fmt.Errorf("agent: must provide at least %d answer choices", MinChoices)
	ErrTooManyChoices = fmt.Errorf("agent: maximum %d answer choices supported", MaxChoices)
)

func validateQuestion(question string) error {
	if strings.TrimSpace(question) == "" {
		return ErrEmptyQuestion
	}
	return nil
}

func validateChoices(choices []string) error {
	if len(choices) < MinChoices {
		return ErrTooFewChoices
	}
	if len(choices) > MaxChoices {
		return ErrTooManyChoices
	}
	return nil
}
