package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// NoMatch is the sentinel returned when no extraction strategy matched.
const NoMatch = -1

// A strategy inspects the response and returns a choice index, or NoMatch.
type strategy func(response string, choices []string) int

// Strategies run in order and the first match wins: structured
// chain-of-thought cues are trusted before a bare letter (which can appear
// in unrelated prose), then a bare digit, and finally a substring match
// against the choice texts.
var strategies = []strategy{
	matchChainOfThought,
	matchBareLetter,
	matchBareDigit,
	matchChoiceText,
}

var cotPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)therefore[,\s]+the\s+answer\s+is\s+([A-D])`),
	regexp.MustCompile(`(?i)answer:\s*([A-D])`),
	regexp.MustCompile(`(?i)conclusion[:\s]+([A-D])`),
	regexp.MustCompile(`(?i)the\s+correct\s+answer\s+is\s+([A-D])`),
	regexp.MustCompile(`(?i)answer\s+is\s+([A-D])`),
}

var (
	bareLetter = regexp.MustCompile(`(?i)\b([A-D])\b`)
	bareDigit  = regexp.MustCompile(`\b([0-3])\b`)
)

// Extract maps free-text model output to an index into choices, positional
// (A=0, B=1, C=2, D=3). Returns NoMatch when no strategy resolves an answer.
func Extract(response string, choices []string) int {
	if strings.TrimSpace(response) == "" {
		return NoMatch
	}

	for _, s := range strategies {
		if idx := s(response, choices); idx != NoMatch {
			return idx
		}
	}
	return NoMatch
}

func matchChainOfThought(response string, _ []string) int {
	for _, p := range cotPatterns {
		if m := p.FindStringSubmatch(response); m != nil {
			return letterIndex(m[1])
		}
	}
	return NoMatch
}

func matchBareLetter(response string, _ []string) int {
	if m := bareLetter.FindStringSubmatch(response); m != nil {
		return letterIndex(m[1])
	}
	return NoMatch
}

func matchBareDigit(response string, _ []string) int {
	if m := bareDigit.FindStringSubmatch(response); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return n
		}
	}
	return NoMatch
}

func matchChoiceText(response string, choices []string) int {
	lower := strings.ToLower(response)
	for i, choice := range choices {
		if choice != "" && strings.Contains(lower, strings.ToLower(choice)) {
			return i
		}
	}
	return NoMatch
}

func letterIndex(letter string) int {
	return int(unicode.ToUpper(rune(letter[0])) - 'A')
}
