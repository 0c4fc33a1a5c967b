package prompt

import (
	"fmt"
	"strings"

	"github.com/xhad/hip/internal/models"
)

const (
	systemRole = "You are an expert biology tutor. Answer the following multiple-choice question accurately."

	contextHeader = "=== Relevant Textbook Information ==="
	contextFooter = "=== End of Textbook Information ==="

	fewShotIntro = "Here are examples of how to approach similar questions:"

	instructions = `Instructions:
1. Read the textbook information carefully (if provided above)
2. Identify key concepts from the textbook that directly relate to the question
3. Evaluate each answer choice against the textbook information
4. Use your biological knowledge to support your reasoning
5. Choose the most accurate answer`

	responseFormat = `Format your response as:
Reasoning: [your step-by-step analysis referencing textbook information when relevant]
Answer: [LETTER]`

	basicInstruction = "Respond with ONLY the letter (A, B, C, or D)."
)

var choiceLetters = []string{"A", "B", "C", "D"}

// FewShotExample is a worked question demonstrating the expected reasoning
// style inside the prompt.
type FewShotExample struct {
	Question  string
	Choices   []string
	Reasoning string
	Answer    string
}

var fewShotExamples = []FewShotExample{
	{
		Question: "GMOs are created by ________",
		Choices: []string{
			"generating genomic DNA fragments with restriction endonucleases",
			"introducing recombinant DNA into an organism by any means",
			"overexpressing proteins in E. coli",
			"all of the above",
		},
		Reasoning: "GMOs are defined by introducing recombinant DNA (B). Option A is a technique, not the definition. Option C is about protein production. Option D is incorrect.",
		Answer:    "B",
	},
	{
		Question: "Which scientific concept did Charles Darwin and Alfred Wallace independently discover?",
		Choices: []string{
			"mutation",
			"natural selection",
			"overbreeding",
			"sexual reproduction",
		},
		Reasoning: "Both Darwin and Wallace independently developed the theory of natural selection (B). Mutation was discovered later. Overbreeding and sexual reproduction were known concepts before their time.",
		Answer:    "B",
	},
	{
		Question: "Which situation would most likely lead to allopatric speciation?",
		Choices: []string{
			"Flood causes the formation of a new lake",
			"A storm causes several large trees to fall down",
			"A mutation causes a new trait to develop",
			"An injury",
		},
		Reasoning: "Allopatric speciation requires geographic isolation. A new lake creates a geographic barrier separating populations (A). A storm is temporary. A mutation describes sympatric speciation. An injury affects an individual, not a population.",
		Answer:    "A",
	},
}

// FormatAnswerChoices labels choices A) through D) in presentation order.
// The parser's letter-to-index mapping relies on this ordering.
func FormatAnswerChoices(choices []string) string {
	lines := make([]string, len(choices))
	for i, choice := range choices {
		lines[i] = fmt.Sprintf("%s) %s", choiceLetters[i], choice)
	}
	return strings.Join(lines, "\n")
}

// FormatContextSection renders retrieved chunks between the context markers,
// using at most maxChunks of the already-ranked results. Empty input renders
// nothing.
func FormatContextSection(retrieved []models.RetrievalResult, maxChunks int) string {
	if len(retrieved) == 0 {
		return ""
	}
	if maxChunks > 0 && len(retrieved) > maxChunks {
		retrieved = retrieved[:maxChunks]
	}

	var body strings.Builder
	for i, chunk := range retrieved {
		if i > 0 {
			body.WriteString("\n")
		}
		fmt.Fprintf(&body, "[Context %d]\n%s", i+1, chunk.Text)
	}

	return fmt.Sprintf("%s\n%s\n%s\n\n", contextHeader, body.String(), contextFooter)
}

// FormatFewShotSection renders the built-in worked examples.
func FormatFewShotSection() string {
	examples := make([]string, len(fewShotExamples))
	for i, ex := range fewShotExamples {
		examples[i] = fmt.Sprintf("Example %d:\nQuestion: %s\nAnswer choices:\n%s\n\nReasoning: %s\nAnswer: %s",
			i+1, ex.Question, FormatAnswerChoices(ex.Choices), ex.Reasoning, ex.Answer)
	}

	return fmt.Sprintf("%s\n\n%s\n\n", fewShotIntro, strings.Join(examples, "\n\n"))
}

// BuildMain assembles the full prompt: role, optional context section,
// few-shot section, the question with labeled choices, and the reasoning
// instructions.
func BuildMain(question string, choices []string, contextSection, fewShotSection string) string {
	parts := []string{
		systemRole,
		"",
		contextSection,
		fewShotSection,
		"Now answer this NEW question:",
		"",
		fmt.Sprintf("Question: %s", question),
		"",
		"Answer choices:",
		FormatAnswerChoices(choices),
		"",
		instructions,
		"",
		responseFormat,
	}
	return strings.Join(parts, "\n")
}

// BuildBasic assembles the simplified fallback prompt with no context, no
// few-shot examples and no reasoning request.
func BuildBasic(question string, choices []string) string {
	return fmt.Sprintf("%s\n\n%s\n\n%s", question, FormatAnswerChoices(choices), basicInstruction)
}
