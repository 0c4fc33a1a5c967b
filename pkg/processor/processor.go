package processor

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/xhad/hip/internal/models"
)

// ErrEmptyInput is returned when chunking is attempted on empty or
// whitespace-only text. Callers normalize the textbook before chunking.
var ErrEmptyInput = errors.New("processor: empty input text")

// Token sizes are converted to character counts at roughly 4 chars per token.
const charsPerToken = 4

type Config struct {
	ChunkSize    int // target chunk size in tokens
	ChunkOverlap int // overlap between consecutive chunks in tokens
}

// Processor splits textbook text into overlapping chunks. Paragraphs are the
// preferred split unit; a paragraph that alone exceeds the target falls back
// to sentence splitting, and a sentence that still exceeds it falls back to
// word splitting.
type Processor struct {
	config Config
}

func NewWithConfig(config Config) Processor {
	if config.ChunkSize == 0 {
		config.ChunkSize = 800
	}
	if config.ChunkOverlap == 0 {
		config.ChunkOverlap = 50
	}

	return Processor{
		config: config,
	}
}

var sentenceEnd = regexp.MustCompile(`[.!?]\s+`)

// Chunk splits text into ordered chunks with verbatim overlap: each closed
// chunk seeds the next with its trailing overlap characters. The final
// partial chunk is always emitted. Character spans are tracked against the
// input text but drift once overlap reseeding rejoins text with fresh
// separators, so treat them as provenance hints.
func (p *Processor) Chunk(text string) ([]models.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	chunkChars := p.config.ChunkSize * charsPerToken
	overlapChars := p.config.ChunkOverlap * charsPerToken

	var chunks []models.Chunk
	current := ""
	currentStart := 0

	flush := func() {
		chunks = append(chunks, models.Chunk{
			Text:       current,
			StartChar:  currentStart,
			EndChar:    currentStart + len(current),
			ChunkIndex: len(chunks),
		})
	}

	// carry closes the current chunk, reseeds it with the trailing overlap
	// and glues next onto it with sep.
	carry := func(next, sep string) {
		flush()
		overlapStart := len(current) - overlapChars
		if overlapStart < 0 {
			overlapStart = 0
		}
		// The overlap must begin on a rune boundary or the reseeded chunk
		// would carry invalid UTF-8.
		for overlapStart < len(current) && !utf8.RuneStart(current[overlapStart]) {
			overlapStart++
		}
		overlap := current[overlapStart:]
		currentStart += overlapStart
		switch {
		case overlap == "":
			current = next
		case next == "":
			current = overlap
		default:
			current = overlap + sep + next
		}
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		switch {
		case len(current)+len(para)+2 <= chunkChars:
			if current == "" {
				current = para
			} else {
				current += "\n\n" + para
			}
		case current != "":
			carry(para, "\n\n")
		default:
			// Paragraph alone exceeds the target; accumulate sentences.
			for _, sent := range splitSentences(para) {
				sent = strings.TrimSpace(sent)
				if sent == "" {
					continue
				}
				switch {
				case len(current)+len(sent)+1 <= chunkChars:
					if current == "" {
						current = sent
					} else {
						current += " " + sent
					}
				case current != "":
					carry(sent, " ")
				default:
					// Sentence alone exceeds the target; accumulate words.
					for _, word := range strings.Fields(sent) {
						switch {
						case len(current)+len(word)+1 <= chunkChars:
							if current == "" {
								current = word
							} else {
								current += " " + word
							}
						case current != "":
							carry(word, " ")
						default:
							current = word
						}
					}
				}
			}
		}

		if len(current) >= chunkChars {
			carry("", "")
		}
	}

	if current != "" {
		flush()
	}

	return chunks, nil
}

// splitSentences splits a paragraph after each `.`, `!` or `?` followed by
// whitespace. The terminator stays with its sentence.
func splitSentences(para string) []string {
	var sentences []string
	last := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(para, -1) {
		sentences = append(sentences, para[last:loc[1]])
		last = loc[1]
	}
	if last < len(para) {
		sentences = append(sentences, para[last:])
	}
	return sentences
}
