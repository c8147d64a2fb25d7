// Package prompt builds token-bounded completion prompts from ranked
// knowledge entries.
package prompt

import (
	"fmt"
	"strings"

	"github.com/fascani/amabot/internal/domain"
)

const (
	// DefaultMaxTokens is the context-window ceiling reserved for packed
	// sections: the completion model's window minus room for the answer.
	DefaultMaxTokens = 2046
	// DefaultSeparator is placed before every packed section.
	DefaultSeparator = "\n* "
	// DefaultPersona names the person the knowledge base describes.
	DefaultPersona = "the site owner"
)

const headerTemplate = `This question is asked by an interviewer or somebody who wants to know
more about me, %s. Answer politely using the following context
but don't be afraid to have a candid, good-nature, and joking tone as
this is exactly who I am. Context:
`

// TokenCounter counts completion-model tokens for a string.
type TokenCounter interface {
	Count(text string) int
}

// Assembler greedily packs ranked entries into a bounded prompt.
type Assembler struct {
	counter   TokenCounter
	persona   string
	maxTokens int
	separator string
}

// Config holds prompt assembly settings; zero values fall back to the
// package defaults.
type Config struct {
	Persona   string
	MaxTokens int
	Separator string
}

// NewAssembler creates an Assembler using the given token counter.
func NewAssembler(counter TokenCounter, cfg Config) *Assembler {
	persona := cfg.Persona
	if persona == "" {
		persona = DefaultPersona
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	separator := cfg.Separator
	if separator == "" {
		separator = DefaultSeparator
	}
	return &Assembler{
		counter:   counter,
		persona:   persona,
		maxTokens: maxTokens,
		separator: separator,
	}
}

// MaxTokens returns the configured packing ceiling.
func (a *Assembler) MaxTokens() int {
	return a.maxTokens
}

// Assemble packs entries in similarity-descending order until the running
// token total (each entry's cached token count plus the separator cost)
// would exceed the ceiling, then stops entirely. The first entry that does
// not fit ends packing even if a later, shorter entry would have fit: the
// packing is greedy by relevance, not best-fit.
//
// The result is the fixed instructional header, the chosen sections, and a
// Q/A footer carrying the query.
func (a *Assembler) Assemble(query string, ranked []domain.RankedEntry) string {
	separatorTokens := a.counter.Count(a.separator)

	var sections strings.Builder
	total := 0
	for _, r := range ranked {
		total += r.Entry.NumTokens + separatorTokens
		if total > a.maxTokens {
			break
		}
		sections.WriteString(a.separator)
		sections.WriteString(strings.ReplaceAll(r.Entry.Content, "\n", " "))
	}

	header := fmt.Sprintf(headerTemplate, a.persona)
	return header + sections.String() + fmt.Sprintf("\n\n Q: %s\n A:", query)
}
