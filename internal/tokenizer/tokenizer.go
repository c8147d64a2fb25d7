// Package tokenizer counts completion-model tokens.
//
// The encoding must match the completions model family, not the embedding
// model family; a count computed with the wrong vocabulary is meaningless.
package tokenizer

import (
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"

	"github.com/fascani/amabot/internal/domain"
)

// Encoding is the tokenizer vocabulary of the GPT-3 completions family.
const Encoding = "r50k_base"

// Counter counts the number of model tokens a string consumes.
type Counter struct {
	enc *tiktoken.Tiktoken
}

var (
	loadOnce sync.Once
	shared   *Counter
	loadErr  error
)

// Shared returns the process-wide Counter, loading the encoding on first
// use. The encoding is held for the lifetime of the process and never
// released.
func Shared() (*Counter, error) {
	loadOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(Encoding)
		if err != nil {
			loadErr = domain.NewModelLoadError("failed to load tokenizer encoding", err)
			return
		}
		shared = &Counter{enc: enc}
	})
	if loadErr != nil {
		return nil, loadErr
	}
	return shared, nil
}

// Count returns the number of tokens in text. Pure and deterministic once
// the encoding is loaded.
func (c *Counter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}
