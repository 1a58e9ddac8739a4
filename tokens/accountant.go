// Package tokens converts text and message lists into token counts for a
// model's tokenizer. Counts drive the diff and conversation budgets.
package tokens

import (
	"fmt"

	"github.com/tailored-agentic-units/retcon/core/protocol"
	"github.com/tiktoken-go/tokenizer"
)

// Chat-completions accounting constants.
const (
	perMessageOverhead = 4
	perNameAdjustment  = -1
	replyPriming       = 2
)

// Counter measures text against a token budget.
type Counter interface {
	Count(text string) int
	CountMessages(messages []protocol.Message) int
}

// Config selects the tokenizer for an Accountant.
type Config struct {
	Model   string `json:"model,omitempty"`
	Profile string `json:"profile,omitempty"` // Explicit encoding name; empty resolves from Model.
}

// Accountant counts tokens with a BPE encoding resolved from configuration.
type Accountant struct {
	model    string
	encoding tokenizer.Encoding
	fellBack bool
	codec    tokenizer.Codec
}

// New resolves the encoding for cfg and loads it.
func New(cfg Config) (*Accountant, error) {
	enc, fellBack, err := Resolve(cfg.Model, cfg.Profile)
	if err != nil {
		return nil, err
	}

	codec, err := tokenizer.Get(enc)
	if err != nil {
		return nil, fmt.Errorf("failed to load encoding %s: %w", enc, err)
	}

	return &Accountant{
		model:    cfg.Model,
		encoding: enc,
		fellBack: fellBack,
		codec:    codec,
	}, nil
}

// Encoding returns the name of the encoding in use.
func (a *Accountant) Encoding() string {
	return string(a.encoding)
}

// FellBack reports whether the model name was unrecognized and the default
// encoding was substituted.
func (a *Accountant) FellBack() bool {
	return a.fellBack
}

// Count returns the number of tokens in text. Strings the codec rejects are
// estimated at four characters per token.
func (a *Accountant) Count(text string) int {
	if text == "" {
		return 0
	}
	ids, _, err := a.codec.Encode(text)
	if err != nil {
		return approximate(text)
	}
	return len(ids)
}

// CountMessages applies the chat-completions accounting scheme: each message
// costs 4 plus the tokens of its role, content, and name, a named message is
// credited 1, and the list as a whole costs 2.
func (a *Accountant) CountMessages(messages []protocol.Message) int {
	return CountMessages(a.Count, messages)
}

// CountMessages applies the message accounting scheme using count for the
// individual field values. Exposed so alternative Counters share the formula.
func CountMessages(count func(string) int, messages []protocol.Message) int {
	total := 0
	for _, msg := range messages {
		total += perMessageOverhead
		total += count(string(msg.Role))
		total += count(msg.Content)
		if msg.Name != "" {
			total += count(msg.Name)
			total += perNameAdjustment
		}
	}
	return total + replyPriming
}

func approximate(text string) int {
	n := len([]rune(text))
	return (n + 3) / 4
}
