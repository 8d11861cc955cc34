package render

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/promptshape/promptshape/schema"
)

// DefaultEncoding is the tiktoken encoding used when none is specified.
const DefaultEncoding = "cl100k_base"

// TokenEstimator counts tokens in rendered prompt text so callers can budget
// schema descriptions against a model's context window.
type TokenEstimator struct {
	encoding string
	enc      *tiktoken.Tiktoken
	once     sync.Once
	initErr  error
}

// NewTokenEstimator creates an estimator for the given tiktoken encoding.
// An empty encoding selects DefaultEncoding.
func NewTokenEstimator(encoding string) *TokenEstimator {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	return &TokenEstimator{encoding: encoding}
}

// init lazily loads the encoding (tiktoken may fetch data on first use).
func (e *TokenEstimator) init() error {
	e.once.Do(func() {
		enc, err := tiktoken.GetEncoding(e.encoding)
		if err != nil {
			e.initErr = fmt.Errorf("init tiktoken encoding %s: %w", e.encoding, err)
			return
		}
		e.enc = enc
	})
	return e.initErr
}

// Count returns the token count of the given text.
func (e *TokenEstimator) Count(text string) (int, error) {
	if err := e.init(); err != nil {
		return 0, err
	}
	return len(e.enc.Encode(text, nil, nil)), nil
}

// CountSchema returns the token count of the schema's rendered form.
func (e *TokenEstimator) CountSchema(s *schema.Schema) (int, error) {
	return e.Count(Render(s))
}
