package tokenize

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DefaultStripChars lists the characters removed from text before it is split
// into words: ASCII digits plus common punctuation, including the em dash.
const DefaultStripChars = "0123456789!#$%&'()*+,./:;<=>?@[]^_`{|}~—\"-"

// ErrInvalidText is returned for input that is not valid UTF-8.
var ErrInvalidText = errors.New("text is not valid UTF-8")

// Tokenizer splits text into an ordered sequence of word tokens.
// Implementations must be safe for concurrent use.
type Tokenizer interface {
	Tokenize(text string) ([]string, error)
}

// Splitter deletes a configured set of characters and splits the remainder on
// whitespace. It holds no mutable state after construction.
type Splitter struct {
	strip    map[rune]struct{}
	foldCase bool
}

var _ Tokenizer = (*Splitter)(nil)

// Option configures a Splitter.
type Option func(*Splitter)

// WithStripChars replaces the set of characters deleted before splitting.
// An empty set disables stripping.
func WithStripChars(chars string) Option {
	return func(s *Splitter) {
		s.strip = runeSet(chars)
	}
}

// WithCaseFolding enables Unicode case folding of every token.
func WithCaseFolding(enabled bool) Option {
	return func(s *Splitter) {
		s.foldCase = enabled
	}
}

// NewSplitter creates a Splitter using DefaultStripChars and no case folding
// unless overridden by options.
func NewSplitter(opts ...Option) *Splitter {
	s := &Splitter{
		strip: runeSet(DefaultStripChars),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tokenize normalizes text to NFC, removes the strip characters and splits
// on whitespace. Stripped characters are deleted, not replaced, so
// "foo-bar" yields the single token "foobar".
func (s *Splitter) Tokenize(text string) ([]string, error) {
	if !utf8.ValidString(text) {
		return nil, ErrInvalidText
	}

	text = norm.NFC.String(text)
	if len(s.strip) > 0 {
		text = strings.Map(func(r rune) rune {
			if _, ok := s.strip[r]; ok {
				return -1
			}
			return r
		}, text)
	}

	tokens := strings.Fields(text)
	if s.foldCase {
		// Casers are stateful and must not be shared between goroutines.
		caser := cases.Fold()
		for i, tok := range tokens {
			tokens[i] = caser.String(tok)
		}
	}
	return tokens, nil
}

func runeSet(chars string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(chars))
	for _, r := range chars {
		set[r] = struct{}{}
	}
	return set
}
