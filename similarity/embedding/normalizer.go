package embedding

import (
	"strings"

	"github.com/kljensen/snowball"
	"github.com/poiesic/topicscan/core"
	"github.com/surgebase/porter2"
	"golang.org/x/text/cases"
)

// snowballLanguages maps supported language codes to snowball stemmer names.
var snowballLanguages = map[core.Language]string{
	core.LanguageEnglish:   "english",
	core.LanguageRussian:   "russian",
	core.LanguageSpanish:   "spanish",
	core.LanguageFrench:    "french",
	core.LanguageSwedish:   "swedish",
	core.LanguageNorwegian: "norwegian",
	core.LanguageHungarian: "hungarian",
}

// Normalizer reduces a word to the form used as its vector key.
// The same Normalizer must be used for import and for lookup.
type Normalizer struct {
	stemming       bool
	porter2English bool
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithStemming enables or disables stemming. Enabled by default.
func WithStemming(enabled bool) NormalizerOption {
	return func(n *Normalizer) {
		n.stemming = enabled
	}
}

// WithPorter2English stems English with porter2 instead of snowball.
func WithPorter2English(enabled bool) NormalizerOption {
	return func(n *Normalizer) {
		n.porter2English = enabled
	}
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{stemming: true}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Supported reports whether lang has a stemmer.
func Supported(lang core.Language) bool {
	_, ok := snowballLanguages[lang]
	return ok
}

// Normalize trims, case folds and stems word for lang.
// Words in unsupported languages are only folded.
func (n *Normalizer) Normalize(lang core.Language, word string) string {
	folded := fold(word)
	if folded == "" || !n.stemming {
		return folded
	}

	if lang == core.LanguageEnglish && n.porter2English {
		return porter2.Stem(folded)
	}

	name, ok := snowballLanguages[lang]
	if !ok {
		return folded
	}
	stem, err := snowball.Stem(folded, name, true)
	if err != nil || stem == "" {
		return folded
	}
	return stem
}

func fold(word string) string {
	return cases.Fold().String(strings.TrimSpace(word))
}
