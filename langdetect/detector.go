// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package langdetect picks the language of an input text with whatlanggo.
//
// Detection is used to choose the stemmer and vector namespace for a match
// request. Unreliable results fall back to a configured default language.
package langdetect

import (
	"log/slog"

	"github.com/abadojack/whatlanggo"
	"github.com/poiesic/topicscan/core"
)

// known maps whatlanggo languages to the codes used by the word-vector model.
var known = map[whatlanggo.Lang]core.Language{
	whatlanggo.Rus: core.LanguageRussian,
	whatlanggo.Eng: core.LanguageEnglish,
	whatlanggo.Spa: core.LanguageSpanish,
	whatlanggo.Fra: core.LanguageFrench,
	whatlanggo.Swe: core.LanguageSwedish,
	whatlanggo.Nob: core.LanguageNorwegian,
	whatlanggo.Hun: core.LanguageHungarian,
}

// Detector implements matcher.LanguageDetector.
type Detector struct {
	fallback      core.Language
	minConfidence float64
	options       whatlanggo.Options
	logger        *slog.Logger
}

// Option configures a Detector.
type Option func(*Detector)

// WithFallback sets the language returned when detection is unreliable.
// Default is core.DefaultLanguage.
func WithFallback(lang core.Language) Option {
	return func(d *Detector) {
		if lang != "" {
			d.fallback = lang
		}
	}
}

// WithMinConfidence requires at least this confidence in addition to
// whatlanggo's own reliability check.
func WithMinConfidence(confidence float64) Option {
	return func(d *Detector) {
		d.minConfidence = confidence
	}
}

// WithCandidates limits detection to the given languages.
// Languages whatlanggo does not know are ignored.
func WithCandidates(langs ...core.Language) Option {
	return func(d *Detector) {
		whitelist := make(map[whatlanggo.Lang]bool)
		for wl, cl := range known {
			for _, lang := range langs {
				if cl == lang {
					whitelist[wl] = true
				}
			}
		}
		if len(whitelist) > 0 {
			d.options = whatlanggo.Options{Whitelist: whitelist}
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
	}
}

// New creates a Detector.
func New(opts ...Option) *Detector {
	d := &Detector{
		fallback: core.DefaultLanguage,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With("component", "langdetect")
	return d
}

// Fallback returns the language used for unreliable detections.
func (d *Detector) Fallback() core.Language {
	return d.fallback
}

// Detect returns the language of text or the fallback.
func (d *Detector) Detect(text string) core.Language {
	info := whatlanggo.DetectWithOptions(text, d.options)
	if !info.IsReliable() || info.Confidence < d.minConfidence {
		d.logger.Debug("unreliable detection, using fallback",
			"detected", info.Lang.Iso6393(), "confidence", info.Confidence, "fallback", d.fallback)
		return d.fallback
	}

	if lang, ok := known[info.Lang]; ok {
		return lang
	}
	return core.Language(info.Lang.Iso6393())
}
