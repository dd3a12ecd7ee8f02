// Package tokenizer turns document text into normalized word tokens.
//
// A token is a maximal run of letters folded to lowercase. Everything that
// is not a letter (digits, punctuation, underscores, whitespace, combining
// marks that survive NFC composition) separates tokens and never appears in
// one.
//
// Letters are Unicode letters, not just ASCII: "Café" yields "café" and
// "Straße" yields "straße".
package tokenizer

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
	"golang.org/x/text/unicode/norm"
)

// StemmingLanguages lists the languages accepted by WithStemming.
var StemmingLanguages = []string{
	"english",
	"french",
	"hungarian",
	"norwegian",
	"russian",
	"spanish",
	"swedish",
}

// Tokenizer splits text into tokens. The zero value is not usable; call New.
// A Tokenizer holds no mutable state and is safe for concurrent use.
type Tokenizer struct {
	// stemLanguage enables snowball stemming when non-empty.
	stemLanguage string
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithStemming reduces every token to its snowball stem in the given
// language. Unsupported languages leave tokens unstemmed.
func WithStemming(language string) Option {
	return func(t *Tokenizer) {
		t.stemLanguage = strings.ToLower(strings.TrimSpace(language))
	}
}

// New creates a Tokenizer. Without options it performs no stemming.
func New(opts ...Option) *Tokenizer {
	t := &Tokenizer{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var defaultTokenizer = New()

// Tokenize splits text with a Tokenizer that performs no stemming.
func Tokenize(text string) []string {
	return defaultTokenizer.Tokenize(text)
}

// Tokenize returns the tokens of text in the order they occur.
// Empty or letterless input yields an empty, non-nil slice.
func (t *Tokenizer) Tokenize(text string) []string {
	tokens := make([]string, 0)
	if text == "" {
		return tokens
	}

	// Compose decomposed accents so "e" + U+0301 stays inside one run.
	text = norm.NFC.String(text)

	var run strings.Builder
	flush := func() {
		if run.Len() == 0 {
			return
		}
		tokens = append(tokens, t.stem(run.String()))
		run.Reset()
	}

	for _, r := range text {
		if unicode.IsLetter(r) {
			run.WriteRune(unicode.ToLower(r))
			continue
		}
		flush()
	}
	flush()

	return tokens
}

// Stemming reports whether the tokenizer stems tokens.
func (t *Tokenizer) Stemming() bool {
	return t.stemLanguage != ""
}

func (t *Tokenizer) stem(token string) string {
	if t.stemLanguage == "" {
		return token
	}
	stemmed, err := snowball.Stem(token, t.stemLanguage, true)
	if err != nil || stemmed == "" {
		return token
	}
	return stemmed
}

// Fold applies the same case folding Tokenize uses, without splitting.
// Callers comparing user-supplied words against tokens fold them first.
func Fold(word string) string {
	word = norm.NFC.String(strings.TrimSpace(word))
	return strings.Map(unicode.ToLower, word)
}

// IsSupportedLanguage reports whether language can be passed to WithStemming.
func IsSupportedLanguage(language string) bool {
	language = strings.ToLower(strings.TrimSpace(language))
	for _, l := range StemmingLanguages {
		if l == language {
			return true
		}
	}
	return false
}
