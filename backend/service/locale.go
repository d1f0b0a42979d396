package service

import (
	"strings"
	"unicode"

	"github.com/ozcotech/denklem/backend/model"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// separatorProbe has enough integer digits to be grouped in every CLDR locale
const separatorProbe = 1234567.5

// LocaleProvider resolves locale tags to decimal/grouping separators from
// CLDR number data
type LocaleProvider struct {
	defaultTag  language.Tag
	defaultSeps model.LocaleSeparators
}

// NewLocaleProvider creates a provider whose default locale is defaultLocale.
// An unparseable default falls back to Turkish.
func NewLocaleProvider(defaultLocale string) *LocaleProvider {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.Turkish
	}
	p := &LocaleProvider{defaultTag: tag, defaultSeps: model.SeparatorsCommaDecimal}
	p.defaultSeps = p.SeparatorsFor(tag)
	return p
}

// DefaultTag returns the default locale
func (p *LocaleProvider) DefaultTag() language.Tag {
	return p.defaultTag
}

// Default returns the separators of the default locale
func (p *LocaleProvider) Default() model.LocaleSeparators {
	return p.defaultSeps
}

// Parse resolves a BCP 47 string, using the default locale when s is empty
// or malformed
func (p *LocaleProvider) Parse(s string) language.Tag {
	s = strings.TrimSpace(s)
	if s == "" {
		return p.defaultTag
	}
	tag, err := language.Parse(s)
	if err != nil {
		return p.defaultTag
	}
	return tag
}

// SeparatorsFor formats a probe number for tag and reads the separators back.
// Locales whose output cannot be read that way get the default separators.
func (p *LocaleProvider) SeparatorsFor(tag language.Tag) model.LocaleSeparators {
	formatted := message.NewPrinter(tag).Sprintf("%.1f", separatorProbe)

	var marks []string
	for _, r := range formatted {
		// bidi marks around digits are not separators
		if unicode.IsDigit(r) || unicode.Is(unicode.Cf, r) {
			continue
		}
		marks = append(marks, string(r))
	}
	if len(marks) < 2 {
		return p.defaultSeps
	}

	seps := model.LocaleSeparators{
		Decimal:  marks[len(marks)-1],
		Grouping: marks[0],
	}
	if !ValidSeparators(seps) {
		return p.defaultSeps
	}
	return seps
}

// Lookup is Parse followed by SeparatorsFor
func (p *LocaleProvider) Lookup(s string) (language.Tag, model.LocaleSeparators) {
	tag := p.Parse(s)
	return tag, p.SeparatorsFor(tag)
}
