package service

import (
	"strings"
	"unicode/utf8"

	"github.com/ozcotech/denklem/backend/model"
	"github.com/shopspring/decimal"
)

const (
	maxFractionDigits = 2
	groupSize         = 3
)

// AmountParts is the intermediate parse of an amount being typed
type AmountParts struct {
	// Cleaned holds only digits and the two separators
	Cleaned string
	// Integer holds the integer digits with every separator removed
	Integer string
	// Fraction holds at most two digits following the decimal separator
	Fraction string
	// HasDecimal is set when the last decimal separator was accepted as such
	HasDecimal bool
	// TrailingSeparator is set when the text ends with the decimal separator
	TrailingSeparator bool
}

// SplitAmount cleans raw and splits it around the last decimal separator.
// A decimal separator followed by more than two characters is not a decimal
// point; the whole text is then integer digits.
func SplitAmount(raw string, seps model.LocaleSeparators) AmountParts {
	cleaned := cleanAmount(raw, seps)
	parts := AmountParts{Cleaned: cleaned}

	integer := cleaned
	if seps.Decimal != "" {
		if d := strings.LastIndex(cleaned, seps.Decimal); d >= 0 {
			after := cleaned[d+len(seps.Decimal):]
			if utf8.RuneCountInString(after) <= maxFractionDigits {
				integer = cleaned[:d]
				parts.Fraction = truncate(digitsOnly(after), maxFractionDigits)
				parts.HasDecimal = true
			}
		}
		parts.TrailingSeparator = strings.HasSuffix(cleaned, seps.Decimal)
	}

	// Separators left in the integer part are grouping artifacts of an
	// earlier pass, whichever character they are.
	parts.Integer = digitsOnly(integer)
	return parts
}

// NormalizeAmount re-derives the display string for an amount being typed.
// It never fails: input that cannot be parsed is returned unchanged.
func NormalizeAmount(raw string, seps model.LocaleSeparators) string {
	parts := SplitAmount(raw, seps)
	if parts.Cleaned == "" {
		return ""
	}

	if parts.Integer == "" {
		if seps.Decimal != "" && parts.Cleaned == seps.Decimal {
			return "0" + seps.Decimal
		}
		return raw
	}

	value, err := decimal.NewFromString(parts.Integer)
	if err != nil || value.IsNegative() {
		return raw
	}

	var b strings.Builder
	b.WriteString(groupDigits(value.String(), seps.Grouping))
	switch {
	case parts.Fraction != "":
		b.WriteString(seps.Decimal)
		b.WriteString(parts.Fraction)
	case parts.TrailingSeparator:
		b.WriteString(seps.Decimal)
	}
	return b.String()
}

// AmountValue parses a display string into an exact decimal. The second value
// is false when the text holds no digits.
func AmountValue(text string, seps model.LocaleSeparators) (decimal.Decimal, bool) {
	parts := SplitAmount(text, seps)
	if parts.Integer == "" && parts.Fraction == "" {
		return decimal.Zero, false
	}

	s := parts.Integer
	if s == "" {
		s = "0"
	}
	if parts.Fraction != "" {
		s += "." + parts.Fraction
	}
	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return value, true
}

// AmountNormalizer applies NormalizeAmount with a default locale that a
// single call may override.
type AmountNormalizer struct {
	defaults model.LocaleSeparators
}

// NewAmountNormalizer creates a normalizer. Unusable defaults fall back to
// comma-decimal separators.
func NewAmountNormalizer(defaults model.LocaleSeparators) *AmountNormalizer {
	if !ValidSeparators(defaults) {
		defaults = model.SeparatorsCommaDecimal
	}
	return &AmountNormalizer{defaults: defaults}
}

// Defaults returns the separators used when no override is given
func (n *AmountNormalizer) Defaults() model.LocaleSeparators {
	return n.defaults
}

// Apply normalizes current and reports whether the text changed
func (n *AmountNormalizer) Apply(current string, override *model.LocaleSeparators) (string, bool) {
	seps := n.Resolve(override)
	next := NormalizeAmount(current, seps)
	return next, next != current
}

// Resolve picks override when it is usable, the defaults otherwise
func (n *AmountNormalizer) Resolve(override *model.LocaleSeparators) model.LocaleSeparators {
	if override != nil && ValidSeparators(*override) {
		return *override
	}
	return n.defaults
}

// ValidSeparators reports whether both separators are single distinct characters
func ValidSeparators(seps model.LocaleSeparators) bool {
	return utf8.RuneCountInString(seps.Decimal) == 1 &&
		utf8.RuneCountInString(seps.Grouping) == 1 &&
		seps.Decimal != seps.Grouping
}

func cleanAmount(raw string, seps model.LocaleSeparators) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); {
		switch {
		case isDigit(raw[i]):
			b.WriteByte(raw[i])
			i++
		case seps.Decimal != "" && strings.HasPrefix(raw[i:], seps.Decimal):
			b.WriteString(seps.Decimal)
			i += len(seps.Decimal)
		case seps.Grouping != "" && strings.HasPrefix(raw[i:], seps.Grouping):
			b.WriteString(seps.Grouping)
			i += len(seps.Grouping)
		default:
			_, size := utf8.DecodeRuneInString(raw[i:])
			i += size
		}
	}
	return b.String()
}

func digitsOnly(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if isDigit(s[i]) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func groupDigits(digits, sep string) string {
	if len(digits) <= groupSize || sep == "" {
		return digits
	}

	var b strings.Builder
	head := len(digits) % groupSize
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += groupSize {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+groupSize])
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
