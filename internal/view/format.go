package view

import (
	"math"
	"time"

	"golang.org/x/text/language"
)

// Round returns the nearest integer, halves away from zero.
func Round(v float64) int {
	return int(math.Round(v))
}

// supported display locales and their short date layouts, in matcher order.
var (
	supportedLocales = []language.Tag{
		language.BrazilianPortuguese,
		language.EuropeanPortuguese,
		language.AmericanEnglish,
		language.BritishEnglish,
		language.German,
		language.Spanish,
		language.French,
	}
	dateLayouts = []string{
		"02/01/2006",
		"02/01/2006",
		"1/2/2006",
		"02/01/2006",
		"02.01.2006",
		"2/1/2006",
		"02/01/2006",
	}
	localeMatcher = language.NewMatcher(supportedLocales)
)

// Formatter formats values for a display locale.
type Formatter struct {
	tag    language.Tag
	layout string
}

// NewFormatter picks the closest supported locale for the BCP 47 tag.
// Unknown or unparsable tags fall back to Brazilian Portuguese.
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.BrazilianPortuguese
	}

	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		idx = 0
	}

	return &Formatter{
		tag:    supportedLocales[idx],
		layout: dateLayouts[idx],
	}
}

// Locale returns the matched locale tag.
func (f *Formatter) Locale() string {
	return f.tag.String()
}

// Language returns the base language, e.g. "pt" for pt-BR.
func (f *Formatter) Language() string {
	base, _ := f.tag.Base()
	return base.String()
}

// Date formats the calendar date of t. The date is taken as is, without
// converting time zones.
func (f *Formatter) Date(t time.Time) string {
	return t.Format(f.layout)
}
