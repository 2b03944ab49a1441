package history

import (
	"time"

	"golang.org/x/text/language"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "en-US"

// localeLayouts lists the supported locales and their date-time layouts,
// in the shape browsers use for Date.toLocaleString. The first entry is
// the fallback.
var localeLayouts = []struct {
	tag    language.Tag
	layout string
}{
	{language.AmericanEnglish, "1/2/2006, 3:04:05 PM"},
	{language.BritishEnglish, "02/01/2006, 15:04:05"},
	{language.German, "2.1.2006, 15:04:05"},
	{language.French, "02/01/2006 15:04:05"},
	{language.Spanish, "2/1/2006, 15:04:05"},
	{language.Japanese, "2006/1/2 15:04:05"},
	{language.Chinese, "2006/1/2 15:04:05"},
}

var localeMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(localeLayouts))
	for i, l := range localeLayouts {
		tags[i] = l.tag
	}
	return language.NewMatcher(tags)
}()

// TimeFormatter formats record timestamps for one locale and time zone.
type TimeFormatter struct {
	tag      language.Tag
	layout   string
	location *time.Location
}

// NewTimeFormatter returns a formatter for the closest supported locale.
// Unknown or malformed locales fall back to en-US. A nil location means UTC.
func NewTimeFormatter(locale string, location *time.Location) *TimeFormatter {
	if location == nil {
		location = time.UTC
	}
	idx := 0
	if tag, err := language.Parse(locale); err == nil {
		if _, i, conf := localeMatcher.Match(tag); conf != language.No {
			idx = i
		}
	}
	return &TimeFormatter{
		tag:      localeLayouts[idx].tag,
		layout:   localeLayouts[idx].layout,
		location: location,
	}
}

// Format formats t in the formatter's locale and time zone.
func (f *TimeFormatter) Format(t time.Time) string {
	return t.In(f.location).Format(f.layout)
}

// Locale returns the matched locale tag.
func (f *TimeFormatter) Locale() string {
	return f.tag.String()
}
