package form

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Errors maps a field name to the message shown next to it.
type Errors map[string]string

// Trim returns a copy of values with surrounding whitespace removed from
// every value. Submissions are trimmed once so validation and decoding see
// the same text.
func Trim(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for k, vs := range values {
		trimmed := make([]string, len(vs))
		for i, v := range vs {
			trimmed[i] = strings.TrimSpace(v)
		}
		out[k] = trimmed
	}
	return out
}

// Validate checks submitted values against every configured field. Values
// are looked up by field name; a nil result means the submission is valid.
func (c *Config) Validate(values url.Values) Errors {
	errs := make(Errors)
	for _, s := range c.FormLayout {
		for _, f := range s.Fields {
			if msg, ok := c.validateField(f, strings.TrimSpace(values.Get(f.Name))); !ok {
				errs[f.Name] = msg
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (c *Config) validateField(f Field, v string) (string, bool) {
	if v == "" {
		if f.Required {
			return c.message(f, c.Messages.Required), false
		}
		return "", true
	}

	switch f.Type {
	case TypeNumber:
		n, err := strconv.Atoi(v)
		if err != nil {
			return c.message(f, c.Messages.NotANumber), false
		}
		if f.Name == "age" && n < c.MinAge {
			return c.message(f, c.Messages.AgeRequirement), false
		}
	case TypeURL:
		u, err := url.ParseRequestURI(v)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return c.message(f, c.Messages.URLInvalid), false
		}
	}

	n := utf8.RuneCountInString(v)
	if minLen := f.EffectiveMinLength(); n < minLen {
		return c.message(f, sprintfMessage(c.Messages.MinLength, minLen)), false
	}
	if f.MaxLength != nil && n > *f.MaxLength {
		return c.message(f, sprintfMessage(c.Messages.MaxLength, *f.MaxLength)), false
	}

	if f.Pattern != "" {
		re := f.pattern
		if re == nil {
			var err error
			if re, err = regexp.Compile(f.Pattern); err != nil {
				return c.message(f, c.Messages.PatternMismatch), false
			}
		}
		if !re.MatchString(v) {
			return c.message(f, c.Messages.PatternMismatch), false
		}
	}
	return "", true
}

// message prefers the field's own validation message over the default.
func (c *Config) message(f Field, fallback string) string {
	if f.ValidationMessage != "" {
		return f.ValidationMessage
	}
	return fallback
}

func sprintfMessage(format string, n int) string {
	if !strings.Contains(format, "%d") {
		return format
	}
	return fmt.Sprintf(format, n)
}
