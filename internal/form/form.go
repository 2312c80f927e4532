// Package form holds the whitelist questionnaire configuration: the
// sections and fields shown to applicants, the copy text and the admin
// allow-list. A Config is built once at startup and is read-only afterwards.
package form

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"

	"github.com/ProsperityMC/whitelist-form/internal/application"
	"gopkg.in/yaml.v3"
)

//go:embed default.yml
var defaultYml []byte

var defaultConfig = func() *Config {
	c, err := Parse(defaultYml)
	if err != nil {
		panic("form: invalid embedded default config: " + err.Error())
	}
	return c
}()

type FieldType string

const (
	TypeText     FieldType = "text"
	TypeNumber   FieldType = "number"
	TypeURL      FieldType = "url"
	TypeTextarea FieldType = "textarea"
)

func (t FieldType) valid() bool {
	switch t {
	case TypeText, TypeNumber, TypeURL, TypeTextarea:
		return true
	}
	return false
}

type Field struct {
	Name              string    `yaml:"name"`
	Label             string    `yaml:"label"`
	Placeholder       string    `yaml:"placeholder"`
	Description       string    `yaml:"description"`
	Type              FieldType `yaml:"type"`
	Required          bool      `yaml:"required"`
	MinLength         *int      `yaml:"minLength,omitempty"`
	MaxLength         *int      `yaml:"maxLength,omitempty"`
	Pattern           string    `yaml:"pattern,omitempty"`
	ValidationMessage string    `yaml:"validationMessage,omitempty"`

	pattern *regexp.Regexp
}

// EffectiveMinLength returns the minimum number of characters an answer
// needs. A required field without an explicit minimum must be non-empty.
func (f Field) EffectiveMinLength() int {
	if f.MinLength != nil {
		return *f.MinLength
	}
	if f.Required {
		return 1
	}
	return 0
}

type Section struct {
	ID          string  `yaml:"id"`
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Icon        string  `yaml:"icon"`
	Fields      []Field `yaml:"fields"`
}

type Messages struct {
	AgeRequirement      string `yaml:"ageRequirement"`
	SteamIDInvalid      string `yaml:"steamIdInvalid"`
	CfxURLInvalid       string `yaml:"cfxUrlInvalid"`
	ExperienceMinLength string `yaml:"experienceMinLength"`
	CharacterMinLength  string `yaml:"characterMinLength"`
	Required            string `yaml:"required"`
	NotANumber          string `yaml:"notANumber"`
	URLInvalid          string `yaml:"urlInvalid"`
	PatternMismatch     string `yaml:"patternMismatch"`
	MinLength           string `yaml:"minLength"`
	MaxLength           string `yaml:"maxLength"`
	RulesRequired       string `yaml:"rulesRequired"`
}

type UI struct {
	FormTitle            string `yaml:"formTitle"`
	FormDescription      string `yaml:"formDescription"`
	SubmitButtonText     string `yaml:"submitButtonText"`
	SubmittingButtonText string `yaml:"submittingButtonText"`
	SuccessTitle         string `yaml:"successTitle"`
	SuccessDescription   string `yaml:"successDescription"`
	ErrorTitle           string `yaml:"errorTitle"`
	ErrorDescription     string `yaml:"errorDescription"`
}

type DiscordBot struct {
	ServerName string `yaml:"serverName"`
	ServerIcon string `yaml:"serverIcon"`
	FooterText string `yaml:"footerText"`
}

type Config struct {
	AdminIDs   []string   `yaml:"adminDiscordIds"`
	MinAge     int        `yaml:"minimumAge"`
	FormLayout []Section  `yaml:"sections"`
	Messages   Messages   `yaml:"messages"`
	UI         UI         `yaml:"ui"`
	DiscordBot DiscordBot `yaml:"discordBot"`
}

// Default returns the compiled in configuration.
func Default() *Config {
	return defaultConfig
}

// Load reads and checks a configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML configuration and checks it.
func Parse(b []byte) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode form config: %w", err)
	}
	if err := c.Check(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Check verifies the structural invariants of the configuration and
// compiles field patterns.
func (c *Config) Check() error {
	var errs []error
	if c.MinAge <= 0 {
		errs = append(errs, fmt.Errorf("minimumAge must be positive, got %d", c.MinAge))
	}
	sections := make(map[string]struct{})
	for si := range c.FormLayout {
		s := &c.FormLayout[si]
		if s.ID == "" {
			errs = append(errs, fmt.Errorf("section %d: missing id", si))
		} else if _, dup := sections[s.ID]; dup {
			errs = append(errs, fmt.Errorf("section %q: duplicate id", s.ID))
		}
		sections[s.ID] = struct{}{}

		fields := make(map[string]struct{})
		for fi := range s.Fields {
			f := &s.Fields[fi]
			if _, dup := fields[f.Name]; dup {
				errs = append(errs, fmt.Errorf("section %q: duplicate field %q", s.ID, f.Name))
			}
			fields[f.Name] = struct{}{}
			if !application.HasField(f.Name) {
				errs = append(errs, fmt.Errorf("section %q: field %q is not an application property", s.ID, f.Name))
			}
			if !f.Type.valid() {
				errs = append(errs, fmt.Errorf("section %q: field %q: unknown type %q", s.ID, f.Name, f.Type))
			}
			if f.MinLength != nil && f.MaxLength != nil && *f.MinLength > *f.MaxLength {
				errs = append(errs, fmt.Errorf("section %q: field %q: minLength exceeds maxLength", s.ID, f.Name))
			}
			if f.Pattern != "" {
				re, err := regexp.Compile(f.Pattern)
				if err != nil {
					errs = append(errs, fmt.Errorf("section %q: field %q: %w", s.ID, f.Name, err))
					continue
				}
				f.pattern = re
			}
		}
	}
	return errors.Join(errs...)
}

// AdminDiscordIDs returns the configured admin allow-list.
func (c *Config) AdminDiscordIDs() []string {
	return c.AdminIDs
}

func (c *Config) MinimumAge() int {
	return c.MinAge
}

// Sections returns the ordered form sections. The slice is shared and must
// not be modified.
func (c *Config) Sections() []Section {
	return c.FormLayout
}

// Field looks up a field by section id and field name. A missing section
// or field is reported with ok == false.
func (c *Config) Field(sectionID, fieldName string) (Field, bool) {
	for _, s := range c.FormLayout {
		if s.ID != sectionID {
			continue
		}
		for _, f := range s.Fields {
			if f.Name == fieldName {
				return f, true
			}
		}
		return Field{}, false
	}
	return Field{}, false
}

// IsAdmin reports whether discordID is on the admin allow-list. An empty id
// is never an admin.
func (c *Config) IsAdmin(discordID string) bool {
	return discordID != "" && slices.Contains(c.AdminIDs, discordID)
}
