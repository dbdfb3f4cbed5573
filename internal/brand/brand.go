package brand

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

type Trait string

const (
	Smart      Trait = "Smart"
	Reliable   Trait = "Reliable"
	Innovative Trait = "Innovative"
	Scalable   Trait = "Scalable"
)

// Traits is the fixed vocabulary of personality traits in display order.
var Traits = []Trait{Smart, Reliable, Innovative, Scalable}

type Style string

const (
	Minimalist Style = "Minimalist"
	Geometric  Style = "Geometric"
	Abstract   Style = "Abstract"
	Symbolic   Style = "Symbolic"
)

// Styles is the fixed vocabulary of visual styles in display order.
var Styles = []Style{Minimalist, Geometric, Abstract, Symbolic}

type Field int

const (
	FieldBrandName Field = iota
	FieldPrimaryColor
	FieldStyle
)

// Config holds the brand identity parameters a logo is generated from.
// PrimaryColor is opaque and passed through unchanged.
type Config struct {
	BrandName    string  `json:"brandName"`
	Personality  []Trait `json:"personality"`
	PrimaryColor string  `json:"primaryColor"`
	Style        Style   `json:"style"`
}

func DefaultConfig() Config {
	return Config{
		BrandName:    "Nexus AI",
		Personality:  []Trait{Smart, Innovative},
		PrimaryColor: "#2563eb",
		Style:        Minimalist,
	}
}

// ToggleTrait removes t if it is selected and appends it otherwise.
func (c *Config) ToggleTrait(t Trait) {
	if lo.Contains(c.Personality, t) {
		c.Personality = lo.Without(c.Personality, t)
		return
	}
	c.Personality = append(c.Personality, t)
}

func (c *Config) HasTrait(t Trait) bool {
	return lo.Contains(c.Personality, t)
}

// SetField replaces a single field. Values are not validated here so the
// brand name can be edited freely; see Validate.
func (c *Config) SetField(field Field, value string) {
	switch field {
	case FieldBrandName:
		c.BrandName = value
	case FieldPrimaryColor:
		c.PrimaryColor = value
	case FieldStyle:
		c.Style = Style(value)
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.BrandName) == "" {
		return &ValidationError{Message: "Please enter a brand name."}
	}
	return nil
}

func (c Config) Clone() Config {
	c.Personality = append([]Trait(nil), c.Personality...)
	return c
}

func ParseTrait(s string) (Trait, error) {
	t, ok := lo.Find(Traits, func(t Trait) bool {
		return strings.EqualFold(string(t), strings.TrimSpace(s))
	})
	if !ok {
		return "", fmt.Errorf("unknown trait %q", s)
	}
	return t, nil
}

func ParseStyle(s string) (Style, error) {
	st, ok := lo.Find(Styles, func(st Style) bool {
		return strings.EqualFold(string(st), strings.TrimSpace(s))
	})
	if !ok {
		return "", fmt.Errorf("unknown style %q", s)
	}
	return st, nil
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
