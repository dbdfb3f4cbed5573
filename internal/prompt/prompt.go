package prompt

import (
	"fmt"
	"strings"

	"github.com/dmorgan81/autologo/internal/brand"
	"github.com/samber/lo"
)

// Build returns the short, human readable prompt stored with every
// generated logo.
func Build(cfg brand.Config) string {
	return fmt.Sprintf("Modern %s logo for %s", cfg.Style, cfg.BrandName)
}

// Describe returns the full instruction sent to the image model.
func Describe(cfg brand.Config) string {
	traits := lo.Map(cfg.Personality, func(t brand.Trait, _ int) string {
		return string(t)
	})
	personality := lo.Ternary(len(traits) > 0, strings.Join(traits, ", "), "neutral")

	var b strings.Builder
	fmt.Fprintf(&b, "Create a professional, modern %s logo for a technology brand named %q. ", cfg.Style, cfg.BrandName)
	fmt.Fprintf(&b, "The brand personality is %s. ", personality)
	fmt.Fprintf(&b, "Use %s as the primary color. ", cfg.PrimaryColor)
	b.WriteString("Follow flat design principles: no gradients, no shadows, no textures. ")
	b.WriteString("Center the mark on a plain white background and keep it legible at small sizes ")
	b.WriteString("so it scales across digital and print media.")
	return b.String()
}
