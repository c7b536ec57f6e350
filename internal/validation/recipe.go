package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*(n/?a|none|null|unknown|tbd|todo|not specified|recipe name)\s*$`),
	regexp.MustCompile(`^\s*\[.*\]\s*$`),
	regexp.MustCompile(`^\s*<.*>\s*$`),
	regexp.MustCompile(`(?i)^\s*x{3,}\s*$`),
	regexp.MustCompile(`^\s*\.{3,}\s*$`),
}

// DetectPlaceholders reports whether text is empty or looks like template filler.
func DetectPlaceholders(text string) bool {
	if strings.TrimSpace(text) == "" {
		return true
	}
	for _, p := range placeholderPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// Recipe is the subset of a generated recipe inspected for filler content.
type Recipe struct {
	Name        string
	Ingredients []string
	Steps       []string
}

type RecipeValidationResult struct {
	IsValid         bool
	HasPlaceholders bool
	Issues          []string
}

// ValidateRecipe flags generated recipes whose fields were left as template
// filler by the model.
func ValidateRecipe(r Recipe) RecipeValidationResult {
	result := RecipeValidationResult{IsValid: true}

	if DetectPlaceholders(r.Name) {
		result.HasPlaceholders = true
		result.Issues = append(result.Issues, fmt.Sprintf("Recipe name looks like a placeholder: %q", r.Name))
	}

	if len(r.Ingredients) == 0 {
		result.Issues = append(result.Issues, "No ingredients")
	}
	for i, ing := range r.Ingredients {
		if DetectPlaceholders(ing) {
			result.HasPlaceholders = true
			result.Issues = append(result.Issues, fmt.Sprintf("Ingredient %d looks like a placeholder: %q", i+1, ing))
		}
	}

	if len(r.Steps) == 0 {
		result.Issues = append(result.Issues, "No steps")
	}
	for i, step := range r.Steps {
		if DetectPlaceholders(step) {
			result.HasPlaceholders = true
			result.Issues = append(result.Issues, fmt.Sprintf("Step %d looks like a placeholder: %q", i+1, step))
		}
	}

	result.IsValid = len(result.Issues) == 0
	return result
}
