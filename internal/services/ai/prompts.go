package ai

import (
	"fmt"
	"strings"
)

const (
	// StrictClause restricts the model to the supplied ingredients.
	StrictClause    = "Strict Mode: Use ONLY provided ingredients + pantry staples (salt, oil, pepper)."
	NonStrictClause = "You can include other common ingredients."

	// RefusalMessage is the fixed reply for off-topic chat questions.
	RefusalMessage = "I am a chef, not a general assistant. I can only help you with your cooking today."

	// FallbackImagePrompt is used when a recipe has no visual summary.
	FallbackImagePrompt = "A delicious dish"
)

const recipeRoleSection = `Act as a Michelin-star chef who specializes in home cooking. Return a recipe in JSON format.
The "description" should be a short, mouth-watering summary of the dish (max 30 words) to get the user excited.`

const recipeSchemaSection = `JSON Schema:
{
  "name": "Recipe Name",
  "description": "A rich and creamy pasta dish...",
  "ingredients": ["List of ingredients"],
  "steps": ["Step 1", "Step 2..."],
  "macros": {"calories": 500, "protein": "20g"},
  "visual_summary": "A golden roasted chicken on a blue plate, studio lighting."
}
visual_summary must be max 15 words.`

const chatInstructionsSection = `Instructions:
1. Answer questions about this recipe, cooking techniques, ingredient substitutions, or general culinary topics.
2. Only if the user asks about a topic completely unrelated to food or cooking (e.g., politics, coding, weather), politely refuse by saying: "%s"
3. Format your response using clean Markdown. Use **bold** for emphasis, bullet points for lists, and keep paragraphs short.`

// RecipeSystemPrompt returns the fixed system prompt for recipe generation.
func RecipeSystemPrompt() string {
	var sb strings.Builder
	sb.WriteString(recipeRoleSection)
	sb.WriteString("\n\n")
	sb.WriteString(recipeSchemaSection)
	return sb.String()
}

// RecipeUserPrompt lists the ingredients followed by the strictness clause.
func RecipeUserPrompt(ingredients []string, strict bool) string {
	clause := NonStrictClause
	if strict {
		clause = StrictClause
	}
	return fmt.Sprintf("Ingredients: %s. \n%s", strings.Join(ingredients, ", "), clause)
}

// ChatSystemPrompt grounds the chat assistant in a single recipe.
func ChatSystemPrompt(recipeName string, ingredients []string) string {
	var sb strings.Builder
	sb.WriteString("You are a helpful culinary assistant.\n")
	sb.WriteString(fmt.Sprintf("Current Recipe Context: %q.\n", recipeName))
	sb.WriteString(fmt.Sprintf("Ingredients: %s.\n\n", strings.Join(ingredients, ", ")))
	sb.WriteString(fmt.Sprintf(chatInstructionsSection, RefusalMessage))
	return sb.String()
}

// ImagePrompt falls back to a generic dish when the summary is blank.
func ImagePrompt(visualSummary string) string {
	if strings.TrimSpace(visualSummary) == "" {
		return FallbackImagePrompt
	}
	return visualSummary
}
