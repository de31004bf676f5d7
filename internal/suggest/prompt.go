package suggest

import (
	"fmt"
	"strings"
)

// BuildPrompt composes the user prompt for a suggestion request.
func BuildPrompt(query, userTitle string, topTitles []string) string {
	var b strings.Builder
	b.WriteString("You are an expert SEO assistant.\n\n")
	fmt.Fprintf(&b, "Your task is to suggest %d **click-optimized** meta titles and descriptions for the query: %q.\n", ExpectedSuggestions, query)
	fmt.Fprintf(&b, "The current page title is:\n%q\n\n", userTitle)
	b.WriteString("Here are current top SERP titles:\n")
	for _, t := range topTitles {
		b.WriteString("- ")
		b.WriteString(t)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString("🧠 Use this data to guide your suggestions: aim to outperform these titles with better structure, CTR appeal, and relevance.\n\n")
	b.WriteString("🎯 Follow these rules strictly:\n")
	fmt.Fprintf(&b, "- Return **exactly %d** suggestions\n", ExpectedSuggestions)
	b.WriteString("- Titles: 50–65 characters\n")
	b.WriteString("- Descriptions: 120–160 characters\n")
	b.WriteString("- Emojis only if SERP uses them (at start or end)\n")
	b.WriteString("- Each suggestion must include: title, description, rationale\n\n")
	b.WriteString("📦 Format your response **exactly** like this:\n")
	b.WriteString("```json\n")
	b.WriteString("{\n")
	b.WriteString("  \"suggestions\": [\n")
	b.WriteString("    {\n")
	b.WriteString("      \"title\": \"Example title\",\n")
	b.WriteString("      \"description\": \"Example description\",\n")
	b.WriteString("      \"rationale\": \"Reason this works\"\n")
	b.WriteString("    },\n")
	fmt.Fprintf(&b, "    ... (%d total)\n", ExpectedSuggestions)
	b.WriteString("  ]\n")
	b.WriteString("}\n")
	b.WriteString("```\n")
	b.WriteString("Return **only this JSON block**, no commentary or text outside it.")
	return b.String()
}
