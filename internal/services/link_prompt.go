package services

import "fmt"

// buildEntityLinkPrompt embeds the note text into the fixed instruction
// prompt that asks the completion service for strict-JSON categorized
// links. The nine keys here are the canonical taxonomy; absent ones are
// filled in by Normalize on the way out.
func buildEntityLinkPrompt(content string) string {
	return fmt.Sprintf(`You are an expert at finding useful information and links for EVERYTHING mentioned in a note.

CRITICAL: You MUST find at least 3-5 relevant entities per note, even if they are only mentioned in passing.

EXAMPLE - If the note mentions "Tokyo", find things like:
- Places: Tokyo Skytree, Sensoji Temple, Tsukiji Fish Market
- Products: JR Pass, Tokyo Metro Card
- Services: Tokyo tours, sushi classes
- Events: Cherry blossom season, Tokyo Game Show

EXAMPLE - If the note mentions "React", find things like:
- Tech stack: React, JavaScript, Node.js
- Resources: React documentation, React courses
- Services: React development services
- Concepts: Component-based architecture

Be EXTREMELY inclusive: technologies, programming languages, frameworks and tools, products and services, places, people, concepts and methods, activities and hobbies, resources such as books, courses and videos. Think like a detective - every word can be a lead to useful information.

For every identified entity provide:
- name
- type (product, service, person, place, concept, activity, ...)
- suggested search terms
- suggested sites/sources to search
- estimated price/fee (only if mentioned or well known)
- opening hours/availability (only if relevant)
- additional context (what it is used for, why it is mentioned)
- source note excerpt

Note: %s

Return JSON with exactly this structure:
{
  "products":   [{"name": "...", "type": "...", "searchTerms": ["..."], "suggestedSites": ["..."], "estimatedPrice": "...", "context": "...", "sourceNote": "..."}],
  "services":   [{"name": "...", "type": "...", "searchTerms": ["..."], "suggestedSites": ["..."], "estimatedPrice": "...", "context": "...", "sourceNote": "..."}],
  "events":     [{"name": "...", "type": "...", "searchTerms": ["..."], "suggestedSites": ["..."], "estimatedPrice": "...", "context": "...", "sourceNote": "..."}],
  "places":     [{"name": "...", "type": "...", "searchTerms": ["..."], "suggestedSites": ["..."], "estimatedPrice": "...", "openingHours": "...", "context": "...", "sourceNote": "..."}],
  "people":     [{"name": "...", "type": "...", "searchTerms": ["..."], "suggestedSites": ["..."], "context": "...", "sourceNote": "..."}],
  "concepts":   [{"name": "...", "type": "...", "searchTerms": ["..."], "suggestedSites": ["..."], "context": "...", "sourceNote": "..."}],
  "activities": [{"name": "...", "type": "...", "searchTerms": ["..."], "suggestedSites": ["..."], "context": "...", "sourceNote": "..."}],
  "resources":  [{"name": "...", "type": "...", "searchTerms": ["..."], "suggestedSites": ["..."], "estimatedPrice": "...", "context": "...", "sourceNote": "..."}],
  "techStack":  [{"name": "...", "type": "...", "searchTerms": ["..."], "suggestedSites": ["..."], "context": "...", "sourceNote": "..."}]
}

Respond ONLY with JSON, nothing else.`, content)
}
