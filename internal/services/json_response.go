package services

import (
	"encoding/json"
	"fmt"
	"strings"
)

func parseJSONResponse(response string, target interface{}) error {
	jsonStr := extractJSON(response)

	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return nil
}

// extractJSON pulls the outermost JSON object or array out of LLM output
// that may be wrapped in markdown fences or prose.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	hasObj := startObj != -1 && endObj > startObj
	hasArr := startArr != -1 && endArr > startArr

	switch {
	case hasObj && hasArr:
		// whichever opens first is the outer value
		if startArr < startObj {
			return text[startArr : endArr+1]
		}
		return text[startObj : endObj+1]
	case hasObj:
		return text[startObj : endObj+1]
	case hasArr:
		return text[startArr : endArr+1]
	}

	return text
}
