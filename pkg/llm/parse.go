package llm

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"essaypilot/pkg/profile"
)

// DecodeTopicSuggestions parses the topic-suggestion response: an
// object mapping prompt numbers to arrays of {title, description}
// ideas. Malformed JSON is run through repair once before giving up;
// structural problems are hard failures for the caller to surface.
func DecodeTopicSuggestions(raw string) (suggestions map[string][]profile.TopicIdea, err error) {
	cleaned, err := normalizeJSON(raw)
	if err != nil {
		return suggestions, err
	}

	parsed := gjson.Parse(cleaned)
	if !parsed.IsObject() {
		err = errors.New("topic suggestion response is not a JSON object")
		return suggestions, err
	}

	err = json.Unmarshal([]byte(cleaned), &suggestions)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse topic suggestions: %s", raw)
		return suggestions, err
	}

	if len(suggestions) == 0 {
		err = errors.New("topic suggestion response contains no prompts")
		return suggestions, err
	}

	for number, ideas := range suggestions {
		if len(ideas) == 0 {
			err = errors.Errorf("prompt %s has no topic ideas", number)
			return suggestions, err
		}
	}

	return suggestions, err
}

// DecodeQuestions parses the follow-up question response: an object
// with a "questions" array of strings.
func DecodeQuestions(raw string) (questions []string, err error) {
	cleaned, err := normalizeJSON(raw)
	if err != nil {
		return questions, err
	}

	field := gjson.Get(cleaned, "questions")
	if !field.Exists() || !field.IsArray() {
		err = errors.New("response is missing the questions array")
		return questions, err
	}

	for _, item := range field.Array() {
		text := strings.TrimSpace(item.String())
		if text != "" {
			questions = append(questions, text)
		}
	}

	if len(questions) == 0 {
		err = errors.New("response contains no questions")
		return questions, err
	}

	return questions, err
}

// normalizeJSON strips markdown code fences and repairs malformed JSON.
func normalizeJSON(raw string) (cleaned string, err error) {
	cleaned = stripCodeFences(strings.TrimSpace(raw))

	if json.Valid([]byte(cleaned)) {
		return cleaned, err
	}

	repaired, repairErr := jsonrepair.JSONRepair(cleaned)
	if repairErr != nil {
		err = errors.Wrapf(repairErr, "failed to repair response JSON: %s", raw)
		return cleaned, err
	}

	cleaned = repaired
	return cleaned, err
}

// stripCodeFences removes a surrounding markdown code fence.
func stripCodeFences(text string) (cleaned string) {
	cleaned = text
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	// Drop the opening fence line (``` or ```json).
	if idx := strings.Index(cleaned, "\n"); idx >= 0 {
		cleaned = cleaned[idx+1:]
	}

	cleaned = strings.TrimRight(cleaned, " \t\r\n")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimRight(cleaned, " \t\r\n")

	return cleaned
}
