package utils

import (
	"encoding/json"
	"strings"
)

// DecodeStageDocument is the single validation boundary between the
// generation engine and the pipeline. It strips markdown fencing and stray
// prose, requires exactly one JSON value, and unmarshals it into out.
// Any failure is a StageError naming the stage, fatal to the run.
func DecodeStageDocument(stage, raw string, out any) error {
	cleaned := CleanJSONResponse(raw)
	if cleaned == "" {
		return NewStageError(stage, raw, "empty output")
	}
	if !json.Valid([]byte(cleaned)) {
		return NewStageError(stage, cleaned, "not valid JSON")
	}
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return NewStageError(stage, cleaned, "does not match stage schema: "+err.Error())
	}
	return nil
}

// CleanJSONResponse removes markdown code fences and surrounding prose,
// returning the first complete JSON object or array found in the response.
func CleanJSONResponse(response string) string {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```JSON", "")
	response = strings.ReplaceAll(response, "```", "")
	response = strings.TrimSpace(response)

	objStart := strings.Index(response, "{")
	arrStart := strings.Index(response, "[")

	if objStart != -1 && (arrStart == -1 || objStart < arrStart) {
		if end := findMatchingDelimiter(response, objStart, '{', '}'); end != -1 {
			return strings.TrimSpace(response[objStart : end+1])
		}
	} else if arrStart != -1 {
		if end := findMatchingDelimiter(response, arrStart, '[', ']'); end != -1 {
			return strings.TrimSpace(response[arrStart : end+1])
		}
	}

	return response
}

// findMatchingDelimiter walks the string from start, tracking string
// literals and escapes, and returns the index of the balancing close.
func findMatchingDelimiter(s string, start int, open, close byte) int {
	if start >= len(s) || s[start] != open {
		return -1
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		char := s[i]

		if escaped {
			escaped = false
			continue
		}
		if char == '\\' && inString {
			escaped = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch char {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}
