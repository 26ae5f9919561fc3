package ai

import (
	"encoding/json"
	"strings"
)

// The OpenAI response shape differs between the Responses API, its streaming
// aggregate, and the older chat-completions format. Each strategy handles one
// shape; the first non-empty text wins.
var extractors = []func(raw []byte) string{
	extractOutputText,
	extractOutputContent,
	extractChoices,
}

func extractText(raw []byte) string {
	for _, extract := range extractors {
		if text := extract(raw); text != "" {
			return text
		}
	}
	return ""
}

func extractOutputText(raw []byte) string {
	var r struct {
		OutputText string `json:"output_text"`
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return ""
	}
	return strings.TrimSpace(r.OutputText)
}

func extractOutputContent(raw []byte) string {
	var r struct {
		Output []struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return ""
	}
	for _, out := range r.Output {
		for _, c := range out.Content {
			if text := strings.TrimSpace(c.Text); text != "" {
				return text
			}
		}
	}
	return ""
}

func extractChoices(raw []byte) string {
	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return ""
	}
	if len(r.Choices) == 0 {
		return ""
	}
	return strings.TrimSpace(r.Choices[0].Message.Content)
}
