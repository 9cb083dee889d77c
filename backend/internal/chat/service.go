package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"

	"campus_electives/backend/internal/shared"
)

// ChatService proxies prompts to the generative-language REST API. Different
// models expect different payload shapes, so a short ordered list of
// (request-builder, response-parser) strategies is tried until one returns
// 2xx; if every attempt fails the caller gets a fallback message instead of
// an error.
type ChatService struct {
	config     shared.ChatConfig
	httpClient *http.Client
}

// NewChatService creates a new ChatService instance
func NewChatService(config *shared.PortalConfig) *ChatService {
	return &ChatService{
		config:     config.Chat,
		httpClient: &http.Client{},
	}
}

// Response is what the handler returns to the UI.
type Response struct {
	Text         string `json:"text"`
	ModelAttempt string `json:"modelAttempt,omitempty"`
	Fallback     bool   `json:"fallback,omitempty"`
}

// attempt is one payload-shape strategy against one model endpoint.
type attempt struct {
	Name      string
	Model     string
	Method    string // generateText or generateContent
	BuildBody func(s *ChatService, prompt, combined string) map[string]interface{}
}

// attempts are tried in order; generateText first because its flat payload
// predates the contents/systemInstruction shape and still serves the legacy
// model.
var attempts = []attempt{
	{
		Name:   "generateText",
		Model:  "text-bison-001",
		Method: "generateText",
		BuildBody: func(s *ChatService, prompt, combined string) map[string]interface{} {
			return map[string]interface{}{
				"prompt":          map[string]interface{}{"text": combined},
				"temperature":     0.2,
				"maxOutputTokens": s.config.MaxOutputTokens,
			}
		},
	},
	{
		Name:   "generateContent_simple",
		Model:  "gemini-2.5-flash",
		Method: "generateContent",
		BuildBody: func(s *ChatService, prompt, combined string) map[string]interface{} {
			return map[string]interface{}{
				"contents":          []interface{}{map[string]interface{}{"parts": []interface{}{map[string]interface{}{"text": prompt}}}},
				"systemInstruction": map[string]interface{}{"parts": []interface{}{map[string]interface{}{"text": s.config.SystemInstruction}}},
				"generationConfig":  map[string]interface{}{"maxOutputTokens": s.config.MaxOutputTokens},
			}
		},
	},
	{
		Name:   "generateContent_parts",
		Model:  "gemini-2.5-flash",
		Method: "generateContent",
		BuildBody: func(s *ChatService, prompt, combined string) map[string]interface{} {
			return map[string]interface{}{
				"contents":          []interface{}{map[string]interface{}{"parts": []interface{}{map[string]interface{}{"text": combined}}}},
				"generationConfig":  map[string]interface{}{"maxOutputTokens": s.config.MaxOutputTokens},
			}
		},
	},
}

// Ask forwards a prompt upstream and returns the extracted reply text.
func (s *ChatService) Ask(ctx context.Context, prompt string) (*Response, error) {
	if prompt == "" {
		return nil, shared.ErrInvalidArgument("prompt is required")
	}
	if s.config.APIKey == "" {
		return nil, shared.ErrInternal("GENAI API key not configured on server. Set GEMINI_API_KEY or GENAI_API_KEY.")
	}

	// Prepend the system instruction so strategies without a separate
	// systemInstruction field still carry it.
	combined := fmt.Sprintf("%s\n\nUser: %s", s.config.SystemInstruction, prompt)

	var lastErr string
	for _, att := range attempts {
		data, err := s.tryAttempt(ctx, &att, prompt, combined)
		if err != nil {
			lastErr = fmt.Sprintf("attempt %s: %v", att.Name, err)
			log.Printf("WARN: GenAI attempt failed: %s", lastErr)
			continue
		}

		return &Response{Text: extractText(data), ModelAttempt: att.Name}, nil
	}

	log.Printf("WARN: All GenAI attempts failed, returning fallback (%s)", lastErr)
	fallbackText := fmt.Sprintf("Sorry — the AI service is currently unavailable.\n\nI received your question: %q\n\nPlease try again later or contact the administrator.", prompt)
	return &Response{Text: fallbackText, Fallback: true}, nil
}

// tryAttempt runs one strategy with its own timeout.
func (s *ChatService) tryAttempt(ctx context.Context, att *attempt, prompt, combined string) (map[string]interface{}, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.config.AttemptTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:%s?key=%s",
		s.config.BaseURL, url.PathEscape(att.Model), att.Method, url.QueryEscape(s.config.APIKey))

	payload, err := json.Marshal(att.BuildBody(s, prompt, combined))
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("invalid JSON response: %w", err)
	}
	return data, nil
}

// extractText pulls the reply out of the response, shape by shape: the
// Gemini candidates/content/parts layout, the candidate-level output/text/
// content strings, then the flat text-bison fields. As a last resort the
// whole payload is stringified so the UI always gets something.
func extractText(data map[string]interface{}) string {
	var text string

	if candidates, ok := data["candidates"].([]interface{}); ok && len(candidates) > 0 {
		if c, ok := candidates[0].(map[string]interface{}); ok {
			if content, ok := c["content"].(map[string]interface{}); ok {
				if parts, ok := content["parts"].([]interface{}); ok {
					for _, p := range parts {
						if part, ok := p.(map[string]interface{}); ok {
							if t, ok := part["text"].(string); ok {
								text += t
							}
						}
					}
				}
			}
			if text == "" {
				if out, ok := c["output"].(string); ok {
					text = out
				} else if t, ok := c["text"].(string); ok {
					text = t
				} else if content, ok := c["content"].(string); ok {
					text = content
				}
			}
		}
	}

	if text == "" {
		if out, ok := data["output"].(string); ok {
			text = out
		} else if t, ok := data["text"].(string); ok {
			text = t
		} else if outArr, ok := data["output"].([]interface{}); ok && len(outArr) > 0 {
			if first, ok := outArr[0].(string); ok {
				text = first
			}
		}
	}

	if text == "" {
		raw, _ := json.Marshal(data)
		text = string(raw)
	}

	return text
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
