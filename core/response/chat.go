// Package response holds the provider-neutral shapes of completion results.
package response

// TokenUsage reports the token consumption the provider charged for a request.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens"`
}

// Choice is a single completion alternative.
type Choice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason,omitempty"`
}

// ChatResponse represents the response from a chat completion request.
type ChatResponse struct {
	ID      string      `json:"id,omitempty"`
	Object  string      `json:"object,omitempty"`
	Created int64       `json:"created,omitempty"`
	Model   string      `json:"model"`
	Choices []Choice    `json:"choices"`
	Usage   *TokenUsage `json:"usage,omitempty"`
}

// NewChatResponse builds a single-choice assistant response.
func NewChatResponse(model, content string) *ChatResponse {
	choice := Choice{FinishReason: "stop"}
	choice.Message.Role = "assistant"
	choice.Message.Content = content
	return &ChatResponse{
		Model:   model,
		Choices: []Choice{choice},
	}
}

// Content returns the text of the first choice, or an empty string when the
// response carries no choices.
func (r *ChatResponse) Content() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}
