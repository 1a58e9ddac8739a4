package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/tailored-agentic-units/retcon/core/config"
	"github.com/tailored-agentic-units/retcon/core/protocol"
	"github.com/tailored-agentic-units/retcon/core/response"
)

type openAIAgent struct {
	id     string
	model  string
	client openai.Client
}

// NewOpenAI creates an Agent backed by the OpenAI chat completions API, or any
// service exposing the same API at cfg.BaseURL. Client-side retries are
// disabled; a failed request is reported to the caller as is.
func NewOpenAI(cfg *config.AgentConfig, apiKey string, opts ...option.RequestOption) Agent {
	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}
	clientOpts = append(clientOpts, opts...)

	return &openAIAgent{
		id:     uuid.Must(uuid.NewV7()).String(),
		model:  cfg.Model,
		client: openai.NewClient(clientOpts...),
	}
}

func (a *openAIAgent) ID() string {
	return a.id
}

func (a *openAIAgent) Model() string {
	return a.model
}

func (a *openAIAgent) Chat(ctx context.Context, messages []protocol.Message) (*response.ChatResponse, error) {
	msgParams, err := toParams(messages)
	if err != nil {
		return nil, err
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(a.model),
		Messages:    msgParams,
		Temperature: openai.Float(0),
		N:           openai.Int(1),
	}

	completion, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %v", ErrAuthentication, err)
		}
		return nil, err
	}

	resp := &response.ChatResponse{
		ID:      completion.ID,
		Object:  string(completion.Object),
		Created: completion.Created,
		Model:   completion.Model,
		Usage: &response.TokenUsage{
			PromptTokens:     int(completion.Usage.PromptTokens),
			CompletionTokens: int(completion.Usage.CompletionTokens),
			TotalTokens:      int(completion.Usage.TotalTokens),
		},
	}
	for _, c := range completion.Choices {
		var choice response.Choice
		choice.Index = int(c.Index)
		choice.Message.Role = string(c.Message.Role)
		choice.Message.Content = c.Message.Content
		choice.FinishReason = string(c.FinishReason)
		resp.Choices = append(resp.Choices, choice)
	}

	return resp, nil
}

func toParams(messages []protocol.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for i, msg := range messages {
		if !msg.Role.IsValid() {
			return nil, fmt.Errorf("%w: message %d has role %q", ErrInvalidRole, i, msg.Role)
		}

		var name param.Opt[string]
		if msg.Name != "" {
			name = openai.String(msg.Name)
		}

		switch msg.Role {
		case protocol.RoleSystem:
			params = append(params, openai.ChatCompletionMessageParamUnion{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{OfString: openai.String(msg.Content)},
					Name:    name,
				},
			})
		case protocol.RoleAssistant:
			params = append(params, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{
					Content: openai.ChatCompletionAssistantMessageParamContentUnion{OfString: openai.String(msg.Content)},
					Name:    name,
				},
			})
		case protocol.RoleUser:
			params = append(params, openai.ChatCompletionMessageParamUnion{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{OfString: openai.String(msg.Content)},
					Name:    name,
				},
			})
		}
	}
	return params, nil
}
