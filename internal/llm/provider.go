package llm

import "context"

// Provider is the core abstraction for talking to a chat-completion
// service. Consumers call Complete with a Request and receive the
// generated text.
type Provider interface {
	// Complete sends a prompt to the completion service and returns the
	// generated text. A single synchronous attempt: callers bound the
	// call with a context deadline and decide themselves whether an
	// error is worth a manual retry.
	Complete(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the completion service.
type Request struct {
	// System is the system prompt. Empty for the plain tutor flows,
	// which put everything into the user message.
	System string

	// Messages is the conversation. For every Studiz flow this is a
	// single user message.
	Messages []Message

	// MaxTokens is the maximum number of tokens in the response.
	// Zero means provider default.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Response holds the completion service's output.
type Response struct {
	// Text is the first generated message's text content.
	Text string

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// resolveModel maps a friendly model name to a provider model ID.
// Unknown names pass through unchanged so users can pin exact IDs.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
