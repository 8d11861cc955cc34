package generate

import "context"

// Role identifies a chat message author.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a completion request to a generative model.
type ChatRequest struct {
	Messages []Message `json:"messages"`
}

// Choice is one completion candidate.
type Choice struct {
	Message Message `json:"message"`
}

// ChatResponse is a completion response.
type ChatResponse struct {
	Choices []Choice `json:"choices"`
}

// Provider is the generative-model collaborator boundary. Implementations
// own transport, authentication, timeouts, and low-level retry; this package
// only owns the structured-output protocol around them.
type Provider interface {
	Completion(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}
