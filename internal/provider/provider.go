package provider

import "context"

// Message is a normalized chat message sent to or received from an
// upstream LLM.
type Message struct {
	Role    string
	Content string
}

// Request is a normalized chat-completion request.
type Request struct {
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// Response is a normalized chat-completion response.
type Response struct {
	Content string
}

// Provider is the interface for upstream LLM providers used to narrate
// profiles in prose. The core never depends on a concrete provider.
type Provider interface {
	ChatCompletion(ctx context.Context, req *Request) (*Response, error)
}
