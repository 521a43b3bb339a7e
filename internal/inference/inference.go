// Package inference turns an aggregated PII profile into prose: what a
// reader could deduce about the person from the combined disclosures.
// It only ever consumes the flattened textual rendering of a profile;
// the scoring core is opaque to it and vice versa.
package inference

import (
	"context"
	"fmt"
	"strings"

	"github.com/theo-privacy/theo/internal/profile"
	"github.com/theo-privacy/theo/internal/provider"
)

const systemPrompt = "You are a helpful privacy analyst."

const narrationPromptTemplate = `You are a privacy analyst helping users understand what can be inferred about them from the personal information they've shared in a conversation with an AI.

Given the following pieces of personal information revealed during a conversation:

%s

Please analyze what additional information can be inferred or deduced about this person. Be specific about:
1. **Likely identifiers**: Specific schools, employers, organizations they might be associated with
2. **Demographic profile**: What can be inferred about their life circumstances
3. **Location narrowing**: How the combination of information helps pinpoint their location
4. **Identity risk**: How identifiable this person is based on the combination of information

Important guidelines:
- Be specific with inferences, and explain your reasoning briefly
- Focus on how pieces of information COMBINE to reveal more than they would individually
- Rate the overall identifiability from 1-10 with explanation

Format your response as a clear, organized analysis that a non-technical user can understand.`

const quickPromptTemplate = `Based on this personal information:

%s

In 2-3 sentences, what is the most significant inference that can be made by combining these pieces of information? Focus on the most identifying combination.`

// NothingDetected is the canned narration for an empty profile.
const NothingDetected = "No personal information has been detected yet. Share some messages to see what can be inferred."

// Engine generates narrations through a configured provider.
type Engine struct {
	provider provider.Provider
	model    string
}

// New creates an engine. A nil provider yields an unavailable engine,
// which is a valid configuration: narration is optional.
func New(p provider.Provider, model string) *Engine {
	return &Engine{provider: p, model: model}
}

// Available reports whether a provider is configured.
func (e *Engine) Available() bool {
	return e != nil && e.provider != nil
}

// Narrate generates the detailed analysis for a profile rendering.
func (e *Engine) Narrate(ctx context.Context, piiContext string) (string, error) {
	if !e.Available() {
		return "", fmt.Errorf("inference: no provider configured")
	}
	if emptyContext(piiContext) {
		return NothingDetected, nil
	}

	resp, err := e.provider.ChatCompletion(ctx, &provider.Request{
		Model: e.model,
		Messages: []provider.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(narrationPromptTemplate, piiContext)},
		},
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err != nil {
		return "", fmt.Errorf("generate narration: %w", err)
	}
	return resp.Content, nil
}

// QuickNarrate generates the brief single-paragraph variant.
func (e *Engine) QuickNarrate(ctx context.Context, piiContext string) (string, error) {
	if !e.Available() {
		return "", fmt.Errorf("inference: no provider configured")
	}
	if emptyContext(piiContext) {
		return profile.EmptyContext, nil
	}

	resp, err := e.provider.ChatCompletion(ctx, &provider.Request{
		Model: e.model,
		Messages: []provider.Message{
			{Role: "user", Content: fmt.Sprintf(quickPromptTemplate, piiContext)},
		},
		Temperature: 0.7,
		MaxTokens:   200,
	})
	if err != nil {
		return "", fmt.Errorf("generate quick narration: %w", err)
	}
	return resp.Content, nil
}

func emptyContext(piiContext string) bool {
	piiContext = strings.TrimSpace(piiContext)
	return piiContext == "" || piiContext == profile.EmptyContext
}
