// Package llm defines the LLM collaborator contract and its concrete
// Anthropic-backed implementation, used for cover-letter generation and
// compensation-text extraction.
package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/mwozniak/jobrank/internal/errs"
)

// LLM is the narrow contract the pipeline depends on.
type LLM interface {
	GenerateCoverLetter(ctx context.Context, resumeText, jobSummary, jobTitle, company string) (string, error)
	ExtractCompensation(ctx context.Context, rawText string) (string, error)
}

// Client implements LLM against the Anthropic Messages API.
type Client struct {
	api       *anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// New constructs a Client. An empty apiKey yields a client that errors
// on every call, so callers can wire it unconditionally and let the
// error surface only when the feature is actually exercised.
func New(apiKey, model string) *Client {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	m := anthropic.Model(model)
	if model == "" {
		m = anthropic.ModelClaude3_7SonnetLatest
	}
	client := anthropic.NewClient(opts...)
	return &Client{api: &client, model: m, maxTokens: 1024}
}

// GenerateCoverLetter drafts a cover letter body from résumé text and a
// job's summary.
func (c *Client) GenerateCoverLetter(ctx context.Context, resumeText, jobSummary, jobTitle, company string) (string, error) {
	prompt := fmt.Sprintf(
		"Write a concise, specific cover letter body (no greeting or signature) for a %q position at %q.\n"+
			"Job summary:\n%s\n\nCandidate résumé:\n%s\n",
		jobTitle, company, jobSummary, resumeText,
	)
	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: generate cover letter: %v", errs.ErrFetch, err)
	}
	return concatText(msg), nil
}

// ExtractCompensation asks the model to normalize a free-text
// compensation blurb into a short structured line, used when a
// posting's compensation section is unstructured prose.
func (c *Client) ExtractCompensation(ctx context.Context, rawText string) (string, error) {
	prompt := "Extract the compensation value, currency, and period from this text as a single " +
		"short line (e.g. \"25.00 CAD/hour\"), or \"unspecified\" if none is present:\n\n" + rawText
	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 64,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: extract compensation: %v", errs.ErrFetch, err)
	}
	return concatText(msg), nil
}

func concatText(msg *anthropic.Message) string {
	var out string
	for _, block := range msg.Content {
		if block.Type == anthropic.ContentBlockTypeText {
			out += block.Text
		}
	}
	return out
}
