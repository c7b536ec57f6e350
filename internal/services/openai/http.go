package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/socialchef/chefgpt/internal/httpclient"
	"github.com/socialchef/chefgpt/internal/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type imageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type imageResponse struct {
	Data []struct {
		URL     string `json:"url,omitempty"`
		B64JSON string `json:"b64_json,omitempty"`
	} `json:"data"`
}

func (c *Client) recordCall(ctx context.Context, operation string, start time.Time) {
	duration := time.Since(start).Seconds()
	attrs := metric.WithAttributes(
		attribute.String("provider", c.provider),
		attribute.String("operation", operation),
	)
	metrics.ExternalAPIDuration.Record(ctx, duration, attrs)
	metrics.ExternalAPICallsTotal.Add(ctx, 1, attrs)
}

func (c *Client) callChat(ctx context.Context, model string, messages []Message, jsonMode bool) (string, error) {
	defer c.recordCall(ctx, "chat", time.Now())

	req := chatRequest{
		Model:    model,
		Messages: messages,
	}
	if jsonMode {
		req.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	var chatResp chatResponse
	if err := c.post(ctx, "/chat/completions", req, &chatResp); err != nil {
		return "", err
	}

	if len(chatResp.Choices) == 0 {
		return "", ErrNoResponse
	}

	return chatResp.Choices[0].Message.Content, nil
}

func (c *Client) callImage(ctx context.Context, model, prompt, size string) (string, error) {
	defer c.recordCall(ctx, "image", time.Now())

	req := imageRequest{
		Model:  model,
		Prompt: prompt,
		N:      1,
		Size:   size,
	}

	var imgResp imageResponse
	if err := c.post(ctx, "/images/generations", req, &imgResp); err != nil {
		return "", err
	}

	if len(imgResp.Data) == 0 {
		return "", ErrNoImage
	}
	first := imgResp.Data[0]
	switch {
	case first.URL != "":
		return first.URL, nil
	case first.B64JSON != "":
		return "data:image/png;base64," + first.B64JSON, nil
	default:
		return "", ErrNoImage
	}
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(httpclient.WithProvider(ctx, c.provider), http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s API error (status %d): %s", c.provider, resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s response: %w", c.provider, err)
	}
	return nil
}
