// Package aiclient talks to the suggestion backend: a connectivity probe,
// ingredient suggestions and educational content for a topic.
package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tranaapp/trana/internal/constants"
	apperrors "github.com/tranaapp/trana/internal/errors"
	"github.com/tranaapp/trana/internal/logger"
	"github.com/tranaapp/trana/internal/models"
)

const (
	pathTestConnection = "/api/test-connection"
	pathSuggestions    = "/api/suggestions"
	pathLearn          = "/api/learn"

	statusSuccess = "success"
	statusError   = "error"

	// topicRejectedMarker identifies the backend's answer to an off-topic learn request.
	topicRejectedMarker = "Please enter topics related to food waste"
)

type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	token   string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRateLimit caps outgoing requests to perMinute.
func WithRateLimit(perMinute int) Option {
	return func(c *Client) {
		if perMinute > 0 {
			c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
		}
	}
}

// WithToken sends token as a bearer credential.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: constants.DefaultAPITimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Status      string               `json:"status"`
	Message     string               `json:"message"`
	Suggestions []models.Suggestion  `json:"suggestions"`
	Content     *models.LearnContent `json:"content"`
}

// TestConnection probes the backend and returns its status message.
func (c *Client) TestConnection(ctx context.Context) (string, error) {
	env, err := c.do(ctx, "test connection", http.MethodGet, pathTestConnection, nil)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// Suggestions asks for ways to use up ingredients. An empty answer is an error.
func (c *Client) Suggestions(ctx context.Context, ingredients string) ([]models.Suggestion, error) {
	env, err := c.do(ctx, "get suggestions", http.MethodPost, pathSuggestions, map[string]string{"ingredients": ingredients})
	if err != nil {
		return nil, err
	}
	if len(env.Suggestions) == 0 {
		return nil, &apperrors.ServiceError{Op: "get suggestions", Message: "no suggestions returned"}
	}
	out := make([]models.Suggestion, 0, len(env.Suggestions))
	for _, s := range env.Suggestions {
		out = append(out, models.Suggestion{
			Title:       PlainText(s.Title),
			Description: PlainText(s.Description),
		})
	}
	return out, nil
}

// LearnContent fetches educational material for topic. Off-topic requests
// come back as a rejected ServiceError.
func (c *Client) LearnContent(ctx context.Context, topic string) (models.LearnContent, error) {
	env, err := c.do(ctx, "get learn content", http.MethodPost, pathLearn, map[string]string{"topic": topic})
	if err != nil {
		return models.LearnContent{}, err
	}
	if env.Content == nil {
		return models.LearnContent{}, &apperrors.ServiceError{Op: "get learn content", Message: "no content returned"}
	}
	lc := *env.Content
	lc.Title = PlainText(lc.Title)
	lc.Introduction = PlainText(lc.Introduction)
	lc.Content = PlainText(lc.Content)
	for i := range lc.Tips {
		lc.Tips[i] = PlainText(lc.Tips[i])
	}
	for i := range lc.ActionSteps {
		lc.ActionSteps[i] = PlainText(lc.ActionSteps[i])
	}
	return lc, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body any) (*envelope, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &apperrors.ServiceError{Op: op, Err: err}
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &apperrors.ServiceError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		logger.Warn("Backend request failed", "op", op, "error", err)
		return nil, &apperrors.ServiceError{Op: op, Message: "network error", Err: err}
	}
	defer res.Body.Close()
	logger.Debug("Backend request", "op", op, "status", res.StatusCode, "elapsed", time.Since(start))

	var env envelope
	decodeErr := json.NewDecoder(res.Body).Decode(&env)

	if res.StatusCode < 200 || res.StatusCode > 299 || env.Status == statusError {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(res.StatusCode)
		}
		return nil, &apperrors.ServiceError{
			Op:         op,
			StatusCode: res.StatusCode,
			Message:    msg,
			Rejected:   strings.Contains(msg, topicRejectedMarker),
		}
	}
	if decodeErr != nil {
		return nil, &apperrors.ServiceError{Op: op, StatusCode: res.StatusCode, Message: "malformed response", Err: decodeErr}
	}
	if env.Status != statusSuccess {
		return nil, &apperrors.ServiceError{Op: op, StatusCode: res.StatusCode, Message: fmt.Sprintf("unexpected status %q", env.Status)}
	}
	return &env, nil
}
