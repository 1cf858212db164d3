// Package agent implements the natural-language answering service on top of
// Google's Gemini API. The agent receives a delegated prompt (data dictionary
// plus question), may execute read-only SQL against the flood database
// through function tools, and returns a free-text answer.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/floodwatch/floodassist/internal/config"
	"github.com/floodwatch/floodassist/internal/database"
	"github.com/floodwatch/floodassist/internal/observability"
)

const (
	toolExecuteSQL = "execute_sql"
	toolListTables = "list_tables"
)

// Agent is a Gemini-backed SQL answering service. It satisfies the
// resolver's Answerer interface.
type Agent struct {
	genaiClient *genai.Client
	store       database.Store
	log         *slog.Logger

	modelName     string
	temperature   float32
	timeout       time.Duration
	maxRetries    int
	retryDelay    time.Duration
	maxToolRounds int
	maxQueryRows  int
}

// New creates a new Gemini SQL agent with the provided configuration.
// It initializes the connection to the Gemini API and registers the SQL
// tools the model may call.
func New(ctx context.Context, cfg config.GeminiConfig, store database.Store, log *slog.Logger) (*Agent, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	logger := log.With("component", "agent")
	logger.Info("Gemini SQL agent initialized successfully", "model", cfg.ModelName)
	return &Agent{
		genaiClient:   gi,
		store:         store,
		log:           logger,
		modelName:     cfg.ModelName,
		temperature:   cfg.Temperature,
		timeout:       cfg.Timeout,
		maxRetries:    cfg.MaxRetries,
		retryDelay:    time.Duration(cfg.RetryDelaySeconds) * time.Second,
		maxToolRounds: cfg.MaxToolRounds,
		maxQueryRows:  cfg.MaxQueryRows,
	}, nil
}

func (a *Agent) contentConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:       &a.temperature,
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: SystemInstruction}}},
		Tools: []*genai.Tool{
			{FunctionDeclarations: toolDeclarations()},
		},
	}
}

func toolDeclarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        toolExecuteSQL,
			Description: "Execute a single read-only SELECT query against the flood SQLite database and return the resulting rows.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"query": {
						Type:        genai.TypeString,
						Description: "The SQL SELECT statement to execute (SQLite dialect).",
					},
				},
				Required: []string{"query"},
			},
		},
		{
			Name:        toolListTables,
			Description: "List the tables in the flood database together with their column names.",
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{},
			},
		},
	}
}

// Answer runs the delegated prompt through the model, executing any SQL
// tool calls it requests, until the model produces a text answer or the
// tool-round budget is exhausted.
func (a *Agent) Answer(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	defer func() {
		observability.ObserveAgentDuration(time.Since(start).Seconds())
	}()

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	cfg := a.contentConfig()

	for round := 0; round < a.maxToolRounds; round++ {
		resp, err := a.generateContentWithRetries(ctx, contents, cfg)
		if err != nil {
			a.log.ErrorContext(ctx, "Gemini answer generation failed", "round", round, "error", err)
			return "", err
		}

		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			return a.extractTextFromResponse(ctx, resp)
		}

		if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
			contents = append(contents, resp.Candidates[0].Content)
		}

		parts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			a.log.DebugContext(ctx, "Agent tool call", "round", round, "tool", call.Name)
			parts = append(parts, genai.NewPartFromFunctionResponse(call.Name, a.dispatchTool(ctx, call)))
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	}

	a.log.WarnContext(ctx, "Agent exhausted tool rounds without a final answer", "max_rounds", a.maxToolRounds)
	return "", fmt.Errorf("agent did not produce an answer within %d tool rounds", a.maxToolRounds)
}

func (a *Agent) generateContentWithRetries(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	var resp *genai.GenerateContentResponse
	var err error

	for i := 0; i <= a.maxRetries; i++ {
		resp, err = a.genaiClient.Models.GenerateContent(ctx, a.modelName, contents, cfg)
		if err == nil {
			return resp, nil
		}

		a.log.WarnContext(ctx, "Gemini API call failed, checking for retry", "attempt", i+1, "max_retries", a.maxRetries, "error", err)

		var apiErr *genai.APIError
		if errors.As(err, &apiErr) && (apiErr.Code == 500 || apiErr.Code == 503) { // Retriable HTTP codes
			if i < a.maxRetries {
				a.log.InfoContext(ctx, "Retrying Gemini API call due to retriable APIError", "delay", a.retryDelay, "code", apiErr.Code)
				time.Sleep(a.retryDelay)
				continue
			}
			a.log.ErrorContext(ctx, "Gemini API call failed after max retries with APIError", "error", err, "code", apiErr.Code)
			return nil, fmt.Errorf("gemini API call failed after %d retries (APIError code %d): %w", a.maxRetries, apiErr.Code, err)
		}

		a.log.ErrorContext(ctx, "Gemini API call failed with non-retriable error", "error", err)
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}
	return nil, err
}

// dispatchTool executes one tool call from the model and returns the
// function response payload. Tool failures are reported back to the model
// inside the payload so it can correct itself, never as a Go error.
func (a *Agent) dispatchTool(ctx context.Context, call *genai.FunctionCall) map[string]any {
	switch call.Name {
	case toolExecuteSQL:
		query, ok := call.Args["query"].(string)
		if !ok || query == "" {
			return map[string]any{"error": "missing required string argument 'query'"}
		}

		result, err := a.store.ExecuteReadQuery(ctx, query, a.maxQueryRows)
		if err != nil {
			if errors.Is(err, database.ErrNotReadOnly) {
				return map[string]any{"error": "only read-only SELECT queries are allowed"}
			}
			return map[string]any{"error": err.Error()}
		}

		return map[string]any{
			"columns":   result.Columns,
			"rows":      result.Rows,
			"row_count": len(result.Rows),
			"truncated": result.Truncated,
		}

	case toolListTables:
		tables, err := a.store.DescribeTables(ctx)
		if err != nil {
			return map[string]any{"error": err.Error()}
		}

		described := make([]map[string]any, 0, len(tables))
		for _, t := range tables {
			described = append(described, map[string]any{
				"name":    t.Name,
				"columns": t.Columns,
			})
		}
		return map[string]any{"tables": described}

	default:
		a.log.WarnContext(ctx, "Model requested unknown tool", "tool", call.Name)
		return map[string]any{"error": fmt.Sprintf("unknown tool %q", call.Name)}
	}
}

func (a *Agent) extractTextFromResponse(ctx context.Context, resp *genai.GenerateContentResponse) (string, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reasonMsg := fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reasonMsg = resp.PromptFeedback.BlockReasonMessage
		}
		a.log.ErrorContext(ctx, "Gemini request blocked", "reason", reasonMsg)
		return "", fmt.Errorf("request blocked by safety filter: %s", reasonMsg)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		finishReason := "unknown"
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != genai.FinishReasonUnspecified {
			finishReason = fmt.Sprintf("%v", resp.Candidates[0].FinishReason)
		}
		a.log.WarnContext(ctx, "Gemini response missing candidates or content", "finish_reason", finishReason)
		return "", fmt.Errorf("model returned no content, finish reason: %s", finishReason)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("model returned empty text")
	}
	return text, nil
}
