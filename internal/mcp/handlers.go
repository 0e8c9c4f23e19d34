package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kmorand/tarotgen/internal/config"
	"github.com/kmorand/tarotgen/internal/errors"
	"github.com/kmorand/tarotgen/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cfg *config.Config) *Handlers {
	return &Handlers{cfg: cfg}
}

// Request types for each tool

// BatchNextRequest represents the arguments for batch_next.
type BatchNextRequest struct {
	BatchesDir string `json:"batches_dir"`
	Limit      int    `json:"limit,omitempty"`
}

// BatchSubmitRequest represents the arguments for batch_submit.
type BatchSubmitRequest struct {
	BatchesDir string           `json:"batches_dir"`
	Batch      string           `json:"batch"`
	Responses  []SubmitResponse `json:"responses"`
	Force      bool             `json:"force,omitempty"`
}

// SubmitResponse is one id/response pair in batch_submit.
type SubmitResponse struct {
	ID       string `json:"id"`
	Response string `json:"response"`
}

// CoverageReportRequest represents the arguments for coverage_report.
type CoverageReportRequest struct {
	BatchesDir  string `json:"batches_dir"`
	ReportPath  string `json:"report_path,omitempty"`
	HTML        bool   `json:"html,omitempty"`
	TargetTotal int    `json:"target_total,omitempty"`
}

// decode unmarshals MCP request arguments into a typed struct.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var result T
	args := req.GetArguments()
	b, err := json.Marshal(args)
	if err != nil {
		return result, fmt.Errorf("marshal args: %w", err)
	}
	if err := json.Unmarshal(b, &result); err != nil {
		return result, fmt.Errorf("unmarshal args: %w", err)
	}
	return result, nil
}

// HandleBatchNext handles the batch_next tool call.
func (h *Handlers) HandleBatchNext(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[BatchNextRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.NextBatches(ops.NextInput{
		BatchesDir: input.BatchesDir,
		Limit:      input.Limit,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleBatchSubmit handles the batch_submit tool call.
func (h *Handlers) HandleBatchSubmit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[BatchSubmitRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	responses := make([]ops.ResponseLine, len(input.Responses))
	for i, r := range input.Responses {
		responses[i] = ops.ResponseLine{ID: r.ID, Response: r.Response}
	}

	result, err := ops.SubmitResponses(ops.SubmitInput{
		BatchesDir: input.BatchesDir,
		BatchName:  input.Batch,
		Responses:  responses,
		Force:      input.Force,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCoverageReport handles the coverage_report tool call.
func (h *Handlers) HandleCoverageReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CoverageReportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.HTML && input.ReportPath == "" {
		return errorResult(errors.NewInvalidRequest("html rendering requires report_path")), nil
	}

	result, err := ops.Analyze(h.cfg, ops.AnalyzeInput{
		BatchesDir:  input.BatchesDir,
		ReportPath:  input.ReportPath,
		HTML:        input.HTML,
		TargetTotal: input.TargetTotal,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{
		"batches":        result.Batches,
		"examples":       result.Examples,
		"parse_failures": result.ParseFailures,
		"report_path":    result.ReportPath,
		"report":         result.Markdown,
	})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are not exposed to avoid leaking file paths.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if pErr, ok := err.(*errors.PipelineError); ok {
		errorObj := map[string]any{
			"code":    pErr.Code,
			"message": pErr.Message,
			"status":  pErr.Status,
		}
		if pErr.Code != errors.ErrInternal && pErr.Details != nil {
			errorObj["details"] = pErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
