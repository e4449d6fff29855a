package dto

import (
	"time"

	"edge-signal-bot/internal/alerter/service"
)

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// BlockResponse is one rendered block.
type BlockResponse struct {
	Category string `json:"category"`
	Source   string `json:"source"`
	Sport    string `json:"sport"`
	Title    string `json:"title"`
	Text     string `json:"text"`
}

// DeliveryResponse summarises what the publisher did.
type DeliveryResponse struct {
	Mode      string   `json:"mode"`
	Attempted int      `json:"attempted"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Skipped   int      `json:"skipped"`
	Cancelled int      `json:"cancelled"`
	Errors    []string `json:"errors,omitempty"`
}

// RunResponse is the API view of a pipeline run.
type RunResponse struct {
	RunID      string           `json:"run_id"`
	StartedAt  time.Time        `json:"started_at"`
	DurationMS int64            `json:"duration_ms"`
	Signals    map[string]int   `json:"signals"`
	Blocks     []BlockResponse  `json:"blocks"`
	Delivery   DeliveryResponse `json:"delivery"`
}

// NewRunResponse converts a run report into its API representation.
func NewRunResponse(report *service.RunReport) RunResponse {
	resp := RunResponse{
		RunID:      report.RunID,
		StartedAt:  report.StartedAt,
		DurationMS: report.FinishedAt.Sub(report.StartedAt).Milliseconds(),
		Signals:    make(map[string]int, len(report.Signals)),
		Blocks:     make([]BlockResponse, 0, len(report.Blocks)),
		Delivery: DeliveryResponse{
			Mode:      report.Delivery.Mode,
			Attempted: report.Delivery.Attempted,
			Succeeded: report.Delivery.Succeeded,
			Failed:    report.Delivery.Failed,
			Skipped:   report.Delivery.Skipped,
			Cancelled: report.Delivery.Cancelled,
			Errors:    report.Delivery.Errors,
		},
	}
	for category, count := range report.Signals {
		resp.Signals[string(category)] = count
	}
	for _, block := range report.Blocks {
		resp.Blocks = append(resp.Blocks, BlockResponse{
			Category: string(block.Category),
			Source:   block.Source,
			Sport:    block.Sport,
			Title:    block.Title,
			Text:     block.Text,
		})
	}
	return resp
}
