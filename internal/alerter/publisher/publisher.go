package publisher

import (
	"context"

	"edge-signal-bot/internal/entity"
)

const (
	resultSuccess   = "success"
	resultFailure   = "failure"
	resultSkipped   = "skipped"
	resultCancelled = "cancelled"
)

// Publisher delivers rendered blocks. Delivery failures are reported, never returned.
type Publisher interface {
	Publish(ctx context.Context, blocks []entity.Block) Report
	Mode() string
}

// Poster is a social posting API that returns the id of the created message.
type Poster interface {
	Post(ctx context.Context, text string) (string, error)
}

// Report summarises one publish call. Failed counts attempts that errored;
// Cancelled counts blocks never attempted because the context ended.
type Report struct {
	Mode       string   `json:"mode"`
	Attempted  int      `json:"attempted"`
	Succeeded  int      `json:"succeeded"`
	Failed     int      `json:"failed"`
	Skipped    int      `json:"skipped"`
	Cancelled  int      `json:"cancelled"`
	MessageIDs []string `json:"message_ids,omitempty"`
	Errors     []string `json:"errors,omitempty"`
}
