package sse

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/soundround/soundround/internal/model"
	"github.com/soundround/soundround/internal/render"
)

// renderEvent is the SSE event name carrying view-update frames. Named
// engine events go out under their own names.
const renderEvent = "render"

// Sink bridges the engine's rendering and broadcast interfaces onto SSE
// hubs. View updates and event payloads are serialized as JSON frames;
// clients decide how to draw them.
type Sink struct {
	hubs   *HubManager
	logger *slog.Logger
}

var _ render.Sink = (*Sink)(nil)

// NewSink creates a new Sink on top of a HubManager
func NewSink(hubs *HubManager, logger *slog.Logger) *Sink {
	return &Sink{
		hubs:   hubs,
		logger: logger.With(slog.String("component", "sse-sink")),
	}
}

// renderFrame is the wire form of a view update.
type renderFrame struct {
	View    model.View `json:"view"`
	Context any        `json:"context,omitempty"`
}

// Render serializes the view update and delivers it to the scope's clients.
func (s *Sink) Render(_ context.Context, update model.ViewUpdate) {
	data, err := json.Marshal(renderFrame{View: update.View, Context: update.Context})
	if err != nil {
		s.logger.Error("sse failed to encode view update",
			slog.String("view", string(update.View)),
			slog.Any("error", err))
		return
	}
	s.hubs.Deliver(update.Scope, formatSSEMessage(renderEvent, string(data)))
}

// Emit serializes the payload and delivers the named event to the scope's
// clients.
func (s *Sink) Emit(_ context.Context, scope model.Scope, event model.EventType, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("sse failed to encode event payload",
			slog.String("event", string(event)),
			slog.Any("error", err))
		return
	}
	s.hubs.Deliver(scope, formatSSEMessage(string(event), string(data)))
}
