// Package render defines the two collaborator interfaces the engine emits
// to: a renderer that draws views for clients and a broadcaster that pushes
// named events over the real-time channel. The engine never blocks on
// either; implementations must be fire-and-forget.
package render

import (
	"context"

	"github.com/soundround/soundround/internal/model"
)

// Renderer receives opaque "render this view with this context"
// instructions.
type Renderer interface {
	Render(ctx context.Context, update model.ViewUpdate)
}

// Broadcaster receives named events with payloads for delivery over
// whatever real-time channel the deployment uses.
type Broadcaster interface {
	Emit(ctx context.Context, scope model.Scope, event model.EventType, payload any)
}

// Sink bundles both collaborators; most engine components want both.
type Sink interface {
	Renderer
	Broadcaster
}
