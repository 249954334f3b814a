package middleware

import (
	"context"
	"net/http"

	"github.com/soundround/soundround/internal/api/apierr"
	"github.com/soundround/soundround/internal/model"
	"github.com/soundround/soundround/internal/services/session"
)

type contextKey string

const playerContextKey contextKey = "player"

// HandleHeader carries the opaque player handle issued at connect time.
const HandleHeader = "X-Player-Handle"

// Auth creates authentication middleware. It resolves the handle header to a
// live player and stores it in the request context.
func Auth(sessions session.ControllerInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handle := r.Header.Get(HandleHeader)
			if handle == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			player, err := sessions.GetPlayer(r.Context(), model.PlayerID(handle))
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), playerContextKey, player)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPlayer returns the authenticated player from the request context
func GetPlayer(ctx context.Context) *model.Player {
	player, _ := ctx.Value(playerContextKey).(*model.Player)
	return player
}

// MustGetPlayer returns the authenticated player or panics
func MustGetPlayer(ctx context.Context) *model.Player {
	player := GetPlayer(ctx)
	if player == nil {
		panic("no player in context - auth middleware not applied?")
	}
	return player
}
