package middleware

import (
	"context"
	"net/http"
	"strings"

	apperrors "mentorbook/pkg/errors"
	"mentorbook/pkg/logger"
	"mentorbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const (
	ActorKey contextKey = "actor"

	HeaderUserID    = "X-User-ID"
	HeaderUserRole  = "X-User-Role"
	HeaderUserEmail = "X-User-Email"
	HeaderUserName  = "X-User-Name"
)

// Identity reads the caller asserted by the upstream auth gateway. It never
// rejects; route wrappers below decide what a handler requires.
func Identity(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := model.Actor{
				ID:    strings.TrimSpace(r.Header.Get(HeaderUserID)),
				Role:  strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderUserRole))),
				Email: strings.TrimSpace(r.Header.Get(HeaderUserEmail)),
				Name:  strings.TrimSpace(r.Header.Get(HeaderUserName)),
			}
			if actor.ID != "" && actor.Role != model.RoleAdmin {
				actor.Role = model.RoleUser
			}
			if actor.ID == "" {
				actor.Role = ""
			}

			log.Debug("Request identity",
				"request_id", RequestID(r.Context()),
				"user_id", actor.ID,
				"role", actor.Role,
			)

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func WithActor(ctx context.Context, actor model.Actor) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}

// ActorFrom returns the caller, or the zero Actor for anonymous requests.
func ActorFrom(ctx context.Context) model.Actor {
	actor, _ := ctx.Value(ActorKey).(model.Actor)
	return actor
}

// Authenticated rejects anonymous callers with 401.
func Authenticated(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if ActorFrom(r.Context()).ID == "" {
			writeJSONError(w, http.StatusUnauthorized, apperrors.CodeUnauthorized, "Authentication required")
			return
		}
		next(w, r, ps)
	}
}

// AdminOnly rejects anonymous callers with 401 and non-admins with 403.
func AdminOnly(next httprouter.Handle) httprouter.Handle {
	return Authenticated(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !ActorFrom(r.Context()).IsAdmin() {
			writeJSONError(w, http.StatusForbidden, apperrors.CodeForbidden, "Admin role required")
			return
		}
		next(w, r, ps)
	})
}
