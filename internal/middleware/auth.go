package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/org-directory-api/internal/auth"
	"github.com/org-directory-api/internal/domain"
	"github.com/org-directory-api/internal/repository"
)

const userKey contextKey = "current_user"

// Auth middleware проверяет bearer-токен и кладёт пользователя в контекст запроса
func Auth(issuer *auth.TokenIssuer, users repository.UserRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(w)
				return
			}

			claims, err := issuer.Parse(token)
			if err != nil {
				unauthorized(w)
				return
			}

			user, err := users.GetByAccount(r.Context(), claims.Account)
			if err != nil {
				if !errors.Is(err, domain.ErrUserNotFound) {
					logger.Error("failed to load user for token", slog.Any("error", err))
				}
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext возвращает аутентифицированного пользователя запроса
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}

func unauthorized(w http.ResponseWriter) {
	http.Error(w, `{"error":"could not validate credentials"}`, http.StatusUnauthorized)
}

func contextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext возвращает идентификатор запроса, если он был присвоен
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
