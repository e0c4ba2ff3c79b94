package http

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"slices"

	"github.com/bornholm/transmute/internal/core/model"
	httpCtx "github.com/bornholm/transmute/internal/http/context"
	"github.com/bornholm/transmute/internal/http/middleware/authz"
)

// basicAuth authenticates requests against the configured users and attaches
// the matched user to the request context. When anonymous access is allowed,
// unauthenticated requests carry a synthetic user with full roles so the
// downstream authorization checks stay in one place.
func (s *Server) basicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if ok {
			usernameHash := sha256.Sum256([]byte(username))
			passwordHash := sha256.Sum256([]byte(password))

			userIndex := slices.IndexFunc(s.opts.Auth.Users, func(u User) bool {
				return u.Username == username
			})

			if userIndex != -1 {
				user := s.opts.Auth.Users[userIndex]

				expectedUsername := sha256.Sum256([]byte(user.Username))
				expectedPassword := sha256.Sum256([]byte(user.Password))

				usernameMatch := (subtle.ConstantTimeCompare(usernameHash[:], expectedUsername[:]) == 1)
				passwordMatch := (subtle.ConstantTimeCompare(passwordHash[:], expectedPassword[:]) == 1)

				if usernameMatch && passwordMatch {
					ctx := httpCtx.SetUser(r.Context(), model.NewUser("basic-auth", username, username, user.Roles...))

					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}
		}

		if s.opts.Auth.AllowAnonymous {
			ctx := httpCtx.SetUser(r.Context(), model.NewUser("anonymous", "anonymous", "Anonymous", authz.RoleReader, authz.RoleWriter))

			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		w.Header().Set("WWW-Authenticate", `Basic realm="restricted", charset="UTF-8"`)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	})
}
