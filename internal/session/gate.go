// Package session tracks whether the current client holds an admin session.
package session

import (
	"context"
	"errors"
	"fmt"

	"purefood/internal/kvstore"
	"purefood/internal/service"

	"go.uber.org/zap"
)

// LoggedInKey is the session flag set after a successful login
const LoggedInKey = "admin_logged_in"

var ErrNotAdmin = errors.New("admin session required")

// Gate guards admin views. A session counts only when the bearer token
// in the durable store and the flag in the session store are both set.
type Gate struct {
	durable *kvstore.Store
	session *kvstore.Store
	logger  *zap.Logger
}

// NewGate creates a Gate. session is normally a volatile store so the
// flag does not outlive the process.
func NewGate(durable, session *kvstore.Store, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{durable: durable, session: session, logger: logger}
}

// Login exchanges credentials through backend and records the session
func (g *Gate) Login(ctx context.Context, backend service.Backend, username, password string) error {
	token, err := backend.Login(ctx, username, password)
	if err != nil {
		g.logger.Warn("Admin login failed", zap.String("username", username), zap.Error(err))
		return fmt.Errorf("failed to log in: %w", err)
	}

	g.durable.Set(ctx, kvstore.TokenKey, []byte(token))
	g.session.Set(ctx, LoggedInKey, []byte("true"))

	g.logger.Info("Admin session started", zap.String("username", username))
	return nil
}

// Logout drops both the token and the flag
func (g *Gate) Logout(ctx context.Context) {
	g.durable.Remove(ctx, kvstore.TokenKey)
	g.session.Remove(ctx, LoggedInKey)
}

// Token returns the stored bearer token
func (g *Gate) Token(ctx context.Context) (string, bool) {
	token, ok := g.durable.Get(ctx, kvstore.TokenKey)
	if !ok || len(token) == 0 {
		return "", false
	}
	return string(token), true
}

// IsAdmin reports whether both the token and the session flag are present
func (g *Gate) IsAdmin(ctx context.Context) bool {
	if _, ok := g.Token(ctx); !ok {
		return false
	}
	flag, ok := g.session.Get(ctx, LoggedInKey)
	return ok && string(flag) == "true"
}

// Require returns ErrNotAdmin unless IsAdmin holds
func (g *Gate) Require(ctx context.Context) error {
	if !g.IsAdmin(ctx) {
		return ErrNotAdmin
	}
	return nil
}
