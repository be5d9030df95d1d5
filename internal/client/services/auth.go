package services

import (
	"context"
	"fmt"

	"github.com/mkraev/carelink/internal/client/api"
	"github.com/mkraev/carelink/internal/client/models"
	"github.com/mkraev/carelink/internal/client/session"
	"github.com/mkraev/carelink/internal/common"
	"github.com/mkraev/carelink/internal/logging"
)

// AuthService owns the login/refresh/logout exchanges. It is the only
// service that writes to the session store; everything else just reads the
// token.
type AuthService interface {
	Login(ctx context.Context, email, password string) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
}

type authService struct {
	pipeline *api.Pipeline
	store    *session.Store
	log      logging.Logger
}

func NewAuthService(pipeline *api.Pipeline, store *session.Store, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{pipeline: pipeline, store: store, log: log}
}

// tokenData is the payload of login and refresh responses.
type tokenData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID   models.StringID `json:"id"`
		Name string          `json:"name"`
	} `json:"user"`
}

func (a *authService) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}

	data, err := api.ExecuteEnveloped[tokenData](ctx, a.pipeline, api.Post("/api/v1/auth/login", body))
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if err := a.store.Update(ctx, data.AccessToken, data.RefreshToken, data.User.ID.String(), data.User.Name); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	a.log.Info(ctx, "logged in", "subject_id", data.User.ID.String())
	return nil
}

// Refresh exchanges the stored refresh token for a new token pair. It is
// never called implicitly; callers decide when a refresh is worth trying.
func (a *authService) Refresh(ctx context.Context) error {
	cur := a.store.Current()
	if cur.RefreshToken == "" {
		return common.ErrNoRefreshToken
	}

	body := map[string]string{"refresh_token": cur.RefreshToken}

	data, err := api.ExecuteEnveloped[tokenData](ctx, a.pipeline, api.Post("/api/v1/auth/refresh", body))
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	// The refresh payload may omit the user block; keep the identity we have.
	subject, name := cur.SubjectID, cur.DisplayName
	if data.User.ID != "" {
		subject, name = data.User.ID.String(), data.User.Name
	}

	if err := a.store.Update(ctx, data.AccessToken, data.RefreshToken, subject, name); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Logout tells the server to revoke the session, then clears local state.
// Revocation failures are logged and swallowed: the local sign-out must
// succeed even when the server is unreachable.
func (a *authService) Logout(ctx context.Context) error {
	if d, err := authorized(api.Post("/api/v1/auth/logout", struct{}{}), a.store); err == nil {
		if err := a.pipeline.Execute(ctx, d, nil); err != nil {
			a.log.Warn(ctx, "remote logout failed", "error", err)
		}
	}
	return a.store.Clear(ctx)
}
