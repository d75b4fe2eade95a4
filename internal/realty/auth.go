// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package realty

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/taibuivan/realty/internal/platform/apiclient"
	"github.com/taibuivan/realty/internal/platform/constants"
	"github.com/taibuivan/realty/internal/platform/ctxutil"
	"github.com/taibuivan/realty/internal/resource"
	"github.com/taibuivan/realty/internal/session"
)

// ErrNoToken is returned when the login response carries no token.
var ErrNoToken = errors.New("realty: login response has no token")

// Credentials is the login form payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthService talks to the backend authentication endpoints.
//
// It implements [session.ProfileFetcher].
type AuthService struct {
	client *apiclient.Client
}

var _ session.ProfileFetcher = (*AuthService)(nil)

// NewAuthService creates an [AuthService].
func NewAuthService(client *apiclient.Client) *AuthService {
	return &AuthService{client: client}
}

// Login exchanges credentials for a bearer token.
func (service *AuthService) Login(ctx context.Context, credentials Credentials) (string, error) {
	var raw json.RawMessage
	if err := service.client.Post(ctx, constants.APIAuthLogin, credentials, &raw); err != nil {
		// Rejected credentials are expected; only log other failures.
		if !apiclient.IsUnauthorized(err) {
			service.log(ctx, "login", err)
		}
		return "", err
	}

	var body struct {
		Token        string `json:"token"`
		AccessToken  string `json:"accessToken"`
		AccessToken2 string `json:"access_token"`
	}
	if err := resource.DecodeInto(raw, &body); err != nil {
		service.log(ctx, "login", err)
		return "", err
	}

	for _, token := range []string{body.Token, body.AccessToken, body.AccessToken2} {
		if token != "" {
			return token, nil
		}
	}
	return "", ErrNoToken
}

// FetchProfile returns the modules and permissions of the token's owner.
func (service *AuthService) FetchProfile(ctx context.Context, token string) (*session.Profile, error) {
	ctx = ctxutil.WithToken(ctx, token)

	var raw json.RawMessage
	if err := service.client.Get(ctx, constants.APIAuthProfile, nil, &raw); err != nil {
		service.log(ctx, "profile", err)
		return nil, err
	}

	var body struct {
		session.Profile
		User *session.Profile `json:"user"`
	}
	if err := resource.DecodeInto(raw, &body); err != nil {
		service.log(ctx, "profile", err)
		return nil, err
	}

	profile := body.Profile
	if len(profile.Modules) == 0 && len(profile.Permissions) == 0 && body.User != nil {
		profile = *body.User
	}
	return &profile, nil
}

func (service *AuthService) log(ctx context.Context, operation string, err error) {
	ctxutil.GetLogger(ctx).ErrorContext(ctx, "backend_operation_failed",
		slog.String("resource", "auth"),
		slog.String("operation", operation),
		slog.Int("status", apiclient.StatusOf(err)),
		slog.String("error", err.Error()),
	)
}
