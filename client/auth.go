package client

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/lmsdesk/go-admin-client/credentials"
)

// AuthService covers the authentication endpoints: login (with optional
// two-factor step), logout, device management.
type AuthService struct {
	client *Client
}

// LoginRequest carries login credentials. TwoFactorToken or BackupCode is
// set on the second attempt when the first response asked for a
// two-factor code.
type LoginRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	TwoFactorToken string `json:"twoFactorToken,omitempty"`
	BackupCode     string `json:"backupCode,omitempty"`
}

// LoginResult is the outcome of a login attempt. When RequiresTwoFactor is
// true no session was established; retry with a TwoFactorToken or
// BackupCode.
type LoginResult struct {
	RequiresTwoFactor bool
	User              *credentials.User
}

// Device is a remembered login device bound to a refresh token.
type Device struct {
	ID         int64  `json:"id"`
	DeviceInfo string `json:"deviceInfo"`
	IPAddress  string `json:"ipAddress"`
	CreatedAt  string `json:"createdAt"`
}

// Login authenticates against the backend. On success the credential
// store is seeded with the returned token pair and user, which also
// persists them durably.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	var resp struct {
		Success           bool `json:"success"`
		RequiresTwoFactor bool `json:"requiresTwoFactor"`
		Data              struct {
			AccessToken  string           `json:"accessToken"`
			RefreshToken string           `json:"refreshToken"`
			User         credentials.User `json:"user"`
		} `json:"data"`
	}
	if err := s.client.postBare(ctx, "/auth/login", req, &resp); err != nil {
		return nil, err
	}

	if resp.RequiresTwoFactor {
		return &LoginResult{RequiresTwoFactor: true}, nil
	}
	if resp.Data.AccessToken == "" || resp.Data.RefreshToken == "" {
		return nil, errors.New("[AuthService.Login] response missing token pair")
	}

	if err := s.client.store.SetCredentials(resp.Data.User, resp.Data.AccessToken, resp.Data.RefreshToken); err != nil {
		return nil, errors.Wrap(err, "[AuthService.Login]")
	}
	user := resp.Data.User
	return &LoginResult{User: &user}, nil
}

// Logout revokes the current refresh token server-side and clears the
// local session. The revocation call is best effort: a network failure is
// logged and the local logout still happens.
func (s *AuthService) Logout(ctx context.Context) error {
	refreshToken := s.client.store.RefreshToken()
	if refreshToken != "" {
		payload := map[string]string{"refreshToken": refreshToken}
		if err := s.client.postBare(ctx, "/auth/logout", payload, nil); err != nil {
			s.client.log.Warn().Err(err).Msg("server-side logout failed, clearing local session anyway")
		}
	}
	return errors.Wrap(s.client.store.Logout(), "[AuthService.Logout]")
}

// LogoutAll revokes every session for the current user, then clears the
// local one.
func (s *AuthService) LogoutAll(ctx context.Context) error {
	if err := s.client.post(ctx, "/auth/logout-all", nil, nil); err != nil {
		return err
	}
	return errors.Wrap(s.client.store.Logout(), "[AuthService.LogoutAll]")
}

// Devices lists the login devices holding an active refresh token.
func (s *AuthService) Devices(ctx context.Context) ([]Device, error) {
	var devices []Device
	if err := s.client.get(ctx, "/auth/devices", &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// RevokeDevice invalidates the refresh token issued to a device.
func (s *AuthService) RevokeDevice(ctx context.Context, deviceID int64) error {
	return s.client.delete(ctx, fmt.Sprintf("/auth/devices/%d", deviceID))
}
