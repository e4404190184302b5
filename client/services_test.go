package client_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lmsdesk/go-admin-client/client"
	"github.com/lmsdesk/go-admin-client/credentials"
)

func seedSession(t *testing.T, store *credentials.Store) {
	t.Helper()
	user := credentials.User{ID: 1, Email: "a@b.com", Role: credentials.RoleDeveloper}
	require.NoError(t, store.SetCredentials(user, "T1", "R1"))
}

func TestSessionListSendsFiltersAndDecodesPagination(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /sessions", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "2", q.Get("page"))
		require.Equal(t, "25", q.Get("limit"))
		require.Equal(t, "teacher", q.Get("role"))
		require.Equal(t, "createdAt", q.Get("sortBy"))
		require.Equal(t, "DESC", q.Get("sortOrder"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]any{
				{
					"id": 11, "sessionId": "s-11", "userId": 3,
					"ipAddress": "10.1.2.3",
					"user":      map[string]any{"id": 3, "email": "t@b.com", "role": "teacher", "isActive": true},
				},
			},
			"pagination": map[string]any{"total": 51, "page": 2, "limit": 25, "totalPages": 3},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, store, _ := newTestClient(t, server)
	seedSession(t, store)

	page, err := c.Sessions.List(t.Context(), client.SessionFilters{
		Page: 2, Limit: 25, Role: "teacher", SortBy: "createdAt", SortOrder: "DESC",
	})
	require.NoError(t, err)
	require.Len(t, page.Sessions, 1)
	require.Equal(t, "s-11", page.Sessions[0].SessionID)
	require.Equal(t, "t@b.com", page.Sessions[0].User.Email)
	require.Equal(t, 51, page.Pagination.Total)
	require.Equal(t, 3, page.Pagination.TotalPages)
}

func TestSessionStats(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /sessions/stats", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"totalActiveSessions": 42,
				"uniqueActiveUsers":   17,
				"sessionsByRole":      map[string]int{"admin": 2, "teacher": 15, "student": 25},
				"expiringSoon":        3,
			},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, store, _ := newTestClient(t, server)
	seedSession(t, store)

	stats, err := c.Sessions.Stats(t.Context())
	require.NoError(t, err)
	require.Equal(t, 42, stats.TotalActiveSessions)
	require.Equal(t, 15, stats.SessionsByRole["teacher"])
}

func TestRevokeSessionHitsNumericPath(t *testing.T) {
	var gotPath string
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, store, _ := newTestClient(t, server)
	seedSession(t, store)

	require.NoError(t, c.Sessions.Revoke(t.Context(), 99))
	require.Equal(t, "/sessions/99", gotPath)
}

func TestPermissionDenialSurfacesAsForbidden(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/stats", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "Insufficient permissions",
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, store, _ := newTestClient(t, server)
	seedSession(t, store)

	_, err := c.Users.Stats(t.Context())
	require.Error(t, err)
	require.True(t, client.IsPermissionDenied(err))
	require.False(t, client.IsUnauthorized(err))
	// A 403 never touches the session.
	require.True(t, store.Session().IsAuthenticated)
}

func TestToggleAccessAndPermissions(t *testing.T) {
	var toggled, updated string
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /users/{id}/toggle-access", func(w http.ResponseWriter, r *http.Request) {
		toggled = r.PathValue("id")
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	})
	mux.HandleFunc("PATCH /users/{id}/permissions", func(w http.ResponseWriter, r *http.Request) {
		updated = r.PathValue("id")
		var body struct {
			Permissions map[string]bool `json:"permissions"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.True(t, body.Permissions["finance.view"])
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, store, _ := newTestClient(t, server)
	seedSession(t, store)

	require.NoError(t, c.Users.ToggleAccess(t.Context(), 5))
	require.Equal(t, "5", toggled)

	require.NoError(t, c.Users.UpdatePermissions(t.Context(), 6, map[string]bool{"finance.view": true}))
	require.Equal(t, "6", updated)
}

func TestProfileImageLifecycle(t *testing.T) {
	var deleted bool
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/profile", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"id": 1, "email": "a@b.com", "role": "developer", "isActive": true,
				"profileImage":    "https://cdn.example.com/avatars/1.png",
				"profileImageKey": "avatars/1.png",
			},
		})
	})
	mux.HandleFunc("PATCH /users/profile/image", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "https://cdn.example.com/avatars/1.png", body["profileImage"])
		require.Equal(t, "avatars/1.png", body["profileImageKey"])
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	})
	mux.HandleFunc("DELETE /users/profile/image", func(w http.ResponseWriter, r *http.Request) {
		deleted = true
		w.WriteHeader(http.StatusNoContent)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, store, _ := newTestClient(t, server)
	seedSession(t, store)

	require.NoError(t, c.Users.UpdateProfileImage(t.Context(),
		"https://cdn.example.com/avatars/1.png", "avatars/1.png"))

	profile, err := c.Users.Profile(t.Context())
	require.NoError(t, err)
	require.Equal(t, "a@b.com", profile.Email)
	require.Equal(t, "avatars/1.png", profile.ProfileImageKey)

	require.NoError(t, c.Users.DeleteProfileImage(t.Context()))
	require.True(t, deleted)
}

func TestSettingsUpdateCoercedValue(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /developer/settings/{key}", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "maintenance.enabled", r.PathValue("key"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, true, body["value"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "Setting updated",
			"data": map[string]any{
				"id": 3, "key": "maintenance.enabled", "value": "true",
				"valueType": "boolean", "category": "system",
				"isSensitive": false, "isEditable": true,
			},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, store, _ := newTestClient(t, server)
	seedSession(t, store)

	setting, err := c.Settings.Update(t.Context(), "maintenance.enabled", true)
	require.NoError(t, err)
	require.Equal(t, "maintenance.enabled", setting.Key)
	require.Equal(t, client.SettingBoolean, setting.ValueType)
}

func TestAuditLogListSendsFilters(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /developer/audit-logs", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "settings", q.Get("resource"))
		require.Equal(t, "update", q.Get("action"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]any{
				{
					"id": 1, "action": "update", "resource": "settings", "resourceId": 3,
					"createdAt": "2026-08-01T10:00:00Z",
					"user":      map[string]any{"id": 1, "email": "a@b.com"},
				},
			},
			"pagination": map[string]any{"total": 1, "page": 1, "limit": 20, "totalPages": 1},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, store, _ := newTestClient(t, server)
	seedSession(t, store)

	page, err := c.AuditLogs.List(t.Context(), client.AuditLogFilters{Resource: "settings", Action: "update"})
	require.NoError(t, err)
	require.Len(t, page.Logs, 1)
	require.Equal(t, "update", page.Logs[0].Action)
	require.Equal(t, "a@b.com", page.Logs[0].User.Email)
}

func TestTwoFactorEnableReturnsBackupCodes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/2fa/generate-secret", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"secret":     "JBSWY3DP",
				"otpauthUrl": "otpauth://totp/lmsdesk:a@b.com?secret=JBSWY3DP",
			},
		})
	})
	mux.HandleFunc("POST /auth/2fa/enable", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "123456", body["token"])
		require.Equal(t, "JBSWY3DP", body["secret"])
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "Two-factor enabled",
			"data":    map[string]any{"backupCodes": []string{"aaa-111", "bbb-222"}},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, store, _ := newTestClient(t, server)
	seedSession(t, store)

	secret, err := c.TwoFactor.GenerateSecret(t.Context())
	require.NoError(t, err)
	require.Equal(t, "JBSWY3DP", secret.Secret)

	codes, err := c.TwoFactor.Enable(t.Context(), "123456", secret.Secret)
	require.NoError(t, err)
	require.Equal(t, []string{"aaa-111", "bbb-222"}, codes)
}
