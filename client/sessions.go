package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// SessionService covers the admin session-management endpoints.
type SessionService struct {
	client *Client
}

// SessionRecord is one active server-side session.
type SessionRecord struct {
	ID         int64  `json:"id"`
	SessionID  string `json:"sessionId"`
	UserID     int64  `json:"userId"`
	DeviceInfo string `json:"deviceInfo"`
	IPAddress  string `json:"ipAddress"`
	UserAgent  string `json:"userAgent"`
	ExpiresAt  string `json:"expiresAt"`
	CreatedAt  string `json:"createdAt"`
	User       struct {
		ID       int64  `json:"id"`
		Email    string `json:"email"`
		Role     string `json:"role"`
		IsActive bool   `json:"isActive"`
	} `json:"user"`
}

// SessionStats summarizes active sessions across the platform.
type SessionStats struct {
	TotalActiveSessions int            `json:"totalActiveSessions"`
	UniqueActiveUsers   int            `json:"uniqueActiveUsers"`
	SessionsByRole      map[string]int `json:"sessionsByRole"`
	ExpiringSoon        int            `json:"expiringSoon"`
}

// SessionFilters narrows and pages the session list. Zero values are
// omitted from the query.
type SessionFilters struct {
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string // "ASC" or "DESC"
	Search     string
	Role       string
	DeviceType string
}

func (f SessionFilters) query() string {
	values := url.Values{}
	if f.Page > 0 {
		values.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		values.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.SortBy != "" {
		values.Set("sortBy", f.SortBy)
	}
	if f.SortOrder != "" {
		values.Set("sortOrder", f.SortOrder)
	}
	if f.Search != "" {
		values.Set("search", f.Search)
	}
	if f.Role != "" {
		values.Set("role", f.Role)
	}
	if f.DeviceType != "" {
		values.Set("deviceType", f.DeviceType)
	}
	return listQuery(values)
}

// SessionPage is one page of the session list.
type SessionPage struct {
	Sessions   []SessionRecord `json:"data"`
	Pagination Pagination      `json:"pagination"`
}

// List returns active sessions matching the filters.
func (s *SessionService) List(ctx context.Context, filters SessionFilters) (*SessionPage, error) {
	var page SessionPage
	if err := s.client.getPage(ctx, "/sessions"+filters.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Stats returns platform-wide session statistics.
func (s *SessionService) Stats(ctx context.Context) (*SessionStats, error) {
	var stats SessionStats
	if err := s.client.get(ctx, "/sessions/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Revoke terminates a single session by its numeric ID.
func (s *SessionService) Revoke(ctx context.Context, sessionID int64) error {
	return s.client.delete(ctx, fmt.Sprintf("/sessions/%d", sessionID))
}

// RevokeUserSessions terminates every session belonging to a user.
func (s *SessionService) RevokeUserSessions(ctx context.Context, userID int64) error {
	return s.client.delete(ctx, fmt.Sprintf("/sessions/user/%d", userID))
}
