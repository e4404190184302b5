package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/lmsdesk/go-admin-client/credentials"
)

// UserService covers the admin user-management endpoints.
type UserService struct {
	client *Client
}

// UserRecord is a platform user as seen by administrators.
type UserRecord struct {
	ID               int64            `json:"id"`
	Email            string           `json:"email"`
	Role             credentials.Role `json:"role"`
	Permissions      map[string]bool  `json:"permissions,omitempty"`
	IsActive         bool             `json:"isActive"`
	TwoFactorEnabled bool             `json:"twoFactorEnabled,omitempty"`
	ProfileImage     string           `json:"profileImage,omitempty"`
	ProfileImageKey  string           `json:"profileImageKey,omitempty"`
	CreatedAt        string           `json:"createdAt"`
	UpdatedAt        string           `json:"updatedAt"`
	DeletedAt        string           `json:"deletedAt,omitempty"`
}

// UserStats summarizes the user base.
type UserStats struct {
	TotalUsers       int            `json:"totalUsers"`
	ActiveUsers      int            `json:"activeUsers"`
	InactiveUsers    int            `json:"inactiveUsers"`
	DeletedUsers     int            `json:"deletedUsers"`
	RoleDistribution map[string]int `json:"roleDistribution"`
}

// UserFilters narrows and pages the user list. Zero values are omitted.
type UserFilters struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
	Search    string
	Role      string
	IsActive  string // "true"/"false"; empty means both
}

func (f UserFilters) query() string {
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
	if f.IsActive != "" {
		values.Set("isActive", f.IsActive)
	}
	return listQuery(values)
}

// UserPage is one page of the user list.
type UserPage struct {
	Users      []UserRecord `json:"data"`
	Pagination Pagination   `json:"pagination"`
}

// List returns users matching the filters.
func (s *UserService) List(ctx context.Context, filters UserFilters) (*UserPage, error) {
	var page UserPage
	if err := s.client.getPage(ctx, "/users"+filters.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Stats returns platform-wide user statistics.
func (s *UserService) Stats(ctx context.Context) (*UserStats, error) {
	var stats UserStats
	if err := s.client.get(ctx, "/users/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ToggleAccess flips a user's active flag. The backend decides the new
// state from the current one.
func (s *UserService) ToggleAccess(ctx context.Context, userID int64) error {
	payload := map[string]bool{"isActive": true}
	return s.client.patch(ctx, fmt.Sprintf("/users/%d/toggle-access", userID), payload, nil)
}

// UpdatePermissions replaces a user's permission map.
func (s *UserService) UpdatePermissions(ctx context.Context, userID int64, permissions map[string]bool) error {
	payload := map[string]any{"permissions": permissions}
	return s.client.patch(ctx, fmt.Sprintf("/users/%d/permissions", userID), payload, nil)
}

// Profile returns the signed-in user's own record.
func (s *UserService) Profile(ctx context.Context) (*UserRecord, error) {
	var record UserRecord
	if err := s.client.get(ctx, "/users/profile", &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateProfileImage points the signed-in user's avatar at an already
// uploaded object. The URL is what browsers render, the key is what the
// backend deletes later.
func (s *UserService) UpdateProfileImage(ctx context.Context, imageURL, imageKey string) error {
	payload := map[string]string{
		"profileImage":    imageURL,
		"profileImageKey": imageKey,
	}
	return s.client.patch(ctx, "/users/profile/image", payload, nil)
}

// DeleteProfileImage removes the signed-in user's avatar.
func (s *UserService) DeleteProfileImage(ctx context.Context) error {
	return s.client.delete(ctx, "/users/profile/image")
}
