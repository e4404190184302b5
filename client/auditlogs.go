package client

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

// AuditLogService covers the developer audit-log endpoint.
type AuditLogService struct {
	client *Client
}

// AuditLog is one recorded administrative action.
type AuditLog struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"userId,omitempty"`
	Action     string          `json:"action"`
	Resource   string          `json:"resource"`
	ResourceID int64           `json:"resourceId,omitempty"`
	Changes    json.RawMessage `json:"changes,omitempty"`
	IPAddress  string          `json:"ipAddress,omitempty"`
	UserAgent  string          `json:"userAgent,omitempty"`
	CreatedAt  string          `json:"createdAt"`
	User       *struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	} `json:"user,omitempty"`
}

// AuditLogFilters narrows and pages the audit log. Zero values are
// omitted from the query.
type AuditLogFilters struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
	Search    string
	Resource  string
	Action    string
}

func (f AuditLogFilters) query() string {
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
	if f.Resource != "" {
		values.Set("resource", f.Resource)
	}
	if f.Action != "" {
		values.Set("action", f.Action)
	}
	return listQuery(values)
}

// AuditLogPage is one page of the audit log.
type AuditLogPage struct {
	Logs       []AuditLog `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// List returns audit entries matching the filters.
func (s *AuditLogService) List(ctx context.Context, filters AuditLogFilters) (*AuditLogPage, error) {
	var page AuditLogPage
	if err := s.client.getPage(ctx, "/developer/audit-logs"+filters.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}
