package client

import (
	"context"
	"encoding/json"
)

// SettingsService covers the developer settings endpoints. Settings are
// typed key-value pairs grouped by category; sensitive values come back
// masked and non-editable keys reject updates server-side.
type SettingsService struct {
	client *Client
}

// SettingValueType is the declared type of a setting's value.
type SettingValueType string

const (
	SettingString  SettingValueType = "string"
	SettingNumber  SettingValueType = "number"
	SettingBoolean SettingValueType = "boolean"
	SettingJSON    SettingValueType = "json"
)

// SettingCategory groups settings in the admin UI.
type SettingCategory string

const (
	CategoryFeatures     SettingCategory = "features"
	CategoryIntegrations SettingCategory = "integrations"
	CategorySystem       SettingCategory = "system"
	CategoryBranding     SettingCategory = "branding"
)

// Setting is one runtime configuration entry.
type Setting struct {
	ID          int64            `json:"id"`
	Key         string           `json:"key"`
	Value       string           `json:"value"`
	ParsedValue json.RawMessage  `json:"parsedValue,omitempty"`
	ValueType   SettingValueType `json:"valueType"`
	Category    SettingCategory  `json:"category"`
	Description string           `json:"description,omitempty"`
	IsSensitive bool             `json:"isSensitive"`
	IsEditable  bool             `json:"isEditable"`
	UpdatedBy   int64            `json:"updatedBy,omitempty"`
	UpdatedAt   string           `json:"updatedAt"`
}

// All returns every setting visible to the current user.
func (s *SettingsService) All(ctx context.Context) ([]Setting, error) {
	var settings []Setting
	if err := s.client.get(ctx, "/developer/settings", &settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// Get returns a single setting by key.
func (s *SettingsService) Get(ctx context.Context, key string) (*Setting, error) {
	var setting Setting
	if err := s.client.get(ctx, "/developer/settings/"+key, &setting); err != nil {
		return nil, err
	}
	return &setting, nil
}

// Update replaces a setting's value. value may be a string, number,
// boolean, or JSON-marshalable object matching the setting's declared
// type; the backend validates and persists it.
func (s *SettingsService) Update(ctx context.Context, key string, value any) (*Setting, error) {
	payload := map[string]any{"value": value}
	var setting Setting
	if err := s.client.patch(ctx, "/developer/settings/"+key, payload, &setting); err != nil {
		return nil, err
	}
	return &setting, nil
}
