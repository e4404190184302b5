package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newSettingsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and edit developer settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all settings",
		RunE: func(c *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			settings, err := a.client.Settings.All(c.Context())
			if err != nil {
				return err
			}
			for _, s := range settings {
				value := s.Value
				if s.IsSensitive {
					value = "********"
				}
				fmt.Printf("%s\t[%s/%s]\t%s\n", s.Key, s.Category, s.ValueType, value)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Show one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			setting, err := a.client.Settings.Get(c.Context(), args[0])
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(setting, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	})

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Update a setting's value",
		Long: "Update a setting's value. The value is sent as a boolean or number " +
			"when it parses as one, otherwise as a string.",
		Args: cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			updated, err := a.client.Settings.Update(c.Context(), args[0], coerceValue(args[1]))
			if err != nil {
				return err
			}
			fmt.Printf("%s = %s\n", updated.Key, updated.Value)
			return nil
		},
	}
	cmd.AddCommand(set)
	return cmd
}

// coerceValue maps a CLI string onto the JSON type the backend expects.
func coerceValue(raw string) any {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	var obj any
	if err := json.Unmarshal([]byte(raw), &obj); err == nil {
		return obj
	}
	return raw
}
