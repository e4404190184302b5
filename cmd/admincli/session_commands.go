package main

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lmsdesk/go-admin-client/client"
)

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func newSessionsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect and revoke active platform sessions",
	}

	var filters client.SessionFilters
	list := &cobra.Command{
		Use:   "list",
		Short: "List active sessions",
		RunE: func(c *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			page, err := a.client.Sessions.List(c.Context(), filters)
			if err != nil {
				return err
			}
			for _, s := range page.Sessions {
				fmt.Printf("%d\t%s\t%s\t%s\texpires %s\n",
					s.ID, s.User.Email, s.User.Role, s.IPAddress, s.ExpiresAt)
			}
			fmt.Printf("page %d/%d (%d total)\n",
				page.Pagination.Page, page.Pagination.TotalPages, page.Pagination.Total)
			return nil
		},
	}
	list.Flags().IntVar(&filters.Page, "page", 0, "page number")
	list.Flags().IntVar(&filters.Limit, "limit", 0, "page size")
	list.Flags().StringVar(&filters.Search, "search", "", "search term")
	list.Flags().StringVar(&filters.Role, "role", "", "filter by role")
	list.Flags().StringVar(&filters.DeviceType, "device-type", "", "filter by device type")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show session statistics",
		RunE: func(c *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			stats, err := a.client.Sessions.Stats(c.Context())
			if err != nil {
				return err
			}
			fmt.Printf("active sessions: %d\n", stats.TotalActiveSessions)
			fmt.Printf("unique users:    %d\n", stats.UniqueActiveUsers)
			fmt.Printf("expiring soon:   %d\n", stats.ExpiringSoon)
			for role, n := range stats.SessionsByRole {
				fmt.Printf("  %s: %d\n", role, n)
			}
			return nil
		},
	})

	revoke := &cobra.Command{
		Use:   "revoke <session-id>",
		Short: "Terminate a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.client.Sessions.Revoke(c.Context(), id)
		},
	}
	cmd.AddCommand(revoke)

	revokeUser := &cobra.Command{
		Use:   "revoke-user <user-id>",
		Short: "Terminate every session belonging to a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.client.Sessions.RevokeUserSessions(c.Context(), id)
		},
	}
	cmd.AddCommand(revokeUser)
	return cmd
}
