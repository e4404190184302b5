package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lmsdesk/go-admin-client/client"
)

func newUsersCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage platform users",
	}

	var filters client.UserFilters
	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(c *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			page, err := a.client.Users.List(c.Context(), filters)
			if err != nil {
				return err
			}
			for _, u := range page.Users {
				state := "active"
				if !u.IsActive {
					state = "disabled"
				}
				fmt.Printf("%d\t%s\t%s\t%s\n", u.ID, u.Email, u.Role, state)
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
	list.Flags().StringVar(&filters.IsActive, "active", "", "filter by active state (true/false)")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show user statistics",
		RunE: func(c *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			stats, err := a.client.Users.Stats(c.Context())
			if err != nil {
				return err
			}
			fmt.Printf("total: %d, active: %d, inactive: %d, deleted: %d\n",
				stats.TotalUsers, stats.ActiveUsers, stats.InactiveUsers, stats.DeletedUsers)
			for role, n := range stats.RoleDistribution {
				fmt.Printf("  %s: %d\n", role, n)
			}
			return nil
		},
	})

	toggle := &cobra.Command{
		Use:   "toggle-access <user-id>",
		Short: "Enable or disable a user's access",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.client.Users.ToggleAccess(c.Context(), id)
		},
	}
	cmd.AddCommand(toggle)
	return cmd
}
