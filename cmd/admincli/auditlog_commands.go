package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lmsdesk/go-admin-client/client"
)

func newAuditLogsCommand(a *app) *cobra.Command {
	var filters client.AuditLogFilters

	cmd := &cobra.Command{
		Use:   "audit-logs",
		Short: "Browse the administrative audit log",
		RunE: func(c *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			page, err := a.client.AuditLogs.List(c.Context(), filters)
			if err != nil {
				return err
			}
			for _, entry := range page.Logs {
				actor := "-"
				if entry.User != nil {
					actor = entry.User.Email
				}
				fmt.Printf("%s\t%s\t%s\t%s/%d\n",
					entry.CreatedAt, actor, entry.Action, entry.Resource, entry.ResourceID)
			}
			fmt.Printf("page %d/%d (%d total)\n",
				page.Pagination.Page, page.Pagination.TotalPages, page.Pagination.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&filters.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&filters.Limit, "limit", 0, "page size")
	cmd.Flags().StringVar(&filters.Search, "search", "", "search term")
	cmd.Flags().StringVar(&filters.Resource, "resource", "", "filter by resource")
	cmd.Flags().StringVar(&filters.Action, "action", "", "filter by action")
	return cmd
}
