package cmd

import (
	"context"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func NewLookupCmd(c *Context) *cobra.Command {
	ctx := context.Background()
	subc := &cobra.Command{
		Use:   "lookup",
		Short: "Resolve the configured user to its identity and inventory url",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return onRunLookup(ctx, c)
		},
	}
	return subc
}

func onRunLookup(ctx context.Context, c *Context) error {
	rs, err := c.Client.Lookup(ctx, c.Config.Host, c.Config.Request())
	if err != nil {
		return err
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Identity", "WebDav Inventory"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.Append([]string{rs.IdentityURL, rs.WebDavURL})
	table.Render()
	return nil
}

func init() {
	register(NewLookupCmd)
}
