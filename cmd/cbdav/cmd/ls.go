package cmd

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/xxxsen/cbdav/webdav"
)

type lsArgs struct {
	path string
}

func NewLsCmd(c *Context) *cobra.Command {
	args := &lsArgs{}
	ctx := context.Background()
	subc := &cobra.Command{
		Use:   "ls",
		Short: "List a collection of the inventory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return onRunLs(ctx, c, args)
		},
	}
	subc.PersistentFlags().StringVarP(&args.path, "path", "p", "/", "remote collection path")
	return subc
}

func renderResources(w io.Writer, rs []*webdav.Resource) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Type", "Size", "Modified"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, r := range rs {
		typ := "file"
		size := humanize.IBytes(uint64(r.Size))
		if r.IsCollection {
			typ = "dir"
			size = "-"
		}
		table.Append([]string{r.Name, typ, size, r.ModTime.Format(time.DateTime)})
	}
	table.Render()
}

func onRunLs(ctx context.Context, c *Context, args *lsArgs) error {
	sess, err := c.Connect(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()
	rs, err := sess.ListResources(ctx, args.path)
	if err != nil {
		return err
	}
	renderResources(os.Stdout, rs)
	return nil
}

func init() {
	register(NewLsCmd)
}
