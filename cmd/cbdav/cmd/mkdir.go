package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type mkdirArgs struct {
	path string
	name string
}

func NewMkdirCmd(c *Context) *cobra.Command {
	args := &mkdirArgs{}
	ctx := context.Background()
	subc := &cobra.Command{
		Use:   "mkdir",
		Short: "Create a collection in the inventory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return onRunMkdir(ctx, c, args)
		},
	}
	subc.PersistentFlags().StringVarP(&args.path, "path", "p", "/", "parent collection path")
	subc.PersistentFlags().StringVarP(&args.name, "name", "n", "", "collection name")
	return subc
}

func onRunMkdir(ctx context.Context, c *Context, args *mkdirArgs) error {
	if len(args.name) == 0 {
		return fmt.Errorf("no collection name found")
	}
	sess, err := c.Connect(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()
	return sess.CreateDirectory(ctx, args.path, args.name)
}

func init() {
	register(NewMkdirCmd)
}
