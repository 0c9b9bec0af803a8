package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xxxsen/cbdav/prompt"
	"github.com/xxxsen/cbdav/webdav"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type rmArgs struct {
	path  string
	name  string
	force bool
}

type removeFunc func(ctx context.Context, sess *webdav.Session, remotePath string, name string) error

func newRemoveCmd(c *Context, use string, short string, fn removeFunc) *cobra.Command {
	args := &rmArgs{}
	ctx := context.Background()
	subc := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return onRunRemove(ctx, c, args, fn)
		},
	}
	subc.PersistentFlags().StringVarP(&args.path, "path", "p", "/", "parent collection path")
	subc.PersistentFlags().StringVarP(&args.name, "name", "n", "", "name to remove")
	subc.PersistentFlags().BoolVar(&args.force, "force", false, "skip confirmation")
	return subc
}

func onRunRemove(ctx context.Context, c *Context, args *rmArgs, fn removeFunc) error {
	if len(args.name) == 0 {
		return fmt.Errorf("no name found")
	}
	ok, err := prompt.ConfirmWithForce(fmt.Sprintf("Remove %s from %s", args.name, args.path), args.force)
	if err != nil {
		return err
	}
	if !ok {
		logutil.GetLogger(ctx).Info("remove cancelled", zap.String("name", args.name))
		return nil
	}
	sess, err := c.Connect(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()
	return fn(ctx, sess, args.path, args.name)
}

func NewRmCmd(c *Context) *cobra.Command {
	return newRemoveCmd(c, "rm", "Remove a file from the inventory", func(ctx context.Context, sess *webdav.Session, remotePath string, name string) error {
		return sess.DeleteResource(ctx, remotePath, name)
	})
}

func NewRmdirCmd(c *Context) *cobra.Command {
	return newRemoveCmd(c, "rmdir", "Remove a collection and its members from the inventory", func(ctx context.Context, sess *webdav.Session, remotePath string, name string) error {
		return sess.DeleteDirectory(ctx, remotePath, name)
	})
}

func init() {
	register(NewRmCmd)
	register(NewRmdirCmd)
}
