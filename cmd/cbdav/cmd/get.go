package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type getArgs struct {
	path   string
	name   string
	output string
}

func NewGetCmd(c *Context) *cobra.Command {
	args := &getArgs{}
	ctx := context.Background()
	subc := &cobra.Command{
		Use:   "get",
		Short: "Download a file from the inventory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return onRunGet(ctx, c, args)
		},
	}
	subc.PersistentFlags().StringVarP(&args.path, "path", "p", "/", "remote collection path")
	subc.PersistentFlags().StringVarP(&args.name, "name", "n", "", "remote file name")
	subc.PersistentFlags().StringVarP(&args.output, "output", "o", ".", "local directory to save into")
	return subc
}

func onRunGet(ctx context.Context, c *Context, args *getArgs) error {
	if len(args.name) == 0 {
		return fmt.Errorf("no remote file name found")
	}
	start := time.Now()
	sess, err := c.Connect(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()
	if err := sess.DownloadFile(ctx, args.output, args.path, args.name); err != nil {
		return fmt.Errorf("download file failed, err:%w", err)
	}
	logutil.GetLogger(ctx).Info("download file succ", zap.String("name", args.name), zap.String("output", args.output), zap.Duration("cost", time.Since(start)))
	return nil
}

func init() {
	register(NewGetCmd)
}
