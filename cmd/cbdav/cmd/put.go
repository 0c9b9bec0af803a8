package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type putArgs struct {
	file string
	path string
}

func NewPutCmd(c *Context) *cobra.Command {
	args := &putArgs{}
	ctx := context.Background()
	subc := &cobra.Command{
		Use:   "put",
		Short: "Upload a file or a directory into the inventory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return onRunPut(ctx, c, args)
		},
	}
	subc.PersistentFlags().StringVarP(&args.file, "file", "f", "", "local file or directory to upload")
	subc.PersistentFlags().StringVarP(&args.path, "path", "p", "/", "remote collection path")
	return subc
}

func onRunPut(ctx context.Context, c *Context, args *putArgs) error {
	if len(args.file) == 0 {
		return fmt.Errorf("no upload file found")
	}
	info, err := os.Stat(args.file)
	if err != nil {
		return err
	}
	start := time.Now()
	sess, err := c.Connect(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()
	if info.IsDir() {
		err = c.Client.UploadDir(ctx, sess, args.file, args.path)
	} else {
		err = sess.UploadFile(ctx, args.file, args.path, filepath.Base(args.file))
	}
	if err != nil {
		return fmt.Errorf("upload failed, err:%w", err)
	}
	logutil.GetLogger(ctx).Info("upload succ", zap.String("file", args.file), zap.String("path", args.path), zap.Duration("cost", time.Since(start)))
	return nil
}

func init() {
	register(NewPutCmd)
}
