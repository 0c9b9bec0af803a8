package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/xxxsen/cbdav/auth"
	"github.com/xxxsen/cbdav/config"
	"github.com/xxxsen/cbdav/server"
	"github.com/xxxsen/cbdav/server/model"

	"github.com/xxxsen/common/logger"
	"go.uber.org/zap"
)

var file = flag.String("config", "./config.json", "config file path")

func main() {
	flag.Parse()

	c, err := config.Parse(*file)
	if err != nil {
		panic(err)
	}
	logitem := c.LogInfo
	logger := logger.Init(logitem.File, logitem.Level, int(logitem.FileCount), int(logitem.FileSize), int(logitem.KeepDays), logitem.Console)
	logger.Info("recv config", zap.String("bind", c.Bind), zap.String("webdav_root", c.WebdavRoot),
		zap.String("auth_scheme", c.AuthScheme), zap.String("public_url", c.PublicURL), zap.Int("user_count", len(c.Users)))
	names := make([]string, 0, len(auth.AuthList()))
	for _, ia := range auth.AuthList() {
		names = append(names, ia.Name())
	}
	logger.Info("current available auth scheme", zap.Strings("list", names))
	users := make([]*model.User, 0, len(c.Users))
	for _, u := range c.Users {
		users = append(users, &model.User{
			Name:      u.Name,
			Identity:  u.Identity,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Password:  u.Password,
		})
	}
	svr, err := server.New(c.Bind,
		server.WithUsers(users),
		server.WithWebdavRoot(c.WebdavRoot),
		server.WithAuthScheme(c.AuthScheme),
		server.WithPublicURL(c.PublicURL),
		server.WithRealm(c.Realm),
	)
	if err != nil {
		logger.Fatal("init server fail", zap.Error(err))
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	logger.Info("init server succ, start it...")
	if err := svr.Run(ctx); err != nil {
		logger.Fatal("run server fail", zap.Error(err))
	}
}
