package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/xxxsen/cbdav/auth"
	"github.com/xxxsen/cbdav/cacheapi"
	"github.com/xxxsen/cbdav/identity"
	"github.com/xxxsen/cbdav/server/handler/inventory"
	"github.com/xxxsen/cbdav/server/handler/lookup"
	"github.com/xxxsen/cbdav/server/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	inventoryPrefix  = "/inventory"
	nonceTTL         = 10 * time.Minute
	nonceCleanup     = time.Minute
	shutdownDuration = 5 * time.Second
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// Server is a local stand in for a CableBeach deployment: it answers identity
// lookups and serves one WebDAV inventory per user.
type Server struct {
	c      *config
	bind   string
	engine *gin.Engine
	nonces cacheapi.ICache[string, struct{}]
}

func New(bind string, opts ...Option) (*Server, error) {
	c := applyOpts(opts...)
	if len(c.webdavRoot) == 0 {
		return nil, fmt.Errorf("no webdav root")
	}
	ia, ok := auth.Get(c.authScheme)
	if !ok {
		return nil, fmt.Errorf("unsupported auth scheme:%s", c.authScheme)
	}
	svr := &Server{
		c:      c,
		bind:   bind,
		engine: gin.New(),
		nonces: cacheapi.NewGoCache[struct{}](nonceTTL, nonceCleanup),
	}
	svr.engine.Use(gin.Recovery())
	if err := svr.initAPI(&svr.engine.RouterGroup, ia); err != nil {
		return nil, err
	}
	return svr, nil
}

func (s *Server) newNonce(ctx context.Context) string {
	nonce := strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := s.nonces.Set(ctx, nonce, struct{}{}); err != nil {
		logutil.GetLogger(ctx).Error("store digest nonce failed", zap.Error(err))
	}
	return nonce
}

func (s *Server) checkNonce(ctx context.Context, nonce string) bool {
	return cacheapi.Exist(ctx, s.nonces, nonce)
}

func (s *Server) initAPI(router *gin.RouterGroup, ia auth.IAuth) error {
	userMap := make(map[string]string, len(s.c.users))
	for _, u := range s.c.users {
		userMap[u.Identity] = u.Password
	}
	opt := &auth.VerifyOption{
		Realm:      s.c.realm,
		UserQuery:  auth.MapUserMatch(userMap),
		NewNonce:   s.newNonce,
		CheckNonce: s.checkNonce,
	}

	lookupHandler := lookup.NewLookupHandler(s.c.users, s.c.publicURL, inventoryPrefix)
	router.GET(identity.LookupPath, lookupHandler.Lookup)

	inventoryHandler, err := inventory.NewInventoryHandler(s.c.users, s.c.webdavRoot, inventoryPrefix)
	if err != nil {
		return err
	}
	inventoryRouter := router.Group(inventoryPrefix, middleware.ChallengeMiddleware(ia, opt))
	{
		for _, method := range inventory.AllowMethods {
			inventoryRouter.Handle(method, "/:user/*all", inventoryHandler.Handler)
		}
	}
	return nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is done, then shuts the listener down gracefully.
func (s *Server) Run(ctx context.Context) error {
	hs := &http.Server{
		Addr:    s.bind,
		Handler: s.engine,
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logutil.GetLogger(ctx).Info("server start", zap.String("bind", s.bind))
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownDuration)
		defer cancel()
		logutil.GetLogger(ctx).Info("server shutdown", zap.String("bind", s.bind))
		return hs.Shutdown(sctx)
	})
	return eg.Wait()
}
