package webdav

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xxxsen/cbdav/auth"
	"github.com/xxxsen/cbdav/utils"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const (
	promptFormat = "WebDav Inventory is asking for %s authentication\n\nPlease give your password:"
)

// Session is an authenticated handle on one user's WebDAV inventory. It is not
// safe for concurrent use, callers must serialize operations.
type Session struct {
	c         *config
	baseURL   string
	creds     *auth.Credentials
	az        *authorizer
	transport *loggingTransport
	coll      ICollection
	collPath  string
	state     State
	attempts  int
}

func New(identityURL string, webdavURL string, opts ...Option) (*Session, error) {
	c := &config{
		MaxAttempts: defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.Transport == nil {
		c.Transport = newDefaultTransport()
	}
	if c.Factory == nil {
		c.Factory = defaultCollectionFactory
	}
	if c.MaxAttempts < 0 {
		c.MaxAttempts = 0
	}
	s := &Session{
		c:         c,
		transport: &loggingTransport{rt: c.Transport},
	}
	if err := s.SetHostAndUser(identityURL, webdavURL); err != nil {
		return nil, err
	}
	return s, nil
}

// SetHostAndUser points the session at another inventory, the session has to
// be set up again afterwards.
func (s *Session) SetHostAndUser(identityURL string, webdavURL string) error {
	if len(identityURL) == 0 {
		return fmt.Errorf("%w: empty identity url", ErrOperation)
	}
	if err := checkCollectionURL(webdavURL); err != nil {
		return fmt.Errorf("%w: invalid webdav url:%q, err:%w", ErrOperation, webdavURL, err)
	}
	s.baseURL = webdavURL
	s.creds = auth.NewCredentials(identityURL)
	s.az = newAuthorizer(s.creds)
	s.coll = nil
	s.collPath = ""
	s.state = StateUnauthenticated
	s.attempts = 0
	return nil
}

func (s *Session) BaseURL() string {
	return s.baseURL
}

func (s *Session) User() string {
	return s.creds.Username
}

func (s *Session) State() State {
	return s.state
}

// Attempts returns how many credentialed retries the last SetupConnection
// spent.
func (s *Session) Attempts() int {
	return s.attempts
}

// CurrentPath is the path, relative to the base url, the collection handle
// addresses now.
func (s *Session) CurrentPath() string {
	return s.collPath
}

// SetupConnection probes the inventory root and answers Basic or Digest
// challenges until the probe passes or the attempt budget runs out.
func (s *Session) SetupConnection(ctx context.Context) error {
	logger := logutil.GetLogger(ctx).With(zap.String("webdav_url", s.baseURL), zap.String("user", s.creds.Username))
	s.creds.Reset()
	s.attempts = 0
	s.state = StateUnauthenticated
	if err := s.setCollectionToPath(ctx, ""); err != nil {
		s.state = StateFailed
		return err
	}
	s.state = StateProbing
	for {
		if err := ctx.Err(); err != nil {
			s.state = StateFailed
			return fmt.Errorf("%w: setup canceled:%w", ErrOperation, err)
		}
		_, err := s.coll.ReadDir("/")
		if err == nil {
			s.state = StateAuthenticated
			logger.Debug("webdav session authenticated", zap.Int("attempts", s.attempts), zap.String("scheme", s.creds.Scheme.String()))
			return nil
		}
		var chErr *auth.ChallengeError
		if !errors.As(err, &chErr) {
			s.state = StateFailed
			logger.Error("probe webdav collection failed", zap.Error(err))
			return fmt.Errorf("%w: probe collection failed:%w", ErrOperation, err)
		}
		ch, ok := chErr.Select()
		if !ok {
			s.state = StateFailed
			logger.Error("unsupported auth challenge", zap.Error(err))
			return fmt.Errorf("%w: unsupported challenge:%w", ErrAuthorization, err)
		}
		if s.attempts >= s.c.MaxAttempts {
			s.state = StateFailed
			logger.Error("auth attempts exhausted", zap.Int("attempts", s.attempts), zap.String("scheme", ch.Scheme().String()))
			return fmt.Errorf("%w: auth attempts exhausted, attempts:%d, last:%w", ErrAuthorization, s.attempts, err)
		}
		if err := s.armCredentials(ctx, ch); err != nil {
			s.state = StateFailed
			logger.Error("arm credentials failed", zap.Error(err), zap.String("scheme", ch.Scheme().String()))
			return err
		}
		s.attempts++
		logger.Debug("credentials armed, retry probe", zap.Int("attempts", s.attempts), zap.String("scheme", ch.Scheme().String()))
	}
}

func (s *Session) armCredentials(ctx context.Context, ch *auth.Challenge) error {
	if s.c.Provider == nil {
		return fmt.Errorf("%w: no credential provider for %s challenge", ErrAuthorization, ch.Scheme())
	}
	pwd, err := s.c.Provider.GetPassword(ctx, fmt.Sprintf(promptFormat, ch.Scheme()))
	if err != nil {
		return fmt.Errorf("%w: get password:%w", ErrAuthorization, err)
	}
	if err := s.creds.Arm(pwd, ch); err != nil {
		return fmt.Errorf("%w: %w", ErrAuthorization, err)
	}
	return nil
}

// setCollectionToPath re-points the handle at baseURL+p. The new handle shares
// the transport and the credentials of the old one.
func (s *Session) setCollectionToPath(ctx context.Context, p string) error {
	link := joinCollectionURL(s.baseURL, p)
	coll, err := s.c.Factory(link, s.transport, s.az)
	if err != nil {
		logutil.GetLogger(ctx).Error("re-point collection failed", zap.Error(err), zap.String("link", link))
		return fmt.Errorf("%w: re-point collection, link:%s, err:%w", ErrOperation, link, err)
	}
	s.coll = coll
	s.collPath = p
	return nil
}

func (s *Session) ensureReady(ctx context.Context) error {
	if s.state != StateAuthenticated {
		return fmt.Errorf("%w: current state:%s", ErrNotAuthenticated, s.state)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrOperation, err)
	}
	return nil
}

// ListResources lists the collection at p, or the current collection when p
// is empty.
func (s *Session) ListResources(ctx context.Context, p string) ([]*Resource, error) {
	if err := s.ensureReady(ctx); err != nil {
		return nil, err
	}
	if len(p) != 0 {
		if err := s.setCollectionToPath(ctx, p); err != nil {
			return nil, err
		}
	}
	fis, err := s.coll.ReadDir("/")
	if err != nil {
		logutil.GetLogger(ctx).Error("list resources failed", zap.Error(err), zap.String("path", s.collPath))
		return nil, fmt.Errorf("%w: list resources, path:%s, err:%w", ErrOperation, s.collPath, err)
	}
	rs := make([]*Resource, 0, len(fis))
	for _, fi := range fis {
		rs = append(rs, convertFileInfo(fi))
	}
	return rs, nil
}

func (s *Session) DownloadFile(ctx context.Context, localDir string, remotePath string, remoteName string) error {
	if err := s.ensureReady(ctx); err != nil {
		return err
	}
	if err := utils.CheckEntryName(remoteName); err != nil {
		return fmt.Errorf("%w: %w", ErrOperation, err)
	}
	if err := s.setCollectionToPath(ctx, remotePath); err != nil {
		return err
	}
	rc, err := s.coll.ReadStream(remoteName)
	if err != nil {
		logutil.GetLogger(ctx).Error("open remote stream failed", zap.Error(err), zap.String("path", remotePath), zap.String("name", remoteName))
		return fmt.Errorf("%w: download %s/%s, err:%w", ErrOperation, remotePath, remoteName, err)
	}
	defer rc.Close()
	dst := filepath.Join(localDir, remoteName)
	sz, err := utils.SafeSaveIOToFile(dst, rc)
	if err != nil {
		logutil.GetLogger(ctx).Error("save remote stream failed", zap.Error(err), zap.String("dst", dst))
		return fmt.Errorf("%w: save %s, err:%w", ErrOperation, dst, err)
	}
	logutil.GetLogger(ctx).Debug("download file finish", zap.String("dst", dst), zap.Int64("size", sz))
	return nil
}

// UploadFile opens the local file before touching the remote side, so a
// missing file costs no request.
func (s *Session) UploadFile(ctx context.Context, localPath string, remotePath string, remoteName string) error {
	if err := s.ensureReady(ctx); err != nil {
		return err
	}
	if err := utils.CheckEntryName(remoteName); err != nil {
		return fmt.Errorf("%w: %w", ErrOperation, err)
	}
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("%w: open local file:%w", ErrOperation, err)
	}
	defer f.Close()
	if err := s.setCollectionToPath(ctx, remotePath); err != nil {
		return err
	}
	if err := s.coll.WriteStream(remoteName, f, 0644); err != nil {
		logutil.GetLogger(ctx).Error("upload file failed", zap.Error(err), zap.String("src", localPath), zap.String("path", remotePath), zap.String("name", remoteName))
		return fmt.Errorf("%w: upload %s/%s, err:%w", ErrOperation, remotePath, remoteName, err)
	}
	return nil
}

func (s *Session) CreateDirectory(ctx context.Context, remotePath string, name string) error {
	if err := s.ensureReady(ctx); err != nil {
		return err
	}
	if err := utils.CheckEntryName(name); err != nil {
		return fmt.Errorf("%w: %w", ErrOperation, err)
	}
	if err := s.setCollectionToPath(ctx, remotePath); err != nil {
		return err
	}
	if err := s.coll.Mkdir(name, 0755); err != nil {
		logutil.GetLogger(ctx).Error("create directory failed", zap.Error(err), zap.String("path", remotePath), zap.String("name", name))
		return fmt.Errorf("%w: mkcol %s/%s, err:%w", ErrOperation, remotePath, name, err)
	}
	return nil
}

func (s *Session) DeleteResource(ctx context.Context, remotePath string, name string) error {
	return s.remove(ctx, remotePath, name)
}

// DeleteDirectory shares the generic delete, WebDAV DELETE on a collection
// removes it with its members.
func (s *Session) DeleteDirectory(ctx context.Context, remotePath string, name string) error {
	return s.remove(ctx, remotePath, name)
}

func (s *Session) remove(ctx context.Context, remotePath string, name string) error {
	if err := s.ensureReady(ctx); err != nil {
		return err
	}
	if err := utils.CheckEntryName(name); err != nil {
		return fmt.Errorf("%w: %w", ErrOperation, err)
	}
	if err := s.setCollectionToPath(ctx, remotePath); err != nil {
		return err
	}
	// Remove treats 404 as success and hides request errors, so the entry
	// is checked first.
	if _, err := s.coll.Stat(name); err != nil {
		logutil.GetLogger(ctx).Error("stat resource before delete failed", zap.Error(err), zap.String("path", remotePath), zap.String("name", name))
		return fmt.Errorf("%w: stat %s/%s, err:%w", ErrOperation, remotePath, name, err)
	}
	if err := s.coll.Remove(name); err != nil {
		logutil.GetLogger(ctx).Error("delete resource failed", zap.Error(err), zap.String("path", remotePath), zap.String("name", name))
		return fmt.Errorf("%w: delete %s/%s, err:%w", ErrOperation, remotePath, name, err)
	}
	return nil
}

// Close drops idle connections and the armed credentials. The session can be
// set up again afterwards.
func (s *Session) Close() error {
	s.transport.CloseIdleConnections()
	s.creds.Reset()
	s.coll = nil
	s.collPath = ""
	s.state = StateUnauthenticated
	return nil
}
