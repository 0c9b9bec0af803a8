package inventory

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/xxxsen/cbdav/server/middleware"
	"github.com/xxxsen/cbdav/server/model"
	"github.com/xxxsen/cbdav/utils"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi/proxyutil"
	"go.uber.org/zap"
	"golang.org/x/net/webdav"
)

type userInventory struct {
	owner string
	dav   *webdav.Handler
}

type InventoryHandler struct {
	invs map[string]*userInventory
}

// NewInventoryHandler serves <root>/<name> for every user under
// prefix/<name>, the directories are created when missing.
func NewInventoryHandler(users []*model.User, root string, prefix string) (*InventoryHandler, error) {
	h := &InventoryHandler{invs: make(map[string]*userInventory, len(users))}
	for _, u := range users {
		if err := utils.CheckEntryName(u.Name); err != nil {
			return nil, fmt.Errorf("invalid user name, err:%w", err)
		}
		dir := filepath.Join(root, u.Name)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create inventory dir failed, dir:%s, err:%w", dir, err)
		}
		h.invs[u.Name] = &userInventory{
			owner: u.Identity,
			dav: &webdav.Handler{
				Prefix:     prefix + "/" + u.Name,
				FileSystem: webdav.Dir(dir),
				LockSystem: webdav.NewMemLS(),
				Logger: func(r *http.Request, err error) {
					if err != nil {
						logutil.GetLogger(r.Context()).Debug("webdav request failed", zap.String("method", r.Method),
							zap.String("path", r.URL.Path), zap.Error(err))
					}
				},
			},
		}
	}
	return h, nil
}

func (h *InventoryHandler) Handler(c *gin.Context) {
	name := c.Param("user")
	inv, ok := h.invs[name]
	if !ok {
		proxyutil.FailStatus(c, http.StatusNotFound, fmt.Errorf("inventory not found, name:%s", name))
		return
	}
	user, _ := middleware.GetAuthUser(c)
	if user != inv.owner {
		proxyutil.FailStatus(c, http.StatusForbidden, fmt.Errorf("inventory owner not match, name:%s, user:%s", name, user))
		return
	}
	inv.dav.ServeHTTP(c.Writer, c.Request)
}
