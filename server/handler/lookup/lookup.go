package lookup

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/xxxsen/cbdav/identity"
	"github.com/xxxsen/cbdav/server/model"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi/proxyutil"
	"go.uber.org/zap"
)

type LookupHandler struct {
	users     []*model.User
	publicURL string
	prefix    string
}

// NewLookupHandler answers identity lookups over users. Inventory urls are
// built as publicURL + prefix + "/" + name + "/".
func NewLookupHandler(users []*model.User, publicURL string, prefix string) *LookupHandler {
	return &LookupHandler{
		users:     users,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		prefix:    prefix,
	}
}

func (h *LookupHandler) find(req *identity.Request) *model.User {
	for _, u := range h.users {
		switch req.Type {
		case identity.TypeOpenID:
			if u.Identity == req.Identity {
				return u
			}
		case identity.TypeNormal:
			if strings.EqualFold(u.FirstName, req.FirstName) && strings.EqualFold(u.LastName, req.LastName) {
				return u
			}
		}
	}
	return nil
}

func (h *LookupHandler) inventoryURL(c *gin.Context, u *model.User) string {
	base := h.publicURL
	if len(base) == 0 {
		base = "http://" + c.Request.Host
	}
	return fmt.Sprintf("%s%s/%s/", base, h.prefix, u.Name)
}

func (h *LookupHandler) Lookup(c *gin.Context) {
	ctx := c.Request.Context()
	req := &identity.Request{
		Type:      identity.IdentityType(c.Query("type")),
		Identity:  c.Query("identity"),
		FirstName: c.Query("firstname"),
		LastName:  c.Query("lastname"),
	}
	if err := req.Validate(); err != nil {
		proxyutil.FailStatus(c, http.StatusBadRequest, fmt.Errorf("invalid lookup request, err:%w", err))
		return
	}
	u := h.find(req)
	if u == nil {
		logutil.GetLogger(ctx).Debug("identity not found", zap.String("type", string(req.Type)), zap.String("identity", req.Identity),
			zap.String("first_name", req.FirstName), zap.String("last_name", req.LastName))
		c.Status(http.StatusNotFound)
		return
	}
	c.Header(identity.HeaderIdentity, u.Identity)
	c.Header(identity.HeaderWebDavInventory, h.inventoryURL(c, u))
	c.Status(http.StatusOK)
}
