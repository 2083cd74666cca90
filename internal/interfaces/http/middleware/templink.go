package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apptemplink "github.com/orris-inc/templink/internal/application/templink"
	"github.com/orris-inc/templink/internal/domain/templink"
	"github.com/orris-inc/templink/internal/shared/logger"
)

// TempLinkMiddleware resolves temporary link tokens on incoming requests.
type TempLinkMiddleware[R any] struct {
	store          *apptemplink.Store[R]
	redirectStatus int
	logger         logger.Interface
}

// NewTempLinkMiddleware creates the middleware. A redirectStatus of zero
// means 302 Found.
func NewTempLinkMiddleware[R any](store *apptemplink.Store[R], redirectStatus int, log logger.Interface) *TempLinkMiddleware[R] {
	if redirectStatus == 0 {
		redirectStatus = http.StatusFound
	}
	return &TempLinkMiddleware[R]{
		store:          store,
		redirectStatus: redirectStatus,
		logger:         log,
	}
}

// Handle returns the gin handler. The token is read from the path parameter
// named after the store's ParamName, or from the query string of the same
// name when the route has no such parameter. When the link's action does not
// hand control on, the rest of the chain is aborted.
func (m *TempLinkMiddleware[R]) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		proceeded := false
		next := func() {
			proceeded = true
			c.Next()
		}

		outcome := m.store.Dispatch(&ginRequest{c: c}, &ginResponse{c: c, status: m.redirectStatus}, next)
		if outcome == apptemplink.Matched {
			m.logger.Debugw("temp link matched",
				"path", c.FullPath(),
				"status", c.Writer.Status(),
				"continued", proceeded,
			)
		}

		if !proceeded {
			c.Abort()
		}
	}
}

// OutcomeFrom returns how the middleware dispatched the current request.
// Requests without a token report TokenAbsent and false.
func OutcomeFrom(c *gin.Context) (apptemplink.Outcome, bool) {
	v, ok := c.Get(apptemplink.OutcomeKey)
	if !ok {
		return apptemplink.TokenAbsent, false
	}
	outcome, ok := v.(apptemplink.Outcome)
	return outcome, ok
}

// LinkContextFrom returns the matched link attached by the middleware.
func LinkContextFrom[R any](c *gin.Context) (*apptemplink.LinkContext[R], bool) {
	v, ok := c.Get(apptemplink.ContextKey)
	if !ok {
		return nil, false
	}
	lc, ok := v.(*apptemplink.LinkContext[R])
	return lc, ok
}

// GinContext unwraps the gin context behind a request handed to a callback.
func GinContext(req templink.Request) (*gin.Context, bool) {
	r, ok := req.(*ginRequest)
	if !ok {
		return nil, false
	}
	return r.c, true
}

type ginRequest struct {
	c *gin.Context
}

func (r *ginRequest) Param(name string) string {
	if v := r.c.Param(name); v != "" {
		return v
	}
	return r.c.Query(name)
}

func (r *ginRequest) Method() string {
	return r.c.Request.Method
}

func (r *ginRequest) Attach(key string, value any) {
	r.c.Set(key, value)
}

type ginResponse struct {
	c      *gin.Context
	status int
}

func (r *ginResponse) Redirect(location string) {
	r.c.Redirect(r.status, location)
}
