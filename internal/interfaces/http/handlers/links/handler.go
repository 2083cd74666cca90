package links

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apptemplink "github.com/orris-inc/templink/internal/application/templink"
	"github.com/orris-inc/templink/internal/shared/errors"
	"github.com/orris-inc/templink/internal/shared/logger"
	"github.com/orris-inc/templink/internal/shared/utils"
)

type LinkHandler struct {
	store          *apptemplink.Store[LinkRefs]
	callbacks      *CallbackRegistry
	linkBaseURL    string
	importCallback string
	logger         logger.Interface
}

// NewLinkHandler creates the admin handler. Link URLs are built as
// baseURL + routePrefix + "/" + token; importCallback names the callback
// bound to imported links unless the request names another.
func NewLinkHandler(
	store *apptemplink.Store[LinkRefs],
	callbacks *CallbackRegistry,
	baseURL string,
	routePrefix string,
	importCallback string,
	log logger.Interface,
) *LinkHandler {
	return &LinkHandler{
		store:          store,
		callbacks:      callbacks,
		linkBaseURL:    strings.TrimSuffix(baseURL, "/") + "/" + strings.Trim(routePrefix, "/"),
		importCallback: importCallback,
		logger:         log,
	}
}

// CreateLink handles POST /api/links
func (h *LinkHandler) CreateLink(c *gin.Context) {
	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create link", "error", err)
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("Invalid request body", err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	callback, err := h.callbacks.Resolve(req.Callback)
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid callback", err.Error()))
		return
	}

	opts := apptemplink.LinkOptions[LinkRefs]{
		OneTime:  req.OneTime,
		Method:   req.Method,
		Redirect: req.Redirect,
		Callback: callback,
	}
	if req.TimeoutSeconds != nil {
		opts.TimeOut = apptemplink.Ptr(time.Duration(*req.TimeoutSeconds) * time.Second)
	}
	if len(req.Refs) > 0 {
		opts.Refs = apptemplink.Ptr(LinkRefs(req.Refs))
	}

	token, err := h.store.Add(opts)
	if err != nil {
		h.logger.Errorw("failed to create link", "error", err)
		utils.ErrorResponseWithError(c, errors.Wrap(errors.NewInternalError("Failed to create link"), err))
		return
	}

	link, ok := h.store.Lookup(token)
	if !ok {
		// swept between Add and Lookup; only possible with a tiny timeout
		utils.ErrorResponseWithError(c, errors.NewConflictError("Link expired before it could be returned"))
		return
	}

	utils.CreatedResponse(c, toLinkResponse(link, h.linkURL(token)), "Link created successfully")
}

// GetLink handles GET /api/links/:token
func (h *LinkHandler) GetLink(c *gin.Context) {
	token := c.Param("token")
	if err := utils.ValidateToken(token); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	status, link, consumedAt := h.store.Status(token)
	switch status {
	case apptemplink.StatusActive:
		utils.SuccessResponse(c, http.StatusOK, "", &LinkStatusResponse{
			Token:  token,
			Status: string(status),
			Link:   toLinkResponse(link, h.linkURL(token)),
		})
	case apptemplink.StatusConsumed:
		utils.SuccessResponse(c, http.StatusOK, "", &LinkStatusResponse{
			Token:      token,
			Status:     string(status),
			ConsumedAt: &consumedAt,
		})
	default:
		utils.ErrorResponseWithError(c, errors.NewNotFoundError("Link not found"))
	}
}

// DeleteLink handles DELETE /api/links/:token
func (h *LinkHandler) DeleteLink(c *gin.Context) {
	token := c.Param("token")
	if err := utils.ValidateToken(token); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if !h.store.Delete(token) {
		utils.ErrorResponseWithError(c, errors.NewNotFoundError("Link not found"))
		return
	}

	h.logger.Infow("link deleted", "token", utils.MaskToken(token))
	utils.NoContentResponse(c)
}

// ExportLinks handles GET /api/links/export
func (h *LinkHandler) ExportLinks(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Export())
}

// ImportLinks handles POST /api/links/import?callback=name
func (h *LinkHandler) ImportLinks(c *gin.Context) {
	var snapshot apptemplink.Snapshot[LinkRefs]
	if err := c.ShouldBindJSON(&snapshot); err != nil {
		h.logger.Warnw("invalid snapshot for import", "error", err)
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("Invalid snapshot", err.Error()))
		return
	}

	name := c.DefaultQuery("callback", h.importCallback)
	callback, err := h.callbacks.Resolve(name)
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid callback", err.Error()))
		return
	}

	result := h.store.Import(snapshot, callback)
	utils.SuccessResponse(c, http.StatusOK, "Links imported", toImportResponse(result))
}

// NotFound answers link requests the dispatch middleware passed through.
func (h *LinkHandler) NotFound(c *gin.Context) {
	utils.NotFoundResponse(c, "Link not found or expired")
}

func (h *LinkHandler) linkURL(token string) string {
	return h.linkBaseURL + "/" + token
}
