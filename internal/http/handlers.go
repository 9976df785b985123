package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/BizAdmin/backend/internal/domain/menu"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/domain/tabs"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/shared/paths"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/shared/types"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/shared/utils"
)

// Version is reported by the root endpoint
const Version = "0.3.0"

// Handlers contains all HTTP handlers
type Handlers struct {
	manager   *workspace.Manager
	catalog   *menu.Catalog
	metrics   *monitoring.Metrics
	breaker   *resilience.Breaker
	hasher    *utils.Hasher
	validator *utils.JSONSizeValidator
	logger    *zap.Logger
	started   time.Time
}

// Option configures Handlers
type Option func(*Handlers)

// WithBreaker reports the storage breaker on /health
func WithBreaker(b *resilience.Breaker) Option {
	return func(h *Handlers) {
		h.breaker = b
	}
}

// WithLogger sets the handler logger
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handlers) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandlers creates a new handler set. catalog and metrics may be nil.
func NewHandlers(manager *workspace.Manager, catalog *menu.Catalog, metrics *monitoring.Metrics, opts ...Option) *Handlers {
	if catalog == nil {
		catalog = menu.Default()
	}
	h := &Handlers{
		manager:   manager,
		catalog:   catalog,
		metrics:   metrics,
		hasher:    utils.DefaultHasher(),
		validator: utils.DefaultJSONValidator(),
		logger:    zap.NewNop(),
		started:   time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "BizAdmin workspace service",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	status := "healthy"
	storage := gin.H{"breaker": "disabled"}
	if h.breaker != nil {
		state := h.breaker.State()
		storage = gin.H{
			"breaker":  state.String(),
			"failures": h.breaker.Failures(),
		}
		if state != resilience.StateClosed {
			status = "degraded"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     status,
		"uptime":     time.Since(h.started).Round(time.Second).String(),
		"workspaces": h.manager.Stats(),
		"storage":    storage,
	})
}

// Menu returns the side-menu tree
func (h *Handlers) Menu(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"items":  h.catalog.Items(),
		"routes": h.catalog.Routes(),
	})
}

// ListWorkspaces lists loaded and persisted workspaces
func (h *Handlers) ListWorkspaces(c *gin.Context) {
	loaded := h.manager.List()
	ids := make([]string, len(loaded))
	for i, w := range loaded {
		ids[i] = w.ID()
	}

	persisted, err := h.manager.Persisted(c.Request.Context())
	if err != nil {
		h.logger.Warn("Failed to list persisted workspaces", zap.Error(err))
		persisted = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"loaded":    ids,
		"persisted": persisted,
		"stats":     h.manager.Stats(),
	})
}

// GetWorkspace returns tabs and navigation of a workspace. It honors If-None-Match.
func (h *Handlers) GetWorkspace(c *gin.Context) {
	w, ok := h.workspace(c)
	if !ok {
		return
	}

	view := w.View()
	etag, err := h.hasher.ETag(view)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DeleteWorkspace unloads a workspace; ?purge=true also removes its stored tabs
func (h *Handlers) DeleteWorkspace(c *gin.Context) {
	wsID := c.Param("ws")
	if !workspace.ValidID(wsID) {
		writeError(c, workspace.ErrInvalidID)
		return
	}
	purge, _ := strconv.ParseBool(c.DefaultQuery("purge", "false"))

	dropped, err := h.manager.Drop(c.Request.Context(), wsID, purge)
	if err != nil {
		h.logger.Error("Failed to drop workspace", zap.String("workspace", wsID), zap.Error(err))
		writeError(c, err)
		return
	}
	h.trackLoaded()

	c.JSON(http.StatusOK, gin.H{
		"dropped": dropped,
		"purged":  purge,
	})
}

// AddTab adds a tab without showing it
func (h *Handlers) AddTab(c *gin.Context) {
	h.createTab(c, false)
}

// OpenTab adds a tab if needed and shows it
func (h *Handlers) OpenTab(c *gin.Context) {
	h.createTab(c, true)
}

func (h *Handlers) createTab(c *gin.Context, open bool) {
	w, ok := h.workspace(c)
	if !ok {
		return
	}

	var req types.AddTabRequest
	if !h.decodeJSON(c, &req) {
		return
	}
	if err := validateTab(req.Label, req.Route, req.Icon, true); err != nil {
		badRequest(c, err)
		return
	}

	spec := h.specFor(w, req)
	var (
		tabID string
		err   error
	)
	if open {
		tabID, err = w.OpenTab(c.Request.Context(), spec)
	} else {
		tabID, err = w.AddTab(c.Request.Context(), spec)
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":   tabID,
		"tabs": w.Tabs(),
	})
}

// specFor fills a tab spec from the request and the menu entry of its route.
// The default route tab is always pinned.
func (h *Handlers) specFor(w *workspace.Workspace, req types.AddTabRequest) tabs.Spec {
	spec := tabs.Spec{
		Label:    req.Label,
		Route:    paths.Normalize(req.Route),
		Icon:     req.Icon,
		Closable: true,
	}
	if entry, ok := w.Catalog().Lookup(spec.Route); ok {
		if spec.Label == "" {
			spec.Label = entry.Item.Label
		}
		if spec.Icon == "" {
			spec.Icon = entry.Item.Icon
		}
	}
	if req.Closable != nil {
		spec.Closable = *req.Closable
	}
	if paths.Equal(spec.Route, w.DefaultRoute()) {
		spec.Closable = false
	}
	return spec
}

// UpdateTab relabels or reroutes a tab
func (h *Handlers) UpdateTab(c *gin.Context) {
	w, ok := h.workspace(c)
	if !ok {
		return
	}

	var req types.UpdateTabRequest
	if !h.decodeJSON(c, &req) {
		return
	}
	if err := validateTab(req.Label, req.Route, "", false); err != nil {
		badRequest(c, err)
		return
	}

	tabID := c.Param("id")
	if err := w.UpdateTab(c.Request.Context(), tabID, req.Label, req.Route); err != nil {
		writeError(c, err)
		return
	}

	snap := w.Tabs()
	for _, t := range snap.Tabs {
		if t.ID == tabID {
			c.JSON(http.StatusOK, gin.H{"tab": t, "tabs": snap})
			return
		}
	}
	// Closed by a concurrent request after the update.
	notFound(c, "tab")
}

// ActivateTab shows a tab
func (h *Handlers) ActivateTab(c *gin.Context) {
	w, ok := h.workspace(c)
	if !ok {
		return
	}

	if !w.ActivateTab(c.Request.Context(), c.Param("id")) {
		notFound(c, "tab")
		return
	}
	c.JSON(http.StatusOK, w.View())
}

// CloseTab closes a tab. Unknown IDs succeed without effect.
func (h *Handlers) CloseTab(c *gin.Context) {
	w, ok := h.workspace(c)
	if !ok {
		return
	}

	result, err := w.CloseTab(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"result": result,
		"tabs":   w.Tabs(),
	})
}

// CloseOtherTabs closes every closable tab except the given one
func (h *Handlers) CloseOtherTabs(c *gin.Context) {
	w, ok := h.workspace(c)
	if !ok {
		return
	}

	closed, err := w.CloseOtherTabs(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"closed": closed,
		"tabs":   w.Tabs(),
	})
}

// ResetTabs closes every tab and clears navigation
func (h *Handlers) ResetTabs(c *gin.Context) {
	w, ok := h.workspace(c)
	if !ok {
		return
	}

	w.Reset(c.Request.Context())
	c.JSON(http.StatusOK, w.View())
}

// Navigate drives the workspace router
func (h *Handlers) Navigate(c *gin.Context) {
	w, ok := h.workspace(c)
	if !ok {
		return
	}

	var req types.NavigateRequest
	if !h.decodeJSON(c, &req) {
		return
	}
	if err := utils.ValidateRoute(req.Route, true); err != nil {
		badRequest(c, err)
		return
	}

	changed := w.Navigate(c.Request.Context(), req.Route)
	c.JSON(http.StatusOK, gin.H{
		"changed": changed,
		"view":    w.View(),
	})
}

// GetNavigation returns the navigation snapshot
func (h *Handlers) GetNavigation(c *gin.Context) {
	w, ok := h.workspace(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, w.Navigation())
}

// ToggleGroup expands or collapses a menu group
func (h *Handlers) ToggleGroup(c *gin.Context) {
	w, ok := h.workspace(c)
	if !ok {
		return
	}

	key := c.Param("key")
	if err := utils.ValidateGroupKey(key); err != nil {
		badRequest(c, err)
		return
	}
	if !isGroup(w.Catalog(), key) {
		notFound(c, "menu group")
		return
	}

	expanded := w.ToggleGroup(key)
	c.JSON(http.StatusOK, gin.H{
		"group":      key,
		"expanded":   expanded,
		"navigation": w.Navigation(),
	})
}

// MetricsSummary returns a JSON digest of the Prometheus metrics
func (h *Handlers) MetricsSummary(c *gin.Context) {
	if h.metrics == nil {
		c.JSON(http.StatusOK, monitoring.Snapshot{})
		return
	}
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}

// workspace opens the workspace named by the :ws parameter.
// On failure it writes the error response and returns false.
func (h *Handlers) workspace(c *gin.Context) (*workspace.Workspace, bool) {
	w, err := h.manager.Open(c.Request.Context(), c.Param("ws"))
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	h.trackLoaded()
	return w, true
}

func (h *Handlers) trackLoaded() {
	if h.metrics != nil {
		h.metrics.SetWorkspacesLoaded(len(h.manager.List()))
	}
}

func validateTab(label, route, icon string, routeRequired bool) error {
	if err := utils.ValidateRoute(route, routeRequired); err != nil {
		return err
	}
	if err := utils.ValidateLabel(label, false); err != nil {
		return err
	}
	return utils.ValidateIcon(icon)
}

func isGroup(catalog *menu.Catalog, key string) bool {
	for _, item := range catalog.Items() {
		if item.Key == key && item.IsGroup() {
			return true
		}
	}
	return false
}
