package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khatapp/khata/internal/middleware"
	"github.com/khatapp/khata/internal/query"
)

// resourceHandler exposes the query engine's resource API over HTTP. It does
// no interpretation of its own: the engine's status and payload pass straight
// through, so a remote client sees exactly what a local one would.
type resourceHandler struct {
	engine *query.Engine
}

func newResourceHandler(engine *query.Engine) *resourceHandler {
	return &resourceHandler{engine: engine}
}

// registerResourceRoutes registers the CRUD surface for every collection.
// Routes are registered per resource because the report routes share path
// prefixes with them.
func registerResourceRoutes(r *gin.Engine, engine *query.Engine, mutating ...gin.HandlerFunc) {
	h := newResourceHandler(engine)

	// Fresh handler chain per route; sharing one append target would let the
	// routes clobber each other's final handler.
	chain := func() []gin.HandlerFunc {
		out := make([]gin.HandlerFunc, 0, len(mutating)+1)
		out = append(out, mutating...)
		return append(out, h.dispatch)
	}

	for _, name := range query.ResourceNames() {
		grp := r.Group("/" + name)
		grp.GET("", h.dispatch)
		grp.GET("/:id", h.dispatch)
		grp.POST("", chain()...)
		grp.PUT("/:id", chain()...)
		grp.PATCH("/:id", chain()...)
		grp.DELETE("/:id", chain()...)
	}
}

func (h *resourceHandler) dispatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		logger.Warn("Failed to read request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	resp := h.engine.Do(c.Request.Context(), query.Request{
		Path:   c.Request.URL.Path,
		Method: c.Request.Method,
		Params: c.Request.URL.Query(),
		Body:   body,
	})

	if !resp.OK() {
		c.JSON(resp.Status, gin.H{"error": resp.Err})
		return
	}
	c.Data(resp.Status, "application/json; charset=utf-8", resp.Data)
}
