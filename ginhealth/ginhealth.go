// Package ginhealth installs a health.Health handle into gin routers.
package ginhealth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonwraymond/healthkit/health"
)

// ContextKey is the gin context key holding the installed handle.
const ContextKey = "healthkit.health"

// Middleware stores h in every gin context.
func Middleware(h *health.Health) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKey, h)
		c.Request = c.Request.WithContext(health.WithContext(c.Request.Context(), h))
		c.Next()
	}
}

// FromContext returns the handle installed by Middleware.
func FromContext(c *gin.Context) (*health.Health, bool) {
	v, ok := c.Get(ContextKey)
	if !ok {
		return nil, false
	}
	h, ok := v.(*health.Health)
	return h, ok && h != nil
}

// Option configures the handlers installed by Register.
type Option func(*options)

type options struct {
	showComponents func(*http.Request) bool
}

// WithComponentVisibility hides component results from requests for which
// show returns false, as health.WithComponentVisibility does.
func WithComponentVisibility(show func(*http.Request) bool) Option {
	return func(o *options) {
		o.showComponents = show
	}
}

func (o options) visible(c *gin.Context) bool {
	return o.showComponents == nil || o.showComponents(c.Request)
}

// Handler renders the aggregated health of the installed handle.
func Handler(c *gin.Context) {
	serveDetails(c, options{})
}

// ComponentHandler renders a single component named by the ":name" parameter.
func ComponentHandler(c *gin.Context) {
	serveComponent(c, options{})
}

func serveDetails(c *gin.Context, o options) {
	h, ok := installed(c)
	if !ok {
		return
	}

	details := h.Details(c.Request.Context())
	if !o.visible(c) {
		details.Components = nil
	}
	c.JSON(details.HTTPStatusCode(), details)
}

func serveComponent(c *gin.Context, o options) {
	h, ok := installed(c)
	if !ok {
		return
	}
	if !o.visible(c) {
		c.JSON(http.StatusNotFound, health.ErrorResponse{Error: health.ErrIndicatorNotFound.Error()})
		return
	}

	detail, err := h.Check(c.Request.Context(), c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, health.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(detail.Status.HTTPStatusCode(), detail)
}

func installed(c *gin.Context) (*health.Health, bool) {
	h, ok := FromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, health.ErrorResponse{
			Error: health.ErrNotInstalled.Error(),
		})
	}
	return h, ok
}

// Register installs h on r and serves the aggregate under path, single
// components under path/:name and a liveness probe under path/liveness.
func Register(r gin.IRoutes, h *health.Health, path string, opts ...Option) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	r.Use(Middleware(h))
	r.GET(path, func(c *gin.Context) { serveDetails(c, o) })
	r.GET(path+"/liveness", gin.WrapF(health.LivenessHandler()))
	r.GET(path+"/:name", func(c *gin.Context) { serveComponent(c, o) })
}
