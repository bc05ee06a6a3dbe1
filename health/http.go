package health

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// HandlerOption configures the health HTTP handlers.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	showComponents func(*http.Request) bool
}

// WithComponentVisibility controls whether component results are rendered for
// a request. When show returns false the response still carries the overall
// status, with an empty components object.
func WithComponentVisibility(show func(*http.Request) bool) HandlerOption {
	return func(c *handlerConfig) {
		c.showComponents = show
	}
}

func newHandlerConfig(opts []HandlerOption) handlerConfig {
	cfg := handlerConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (c handlerConfig) visible(r *http.Request) bool {
	return c.showComponents == nil || c.showComponents(r)
}

// ErrorResponse is the JSON body written when a request cannot be served.
type ErrorResponse struct {
	Error string `json:"error"`
}

// LivenessHandler returns an HTTP handler for liveness probes.
// This is a simple check that the service is running; no indicators are run.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// Handler returns an HTTP handler that runs every indicator and renders the
// aggregated Details as JSON. Down and OutOfService respond with 503.
func Handler(h *Health, opts ...HandlerOption) http.HandlerFunc {
	cfg := newHandlerConfig(opts)
	return func(w http.ResponseWriter, r *http.Request) {
		serveDetails(w, r, h, cfg)
	}
}

func serveDetails(w http.ResponseWriter, r *http.Request, h *Health, cfg handlerConfig) {
	details := h.Details(r.Context())
	if !cfg.visible(r) {
		details.Components = nil
	}
	writeJSON(w, details.HTTPStatusCode(), details)
}

// ComponentHandler returns an HTTP handler for a single indicator. The name is
// taken from the "name" path value, so the handler must be registered with a
// pattern such as "GET /health/{name}".
func ComponentHandler(h *Health, opts ...HandlerOption) http.HandlerFunc {
	cfg := newHandlerConfig(opts)
	return func(w http.ResponseWriter, r *http.Request) {
		if !cfg.visible(r) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: ErrIndicatorNotFound.Error()})
			return
		}

		detail, err := h.Check(r.Context(), r.PathValue("name"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, detail.Status.HTTPStatusCode(), detail)
	}
}

type contextKey struct{}

// WithContext returns a copy of ctx carrying h.
func WithContext(ctx context.Context, h *Health) context.Context {
	return context.WithValue(ctx, contextKey{}, h)
}

// FromContext retrieves the Health handle installed by Middleware.
func FromContext(ctx context.Context) (*Health, bool) {
	h, ok := ctx.Value(contextKey{}).(*Health)
	return h, ok && h != nil
}

// Middleware installs h in every request context so that handlers further
// down the chain can reach it with FromContext or ContextHandler.
func Middleware(h *Health) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), h)))
		})
	}
}

// ContextHandler serves the aggregated health of the handle installed by
// Middleware. It responds 500 when no handle is installed.
func ContextHandler(opts ...HandlerOption) http.HandlerFunc {
	cfg := newHandlerConfig(opts)
	return func(w http.ResponseWriter, r *http.Request) {
		h, ok := FromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ErrNotInstalled.Error()})
			return
		}
		serveDetails(w, r, h, cfg)
	}
}

// RegisterHandlers registers the aggregate, per-component and liveness
// handlers under path on the given mux. An indicator named "liveness" is
// shadowed by the liveness route.
func RegisterHandlers(mux *http.ServeMux, h *Health, path string, opts ...HandlerOption) {
	base := strings.TrimRight(path, "/")
	if base != "" && !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	mux.HandleFunc("GET "+base+"/liveness", LivenessHandler())
	mux.HandleFunc("GET "+base+"/{name}", ComponentHandler(h, opts...))
	if base == "" {
		mux.HandleFunc("GET /{$}", Handler(h, opts...))
		return
	}
	mux.HandleFunc("GET "+base, Handler(h, opts...))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
