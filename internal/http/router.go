package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router uses the standard library http.ServeMux (avoids pulling in a
// third-party routing dependency).
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterA2PRoutes wires the compliance API surface.
func (r *Router) RegisterA2PRoutes(h *A2PHandler) {
	r.Handle("/a2p/brand", methodOnly(http.MethodPost, h.CreateBrand))
	r.Handle("/a2p/campaign", methodOnly(http.MethodPost, h.CreateCampaign))
	r.Handle("/a2p/phone-campaign", methodOnly(http.MethodPost, h.PhoneCampaign))
	r.Handle("/a2p/status", methodOnly(http.MethodGet, h.Status))
	r.Handle("/a2p/phone-numbers", methodOnly(http.MethodGet, h.PhoneNumbers))
	r.Handle("/a2p/events", methodOnly(http.MethodGet, h.Events))
	r.Handle("/a2p/events/export", methodOnly(http.MethodGet, h.EventsExport))
	r.Handle("/healthz", methodOnly(http.MethodGet, h.Healthz))
}

func methodOnly(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(w, req)
	}
}
