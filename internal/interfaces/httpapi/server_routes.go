package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerStandingsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/standings", handler.ListStandings)
	mux.HandleFunc("POST /v1/standings/render", handler.RenderStandings)
	mux.HandleFunc("GET /v1/standings/schedule", handler.GetSchedule)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/standings/activate", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ActivateStandings)))
	mux.Handle("POST /v1/internal/standings/deactivate", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.DeactivateStandings)))
	mux.Handle("POST /v1/internal/standings/refresh", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RefreshStandings)))
}
