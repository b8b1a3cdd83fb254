package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool, metrics http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerScheduleRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/schedule", handler.GetSchedule)
	mux.HandleFunc("GET /v1/schedule/days", handler.GetScheduleDays)
	mux.HandleFunc("POST /v1/schedule/enrich", handler.EnrichSchedule)
}

func registerOddsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/odds", handler.GetOdds)
	mux.HandleFunc("OPTIONS /v1/odds", handler.OddsPreflight)
}
