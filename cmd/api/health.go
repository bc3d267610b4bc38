package main

import (
	"context"
	"net/http"
	"time"
)

type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// healthcheckHandler godoc
//
//	@Summary		Healthcheck
//	@Description	Healthcheck endpoint
//	@Tags			ops
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Failure		503	{object}	HealthResponse
//	@Router			/health [get]
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "healthy",
		Version:   version,
		Timestamp: time.Now(),
		Services:  make(map[string]string, len(app.checks)),
	}

	status := http.StatusOK
	for _, c := range app.checks {
		if err := c.check(ctx); err != nil {
			app.logger.Warnw("health check failed", "service", c.name, "error", err)
			response.Services[c.name] = "error"
			response.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		response.Services[c.name] = "ok"
	}

	if err := writeJSON(w, status, response); err != nil {
		app.internalServerError(w, r, err)
	}
}
