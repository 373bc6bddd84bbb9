package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/littleRiceZhou/auto-aspen/internal/requestid"
	"github.com/littleRiceZhou/auto-aspen/internal/service"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type handler struct {
	svc *service.SimulationService
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{Status: "healthy", Message: "API service is running"})
}

// decode reads a JSON body into v. An empty body keeps the values already
// in v.
func decode(r *http.Request, v any) error {
	if err := render.DecodeJSON(r.Body, v); err != nil && !errors.Is(err, io.EOF) {
		return service.NewErrInvalidRequest(err.Error())
	}
	return nil
}

func (h *handler) simulate(w http.ResponseWriter, r *http.Request) {
	req := service.DefaultSimulationRequest()
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := h.svc.Simulate(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

func (h *handler) calculate(w http.ResponseWriter, r *http.Request) {
	var req service.PowerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := h.svc.Calculate(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var invalid *service.ErrInvalidRequest
	if errors.As(err, &invalid) {
		status = http.StatusBadRequest
	} else {
		zap.S().Named("api_server").Errorw("request failed", "error", err, "path", r.URL.Path)
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: err.Error(), RequestID: requestid.FromContext(r.Context())})
}
