package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/getstandings/internal/usecase"
)

type internalRefreshRequest struct {
	SourceURL string `json:"source_url" validate:"omitempty,url,max=2048"`
}

func (h *Handler) ActivateStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ActivateStandings")
	defer span.End()

	status, err := h.refreshPolicy.Activate(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "activate standings refresh failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scheduleToDTO(h.refreshPolicy.TaskID(), status))
}

func (h *Handler) DeactivateStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeactivateStandings")
	defer span.End()

	if err := h.refreshPolicy.Deactivate(ctx); err != nil {
		h.logger.WarnContext(ctx, "deactivate standings refresh failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deactivated"})
}

func (h *Handler) RefreshStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RefreshStandings")
	defer span.End()

	var req internalRefreshRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if sourceURL := strings.TrimSpace(req.SourceURL); sourceURL != "" {
		h.refreshPolicy.SetSourceURL(sourceURL)
	}

	result, err := h.refreshPolicy.Refresh(ctx, usecase.TriggerManual)
	if err != nil {
		h.logger.WarnContext(ctx, "manual standings refresh failed", "dispatch_id", result.DispatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
