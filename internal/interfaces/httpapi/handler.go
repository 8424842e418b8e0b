package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/getstandings/internal/domain/standings"
	"github.com/riskibarqy/getstandings/internal/platform/logging"
	"github.com/riskibarqy/getstandings/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	standingsService *usecase.StandingsService
	refreshPolicy    *usecase.RefreshPolicy
	logger           *logging.Logger
	validator        *validator.Validate
	internalJobToken string
}

func NewHandler(
	standingsService *usecase.StandingsService,
	refreshPolicy *usecase.RefreshPolicy,
	internalJobToken string,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		standingsService: standingsService,
		refreshPolicy:    refreshPolicy,
		logger:           logger,
		validator:        validator.New(),
		internalJobToken: internalJobToken,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandings")
	defer span.End()

	rows := h.standingsService.Rows(ctx)
	items := make([]standingRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, standingRowToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) RenderStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RenderStandings")
	defer span.End()

	var req renderStandingsRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	opts := req.Options
	if len(req.Attributes) > 0 {
		opts = standings.ParseShortcodeOptions(req.Attributes)
	}
	// The source url is process-wide, so only internal callers may move it.
	if opts.SourceURL != "" && !hasInternalJobToken(r, h.internalJobToken) {
		h.logger.WarnContext(ctx, "ignoring render source_url override without internal job token")
		opts.SourceURL = ""
	}
	span.SetAttributes(renderSpanAttributes(opts.Enabled, opts.Debug, len(req.Table.Data))...)

	table, err := h.standingsService.Render(ctx, standings.Table{Data: req.Table.Data}, opts)
	if err != nil {
		h.logger.WarnContext(ctx, "render standings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tableDTO{Data: table.Data})
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSchedule")
	defer span.End()

	status, err := h.standingsService.Schedule(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get standings schedule failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scheduleToDTO(h.refreshPolicy.TaskID(), status))
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeJSON reads a bounded JSON body into target. An empty body is only
// accepted when allowEmpty is set.
func decodeJSON(r *http.Request, target any, allowEmpty bool) error {
	decoder := sonic.ConfigDefault.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			if allowEmpty {
				return nil
			}
			return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type renderStandingsRequest struct {
	Table      tableDTO                `json:"table"`
	Options    standings.RenderOptions `json:"options"`
	Attributes map[string]string       `json:"attributes,omitempty"`
}

type tableDTO struct {
	Data [][]string `json:"data" validate:"required,min=1"`
}

type standingRowDTO struct {
	TeamName         string   `json:"team_name"`
	Wins             string   `json:"wins"`
	Losses           string   `json:"losses"`
	WinPercentage    *float64 `json:"win_percentage"`
	WinPercentageRaw string   `json:"win_percentage_text"`
}

type scheduleDTO struct {
	TaskID     string `json:"task_id"`
	Scheduled  bool   `json:"scheduled"`
	Already    bool   `json:"already_scheduled,omitempty"`
	NextFireAt string `json:"next_fire_at,omitempty"`
}

func standingRowToDTO(row standings.Row) standingRowDTO {
	dto := standingRowDTO{
		TeamName:         row.TeamName,
		Wins:             row.Wins,
		Losses:           row.Losses,
		WinPercentageRaw: row.FormattedWinPercentage(),
	}
	if row.HasWinPercentage() {
		pct := row.WinPercentage
		dto.WinPercentage = &pct
	}
	return dto
}

func scheduleToDTO(taskID string, status usecase.ScheduleStatus) scheduleDTO {
	dto := scheduleDTO{
		TaskID:    taskID,
		Scheduled: status.Scheduled,
		Already:   status.AlreadyScheduled,
	}
	if !status.NextFireAt.IsZero() {
		dto.NextFireAt = status.NextFireAt.UTC().Format(time.RFC3339)
	}
	return dto
}
