package tripPlan

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	generativeAI "github.com/FACorreiaa/go-trip-planner/internal/api/generative_ai"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// GenerationIDHeader lets the client name a generation so it can cancel it.
const GenerationIDHeader = "X-Generation-ID"

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		logger:  logger,
	}
}

// CreateTripPlan godoc
// @Summary      Generate a trip plan
// @Description  Generates a structured itinerary for a destination, duration and travel type.
// @Tags         TripPlans
// @Accept       json
// @Produce      json
// @Param        request          body    types.TripPlanRequest  true   "Trip request"
// @Param        X-Generation-ID  header  string                 false  "Client-chosen generation ID (UUID), used for cancellation"
// @Success      200  {object}  types.TripPlanResponse
// @Failure      400  {object}  types.TripPlanErrorResponse  "Missing or invalid input"
// @Failure      502  {object}  types.TripPlanErrorResponse  "Service error or unusable response"
// @Failure      504  {object}  types.TripPlanErrorResponse  "Generative service timed out"
// @Router       /api/v1/trip-plans [post]
func (h *HandlerImpl) CreateTripPlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripPlanHandler").Start(r.Context(), "CreateTripPlan", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/trip-plans"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "CreateTripPlan"))
	l.DebugContext(ctx, "Create trip plan handler invoked")

	if raw := r.Header.Get(GenerationIDHeader); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil || id == uuid.Nil {
			l.WarnContext(ctx, "Invalid generation ID header", slog.String("value", raw))
			writeFailure(w, r, http.StatusBadRequest, &types.GenerationError{
				Kind: types.KindMissingInput,
				Msg:  "Invalid " + GenerationIDHeader + " header",
			}, uuid.Nil)
			return
		}
		ctx = ContextWithGenerationID(ctx, id)
	}

	var req types.TripPlanRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		writeFailure(w, r, http.StatusBadRequest, &types.GenerationError{
			Kind: types.KindMissingInput,
			Msg:  "Invalid request body: " + err.Error(),
		}, uuid.Nil)
		return
	}

	outcome := h.service.Generate(ctx, &req)
	w.Header().Set(GenerationIDHeader, outcome.ID.String())
	if !outcome.Succeeded() {
		status := statusFor(outcome.Err)
		l.InfoContext(ctx, "Trip plan generation failed",
			slog.String("kind", string(outcome.Err.Kind)), slog.Int("status", status))
		writeFailure(w, r, status, outcome.Err, outcome.ID)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.TripPlanResponse{
		Success:      true,
		GenerationID: outcome.ID.String(),
		Data:         outcome.Plan,
		Warnings:     outcome.Warnings,
	})
}

// CancelTripPlan godoc
// @Summary      Cancel a trip plan generation
// @Tags         TripPlans
// @Param        generationID  path  string  true  "Generation ID"
// @Success      204
// @Produce      json
// @Failure      400  {object}  types.TripPlanErrorResponse  "Invalid generation ID"
// @Failure      404  {object}  types.TripPlanErrorResponse  "No generation in progress"
// @Router       /api/v1/trip-plans/{generationID} [delete]
func (h *HandlerImpl) CancelTripPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CancelTripPlan"))

	id, err := uuid.Parse(chi.URLParam(r, "generationID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, types.TripPlanErrorResponse{
			Error: "Invalid generation ID",
			Kind:  types.KindMissingInput,
		})
		return
	}
	if !h.service.Cancel(id) {
		api.ErrorResponse(w, r, http.StatusNotFound, types.TripPlanErrorResponse{
			Error:        "No generation in progress with that ID",
			Kind:         types.KindNotFound,
			GenerationID: id.String(),
		})
		return
	}
	l.InfoContext(ctx, "Trip plan generation cancelled", slog.String("generation_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

// GetTripPlanSchema godoc
// @Summary      Trip plan response schema
// @Description  Returns the JSON Schema every generated plan must satisfy.
// @Tags         TripPlans
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/trip-plans/schema [get]
func (h *HandlerImpl) GetTripPlanSchema(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, h.service.Schema().ToJSONSchema())
}

func statusFor(err *types.GenerationError) int {
	switch err.Kind {
	case types.KindMissingInput:
		return http.StatusBadRequest
	case types.KindServiceError:
		var se *generativeAI.ServiceError
		if errors.As(err, &se) && se.Timeout {
			return http.StatusGatewayTimeout
		}
	}
	return http.StatusBadGateway
}

func writeFailure(w http.ResponseWriter, r *http.Request, status int, err *types.GenerationError, id uuid.UUID) {
	body := types.TripPlanErrorResponse{Error: err.Msg, Kind: err.Kind}
	if id != uuid.Nil {
		body.GenerationID = id.String()
	}
	api.ErrorResponse(w, r, status, body)
}
