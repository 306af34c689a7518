package handler

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/KKamx0/TREMM/internal/api/middleware"
	"github.com/KKamx0/TREMM/internal/api/models"
	"github.com/KKamx0/TREMM/internal/api/response"
	"github.com/KKamx0/TREMM/internal/config"
	"github.com/KKamx0/TREMM/internal/lookup"
	"github.com/KKamx0/TREMM/internal/provider"
)

// WeatherService answers weather lookups.
type WeatherService interface {
	GetWeatherForDays(ctx context.Context, place string, days int) (*lookup.Result, error)
	Days() int
}

// WeatherHandler handles the weather lookup endpoint.
type WeatherHandler struct {
	service  WeatherService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(service WeatherService, logger zerolog.Logger) *WeatherHandler {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("query"); name != "" {
			return name
		}
		return fld.Name
	})
	return &WeatherHandler{
		service:  service,
		validate: validate,
		logger:   logger,
	}
}

// GetWeather handles GET /v1/weather?place=<text>[&days=n].
//
// Places that cannot be found or are ambiguous are still 200 responses with
// ok set to false; only validation, configuration and provider failures map
// to problem responses.
func (h *WeatherHandler) GetWeather(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := models.WeatherQuery{Place: strings.TrimSpace(q.Get("place"))}

	if raw := q.Get("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, r, "invalid query parameters", []models.FieldError{
				{Field: "days", Message: "must be an integer", Code: "integer"},
			})
			return
		}
		query.Days = days
	}

	if err := h.validate.Struct(query); err != nil {
		response.BadRequest(w, r, "invalid query parameters", fieldErrors(err))
		return
	}

	days := query.Days
	if days == 0 {
		days = h.service.Days()
	}

	result, err := h.service.GetWeatherForDays(r.Context(), query.Place, days)
	if err != nil {
		h.writeLookupError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

func (h *WeatherHandler) writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	log := h.logger.With().
		Str("request_id", middleware.GetRequestID(r.Context())).
		Err(err).
		Logger()

	var transportErr *provider.TransportError
	switch {
	case errors.Is(err, config.ErrMissingCredential):
		log.Error().Msg("weather lookup unavailable")
		response.ServiceUnavailable(w, r, "weather lookups are not configured")
	case errors.Is(err, lookup.ErrInvalidDays):
		response.BadRequest(w, r, "invalid query parameters", []models.FieldError{
			{Field: "days", Message: err.Error(), Code: "range"},
		})
	case errors.As(err, &transportErr):
		log.Error().
			Str("provider", transportErr.Provider).
			Int("status_code", transportErr.StatusCode).
			Msg("weather provider request failed")
		response.BadGateway(w, r, "the weather provider request failed")
	default:
		log.Error().Msg("weather lookup failed")
		response.InternalError(w, r, "an unexpected error occurred")
	}
}

// fieldErrors converts validator errors into problem field errors.
func fieldErrors(err error) []models.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]models.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, models.FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
			Code:    fe.Tag(),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}
