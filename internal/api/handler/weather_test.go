package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KKamx0/TREMM/internal/api/handler"
	"github.com/KKamx0/TREMM/internal/api/models"
	"github.com/KKamx0/TREMM/internal/config"
	"github.com/KKamx0/TREMM/internal/lookup"
	"github.com/KKamx0/TREMM/internal/provider"
	"github.com/KKamx0/TREMM/internal/weather"
)

// stubLookup records the last call and returns a canned result.
type stubLookup struct {
	result *lookup.Result
	err    error
	calls  int
	place  string
	days   int
}

func (s *stubLookup) GetWeatherForDays(_ context.Context, place string, days int) (*lookup.Result, error) {
	s.calls++
	s.place = place
	s.days = days
	return s.result, s.err
}

func (s *stubLookup) Days() int { return lookup.DefaultDays }

func seattleResult() *lookup.Result {
	return &lookup.Result{
		OK:       true,
		Location: "Seattle, Washington, US",
		Current: weather.Snapshot{
			Temp: 48.2, FeelsLike: 45.9, Humidity: 87, Wind: 6.9,
			Condition: weather.ConditionRain, Description: "light rain",
		},
		NextDays: []weather.DaySummary{
			{Date: "2024-01-05", Label: "Fri, Jan 5", Min: 39, Max: 48, Description: "overcast clouds", Pop: 0.4},
		},
	}
}

func serveWeather(t *testing.T, stub *stubLookup, rawQuery string) *httptest.ResponseRecorder {
	t.Helper()
	h := handler.NewWeatherHandler(stub, zerolog.Nop())
	req := httptest.NewRequest(http.MethodGet, "/v1/weather?"+rawQuery, http.NoBody)
	w := httptest.NewRecorder()
	h.GetWeather(w, req)
	return w
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) models.Problem {
	t.Helper()
	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	return problem
}

func TestGetWeather_Success(t *testing.T) {
	stub := &stubLookup{result: seattleResult()}

	w := serveWeather(t, stub, "place=Seattle%2C+WA")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Seattle, WA", stub.place)
	assert.Equal(t, lookup.DefaultDays, stub.days)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "Seattle, Washington, US", body["location"])

	current := body["current"].(map[string]interface{})
	assert.Equal(t, 48.2, current["temp"])
	assert.Equal(t, 45.9, current["feels"])

	days := body["nextDays"].([]interface{})
	require.Len(t, days, 1)
	assert.Equal(t, "Fri, Jan 5", days[0].(map[string]interface{})["label"])
}

func TestGetWeather_ExplicitDays(t *testing.T) {
	stub := &stubLookup{result: seattleResult()}

	w := serveWeather(t, stub, "place=Seattle&days=5")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, stub.days)
}

func TestGetWeather_NotFoundIsStillOK(t *testing.T) {
	msg := `I couldn't find "Atlantis".`
	stub := &stubLookup{result: &lookup.Result{Message: msg}}

	w := serveWeather(t, stub, "place=Atlantis")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"ok":false,"message":%q}`, msg), w.Body.String())
}

func TestGetWeather_Validation(t *testing.T) {
	tests := []struct {
		name  string
		query string
		field string
	}{
		{"missing place", "", "place"},
		{"blank place", "place=+++", "place"},
		{"place too long", "place=" + strings.Repeat("a", 201), "place"},
		{"days not a number", "place=Paris&days=two", "days"},
		{"days too large", "place=Paris&days=6", "days"},
		{"days negative", "place=Paris&days=-1", "days"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubLookup{result: seattleResult()}

			w := serveWeather(t, stub, tc.query)

			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, 0, stub.calls)

			problem := decodeProblem(t, w)
			assert.Equal(t, models.ProblemTypeValidation, problem.Type)
			require.Len(t, problem.Errors, 1)
			assert.Equal(t, tc.field, problem.Errors[0].Field)
		})
	}
}

func TestGetWeather_ErrorMapping(t *testing.T) {
	transportErr := &provider.TransportError{
		Provider:   "openweathermap",
		Operation:  "current",
		StatusCode: http.StatusInternalServerError,
		Body:       `{"cod":500}`,
	}

	tests := []struct {
		name   string
		err    error
		status int
		typ    string
	}{
		{"missing credential", config.ErrMissingCredential, http.StatusServiceUnavailable, models.ProblemTypeUnavailable},
		{"wrapped credential", fmt.Errorf("resolving place: %w", config.ErrMissingCredential), http.StatusServiceUnavailable, models.ProblemTypeUnavailable},
		{"transport error", fmt.Errorf("fetching current conditions: %w", transportErr), http.StatusBadGateway, models.ProblemTypeUpstream},
		{"invalid days", lookup.ErrInvalidDays, http.StatusBadRequest, models.ProblemTypeValidation},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, models.ProblemTypeInternal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := serveWeather(t, &stubLookup{err: tc.err}, "place=Seattle")

			require.Equal(t, tc.status, w.Code)
			assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
			assert.Equal(t, tc.typ, decodeProblem(t, w).Type)
		})
	}
}

func TestGetWeather_TransportErrorHidesBody(t *testing.T) {
	stub := &stubLookup{err: &provider.TransportError{
		Provider:   "openweathermap-geo",
		Operation:  "geocode",
		StatusCode: http.StatusUnauthorized,
		Body:       `{"cod":401,"message":"Invalid API key"}`,
	}}

	w := serveWeather(t, stub, "place=Seattle")

	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.NotContains(t, w.Body.String(), "Invalid API key")
}
