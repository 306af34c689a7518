package weather_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KKamx0/TREMM/internal/weather"
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func point(ts string, lo, hi float64, desc string, pop *float64) weather.ForecastPoint {
	return weather.ForecastPoint{
		Time:        at(ts),
		TempMin:     ptr(lo),
		TempMax:     ptr(hi),
		Description: desc,
		Pop:         pop,
	}
}

func TestLocalDate(t *testing.T) {
	ts := at("2024-01-05T23:30:00Z")

	assert.Equal(t, "2024-01-05", weather.LocalDate(ts, 0))
	assert.Equal(t, "2024-01-06", weather.LocalDate(ts, 3600))
	assert.Equal(t, "2024-01-05", weather.LocalDate(ts, -3600))
	assert.Equal(t, "2024-01-05", weather.LocalDate(at("2024-01-06T02:00:00Z"), -5*3600))
}

func TestLocalDate_IgnoresMachineZone(t *testing.T) {
	loc := time.FixedZone("far-east", 14*3600)
	ts := at("2024-01-05T23:30:00Z").In(loc)

	assert.Equal(t, "2024-01-06", weather.LocalDate(ts, 3600))
}

func TestDayLabel(t *testing.T) {
	assert.Equal(t, "Fri, Jan 5", weather.DayLabel("2024-01-05"))
	assert.Equal(t, "Mon, Dec 30", weather.DayLabel("2024-12-30"))
	assert.Equal(t, "bogus", weather.DayLabel("bogus"))
}

func TestSummarize_PopMax(t *testing.T) {
	now := at("2024-01-04T12:00:00Z")
	points := []weather.ForecastPoint{
		point("2024-01-05T00:00:00Z", 40, 45, "rain", ptr(0.1)),
		point("2024-01-05T03:00:00Z", 38, 44, "rain", ptr(0.6)),
		point("2024-01-05T06:00:00Z", 37, 43, "rain", ptr(0.3)),
	}

	got := weather.Summarize(points, 0, 3, now)

	require.Len(t, got, 1)
	assert.Equal(t, 0.6, got[0].Pop)
	assert.Equal(t, 37.0, got[0].Min)
	assert.Equal(t, 45.0, got[0].Max)
	assert.Equal(t, "Fri, Jan 5", got[0].Label)
	assert.Equal(t, "2024-01-05", got[0].Date)
}

func TestSummarize_MissingPopCountsAsZero(t *testing.T) {
	now := at("2024-01-04T12:00:00Z")
	points := []weather.ForecastPoint{
		point("2024-01-05T00:00:00Z", 40, 45, "clear sky", nil),
		point("2024-01-05T03:00:00Z", 40, 45, "clear sky", nil),
	}

	got := weather.Summarize(points, 0, 3, now)

	require.Len(t, got, 1)
	assert.Zero(t, got[0].Pop)
}

func TestSummarize_DescriptionTieBreak(t *testing.T) {
	now := at("2024-01-04T12:00:00Z")
	points := []weather.ForecastPoint{
		point("2024-01-05T00:00:00Z", 40, 45, "overcast clouds", nil),
		point("2024-01-05T03:00:00Z", 40, 45, "light rain", nil),
	}

	got := weather.Summarize(points, 0, 3, now)

	require.Len(t, got, 1)
	assert.Equal(t, "overcast clouds", got[0].Description)
}

func TestSummarize_MostFrequentDescription(t *testing.T) {
	now := at("2024-01-04T12:00:00Z")
	points := []weather.ForecastPoint{
		point("2024-01-05T00:00:00Z", 40, 45, "overcast clouds", nil),
		point("2024-01-05T03:00:00Z", 40, 45, "light rain", nil),
		point("2024-01-05T06:00:00Z", 40, 45, "light rain", nil),
	}

	got := weather.Summarize(points, 0, 3, now)

	require.Len(t, got, 1)
	assert.Equal(t, "light rain", got[0].Description)
}

func TestSummarize_OffsetBucketing(t *testing.T) {
	now := at("2024-01-03T12:00:00Z")
	points := []weather.ForecastPoint{
		// 23:30 UTC is already the next day at +1h.
		point("2024-01-04T23:30:00Z", 30, 31, "snow", nil),
		point("2024-01-05T12:00:00Z", 50, 60, "clear sky", nil),
	}

	got := weather.Summarize(points, 3600, 3, now)

	require.Len(t, got, 1)
	assert.Equal(t, "2024-01-05", got[0].Date)
	assert.Equal(t, 30.0, got[0].Min)
	assert.Equal(t, 60.0, got[0].Max)

	got = weather.Summarize(points, 0, 3, now)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-01-04", got[0].Date)
}

func TestSummarize_ExcludesTodayWhenOtherDaysExist(t *testing.T) {
	now := at("2024-01-04T10:00:00Z")
	points := []weather.ForecastPoint{
		point("2024-01-04T12:00:00Z", 50, 55, "clear sky", nil),
		point("2024-01-05T12:00:00Z", 40, 45, "rain", nil),
	}

	got := weather.Summarize(points, 0, 3, now)

	require.Len(t, got, 1)
	assert.Equal(t, "2024-01-05", got[0].Date)
}

func TestSummarize_KeepsTodayWhenOnlyDay(t *testing.T) {
	now := at("2024-01-04T10:00:00Z")
	points := []weather.ForecastPoint{
		point("2024-01-04T12:00:00Z", 50, 55, "clear sky", nil),
		point("2024-01-04T15:00:00Z", 52, 58, "clear sky", nil),
	}

	got := weather.Summarize(points, 0, 3, now)

	require.Len(t, got, 1)
	assert.Equal(t, "2024-01-04", got[0].Date)
	assert.Equal(t, 58.0, got[0].Max)
}

func TestSummarize_TodayUsesOffset(t *testing.T) {
	// 03:00 UTC on the 5th is still the 4th at -7h.
	now := at("2024-01-05T03:00:00Z")
	points := []weather.ForecastPoint{
		point("2024-01-05T04:00:00Z", 50, 55, "clear sky", nil),
		point("2024-01-05T12:00:00Z", 40, 45, "rain", nil),
	}

	got := weather.Summarize(points, -7*3600, 3, now)

	require.Len(t, got, 1)
	assert.Equal(t, "2024-01-05", got[0].Date)
	assert.Equal(t, 40.0, got[0].Min)
}

func TestSummarize_ChronologicalAndLimited(t *testing.T) {
	now := at("2024-01-01T12:00:00Z")
	points := []weather.ForecastPoint{
		point("2024-01-05T12:00:00Z", 5, 6, "d", nil),
		point("2024-01-03T12:00:00Z", 3, 4, "b", nil),
		point("2024-01-02T12:00:00Z", 1, 2, "a", nil),
		point("2024-01-04T12:00:00Z", 4, 5, "c", nil),
	}

	got := weather.Summarize(points, 0, 3, now)

	require.Len(t, got, 3)
	assert.Equal(t, "2024-01-02", got[0].Date)
	assert.Equal(t, "2024-01-03", got[1].Date)
	assert.Equal(t, "2024-01-04", got[2].Date)
}

func TestSummarize_FallsBackToTemp(t *testing.T) {
	now := at("2024-01-04T12:00:00Z")
	points := []weather.ForecastPoint{
		{Time: at("2024-01-05T00:00:00Z"), Temp: ptr(41), Description: "mist"},
		{Time: at("2024-01-05T03:00:00Z"), Temp: ptr(39), TempMax: ptr(48), Description: "mist"},
	}

	got := weather.Summarize(points, 0, 3, now)

	require.Len(t, got, 1)
	assert.Equal(t, 39.0, got[0].Min)
	assert.Equal(t, 48.0, got[0].Max)
}

func TestSummarize_SkipsIncompletePoints(t *testing.T) {
	now := at("2024-01-04T12:00:00Z")
	points := []weather.ForecastPoint{
		{Time: at("2024-01-05T00:00:00Z"), Description: "no data"},
		{Time: at("2024-01-06T00:00:00Z"), TempMin: ptr(30), Description: "half data"},
		point("2024-01-07T00:00:00Z", 40, 45, "clear sky", nil),
	}

	got := weather.Summarize(points, 0, 3, now)

	require.Len(t, got, 1)
	assert.Equal(t, "2024-01-07", got[0].Date)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Empty(t, weather.Summarize(nil, 0, 3, time.Now()))
	assert.Empty(t, weather.Summarize([]weather.ForecastPoint{
		point("2024-01-05T00:00:00Z", 40, 45, "rain", nil),
	}, 0, 0, time.Now()))
}
