package weather

import (
	"errors"
	"time"
)

// Weather errors.
var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// Units used by every provider call. Temperatures are Fahrenheit and wind
// speeds are miles per hour.
const Units = "imperial"

// Snapshot is the weather at a location right now.
type Snapshot struct {
	// Temperature in Fahrenheit
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels"`

	// Humidity percentage (0-100)
	Humidity float64 `json:"humidity"`

	// Wind speed in mph
	Wind float64 `json:"wind"`

	Condition   Condition `json:"condition"`
	Description string    `json:"description"`
}

// Current is a current-conditions response. TZOffsetSeconds is the
// location's offset from UTC as reported by the provider.
type Current struct {
	Snapshot        Snapshot
	TZOffsetSeconds int
}

// ForecastPoint is a single step of the provider's forecast. Temperature
// fields and the precipitation probability are nil when the provider left
// them out.
type ForecastPoint struct {
	Time        time.Time
	Temp        *float64
	TempMin     *float64
	TempMax     *float64
	Description string

	// Pop is the probability of precipitation (0-1).
	Pop *float64
}

// Conditions is everything fetched for one location.
type Conditions struct {
	Current         Snapshot
	Forecast        []ForecastPoint
	TZOffsetSeconds int
}

// DaySummary aggregates the forecast points of one local calendar day.
type DaySummary struct {
	// Date is the local date as YYYY-MM-DD.
	Date string `json:"date"`

	// Label is a short human form of Date, e.g. "Mon, Jan 5".
	Label string `json:"label"`

	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Description string  `json:"desc"`
	Pop         float64 `json:"pop"`
}

// Condition represents the general weather condition.
type Condition string

const (
	ConditionClear        Condition = "CLEAR"
	ConditionClouds       Condition = "CLOUDS"
	ConditionRain         Condition = "RAIN"
	ConditionDrizzle      Condition = "DRIZZLE"
	ConditionThunderstorm Condition = "THUNDERSTORM"
	ConditionSnow         Condition = "SNOW"
	ConditionMist         Condition = "MIST"
	ConditionFog          Condition = "FOG"
	ConditionHaze         Condition = "HAZE"
	ConditionUnknown      Condition = "UNKNOWN"
)
