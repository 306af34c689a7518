package models

// WeatherQuery holds the query parameters of GET /v1/weather.
type WeatherQuery struct {
	Place string `query:"place" validate:"required,max=200"`

	// Days is optional; zero means the configured default.
	Days int `query:"days" validate:"omitempty,gte=1,lte=5"`
}
