// Package mcp exposes weather lookups as a Model Context Protocol tool.
package mcp

import (
	"context"
	"time"

	"github.com/miyamo2/qilin"
	"github.com/rs/zerolog"

	"github.com/KKamx0/TREMM/internal/lookup"
)

// ToolGetWeather is the name of the weather lookup tool.
const ToolGetWeather = "get_weather"

// WeatherService answers weather lookups.
type WeatherService interface {
	GetWeather(ctx context.Context, place string) (*lookup.Result, error)
}

// GetWeatherRequest is the input of the get_weather tool.
type GetWeatherRequest struct {
	Place string `json:"place" jsonschema:"title=Place" jsonschema_description:"City name, optionally followed by state and country, e.g. Springfield, IL, US"`
}

// ServerConfig holds configuration for the MCP server.
type ServerConfig struct {
	Name    string
	Service WeatherService
	Logger  zerolog.Logger
}

// Server serves the weather tool over MCP.
type Server struct {
	q       *qilin.Qilin
	service WeatherService
	logger  zerolog.Logger
}

// NewServer creates a server with the get_weather tool registered.
func NewServer(cfg ServerConfig) *Server {
	name := cfg.Name
	if name == "" {
		name = "weather"
	}

	s := &Server{
		q:       qilin.New(name),
		service: cfg.Service,
		logger:  cfg.Logger,
	}

	s.q.Tool(ToolGetWeather,
		(*GetWeatherRequest)(nil),
		s.GetWeather,
		qilin.ToolWithDescription("Current conditions and a short daily forecast for a place. "+
			"Returns ok=false with a message when the place is unknown or ambiguous."),
		qilin.ToolWithMiddleware(s.logCalls))

	return s
}

// Start serves MCP over stdio until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info().Str("tool", ToolGetWeather).Msg("starting mcp server")
	return s.q.Start(qilin.StartWithContext(ctx))
}

// GetWeather handles get_weather calls. Unknown and ambiguous places are
// answered with an ok=false result; configuration and provider failures
// are returned as tool errors.
func (s *Server) GetWeather(c qilin.ToolContext) error {
	var req GetWeatherRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	result, err := s.service.GetWeather(c.Context(), req.Place)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (s *Server) logCalls(next qilin.ToolHandlerFunc) qilin.ToolHandlerFunc {
	return func(c qilin.ToolContext) error {
		start := time.Now()
		err := next(c)

		event := s.logger.Info()
		if err != nil {
			event = s.logger.Error().Err(err)
		}
		event.
			Str("tool", c.ToolName()).
			Dur("duration", time.Since(start)).
			Msg("tool call completed")
		return err
	}
}
