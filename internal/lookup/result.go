package lookup

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/KKamx0/TREMM/internal/weather"
)

// Result is the outcome of a lookup. When OK is false only Message is set;
// when OK is true Location, Current and NextDays are set.
type Result struct {
	OK       bool
	Message  string
	Location string
	Current  weather.Snapshot
	NextDays []weather.DaySummary
}

type failureJSON struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type successJSON struct {
	OK       bool                 `json:"ok"`
	Location string               `json:"location"`
	Current  weather.Snapshot     `json:"current"`
	NextDays []weather.DaySummary `json:"nextDays"`
}

// MarshalJSON encodes the result as {ok, message} or
// {ok, location, current, nextDays}.
func (r Result) MarshalJSON() ([]byte, error) {
	if !r.OK {
		return json.Marshal(failureJSON{Message: r.Message})
	}

	days := r.NextDays
	if days == nil {
		days = []weather.DaySummary{}
	}
	return json.Marshal(successJSON{
		OK:       true,
		Location: r.Location,
		Current:  r.Current,
		NextDays: days,
	})
}

// UnmarshalJSON decodes either shape produced by MarshalJSON.
func (r *Result) UnmarshalJSON(data []byte) error {
	var probe struct {
		OK bool `json:"ok"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	if !probe.OK {
		var f failureJSON
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*r = Result{Message: f.Message}
		return nil
	}

	var s successJSON
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = Result{OK: true, Location: s.Location, Current: s.Current, NextDays: s.NextDays}
	return nil
}

// Text renders the result for a chat message.
func (r Result) Text() string {
	if !r.OK {
		return r.Message
	}

	var b strings.Builder
	b.WriteString(r.Location)
	b.WriteByte('\n')

	c := r.Current
	fmt.Fprintf(&b, "Now: %.0f°F (feels like %.0f°F), %s, humidity %.0f%%, wind %.0f mph",
		c.Temp, c.FeelsLike, c.Description, c.Humidity, c.Wind)

	for _, d := range r.NextDays {
		fmt.Fprintf(&b, "\n%s: %.0f-%.0f°F, %s, %.0f%% chance of precipitation",
			d.Label, d.Min, d.Max, d.Description, d.Pop*100)
	}

	return b.String()
}
