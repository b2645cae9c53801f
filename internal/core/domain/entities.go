package domain

import (
	"time"
)

// Earthquake is a seismic event from the USGS feed.
type Earthquake struct {
	ID        string   `json:"id"`
	Place     string   `json:"place"`
	Magnitude float64  `json:"magnitude"`
	Depth     float64  `json:"depth"` // km
	Location  GeoPoint `json:"location"`
	Timestamp string   `json:"timestamp"` // ISO-8601, UTC
	Tsunami   bool     `json:"tsunami"`
	URL       string   `json:"url,omitempty"`
}

// EventTimestamp returns the event's ISO-8601 time.
func (e Earthquake) EventTimestamp() string { return e.Timestamp }

// QuakeMarker is an earthquake with the color it renders in.
type QuakeMarker struct {
	Earthquake
	Color [4]uint8 `json:"color"` // r, g, b, a
}

// Airport is a flight endpoint.
type Airport struct {
	Code     string   `json:"code"` // IATA
	Name     string   `json:"name"`
	Location GeoPoint `json:"location"`
}

// Flight is a scheduled point-to-point flight flown along a great circle.
type Flight struct {
	ID             string    `json:"id"`
	Callsign       string    `json:"callsign"`
	Origin         Airport   `json:"origin"`
	Destination    Airport   `json:"destination"`
	DepartureTime  time.Time `json:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time"`
	CruiseAltitude float64   `json:"cruise_altitude,omitempty"` // feet, 0 = default
}

// Progress returns the scheduled fraction of the flight completed at t,
// clamped to [0,1].
func (f Flight) Progress(t time.Time) float64 {
	total := f.ArrivalTime.Sub(f.DepartureTime)
	if total <= 0 {
		if t.Before(f.DepartureTime) {
			return 0
		}
		return 1
	}
	p := float64(t.Sub(f.DepartureTime)) / float64(total)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Airborne reports whether t falls between departure and arrival.
func (f Flight) Airborne(t time.Time) bool {
	return !t.Before(f.DepartureTime) && t.Before(f.ArrivalTime)
}

// FlightPosition is a flight's computed motion at a moment.
type FlightPosition struct {
	FlightID  string    `json:"flight_id"`
	Callsign  string    `json:"callsign"`
	Time      time.Time `json:"time"`
	Longitude float64   `json:"longitude"`
	Latitude  float64   `json:"latitude"`
	Bearing   float64   `json:"bearing"`
	Progress  float64   `json:"progress"`
	Altitude  float64   `json:"altitude"` // feet
}

// FlightPath is a sampled great-circle arc for rendering.
type FlightPath struct {
	FlightID   string       `json:"flight_id"`
	DistanceKm float64      `json:"distance_km"`
	Bounds     Bounds       `json:"bounds"`
	Path       [][2]float64 `json:"path"` // [lon, lat]
}
