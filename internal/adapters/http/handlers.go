package http

import (
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/geoviz/internal/core/domain"
	"github.com/samirrijal/geoviz/internal/pkg/timefilter"
	"github.com/samirrijal/geoviz/internal/pkg/viewport"
)

// serviceError maps service errors onto API errors.
func serviceError(c *fiber.Ctx, err error, what string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, what+" not found")
	case errors.Is(err, domain.ErrUnknownPalette):
		return errBadRequest(c, err.Error())
	default:
		return errInternal(c, err.Error())
	}
}

const maxPageSize = 5000

// parseRange reads the optional start and end query parameters.
func parseRange(c *fiber.Ctx) (timefilter.Range, error) {
	return rangeOf(c.Query("start"), c.Query("end"))
}

// rangeOf parses a start/end pair; empty strings leave that side open.
func rangeOf(start, end string) (timefilter.Range, error) {
	var r timefilter.Range
	if start != "" {
		t, ok := timefilter.ParseTimestamp(start)
		if !ok {
			return r, errors.New("start must be an ISO-8601 date or timestamp")
		}
		r.Start = &t
	}
	if end != "" {
		t, ok := timefilter.ParseTimestamp(end)
		if !ok {
			return r, errors.New("end must be an ISO-8601 date or timestamp")
		}
		r.End = &t
	}
	if r.Start != nil && r.End != nil && r.Start.After(timefilter.EndOfDayUTC(*r.End)) {
		return r, errors.New("start must not be after end")
	}
	return r, nil
}

// parseFinite parses a float and rejects NaN and the infinities, which
// strconv accepts but JSON cannot carry.
func parseFinite(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseAt reads the optional "at" timestamp, defaulting to now.
func parseAt(c *fiber.Ctx) (time.Time, error) {
	s := c.Query("at")
	if s == "" {
		return time.Now().UTC(), nil
	}
	t, ok := timefilter.ParseTimestamp(s)
	if !ok {
		return time.Time{}, errors.New("at must be an ISO-8601 timestamp")
	}
	return t, nil
}

// ---- Earthquakes ----

// ListEarthquakesHandler returns colored earthquake markers inside the
// optional start/end window.
func ListEarthquakesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := parseRange(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		markers, err := deps.Earthquakes.List(c.UserContext(), r, c.Query("palette"))
		if err != nil {
			return serviceError(c, err, "earthquakes")
		}

		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 1000)
		if offset < 0 {
			offset = 0
		}
		switch {
		case limit <= 0:
			limit = 1000
		case limit > maxPageSize:
			limit = maxPageSize
		}

		total := len(markers)
		if offset >= total {
			markers = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			markers = markers[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: markers, Pagination: pg})
	}
}

// EarthquakesGeoJSONHandler returns the filtered markers as a GeoJSON
// FeatureCollection of points.
func EarthquakesGeoJSONHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := parseRange(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		markers, err := deps.Earthquakes.List(c.UserContext(), r, c.Query("palette"))
		if err != nil {
			return serviceError(c, err, "earthquakes")
		}

		fc := geojson.NewFeatureCollection()
		for _, m := range markers {
			f := geojson.NewFeature(orb.Point{m.Location.Lon, m.Location.Lat})
			f.ID = m.ID
			f.Properties = geojson.Properties{
				"place":     m.Place,
				"magnitude": m.Magnitude,
				"depth":     m.Depth,
				"timestamp": m.Timestamp,
				"tsunami":   m.Tsunami,
				"color":     m.Color,
			}
			fc.Append(f)
		}

		data, err := fc.MarshalJSON()
		if err != nil {
			return errInternal(c, err.Error())
		}
		c.Set("Content-Type", "application/geo+json")
		return c.Send(data)
	}
}

// NearbyEarthquakesHandler returns markers within radius_km of a point.
func NearbyEarthquakesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Query("lat") == "" || c.Query("lon") == "" {
			return errBadRequest(c, "lat and lon are required")
		}
		lat, okLat := parseFinite(c.Query("lat"))
		lon, okLon := parseFinite(c.Query("lon"))
		if !okLat || !okLon || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return errBadRequest(c, "lat must be within [-90, 90] and lon within [-180, 180]")
		}
		radius := 250.0
		if raw := c.Query("radius_km"); raw != "" {
			var ok bool
			if radius, ok = parseFinite(raw); !ok {
				return errBadRequest(c, "radius_km must be a number")
			}
		}
		if radius <= 0 || radius > 2000 {
			return errBadRequest(c, "radius_km must be between 0 and 2000")
		}

		r, err := parseRange(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		markers, err := deps.Earthquakes.Nearby(c.UserContext(), lat, lon, radius, r, c.Query("palette"))
		if err != nil {
			return serviceError(c, err, "earthquakes")
		}
		return c.JSON(markers)
	}
}

// GetEarthquakeHandler returns a single earthquake by feed ID.
func GetEarthquakeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "earthquake id is required")
		}
		q, err := deps.Earthquakes.GetByID(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err, "earthquake")
		}
		return c.JSON(q)
	}
}

// ---- Colors ----

// DepthColorHandler returns the render color for a depth.
func DepthColorHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Query("depth")
		if raw == "" {
			return errBadRequest(c, "depth is required")
		}
		depth, ok := parseFinite(raw)
		if !ok {
			return errBadRequest(c, "depth must be a finite number")
		}

		palette := c.Query("palette")
		color, err := deps.Earthquakes.Color(depth, palette)
		if err != nil {
			return serviceError(c, err, "palette")
		}
		return c.JSON(fiber.Map{
			"depth":   depth,
			"palette": palette,
			"color":   color,
		})
	}
}

// ListPalettesHandler lists the registered palette names.
func ListPalettesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"palettes": deps.Earthquakes.Palettes()})
	}
}

// ---- Flights ----

// ListFlightsHandler returns all scheduled flights.
func ListFlightsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		flights, err := deps.Flights.List(c.UserContext())
		if err != nil {
			return errInternal(c, err.Error())
		}
		if flights == nil {
			flights = []domain.Flight{}
		}
		return c.JSON(flights)
	}
}

// GetFlightHandler returns a flight by ID.
func GetFlightHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := deps.Flights.GetByID(c.UserContext(), c.Params("id"))
		if err != nil {
			return serviceError(c, err, "flight")
		}
		return c.JSON(f)
	}
}

// FlightPositionHandler returns a flight's position either at an explicit
// progress fraction or at a wall-clock time (default now).
func FlightPositionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		if raw := c.Query("progress"); raw != "" {
			progress, ok := parseFinite(raw)
			if !ok {
				return errBadRequest(c, "progress must be a finite number")
			}
			pos, err := deps.Flights.Position(c.UserContext(), id, progress)
			if err != nil {
				return serviceError(c, err, "flight")
			}
			return c.JSON(pos)
		}

		at, err := parseAt(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		pos, err := deps.Flights.PositionAt(c.UserContext(), id, at)
		if err != nil {
			return serviceError(c, err, "flight")
		}
		c.Set("Cache-Control", "no-cache")
		return c.JSON(pos)
	}
}

// FlightPathHandler returns the sampled great-circle arc. format=geojson
// returns a LineString Feature instead.
func FlightPathHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path, err := deps.Flights.Path(c.UserContext(), c.Params("id"), c.QueryInt("steps", 0))
		if err != nil {
			return serviceError(c, err, "flight")
		}

		if c.Query("format") != "geojson" {
			return c.JSON(path)
		}

		ls := make(orb.LineString, len(path.Path))
		for i, p := range path.Path {
			ls[i] = orb.Point{p[0], p[1]}
		}
		f := geojson.NewFeature(ls)
		f.ID = path.FlightID
		f.Properties = geojson.Properties{"distance_km": path.DistanceKm}
		data, err := f.MarshalJSON()
		if err != nil {
			return errInternal(c, err.Error())
		}
		c.Set("Content-Type", "application/geo+json")
		return c.Send(data)
	}
}

// ActiveFlightsHandler returns positions for all flights airborne at "at".
func ActiveFlightsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		at, err := parseAt(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		positions, err := deps.Flights.Active(c.UserContext(), at)
		if err != nil {
			return errInternal(c, err.Error())
		}
		c.Set("Cache-Control", "no-cache")
		return c.JSON(positions)
	}
}

// ---- View state ----

// HeaderViewClamped marks a view state response that differs from the request.
const HeaderViewClamped = "X-View-Clamped"

// ConstrainViewHandler clamps a proposed camera state into the envelope.
func ConstrainViewHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var st viewport.State
		if err := c.BodyParser(&st); err != nil {
			return errBadRequest(c, "invalid view state body")
		}
		if !deps.Views.Limits().Contains(st) {
			c.Set(HeaderViewClamped, "true")
		}
		return c.JSON(deps.Views.Constrain(st))
	}
}

// ViewLimitsHandler returns the camera envelope.
func ViewLimitsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.Views.Limits())
	}
}

// ---- Geometry ----

// CountiesHandler serves the memoized county boundary GeoJSON.
func CountiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, err := deps.Geometry.Counties(c.UserContext())
		if err != nil {
			return newError(c, fiber.StatusBadGateway, "upstream_error", err.Error())
		}
		c.Set("Content-Type", "application/geo+json")
		return c.Send(data)
	}
}
