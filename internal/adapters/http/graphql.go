package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/geoviz/internal/core/domain"
	"github.com/samirrijal/geoviz/internal/pkg/timefilter"
	"github.com/samirrijal/geoviz/internal/pkg/viewport"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	quakeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Earthquake",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.String},
			"place":     &graphql.Field{Type: graphql.String},
			"magnitude": &graphql.Field{Type: graphql.Float},
			"depth":     &graphql.Field{Type: graphql.Float},
			"location":  &graphql.Field{Type: geoPointType},
			"timestamp": &graphql.Field{Type: graphql.String},
			"tsunami":   &graphql.Field{Type: graphql.Boolean},
			"url":       &graphql.Field{Type: graphql.String},
			"color":     &graphql.Field{Type: graphql.NewList(graphql.Int), Description: "r, g, b, a"},
		},
	})

	airportType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Airport",
		Fields: graphql.Fields{
			"code":     &graphql.Field{Type: graphql.String},
			"name":     &graphql.Field{Type: graphql.String},
			"location": &graphql.Field{Type: geoPointType},
		},
	})

	flightType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Flight",
		Fields: graphql.Fields{
			"id":              &graphql.Field{Type: graphql.String},
			"callsign":        &graphql.Field{Type: graphql.String},
			"origin":          &graphql.Field{Type: airportType},
			"destination":     &graphql.Field{Type: airportType},
			"departure_time":  &graphql.Field{Type: graphql.DateTime},
			"arrival_time":    &graphql.Field{Type: graphql.DateTime},
			"cruise_altitude": &graphql.Field{Type: graphql.Float},
		},
	})

	positionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "FlightPosition",
		Fields: graphql.Fields{
			"flight_id": &graphql.Field{Type: graphql.String},
			"callsign":  &graphql.Field{Type: graphql.String},
			"time":      &graphql.Field{Type: graphql.DateTime},
			"longitude": &graphql.Field{Type: graphql.Float},
			"latitude":  &graphql.Field{Type: graphql.Float},
			"bearing":   &graphql.Field{Type: graphql.Float},
			"progress":  &graphql.Field{Type: graphql.Float},
			"altitude":  &graphql.Field{Type: graphql.Float},
		},
	})

	viewStateType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ViewState",
		Fields: graphql.Fields{
			"longitude": &graphql.Field{Type: graphql.Float},
			"latitude":  &graphql.Field{Type: graphql.Float},
			"zoom":      &graphql.Field{Type: graphql.Float},
			"pitch":     &graphql.Field{Type: graphql.Float},
			"bearing":   &graphql.Field{Type: graphql.Float},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"earthquakes": &graphql.Field{
				Type:        graphql.NewList(quakeType),
				Description: "Colored earthquakes inside an optional date window",
				Args: graphql.FieldConfigArgument{
					"start":   &graphql.ArgumentConfig{Type: graphql.String},
					"end":     &graphql.ArgumentConfig{Type: graphql.String},
					"palette": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					start, _ := p.Args["start"].(string)
					end, _ := p.Args["end"].(string)
					r, err := rangeOf(start, end)
					if err != nil {
						return nil, err
					}
					palette, _ := p.Args["palette"].(string)
					markers, err := deps.Earthquakes.List(p.Context, r, palette)
					if err != nil {
						return nil, err
					}
					result := make([]map[string]interface{}, len(markers))
					for i, m := range markers {
						result[i] = quakeMap(m.Earthquake, m.Color)
					}
					return result, nil
				},
			},
			"earthquake": &graphql.Field{
				Type:        quakeType,
				Description: "Get an earthquake by feed ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q, err := deps.Earthquakes.GetByID(p.Context, p.Args["id"].(string))
					if err != nil {
						return nil, err
					}
					color, err := deps.Earthquakes.Color(q.Depth, "")
					if err != nil {
						return nil, err
					}
					return quakeMap(*q, color), nil
				},
			},
			"flights": &graphql.Field{
				Type:        graphql.NewList(flightType),
				Description: "List scheduled flights",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Flights.List(p.Context)
				},
			},
			"flight": &graphql.Field{
				Type:        flightType,
				Description: "Get a flight by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Flights.GetByID(p.Context, p.Args["id"].(string))
				},
			},
			"flightPosition": &graphql.Field{
				Type:        positionType,
				Description: "Position of a flight at a progress fraction",
				Args: graphql.FieldConfigArgument{
					"id":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"progress": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Flights.Position(p.Context, p.Args["id"].(string), p.Args["progress"].(float64))
				},
			},
			"activeFlights": &graphql.Field{
				Type:        graphql.NewList(positionType),
				Description: "Positions of all flights airborne at a time (default now)",
				Args: graphql.FieldConfigArgument{
					"at": &graphql.ArgumentConfig{Type: graphql.String, Description: "ISO-8601 timestamp"},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					at := time.Now().UTC()
					if s, ok := p.Args["at"].(string); ok && s != "" {
						t, ok := timefilter.ParseTimestamp(s)
						if !ok {
							return nil, fmt.Errorf("invalid at timestamp %q", s)
						}
						at = t
					}
					return deps.Flights.Active(p.Context, at)
				},
			},
			"depthColor": &graphql.Field{
				Type:        graphql.NewList(graphql.Int),
				Description: "Render color (r, g, b, a) for a depth in km",
				Args: graphql.FieldConfigArgument{
					"depth":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"palette": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					palette, _ := p.Args["palette"].(string)
					color, err := deps.Earthquakes.Color(p.Args["depth"].(float64), palette)
					if err != nil {
						return nil, err
					}
					return rgbaInts(color), nil
				},
			},
			"constrainView": &graphql.Field{
				Type:        viewStateType,
				Description: "Clamp a camera state into the allowed envelope",
				Args: graphql.FieldConfigArgument{
					"longitude": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"latitude":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"zoom":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"pitch":     &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 0.0},
					"bearing":   &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 0.0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Views.Constrain(viewport.State{
						Longitude: p.Args["longitude"].(float64),
						Latitude:  p.Args["latitude"].(float64),
						Zoom:      p.Args["zoom"].(float64),
						Pitch:     p.Args["pitch"].(float64),
						Bearing:   p.Args["bearing"].(float64),
					}), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

func quakeMap(q domain.Earthquake, color [4]uint8) map[string]interface{} {
	return map[string]interface{}{
		"id":        q.ID,
		"place":     q.Place,
		"magnitude": q.Magnitude,
		"depth":     q.Depth,
		"location":  q.Location,
		"timestamp": q.Timestamp,
		"tsunami":   q.Tsunami,
		"url":       q.URL,
		"color":     rgbaInts(color),
	}
}

func rgbaInts(c [4]uint8) []int {
	return []int{int(c[0]), int(c[1]), int(c[2]), int(c[3])}
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
