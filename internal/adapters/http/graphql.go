package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/garagehub/internal/core/domain"
	"github.com/samirrijal/garagehub/internal/core/usecases"
)

var errRoutesUnavailable = errors.New("route planning is not available")

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"latitude":  &graphql.Field{Type: graphql.Float},
			"longitude": &graphql.Field{Type: graphql.Float},
		},
	})

	serviceType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Service",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"name":        &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"images":      &graphql.Field{Type: graphql.NewList(graphql.String)},
			"status":      &graphql.Field{Type: graphql.String},
		},
	})

	garageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Garage",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"name":        &graphql.Field{Type: graphql.String},
			"location":    &graphql.Field{Type: graphql.String},
			"coordinates": &graphql.Field{Type: geoPointType},
			"photos":      &graphql.Field{Type: graphql.NewList(graphql.String)},
			"description": &graphql.Field{Type: graphql.String},
			"capacity":    &graphql.Field{Type: graphql.Int},
			"is_active":   &graphql.Field{Type: graphql.Boolean},
			"is_verified": &graphql.Field{Type: graphql.Boolean},
			"services":    &graphql.Field{Type: graphql.NewList(serviceType)},
			"distance": &graphql.Field{
				Type:        graphql.Float,
				Description: "Kilometers from the query center, null when unknown",
			},
		},
	})

	overlayType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteOverlay",
		Fields: graphql.Fields{
			"garage_id":        &graphql.Field{Type: graphql.String},
			"from":             &graphql.Field{Type: geoPointType},
			"to":               &graphql.Field{Type: geoPointType},
			"straight_line_km": &graphql.Field{Type: graphql.Float},
			"distance_km":      &graphql.Field{Type: graphql.Float},
			"duration_seconds": &graphql.Field{Type: graphql.Float},
			"source":           &graphql.Field{Type: graphql.String},
			"geometry":         &graphql.Field{Type: graphql.NewList(geoPointType)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"garagesNear": &graphql.Field{
				Type:        graphql.NewList(garageType),
				Description: "Garages within radius km of a point, nearest first",
				Args: graphql.FieldConfigArgument{
					"latitude":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"longitude": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius":    &graphql.ArgumentConfig{Type: graphql.Float},
					"serviceId": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q := usecases.NearQuery{
						Center: domain.GeoPoint{
							Latitude:  p.Args["latitude"].(float64),
							Longitude: p.Args["longitude"].(float64),
						},
						RadiusKm: deps.defaultRadius(),
					}
					if r, ok := p.Args["radius"].(float64); ok {
						q.RadiusKm = r
					}
					if id, ok := p.Args["serviceId"].(string); ok {
						q.ServiceID = id
					}
					return deps.Garages.FindNear(p.Context, q)
				},
			},
			"garagesByService": &graphql.Field{
				Type:        graphql.NewList(garageType),
				Description: "Garages offering a service, nearest first when a position is given",
				Args: graphql.FieldConfigArgument{
					"serviceId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"latitude":  &graphql.ArgumentConfig{Type: graphql.Float},
					"longitude": &graphql.ArgumentConfig{Type: graphql.Float},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat, hasLat := p.Args["latitude"].(float64)
					lon, hasLon := p.Args["longitude"].(float64)
					if hasLat != hasLon {
						return nil, domain.ErrInvalidArgument
					}
					var center *domain.GeoPoint
					if hasLat {
						center = &domain.GeoPoint{Latitude: lat, Longitude: lon}
					}
					return deps.Garages.ListByService(p.Context, p.Args["serviceId"].(string), center)
				},
			},
			"garage": &graphql.Field{
				Type:        garageType,
				Description: "Get a garage by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Garages.GetByID(p.Context, p.Args["id"].(string))
				},
			},
			"route": &graphql.Field{
				Type:        overlayType,
				Description: "Route overlay from a position to a garage",
				Args: graphql.FieldConfigArgument{
					"garageId":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"latitude":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"longitude": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if deps.Routes == nil {
						return nil, errRoutesUnavailable
					}
					from := domain.GeoPoint{
						Latitude:  p.Args["latitude"].(float64),
						Longitude: p.Args["longitude"].(float64),
					}
					return deps.Routes.PlanToGarage(p.Context, p.Args["garageId"].(string), from)
				},
			},
			"services": &graphql.Field{
				Type:        graphql.NewList(serviceType),
				Description: "List the service catalogue",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Catalog.List(p.Context)
				},
			},
			"service": &graphql.Field{
				Type:        serviceType,
				Description: "Get a service by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Catalog.GetByID(p.Context, p.Args["id"].(string))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil || req.Query == "" {
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
