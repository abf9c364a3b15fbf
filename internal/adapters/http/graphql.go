package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/fieldproof/internal/core/domain"
	"github.com/samirrijal/fieldproof/internal/core/usecases"
)

// int64ID resolves an int64 ID as a string; millisecond IDs overflow GraphQL Int.
func int64ID(get func(any) int64) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		return strconv.FormatInt(get(p.Source), 10), nil
	}
}

func optFloat(get func(domain.PhotoActivity) *float64) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		if v := get(p.Source.(domain.PhotoActivity)); v != nil {
			return *v, nil
		}
		return nil, nil
	}
}

func parseIDArg(p graphql.ResolveParams) (int64, error) {
	return strconv.ParseInt(p.Args["id"].(string), 10, 64)
}

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat":       &graphql.Field{Type: graphql.Float},
			"lon":       &graphql.Field{Type: graphql.Float},
			"formatted": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					switch v := p.Source.(type) {
					case domain.GeoPoint:
						return v.String(), nil
					case *domain.GeoPoint:
						return v.String(), nil
					}
					return nil, nil
				},
			},
		},
	})

	boundsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bounds",
		Fields: graphql.Fields{
			"min_lat": &graphql.Field{Type: graphql.Float},
			"min_lon": &graphql.Field{Type: graphql.Float},
			"max_lat": &graphql.Field{Type: graphql.Float},
			"max_lon": &graphql.Field{Type: graphql.Float},
		},
	})

	activityType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PhotoActivity",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.String, Resolve: int64ID(func(s any) int64 { return s.(domain.PhotoActivity).ID })},
			"campaign_id":  &graphql.Field{Type: graphql.String, Resolve: int64ID(func(s any) int64 { return s.(domain.PhotoActivity).CampaignID })},
			"title":        &graphql.Field{Type: graphql.String},
			"date":         &graphql.Field{Type: graphql.String},
			"location":     &graphql.Field{Type: graphql.String},
			"latitude":     &graphql.Field{Type: graphql.Float, Resolve: optFloat(func(a domain.PhotoActivity) *float64 { return a.Latitude })},
			"longitude":    &graphql.Field{Type: graphql.Float, Resolve: optFloat(func(a domain.PhotoActivity) *float64 { return a.Longitude })},
			"accuracy":     &graphql.Field{Type: graphql.Float, Resolve: optFloat(func(a domain.PhotoActivity) *float64 { return a.Accuracy })},
			"submitted_by": &graphql.Field{Type: graphql.String},
			"status":       &graphql.Field{Type: graphql.String},
			"captured_at": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if t := p.Source.(domain.PhotoActivity).CapturedAt; t != nil {
						return t.UTC().Format(time.RFC3339), nil
					}
					return nil, nil
				},
			},
		},
	})

	campaignType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Campaign",
		Fields: graphql.Fields{
			"id": &graphql.Field{Type: graphql.String, Resolve: int64ID(func(s any) int64 {
				if c, ok := s.(*domain.Campaign); ok {
					return c.ID
				}
				return s.(domain.Campaign).ID
			})},
			"name":             &graphql.Field{Type: graphql.String},
			"client_name":      &graphql.Field{Type: graphql.String},
			"campaign_type":    &graphql.Field{Type: graphql.String},
			"description":      &graphql.Field{Type: graphql.String},
			"start_date":       &graphql.Field{Type: graphql.String},
			"end_date":         &graphql.Field{Type: graphql.String},
			"target_locations": &graphql.Field{Type: graphql.String},
			"status":           &graphql.Field{Type: graphql.String},
			"activities":       &graphql.Field{Type: graphql.NewList(activityType)},
		},
	})

	mapViewType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MapView",
		Fields: graphql.Fields{
			"bounding_box": &graphql.Field{Type: boundsType, Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(*usecases.MapResult).View.BoundingBox, nil
			}},
			"marker": &graphql.Field{Type: geoPointType, Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(*usecases.MapResult).View.Marker, nil
			}},
			"source": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (any, error) {
				return string(p.Source.(*usecases.MapResult).View.Source), nil
			}},
			"points": &graphql.Field{Type: graphql.Int, Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(*usecases.MapResult).View.Points, nil
			}},
			"embed_url":    &graphql.Field{Type: graphql.String},
			"span_meters":  &graphql.Field{Type: graphql.Float},
			"search_error": &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"campaigns": &graphql.Field{
				Type:        graphql.NewList(campaignType),
				Description: "List campaigns, optionally filtered",
				Args: graphql.FieldConfigArgument{
					"search": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"type":   &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"status": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"client": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return deps.Campaigns.List(p.Context, domain.CampaignFilter{
						Search:       p.Args["search"].(string),
						CampaignType: p.Args["type"].(string),
						Status:       p.Args["status"].(string),
						Client:       p.Args["client"].(string),
					})
				},
			},
			"campaign": &graphql.Field{
				Type:        campaignType,
				Description: "Get a campaign by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, err := parseIDArg(p)
					if err != nil {
						return nil, err
					}
					return deps.Campaigns.GetByID(p.Context, id)
				},
			},
			"mapView": &graphql.Field{
				Type:        mapViewType,
				Description: "Compose the map viewport for one or all campaigns",
				Args: graphql.FieldConfigArgument{
					"campaign": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "0"},
					"search":   &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, err := strconv.ParseInt(p.Args["campaign"].(string), 10, 64)
					if err != nil {
						return nil, err
					}
					return deps.Maps.View(p.Context, usecases.MapQuery{CampaignID: id, Search: p.Args["search"].(string)})
				},
			},
			"parseCoordinate": &graphql.Field{
				Type:        geoPointType,
				Description: `Parse "lat, lng" or "lat lng"; null for blank input`,
				Args: graphql.FieldConfigArgument{
					"text": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					pt, ok, err := usecases.ParseCoordinate(p.Args["text"].(string))
					if err != nil || !ok {
						return nil, err
					}
					return pt, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string         `json:"query"`
		OperationName string         `json:"operationName"`
		Variables     map[string]any `json:"variables"`
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
