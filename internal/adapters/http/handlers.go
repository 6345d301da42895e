package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/garagehub/internal/core/domain"
	"github.com/samirrijal/garagehub/internal/core/usecases"
)

// NearbyResponse is the body of a radius search.
type NearbyResponse struct {
	Success bool            `json:"success"`
	Garages []domain.Garage `json:"garages"`
	Count   int             `json:"count"`
	Center  domain.GeoPoint `json:"center"`
	Radius  float64         `json:"radius"`
}

// GaragesResponse is the body of a by-service listing.
type GaragesResponse struct {
	Success bool            `json:"success"`
	Garages []domain.Garage `json:"garages"`
}

// NearbyGaragesHandler returns garages within radius km of a point, nearest first.
func NearbyGaragesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, hasLat, okLat := queryFloat(c, "latitude")
		lon, hasLon, okLon := queryFloat(c, "longitude")
		if !hasLat || !hasLon {
			return errBadRequest(c, "Latitude and longitude are required")
		}

		radius, hasRadius, okRadius := queryFloat(c, "radius")
		if !okLat || !okLon || !okRadius {
			return errBadRequest(c, "Invalid latitude, longitude, or radius values")
		}
		if !hasRadius {
			radius = deps.defaultRadius()
		}

		center := domain.GeoPoint{Latitude: lat, Longitude: lon}
		garages, err := deps.Garages.FindNear(c.UserContext(), usecases.NearQuery{
			Center:    center,
			RadiusKm:  radius,
			ServiceID: c.Query("serviceId"),
		})
		if err != nil {
			return writeError(c, err, "")
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(NearbyResponse{
			Success: true,
			Garages: garages,
			Count:   len(garages),
			Center:  center,
			Radius:  radius,
		})
	}
}

// GaragesByServiceHandler returns the garages offering a service, ordered by
// distance when latitude and longitude are supplied.
func GaragesByServiceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		center, msg := optionalCenter(c)
		if msg != "" {
			return errBadRequest(c, msg)
		}

		garages, err := deps.Garages.ListByService(c.UserContext(), c.Params("serviceId"), center)
		if err != nil {
			return writeError(c, err, "Service not found")
		}

		c.Set("Cache-Control", "public, max-age=120")
		return c.JSON(GaragesResponse{Success: true, Garages: garages})
	}
}

// ListGaragesHandler returns a page of garages in catalogue order.
func ListGaragesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		garages, err := deps.Garages.List(c.UserContext())
		if err != nil {
			return writeError(c, err, "")
		}

		return writePage(c, garages, requestedPage(c, len(garages)))
	}
}

// GetGarageHandler returns a single garage by ID.
func GetGarageHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		garage, err := deps.Garages.GetByID(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, err, "Garage not found")
		}
		return c.JSON(fiber.Map{"success": true, "garage": garage})
	}
}

// GarageRouteHandler returns the route overlay from the caller's position to a garage.
func GarageRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, msg := optionalCenter(c)
		if msg != "" {
			return errBadRequest(c, msg)
		}
		if from == nil {
			return errBadRequest(c, "Latitude and longitude are required")
		}

		overlay, err := deps.Routes.PlanToGarage(c.UserContext(), c.Params("id"), *from)
		if err != nil {
			return writeError(c, err, "Garage not found")
		}

		c.Set("Cache-Control", "private, max-age=30")
		return c.JSON(fiber.Map{"success": true, "route": overlay})
	}
}

// ListServicesHandler returns the service catalogue.
func ListServicesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		services, err := deps.Catalog.List(c.UserContext())
		if err != nil {
			return writeError(c, err, "")
		}
		return c.JSON(fiber.Map{"success": true, "services": services})
	}
}

// GetServiceHandler returns a single service by ID.
func GetServiceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		service, err := deps.Catalog.GetByID(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, err, "Service not found")
		}
		return c.JSON(fiber.Map{"success": true, "service": service})
	}
}
