package httpapi

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/aviapedia/flight-tracker/internal/flight"
)

var validate = validator.New()

// trackerRequest is the inbound body. The two request shapes are mutually
// exclusive: a flight identifier, or an origin/destination pair.
type trackerRequest struct {
	FlightNumber  string `json:"flightNumber"`
	AircraftModel string `json:"aircraftModel"`
	Departure     string `json:"departure"`
	Arrival       string `json:"arrival"`
}

// identifierQuery validates identifier-mode requests.
type identifierQuery struct {
	FlightNumber string `validate:"required"`
}

// routeQuery validates route-mode requests.
type routeQuery struct {
	Departure string `validate:"required"`
	Arrival   string `validate:"required"`
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *flight.Service) {
	v1 := app.Group("/api/v1")

	v1.Post("/flight-tracker", func(c *fiber.Ctx) error {
		var req trackerRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		q, err := bindQuery(req)
		if err != nil {
			return err
		}

		res := service.Resolve(c.UserContext(), q)
		switch {
		case res.Route != nil:
			return c.JSON(res.Route)
		case res.NotFound != nil:
			return c.Status(fiber.StatusNotFound).JSON(res.NotFound)
		default:
			return c.JSON(res.Flight)
		}
	})
}

// bindQuery picks the request mode and validates its required fields. A
// request carrying a flight number is identifier-mode; otherwise both route
// endpoints must be present.
func bindQuery(req trackerRequest) (flight.Query, error) {
	q := flight.Query{
		FlightNumber:  strings.TrimSpace(req.FlightNumber),
		AircraftModel: strings.TrimSpace(req.AircraftModel),
		Departure:     strings.TrimSpace(req.Departure),
		Arrival:       strings.TrimSpace(req.Arrival),
	}

	if q.FlightNumber != "" {
		if err := validate.Struct(identifierQuery{FlightNumber: q.FlightNumber}); err != nil {
			return q, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		q.Departure, q.Arrival = "", ""
		return q, nil
	}

	if err := validate.Struct(routeQuery{Departure: q.Departure, Arrival: q.Arrival}); err != nil {
		return q, fiber.NewError(fiber.StatusBadRequest, "flightNumber, or departure and arrival, are required")
	}
	return q, nil
}
