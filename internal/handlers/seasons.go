// Package handlers contains the HTTP route handlers for the Season API.
// This file handles the /season routes: listing, reading, creating, replacing,
// patching and deleting season records.
//
// Each exported function follows the "handler factory" pattern: it takes its
// dependencies (the season service, the validator) and returns a fiber.Handler.
// Domain errors from the service are turned into status codes here; anything else
// is returned to fiber's ErrorHandler, which answers 500.
package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dmv-footballheadz/season-api/internal/models"
	"github.com/dmv-footballheadz/season-api/internal/service"
	"github.com/dmv-footballheadz/season-api/internal/validation"
)

// SeasonService is the part of service.SeasonService the handlers call.
type SeasonService interface {
	Read(ctx context.Context, id string) (models.Season, error)
	Create(ctx context.Context, season models.Season) (models.Season, error)
	Replace(ctx context.Context, newData models.Season) (models.Season, error)
	Update(ctx context.Context, newData models.Season) (models.Season, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Season, error)
	ListByYear(ctx context.Context, year string) ([]models.Season, error)
}

var _ SeasonService = (*service.SeasonService)(nil)

// yearParam is the query key that switches the list route to the filtered listing.
const yearParam = "year"

// ListSeasons returns a handler for GET /season.
//   - Without a year query parameter every season is returned.
//   - With ?year=YYYY only that year's seasons are returned; a year that is not four digits is a 400.
//
// An empty result is answered with 204 No Content.
func ListSeasons(svc SeasonService, v *validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			seasons []models.Season
			err     error
		)

		// "?year=" with no value still takes the filtered branch and fails validation.
		if c.Context().QueryArgs().Has(yearParam) {
			year := c.Query(yearParam)
			if !v.IsValidYear(year) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "year must be four digits",
				})
			}
			seasons, err = svc.ListByYear(c.UserContext(), year)
		} else {
			seasons, err = svc.List(c.UserContext())
		}
		if err != nil {
			return err
		}

		if len(seasons) == 0 {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.JSON(seasons)
	}
}

// GetSeason returns a handler for GET /season/:id.
func GetSeason(svc SeasonService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		season, err := svc.Read(c.UserContext(), c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(season)
	}
}

// CreateSeason returns a handler for POST /season.
// The body must carry a non-blank id; an id that is already stored is a 409.
func CreateSeason(svc SeasonService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var season models.Season
		if err := c.BodyParser(&season); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
		if !season.HasID() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "id is required",
			})
		}

		created, err := svc.Create(c.UserContext(), season)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

// ReplaceSeason returns a handler for PUT /season/:id.
// Every field of the stored season is overwritten by the body, including with empty values.
func ReplaceSeason(svc SeasonService) fiber.Handler {
	return writeHandler(svc.Replace)
}

// PatchSeason returns a handler for PATCH /season/:id.
// Only the fields present in the body overwrite the stored season.
func PatchSeason(svc SeasonService) fiber.Handler {
	return writeHandler(svc.Update)
}

// DeleteSeason returns a handler for DELETE /season/:id. It answers 204 or 404.
func DeleteSeason(svc SeasonService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// writeHandler is shared by PUT and PATCH. The id in the path always wins over the id in the body.
func writeHandler(write func(context.Context, models.Season) (models.Season, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var season models.Season
		if err := c.BodyParser(&season); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
		season.ID = c.Params("id")

		saved, err := write(c.UserContext(), season)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(saved)
	}
}

// respondError maps domain errors onto status codes. A *validation.Error comes from the
// service's write check (strict mode) and lists the offending fields.
// Unknown errors go to the app's ErrorHandler.
func respondError(c *fiber.Ctx, err error) error {
	var invalid *validation.Error
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &invalid):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  err.Error(),
			"fields": invalid.Fields,
		})
	default:
		return err
	}
}
