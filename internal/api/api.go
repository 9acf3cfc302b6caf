// Package api serves statement analysis over HTTP.
package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cleared-dev/tally/internal/aggregate"
	"github.com/cleared-dev/tally/internal/buildinfo"
	"github.com/cleared-dev/tally/internal/directory"
	"github.com/cleared-dev/tally/internal/logger"
	"github.com/cleared-dev/tally/internal/parser"
	"github.com/cleared-dev/tally/internal/source"
)

// Handler holds what the routes need. Both the aggregator and the directory
// are shared read-only across requests.
type Handler struct {
	Aggregator *aggregate.Aggregator
	Directory  *directory.Directory
	Log        zerolog.Logger
}

// NewApp builds the fiber app with all routes registered.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "tally",
		DisableStartupMessage: true,
	})
	app.Get("/api/health", h.HandleHealth)
	app.Get("/api/directory", h.HandleDirectory)
	app.Post("/api/analyze", h.HandleAnalyze)
	return app
}

// HandleHealth reports liveness and version.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// HandleDirectory lists the counterparty directory in lookup order.
func (h *Handler) HandleDirectory(c *fiber.Ctx) error {
	entries := h.Directory.All()
	out := make([]CounterpartyJSON, len(entries))
	for i, e := range entries {
		out[i] = CounterpartyJSON{Shorthand: e.Shorthand, Name: e.Name, Category: e.Category}
	}
	return c.JSON(out)
}

// HandleAnalyze runs one statement given as already-extracted page text.
func (h *Handler) HandleAnalyze(c *fiber.Ctx) error {
	var req AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body: " + err.Error()})
	}

	src := &source.Text{
		SummaryText: source.Collapse(req.Summary),
		PageTexts:   make([]string, len(req.Pages)),
	}
	for i, p := range req.Pages {
		src.PageTexts[i] = source.Collapse(p)
	}

	runID := uuid.New()
	log := h.Log.With().Str("run_id", runID.String()).Logger()
	ctx := logger.WithContext(c.UserContext(), log)

	res, err := h.Aggregator.Run(ctx, src)
	if err != nil {
		if errors.Is(err, parser.ErrMalformedRecord) {
			log.Warn().Err(err).Msg("statement rejected")
			return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Error: err.Error(), RunID: runID.String()})
		}
		log.Error().Err(err).Msg("analyze failed")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error(), RunID: runID.String()})
	}

	log.Info().Int("records", len(res.Records)).Msg("statement analyzed")
	return c.JSON(NewAnalyzeResponse(runID, res))
}
