package http

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"weather-records/internal/models"
	"weather-records/internal/services/export"
	"weather-records/internal/services/records"
	"weather-records/internal/storage"
)

var validate = validator.New()

// DataResponse is the success envelope.
type DataResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
}

// CreateRecordRequest is the full creation payload.
type CreateRecordRequest struct {
	Location  string `json:"location" validate:"required"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// GetHealth godoc
// @Summary Service health
// @Tags Records
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /api/health [get]
func (r *routes) handleHealth(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{OK: true, Service: r.serviceName})
}

// ListRecords godoc
// @Summary List weather records, newest first
// @Tags Records
// @Produce json
// @Success 200 {object} DataResponse
// @Router /api/records [get]
func (r *routes) handleListRecords(c *fiber.Ctx) error {
	recs, err := r.service.List(c.Context())
	if err != nil {
		return r.fail(c, err)
	}

	return c.JSON(DataResponse{OK: true, Data: recs})
}

// CreateRecord godoc
// @Summary Create a weather record
// @Description Geocodes the location, averages daily temperature extremes over the range and persists the result.
// @Tags Records
// @Accept json
// @Produce json
// @Param request body CreateRecordRequest true "Location and date range"
// @Success 201 {object} DataResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/records [post]
func (r *routes) handleCreateRecord(c *fiber.Ctx) error {
	var req CreateRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid JSON body"})
	}

	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: requestErrorMessage(err)})
	}

	rec, err := r.service.Create(c.Context(), records.CreateInput{
		Location:  req.Location,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		return r.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(DataResponse{OK: true, Data: rec})
}

// UpdateRecord godoc
// @Summary Update a weather record
// @Description Applies a partial patch, re-validates the merged date pair and re-resolves geocoding and weather.
// @Tags Records
// @Accept json
// @Produce json
// @Param id path int true "Record id"
// @Param request body models.RecordPatch true "Any subset of location, start_date, end_date"
// @Success 200 {object} DataResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/records/{id} [put]
func (r *routes) handleUpdateRecord(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "record not found"})
	}

	var patch models.RecordPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid JSON body"})
	}

	rec, err := r.service.Update(c.Context(), id, patch)
	if err != nil {
		return r.fail(c, err)
	}

	return c.JSON(DataResponse{OK: true, Data: rec})
}

// DeleteRecord godoc
// @Summary Delete a weather record
// @Tags Records
// @Produce json
// @Param id path int true "Record id"
// @Success 200 {object} DataResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/records/{id} [delete]
func (r *routes) handleDeleteRecord(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "record not found"})
	}

	if err := r.service.Delete(c.Context(), id); err != nil {
		return r.fail(c, err)
	}

	return c.JSON(DataResponse{OK: true})
}

// ExportRecords godoc
// @Summary Export all records as a file download
// @Description Serializes every record oldest-first to csv, json or markdown.
// @Tags Records
// @Produce plain
// @Param format query string false "csv | json | md (default csv)"
// @Success 200 {string} string "file attachment"
// @Router /api/export [get]
func (r *routes) handleExport(c *fiber.Ctx) error {
	recs, err := r.service.ListForExport(c.Context())
	if err != nil {
		return r.fail(c, err)
	}

	data, mimeType, ext, err := export.Encode(recs, c.Query("format", export.FormatCSV))
	if err != nil {
		return r.fail(c, err)
	}

	c.Set(fiber.HeaderContentType, mimeType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename=weather_export.`+ext)

	return c.Send(data)
}

// fail maps service errors onto the envelope contract: 404 for unknown ids,
// 400 for validation and upstream failures, 500 otherwise.
func (r *routes) fail(c *fiber.Ctx, err error) error {
	var vErr *records.ValidationError
	var uErr *records.UpstreamError

	switch {
	case errors.Is(err, storage.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "record not found"})
	case errors.As(err, &vErr), errors.As(err, &uErr):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	default:
		r.l.Error(err, map[string]any{
			"path":       c.Path(),
			"method":     c.Method(),
			"request_id": c.Locals("X-Request-Id"),
		})
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal server error"})
	}
}

// requestErrorMessage translates validator failures into the messages the
// service would produce for the same input.
func requestErrorMessage(err error) string {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) && len(vErrs) > 0 {
		switch vErrs[0].Field() {
		case "Location":
			return "location is required"
		default:
			return "date must be YYYY-MM-DD"
		}
	}

	return err.Error()
}
