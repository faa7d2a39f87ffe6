package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/swacchmap/civic-reports/internal/core/domain"
	"github.com/swacchmap/civic-reports/internal/core/ports"
)

// legacyReportID in the path selects a report by its legacy composite key.
const legacyReportID = "-"

type ReportHandler struct {
	service ports.ReportService
}

func NewReportHandler(service ports.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Submit handles POST /v1/reports.
//
// @Summary      Submit a cleanliness report
// @Tags         reports
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        location     formData  string  true   "Where the problem is"
// @Param        description  formData  string  true   "What the problem is"
// @Param        image        formData  file    false  "JPEG or PNG photo"
// @Success      201          {object}  domain.Report
// @Failure      400          {object}  errorResponse
// @Failure      422          {object}  errorResponse
// @Router       /v1/reports [post]
func (h *ReportHandler) Submit(c echo.Context) error {
	var req submitReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	username, _ := currentUser(c)
	in := ports.SubmitReportInput{
		Username:    username,
		Location:    req.Location,
		Description: req.Description,
	}

	fh, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid image upload")
	default:
		f, err := fh.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid image upload")
		}
		defer f.Close()
		in.Image = &ports.ImageUpload{Filename: fh.Filename, Content: f}
	}

	report, err := h.service.Submit(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, report)
}

// List handles GET /v1/reports.
//
// @Summary      List reports, newest first
// @Tags         reports
// @Produce      json
// @Param        status  query     string  false  "Pending, In Progress or Resolved"
// @Param        q       query     string  false  "Search location or username"
// @Success      200     {object}  listReportsResponse
// @Failure      400     {object}  errorResponse
// @Router       /v1/reports [get]
func (h *ReportHandler) List(c echo.Context) error {
	reports, err := h.service.List(c.Request().Context(), ports.ReportFilter{
		Status: domain.ReportStatus(c.QueryParam("status")),
		Search: c.QueryParam("q"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listReportsResponse{Reports: reports, Count: len(reports)})
}

// UpdateStatus handles PATCH /v1/reports/:id/status.
//
// @Summary      Change a report's status
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Report id, or - to use the legacy key in the body"
// @Param        body  body      updateStatusRequest  true  "New status"
// @Success      200   {object}  domain.Report
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/reports/{id}/status [patch]
func (h *ReportHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	ref := domain.ReportRef{ID: c.Param("id")}
	if ref.ID == legacyReportID {
		ref = domain.ReportRef{Username: req.Username, Timestamp: req.Timestamp, Location: req.Location}
	}

	report, err := h.service.UpdateStatus(c.Request().Context(), ref, domain.ReportStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}
