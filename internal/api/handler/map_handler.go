package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/swacchmap/civic-reports/internal/core/ports"
)

type MapHandler struct {
	geocoder ports.GeocodeService
	points   ports.MapService
}

func NewMapHandler(geocoder ports.GeocodeService, points ports.MapService) *MapHandler {
	return &MapHandler{geocoder: geocoder, points: points}
}

// Geocode handles GET /v1/geocode.
//
// @Summary      Resolve a location to coordinates
// @Tags         map
// @Produce      json
// @Param        q      query     string  true   "Free-text location"
// @Param        fresh  query     bool    false  "Skip the cache"
// @Success      200    {object}  geocodeResponse
// @Failure      400    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /v1/geocode [get]
func (h *MapHandler) Geocode(c echo.Context) error {
	location := strings.TrimSpace(c.QueryParam("q"))
	if location == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}
	fresh, _ := strconv.ParseBool(c.QueryParam("fresh"))

	lookup := h.geocoder.GeocodeCached
	if fresh {
		lookup = h.geocoder.GeocodeUncached
	}

	coords := lookup(c.Request().Context(), location)
	if coords == nil {
		return echo.NewHTTPError(http.StatusNotFound, "location not found")
	}
	return c.JSON(http.StatusOK, geocodeResponse{Location: location, Coordinates: *coords})
}

// Points handles GET /v1/map.
//
// @Summary      Geocoded reports for the map view
// @Tags         map
// @Produce      json
// @Success      200  {object}  mapResponse
// @Router       /v1/map [get]
func (h *MapHandler) Points(c echo.Context) error {
	points, err := h.points.Points(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapResponse{Points: points})
}
