package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const apiVersion = "1.0.0"

// registerInfo serves the endpoint catalogue at the root.
func registerInfo(e *echo.Echo) {
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"name":        "citer API",
			"version":     apiVersion,
			"description": "Academic citation generator",
			"endpoints": map[string]string{
				"generate_citations": "POST /api/citations/generate (returns .txt file)",
				"list_styles":        "GET /api/citations/styles",
				"sessions":           "POST /api/sessions",
				"health":             "GET /healthz",
				"metrics":            "GET /metrics",
			},
		})
	})
}
