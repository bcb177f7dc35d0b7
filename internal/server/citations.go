package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/mohammad-safakhou/citer/internal/citation"
	"github.com/mohammad-safakhou/citer/internal/helpers"
)

const batchRule = 60

// CitationsHandler serves stateless batch generation.
type CitationsHandler struct {
	deps         Deps
	maxURLs      int
	defaultStyle citation.Style
}

func NewCitationsHandler(d Deps) *CitationsHandler {
	style, ok := citation.ParseStyle(d.Config.Server.DefaultStyle)
	if !ok {
		style = citation.UNSW
	}
	maxURLs := d.Config.Server.MaxURLs
	if maxURLs <= 0 {
		maxURLs = 50
	}
	return &CitationsHandler{deps: d, maxURLs: maxURLs, defaultStyle: style}
}

func (h *CitationsHandler) Register(g *echo.Group) {
	g.POST("/generate", h.generate)
	g.GET("/styles", h.styles)
}

// generate renders every URL with a fresh Generator and returns the results
// as a plain-text attachment.
func (h *CitationsHandler) generate(c echo.Context) error {
	var req GenerateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	style, err := h.resolveStyle(req.Style)
	if err != nil {
		return err
	}
	if err := h.validateURLs(req.URLs); err != nil {
		return err
	}

	gen := h.deps.newGenerator(style)
	ctx := c.Request().Context()
	entries := make([]batchEntry, 0, len(req.URLs))
	for _, u := range req.URLs {
		gen.Generate(ctx, u, string(style))
		entries = append(entries, batchEntryFor(gen, u, style))
	}

	body := buildBatchText(entries, style)
	filename := fmt.Sprintf("citations_%s_%d.txt", style, len(entries))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, []byte(body))
}

func (h *CitationsHandler) styles(c echo.Context) error {
	return c.JSON(http.StatusOK, citation.Styles())
}

func (h *CitationsHandler) resolveStyle(raw string) (citation.Style, error) {
	if strings.TrimSpace(raw) == "" {
		return h.defaultStyle, nil
	}
	style, ok := citation.ParseStyle(raw)
	if !ok {
		return "", echo.NewHTTPError(http.StatusUnprocessableEntity, fmt.Sprintf("unsupported style %q", raw))
	}
	return style, nil
}

func (h *CitationsHandler) validateURLs(urls []string) error {
	if len(urls) == 0 {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "At least one URL is required")
	}
	if len(urls) > h.maxURLs {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, fmt.Sprintf("Maximum %d URLs allowed per request", h.maxURLs))
	}
	for _, raw := range urls {
		if !isHTTPURL(raw) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, fmt.Sprintf("invalid URL %q", raw))
		}
	}
	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

type batchEntry struct {
	URL       string
	InText    string
	Reference string
}

func batchEntryFor(gen *citation.Generator, source string, style citation.Style) batchEntry {
	if rec, ok := gen.Lookup(source, style); ok {
		return batchEntry{
			URL:       source,
			InText:    helpers.StripHTMLTags(rec.InText),
			Reference: helpers.StripHTMLTags(rec.Reference),
		}
	}
	return batchEntry{
		URL:       source,
		InText:    "(Citation generation failed)",
		Reference: fmt.Sprintf("Error: Could not generate %s citation for %s. The citation engine returned no result.", style, source),
	}
}

func buildBatchText(entries []batchEntry, style citation.Style) string {
	lines := []string{
		"Citations Output",
		strings.Repeat("=", batchRule),
		"Style: " + strings.ToUpper(string(style)),
		fmt.Sprintf("Total Citations: %d", len(entries)),
		"",
		"",
	}
	for i, e := range entries {
		lines = append(lines,
			fmt.Sprintf("Source %d: %s", i+1, e.URL),
			"In-text citation: "+e.InText,
			"Reference list entry: "+e.Reference,
			"",
			strings.Repeat("-", batchRule),
			"",
		)
	}
	return strings.Join(lines, "\n")
}
