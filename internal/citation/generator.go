package citation

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mohammad-safakhou/citer/internal/helpers"
	"github.com/mohammad-safakhou/citer/internal/metadata"
	"github.com/mohammad-safakhou/citer/tools/web_fetch"
	"github.com/mohammad-safakhou/citer/tools/web_fetch/static"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Generator fetches pages, renders citations and keeps them for listing and
// export. Every Generate also appends to the output log. A Generator owns its
// store and is not safe for concurrent use; construct one per caller.
type Generator struct {
	fetcher      web_fetch.WebFetcher
	extractor    *metadata.Extractor
	store        *Store
	log          *OutputLog
	logPath      string
	index        Index
	now          func() time.Time
	timeout      time.Duration
	defaultStyle Style
	logger       *zap.Logger
}

type Option func(*Generator)

// WithClock overrides the access-date source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithOutputLog sets the append-only log path.
func WithOutputLog(path string) Option {
	return func(g *Generator) { g.logPath = path }
}

// WithIndex adds a structured dedup index next to the log scan.
func WithIndex(idx Index) Option {
	return func(g *Generator) { g.index = idx }
}

// WithFetchTimeout bounds each page fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithDefaultStyle sets the style front-ends fall back to.
func WithDefaultStyle(s Style) Option {
	return func(g *Generator) {
		if _, ok := rules[s]; ok {
			g.defaultStyle = s
		}
	}
}

// NewGenerator builds a Generator around fetcher. A nil fetcher means the
// plain HTTP fetcher with default limits.
func NewGenerator(fetcher web_fetch.WebFetcher, opts ...Option) *Generator {
	g := &Generator{
		fetcher:      fetcher,
		store:        NewStore(),
		logPath:      DefaultLogFile,
		now:          time.Now,
		timeout:      web_fetch.DefaultTimeout,
		defaultStyle: UNSW,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.fetcher == nil {
		g.fetcher = static.New(g.timeout, web_fetch.DefaultMaxBytes, web_fetch.DefaultUserAgent)
	}
	g.logger = g.logger.Named("citation")
	g.extractor = metadata.New(g.logger)
	g.log = NewOutputLog(g.logPath, g.index, g.logger)
	return g
}

// DefaultStyle is the style front-ends use when the caller names none.
func (g *Generator) DefaultStyle() Style { return g.defaultStyle }

// Generate renders url in style, stores the record and appends it to the
// output log. An empty style means Harvard; an unknown one falls back to it.
// Fetch and log failures are absorbed; the returned summary is always usable.
func (g *Generator) Generate(ctx context.Context, url, style string) string {
	start := time.Now()
	if style == "" {
		style = string(Harvard)
	}
	st, rule := RuleFor(style)

	ctx, span := tracer.Start(ctx, "citation.generate", trace.WithAttributes(
		attribute.String("citation.style", string(st)),
		attribute.String("citation.url", url),
	))
	defer span.End()

	title, doc := g.fetchPage(ctx, url)
	in := Input{
		Title:      title,
		Domain:     helpers.Host(url),
		URL:        url,
		AccessDate: g.now(),
	}
	if rule.NeedsAuthor {
		res := g.extractor.Extract(metadata.ExtractionContext{Document: doc, Domain: in.Domain})
		in.Author = res.Author
		span.SetAttributes(attribute.String("citation.author_strategy", res.Strategy))
	}

	rec := rule.Render(in)
	g.store.Put(url, st, rec)
	citationsGenerated.WithLabelValues(string(st)).Inc()

	g.appendLog(ctx, st)
	generateDuration.WithLabelValues(string(st)).Observe(time.Since(start).Seconds())

	return fmt.Sprintf("Generated %s citation for %s:\n\nIn-text citation: %s\n\nReference list entry:\n%s",
		strings.ToUpper(string(st)), url, rec.InText, rec.Reference)
}

// fetchPage returns the page title and document, or the fetch-error title and
// a nil document.
func (g *Generator) fetchPage(ctx context.Context, url string) (string, *goquery.Document) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	res, err := g.fetcher.Exec(ctx, url)
	if err != nil {
		fetchFailures.Inc()
		span := trace.SpanFromContext(ctx)
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		g.logger.Warn("fetch failed", zap.String("url", url), zap.Error(err))
		return FetchErrorTag + " " + err.Error(), nil
	}
	title := strings.TrimSpace(res.Title)
	if title == "" {
		title = NoTitleFound
	}
	return title, res.Document
}

// appendLog writes every stored record of style not already in the log.
func (g *Generator) appendLog(ctx context.Context, st Style) {
	n, err := g.log.Append(ctx, st, g.store.Entries(st))
	switch {
	case err != nil:
		logAppends.WithLabelValues("error").Inc()
		g.logger.Warn("output log append failed", zap.String("path", g.log.Path()), zap.Error(err))
	case n == 0:
		logAppends.WithLabelValues("duplicate").Inc()
	default:
		logAppends.WithLabelValues("written").Inc()
		g.logger.Debug("output log appended", zap.Int("blocks", n), zap.String("style", string(st)))
	}
}

// GetAll lists every stored source in style. Sources without a record in that
// style get a note instead.
func (g *Generator) GetAll(style string) string {
	if g.store.Len() == 0 {
		return "No citations have been generated yet."
	}
	st := normalizeStyle(style)
	label := strings.ToUpper(string(st))

	var b strings.Builder
	fmt.Fprintf(&b, "Generated Citations (%s Style):\n\n", label)
	for _, src := range g.store.Sources() {
		b.WriteString("URL: " + src + "\n")
		if rec, ok := g.store.Get(src, st); ok {
			b.WriteString("In-text citation: " + rec.InText + "\n")
			b.WriteString("Reference: " + rec.Reference + "\n\n")
			continue
		}
		fmt.Fprintf(&b, "Note: No %s citation available for this URL. Generate one first.\n\n", label)
	}
	return strings.TrimSpace(b.String())
}

// ListStyles is the human-readable catalogue.
func (g *Generator) ListStyles() string {
	var b strings.Builder
	b.WriteString("Available citation styles:\n\n")
	for i, st := range catalogue {
		r := rules[st]
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, r.Label, r.Summary)
	}
	b.WriteString("\nSpecify the style when generating citations, e.g., 'Generate a UNSW citation for...' or 'Generate a Harvard citation for...'")
	return b.String()
}

// Clear drops every stored record. The output log is untouched.
func (g *Generator) Clear() string {
	return fmt.Sprintf("Cleared %d citation(s).", g.store.Clear())
}

// Export overwrites filename with a numbered listing of the records in style.
// Write failures are reported in the returned message.
func (g *Generator) Export(style, filename string) string {
	if g.store.Len() == 0 {
		return "No citations to export. Generate some citations first."
	}
	if filename == "" {
		filename = DefaultExportFile
	}
	st := normalizeStyle(style)
	label := strings.ToUpper(string(st))

	var b strings.Builder
	fmt.Fprintf(&b, "Citations (%s Style)\n", label)
	b.WriteString(strings.Repeat("=", ruleWidth) + "\n\n")
	entries := g.store.Entries(st)
	for i, e := range entries {
		fmt.Fprintf(&b, "Source %d: %s\n", i+1, e.URL)
		writeRecordLines(&b, e.Record)
	}
	if len(entries) == 0 {
		fmt.Fprintf(&b, "No %s citations found. Generate citations in this style first.\n", label)
	}

	if err := os.WriteFile(filename, []byte(b.String()), 0o644); err != nil {
		g.logger.Warn("export failed", zap.String("file", filename), zap.Error(err))
		return fmt.Sprintf("Error exporting citations: %v", err)
	}
	return fmt.Sprintf("Exported %d citation(s) to %s. You can now copy and paste from the file!", len(entries), filename)
}

// Lookup returns the stored record for (source, style).
func (g *Generator) Lookup(source string, style Style) (Record, bool) {
	return g.store.Get(source, style)
}

func (g *Generator) Count() int { return g.store.Len() }

// normalizeStyle lower-cases style for lookups. Unknown names are kept so
// listings can report that nothing exists under them.
func normalizeStyle(style string) Style {
	style = strings.ToLower(strings.TrimSpace(style))
	if style == "" {
		return Harvard
	}
	return Style(style)
}
