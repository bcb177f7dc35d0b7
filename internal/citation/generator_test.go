package citation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mohammad-safakhou/citer/tools/web_fetch"
	"github.com/mohammad-safakhou/citer/tools/web_fetch/models"
	"github.com/mohammad-safakhou/citer/tools/web_fetch/static"
	"go.uber.org/zap/zaptest"
)

type stubFetcher struct {
	pages map[string]string
	calls int
}

func (s *stubFetcher) Exec(_ context.Context, url string) (models.Result, error) {
	s.calls++
	html, ok := s.pages[url]
	if !ok {
		return models.Result{}, errors.New("dial tcp: connection refused")
	}
	return models.ParseHTML(url, []byte(html), 200)
}

func newTestGenerator(t *testing.T, pages map[string]string) (*Generator, string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), DefaultLogFile)
	g := NewGenerator(&stubFetcher{pages: pages},
		WithClock(func() time.Time { return accessDate }),
		WithLogger(zaptest.NewLogger(t)),
		WithOutputLog(logPath),
	)
	return g, logPath
}

const testPage = `<html><head><title>Test Page</title><meta name="author" content="Jane Doe"></head><body><p>hello</p></body></html>`

func TestGenerateHarvard(t *testing.T) {
	t.Parallel()
	g, _ := newTestGenerator(t, map[string]string{"https://example.com": testPage})

	got := g.Generate(context.Background(), "https://example.com", "harvard")
	want := "Generated HARVARD citation for https://example.com:\n\n" +
		"In-text citation: (Test Page, 2025)\n\n" +
		"Reference list entry:\nTest Page 2025, <em>example.com</em>, viewed 07 March 2025, &lt;https://example.com&gt;."
	if got != want {
		t.Fatalf("Generate() = %q, want %q", got, want)
	}
	rec, ok := g.Lookup("https://example.com", Harvard)
	if !ok || rec.InText != "(Test Page, 2025)" {
		t.Fatalf("Lookup() = %+v, %v", rec, ok)
	}
}

func TestGenerateStyleFallback(t *testing.T) {
	t.Parallel()
	g, _ := newTestGenerator(t, map[string]string{"https://example.com": testPage})
	ctx := context.Background()

	if got := g.Generate(ctx, "https://example.com", ""); !strings.HasPrefix(got, "Generated HARVARD citation") {
		t.Fatalf("Generate(empty style) = %q", got)
	}
	if got := g.Generate(ctx, "https://example.com", "Chaucer"); !strings.HasPrefix(got, "Generated HARVARD citation") {
		t.Fatalf("Generate(unknown style) = %q", got)
	}
	if got := g.Generate(ctx, "https://example.com", "IEEE"); !strings.HasPrefix(got, "Generated IEEE citation") {
		t.Fatalf("Generate(IEEE) = %q", got)
	}
}

func TestGenerateUNSWUsesAuthor(t *testing.T) {
	t.Parallel()
	g, _ := newTestGenerator(t, map[string]string{"https://example.com": testPage})
	g.Generate(context.Background(), "https://example.com", "unsw")

	rec, ok := g.Lookup("https://example.com", UNSW)
	if !ok {
		t.Fatalf("no unsw record stored")
	}
	if rec.InText != "(Jane Doe 2025)" {
		t.Fatalf("InText = %q, want %q", rec.InText, "(Jane Doe 2025)")
	}
	if strings.Contains(rec.InText, "Test Page") {
		t.Fatalf("InText %q contains title", rec.InText)
	}
}

func TestGenerateFetchFailure(t *testing.T) {
	t.Parallel()
	g, _ := newTestGenerator(t, nil)
	ctx := context.Background()

	g.Generate(ctx, "https://dss.gov.au/payments", "unsw")
	rec, _ := g.Lookup("https://dss.gov.au/payments", UNSW)
	if rec.InText != "(Department of Social Services 2025)" {
		t.Fatalf("UNSW InText = %q", rec.InText)
	}
	if !strings.Contains(rec.Reference, "<em>Unknown website</em>, Government, accessed") {
		t.Fatalf("UNSW Reference = %q", rec.Reference)
	}

	g.Generate(ctx, "https://down.example/x", "apa")
	rec, _ = g.Lookup("https://down.example/x", APA)
	if rec.InText != "(Unknown Title, 2025)" {
		t.Fatalf("APA InText = %q", rec.InText)
	}
}

func TestGenerateMissingTitle(t *testing.T) {
	t.Parallel()
	g, _ := newTestGenerator(t, map[string]string{"https://example.com": `<html><body>no title</body></html>`})
	g.Generate(context.Background(), "https://example.com", "vancouver")
	rec, _ := g.Lookup("https://example.com", Vancouver)
	if rec.InText != "(Unknown Title)" {
		t.Fatalf("InText = %q", rec.InText)
	}
}

func TestGenerateLogIdempotent(t *testing.T) {
	t.Parallel()
	g, logPath := newTestGenerator(t, map[string]string{
		"https://example.com":   testPage,
		"https://example.org/a": testPage,
	})
	ctx := context.Background()

	g.Generate(ctx, "https://example.com", "harvard")
	g.Generate(ctx, "https://example.com", "harvard")
	g.Generate(ctx, "https://example.org/a", "harvard")
	g.Generate(ctx, "https://example.com", "mla")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	log := string(data)
	if c := strings.Count(log, "Style: HARVARD\nSource: https://example.com\n"); c != 1 {
		t.Fatalf("harvard blocks for example.com = %d, want 1\n%s", c, log)
	}
	if c := strings.Count(log, "Style: HARVARD\nSource: https://example.org/a\n"); c != 1 {
		t.Fatalf("harvard blocks for example.org = %d, want 1", c)
	}
	if c := strings.Count(log, "Style: MLA\nSource: https://example.com\n"); c != 1 {
		t.Fatalf("mla blocks = %d, want 1", c)
	}
	if strings.Contains(log, "<em>") || strings.Contains(log, "&lt;") {
		t.Fatalf("log contains markup:\n%s", log)
	}

	// A fresh generator on the same log keeps the file free of duplicates.
	g2 := NewGenerator(&stubFetcher{pages: map[string]string{"https://example.com": testPage}},
		WithClock(func() time.Time { return accessDate }),
		WithOutputLog(logPath),
	)
	g2.Generate(ctx, "https://example.com", "harvard")
	data, _ = os.ReadFile(logPath)
	if c := strings.Count(string(data), "Style: HARVARD\nSource: https://example.com\n"); c != 1 {
		t.Fatalf("harvard blocks after second generator = %d, want 1", c)
	}
}

func TestGetAll(t *testing.T) {
	t.Parallel()
	g, _ := newTestGenerator(t, map[string]string{"https://example.com": testPage})
	if got := g.GetAll("harvard"); got != "No citations have been generated yet." {
		t.Fatalf("GetAll() on empty = %q", got)
	}

	ctx := context.Background()
	g.Generate(ctx, "https://example.com", "harvard")
	g.Generate(ctx, "https://missing.example", "mla")

	got := g.GetAll("HARVARD")
	want := "Generated Citations (HARVARD Style):\n\n" +
		"URL: https://example.com\n" +
		"In-text citation: (Test Page, 2025)\n" +
		"Reference: Test Page 2025, <em>example.com</em>, viewed 07 March 2025, &lt;https://example.com&gt;.\n\n" +
		"URL: https://missing.example\n" +
		"Note: No HARVARD citation available for this URL. Generate one first."
	if got != want {
		t.Fatalf("GetAll() = %q, want %q", got, want)
	}
}

func TestClear(t *testing.T) {
	t.Parallel()
	g, logPath := newTestGenerator(t, map[string]string{"https://example.com": testPage})
	if got := g.Clear(); got != "Cleared 0 citation(s)." {
		t.Fatalf("Clear() on empty = %q", got)
	}
	if g.Count() != 0 {
		t.Fatalf("Count() = %d after clear", g.Count())
	}

	ctx := context.Background()
	g.Generate(ctx, "https://example.com", "harvard")
	g.Generate(ctx, "https://example.com", "apa")
	if got := g.Clear(); got != "Cleared 1 citation(s)." {
		t.Fatalf("Clear() = %q", got)
	}
	if _, err := os.Stat(logPath); err != nil {
		t.Fatalf("output log removed by Clear: %v", err)
	}
}

func TestListStyles(t *testing.T) {
	t.Parallel()
	g, _ := newTestGenerator(t, nil)
	got := g.ListStyles()
	for _, line := range []string{
		"Available citation styles:\n\n1. Harvard - Most common in UK/Australia\n",
		"2. UNSW - UNSW Harvard referencing style (University of New South Wales)\n",
		"7. Vancouver - Numeric style (common in medical/scientific fields)\n\n",
	} {
		if !strings.Contains(got, line) {
			t.Fatalf("ListStyles() missing %q", line)
		}
	}
}

func TestExport(t *testing.T) {
	t.Parallel()
	g, _ := newTestGenerator(t, map[string]string{"https://example.com": testPage})
	dir := t.TempDir()
	out := filepath.Join(dir, "citations.txt")

	if got := g.Export("harvard", out); got != "No citations to export. Generate some citations first." {
		t.Fatalf("Export() on empty = %q", got)
	}

	g.Generate(context.Background(), "https://example.com", "harvard")
	got := g.Export("harvard", out)
	if got != "Exported 1 citation(s) to "+out+". You can now copy and paste from the file!" {
		t.Fatalf("Export() = %q", got)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	want := "Citations (HARVARD Style)\n" + strings.Repeat("=", 60) + "\n\n" +
		"Source 1: https://example.com\n" +
		"In-text citation: (Test Page, 2025)\n" +
		"Reference list entry: Test Page 2025, example.com, viewed 07 March 2025, <https://example.com>.\n" +
		"\n" + strings.Repeat("-", 60) + "\n\n"
	if string(data) != want {
		t.Fatalf("export file = %q, want %q", data, want)
	}

	if got := g.Export("ieee", out); got != "Exported 0 citation(s) to "+out+". You can now copy and paste from the file!" {
		t.Fatalf("Export(ieee) = %q", got)
	}
	data, _ = os.ReadFile(out)
	if !strings.HasSuffix(string(data), "No IEEE citations found. Generate citations in this style first.\n") {
		t.Fatalf("export file = %q", data)
	}
}

func TestExportWriteFailure(t *testing.T) {
	t.Parallel()
	g, _ := newTestGenerator(t, map[string]string{"https://example.com": testPage})
	g.Generate(context.Background(), "https://example.com", "harvard")

	got := g.Export("harvard", filepath.Join(t.TempDir(), "missing", "citations.txt"))
	if !strings.HasPrefix(got, "Error exporting citations: ") {
		t.Fatalf("Export() = %q, want error message", got)
	}
	if g.Count() != 1 {
		t.Fatalf("store changed by failed export")
	}
}

func TestDefaultStyle(t *testing.T) {
	t.Parallel()
	g, _ := newTestGenerator(t, nil)
	if g.DefaultStyle() != UNSW {
		t.Fatalf("DefaultStyle() = %q, want unsw", g.DefaultStyle())
	}
	g2 := NewGenerator(&stubFetcher{}, WithDefaultStyle(APA), WithDefaultStyle("bogus"), WithOutputLog(filepath.Join(t.TempDir(), "log.txt")))
	if g2.DefaultStyle() != APA {
		t.Fatalf("DefaultStyle() = %q, want apa", g2.DefaultStyle())
	}
}

func TestNewGeneratorDefaultFetcher(t *testing.T) {
	t.Parallel()
	g := NewGenerator(nil, WithFetchTimeout(3*time.Second), WithOutputLog(filepath.Join(t.TempDir(), "log.txt")))
	f, ok := g.fetcher.(*static.Fetch)
	if !ok {
		t.Fatalf("fetcher = %T, want *static.Fetch", g.fetcher)
	}
	if f.Timeout != 3*time.Second || f.MaxBytes != web_fetch.DefaultMaxBytes {
		t.Fatalf("fetcher = %+v", f)
	}
}
