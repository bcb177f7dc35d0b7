package citation

import (
	"strings"
	"testing"
	"time"

	"github.com/mohammad-safakhou/citer/internal/helpers"
)

var accessDate = time.Date(2025, time.March, 7, 10, 30, 0, 0, time.UTC)

func TestFormatStyles(t *testing.T) {
	t.Parallel()
	in := Input{
		Title:      "Test Page",
		Domain:     "example.com",
		URL:        "https://example.com",
		AccessDate: accessDate,
		Author:     "Jane Doe",
	}
	tests := []struct {
		style   Style
		intext  string
		refText string
	}{
		{Harvard, "(Test Page, 2025)", "Test Page 2025, <em>example.com</em>, viewed 07 March 2025, &lt;https://example.com&gt;."},
		{UNSW, "(Jane Doe 2025)", "Jane Doe 2025, <em>Test Page</em>, accessed 07 March 2025, &lt;https://example.com&gt;."},
		{MLA, `("Test Page")`, `"Test Page." <em>example.com</em>, 07 Mar. 2025, https://example.com.`},
		{Chicago, "(Test Page, March 07, 2025)", `"Test Page." example.com. Accessed March 07, 2025. https://example.com.`},
		{APA, "(Test Page, 2025)", "Test Page. (2025, March 07). <em>example.com</em>. https://example.com"},
		{IEEE, "[Test Page]", `"Test Page," example.com, 07 March 2025. [Online]. Available: https://example.com`},
		{Vancouver, "(Test Page)", "Test Page [Internet]. example.com; 07 March 2025 [cited 07 March 2025]. Available from: https://example.com"},
	}
	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			t.Parallel()
			st, rec := Format(string(tt.style), in)
			if st != tt.style {
				t.Fatalf("Format() style = %q, want %q", st, tt.style)
			}
			if rec.InText != tt.intext {
				t.Fatalf("InText = %q, want %q", rec.InText, tt.intext)
			}
			if rec.Reference != tt.refText {
				t.Fatalf("Reference = %q, want %q", rec.Reference, tt.refText)
			}
		})
	}
}

func TestFormatSentinelTitles(t *testing.T) {
	t.Parallel()
	sentinels := []string{"", NoTitleFound, FetchErrorTag + " dial tcp: connection refused"}
	for _, st := range Styles() {
		for _, title := range sentinels {
			in := Input{Title: title, Domain: "example.com", URL: "https://example.com", AccessDate: accessDate, Author: "Example"}
			_, rec := Format(string(st), in)

			if title != "" && (strings.Contains(rec.InText, title) || strings.Contains(rec.Reference, title)) {
				t.Fatalf("%s: sentinel %q leaked into %+v", st, title, rec)
			}
			if st == UNSW {
				if !strings.Contains(rec.Reference, "<em>"+unknownWebsite+"</em>") {
					t.Fatalf("%s: Reference = %q, want placeholder %q", st, rec.Reference, unknownWebsite)
				}
				if rec.InText != "(Example 2025)" {
					t.Fatalf("%s: InText = %q", st, rec.InText)
				}
				continue
			}
			if !strings.Contains(rec.InText, unknownTitle) || !strings.Contains(rec.Reference, unknownTitle) {
				t.Fatalf("%s: placeholder missing in %+v", st, rec)
			}
		}
	}
}

func TestUNSWInTextOmitsTitle(t *testing.T) {
	t.Parallel()
	_, rec := Format("UNSW", Input{
		Title:      "Completely Different Headline",
		Domain:     "news.example.com",
		URL:        "https://news.example.com/a",
		AccessDate: accessDate,
		Author:     "Alex Writer",
	})
	if rec.InText != "(Alex Writer 2025)" {
		t.Fatalf("InText = %q, want %q", rec.InText, "(Alex Writer 2025)")
	}
	if strings.Contains(rec.InText, "Headline") {
		t.Fatalf("InText %q contains the page title", rec.InText)
	}
}

func TestUNSWSponsor(t *testing.T) {
	t.Parallel()
	_, rec := Format(string(UNSW), Input{
		Title:      "Payments",
		Domain:     "www.dss.gov.au",
		URL:        "https://www.dss.gov.au/payments",
		AccessDate: accessDate,
		Author:     "Department of Social Services",
	})
	want := "Department of Social Services 2025, <em>Payments</em>, Government, accessed 07 March 2025, &lt;https://www.dss.gov.au/payments&gt;."
	if rec.Reference != want {
		t.Fatalf("Reference = %q, want %q", rec.Reference, want)
	}
}

func TestFormatPlainTextRoundTrip(t *testing.T) {
	t.Parallel()
	in := Input{
		Title:      "Use <div> wisely & often",
		Domain:     "news.example",
		URL:        "https://news.example/?id=5&region=au&not=1",
		AccessDate: accessDate,
		Author:     "O'Brien & Sons",
	}
	for _, st := range Styles() {
		_, rec := Format(string(st), in)
		plain := helpers.StripHTMLTags(rec.Reference)
		if !strings.Contains(plain, in.URL) {
			t.Fatalf("%s: plain reference %q lost URL %q", st, plain, in.URL)
		}
		want := in.Title
		if st == UNSW {
			want = in.Author
		}
		if !strings.Contains(plain, want) {
			t.Fatalf("%s: plain reference %q lost %q", st, plain, want)
		}
	}

	_, rec := Format(string(IEEE), in)
	if got := helpers.StripHTMLTags(rec.Reference); !strings.HasSuffix(got, "Available: https://news.example/?id=5&region=au&not=1") {
		t.Fatalf("IEEE plain reference = %q", got)
	}
	if !strings.Contains(rec.Reference, "&amp;region=au") {
		t.Fatalf("IEEE reference %q does not escape the query string", rec.Reference)
	}
}

func TestRuleForFallsBackToHarvard(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"chaucer", "", "  "} {
		if st, _ := RuleFor(in); st != Harvard {
			t.Fatalf("RuleFor(%q) = %q, want harvard", in, st)
		}
	}
	if st, ok := ParseStyle(" IEEE "); !ok || st != IEEE {
		t.Fatalf("ParseStyle(IEEE) = %q, %v", st, ok)
	}
}

func TestStylesOrder(t *testing.T) {
	t.Parallel()
	got := Styles()
	want := []Style{Harvard, UNSW, MLA, Chicago, APA, IEEE, Vancouver}
	if len(got) != len(want) {
		t.Fatalf("Styles() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Styles()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	got[0] = "mutated"
	if Styles()[0] != Harvard {
		t.Fatalf("Styles() exposes internal slice")
	}
}
