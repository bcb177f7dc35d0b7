package citation

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/mohammad-safakhou/citer/internal/metadata"
)

// Style identifies a citation grammar.
type Style string

const (
	Harvard   Style = "harvard"
	UNSW      Style = "unsw"
	MLA       Style = "mla"
	Chicago   Style = "chicago"
	APA       Style = "apa"
	IEEE      Style = "ieee"
	Vancouver Style = "vancouver"
)

// Title sentinels produced by the fetch step.
const (
	NoTitleFound  = "No Title Found"
	ErrorPrefix   = "Error"
	FetchErrorTag = "Error fetching page:"

	unknownTitle   = "Unknown Title"
	unknownWebsite = "Unknown website"
)

// Record is one rendered citation. Values are HTML fragments: <em> markup
// around escaped text. StripHTMLTags turns them into plain text.
type Record struct {
	InText    string `json:"intext"`
	Reference string `json:"reference"`
}

// Input is the field tuple every rule renders from. Author is read only by
// rules with NeedsAuthor set.
type Input struct {
	Title      string
	Domain     string
	URL        string
	AccessDate time.Time
	Author     string
}

// Rule renders one style. Render must be pure.
type Rule struct {
	Label       string
	Summary     string
	NeedsAuthor bool
	Render      func(in Input) Record
}

// Go reference-time layouts for the dates each grammar prints.
const (
	layoutYear        = "2006"
	layoutDayMonth    = "02 January 2006"
	layoutDayMonAbbr  = "02 Jan. 2006"
	layoutMonthDay    = "January 02, 2006"
	layoutMonthDayAPA = "January 02"
)

var rules = map[Style]Rule{
	Harvard: {
		Label:   "Harvard",
		Summary: "Most common in UK/Australia",
		Render: escaped(func(in Input) Record {
			title := displayTitle(in.Title, unknownTitle)
			year := in.AccessDate.Format(layoutYear)
			return Record{
				InText:    fmt.Sprintf("(%s, %s)", title, year),
				Reference: fmt.Sprintf("%s %s, <em>%s</em>, viewed %s, &lt;%s&gt;.", title, year, in.Domain, in.AccessDate.Format(layoutDayMonth), in.URL),
			}
		}),
	},
	UNSW: {
		Label:       "UNSW",
		Summary:     "UNSW Harvard referencing style (University of New South Wales)",
		NeedsAuthor: true,
		Render: escaped(func(in Input) Record {
			year := in.AccessDate.Format(layoutYear)
			site := displayTitle(in.Title, unknownWebsite)
			sponsor := ""
			if s := metadata.Sponsor(in.Domain); s != "" {
				sponsor = s + ", "
			}
			return Record{
				InText:    fmt.Sprintf("(%s %s)", in.Author, year),
				Reference: fmt.Sprintf("%s %s, <em>%s</em>, %saccessed %s, &lt;%s&gt;.", in.Author, year, site, sponsor, in.AccessDate.Format(layoutDayMonth), in.URL),
			}
		}),
	},
	MLA: {
		Label:   "MLA",
		Summary: "Modern Language Association (common in humanities)",
		Render: escaped(func(in Input) Record {
			title := displayTitle(in.Title, unknownTitle)
			return Record{
				InText:    fmt.Sprintf(`("%s")`, title),
				Reference: fmt.Sprintf(`"%s." <em>%s</em>, %s, %s.`, title, in.Domain, in.AccessDate.Format(layoutDayMonAbbr), in.URL),
			}
		}),
	},
	Chicago: {
		Label:   "Chicago",
		Summary: "Chicago Manual of Style (versatile, used in many fields)",
		Render: escaped(func(in Input) Record {
			title := displayTitle(in.Title, unknownTitle)
			date := in.AccessDate.Format(layoutMonthDay)
			return Record{
				InText:    fmt.Sprintf("(%s, %s)", title, date),
				Reference: fmt.Sprintf(`"%s." %s. Accessed %s. %s.`, title, in.Domain, date, in.URL),
			}
		}),
	},
	APA: {
		Label:   "APA",
		Summary: "American Psychological Association (common in social sciences)",
		Render: escaped(func(in Input) Record {
			title := displayTitle(in.Title, unknownTitle)
			year := in.AccessDate.Format(layoutYear)
			return Record{
				InText:    fmt.Sprintf("(%s, %s)", title, year),
				Reference: fmt.Sprintf("%s. (%s, %s). <em>%s</em>. %s", title, year, in.AccessDate.Format(layoutMonthDayAPA), in.Domain, in.URL),
			}
		}),
	},
	IEEE: {
		Label:   "IEEE",
		Summary: "Institute of Electrical and Electronics Engineers (engineering/tech)",
		Render: escaped(func(in Input) Record {
			title := displayTitle(in.Title, unknownTitle)
			return Record{
				InText:    fmt.Sprintf("[%s]", title),
				Reference: fmt.Sprintf(`"%s," %s, %s. [Online]. Available: %s`, title, in.Domain, in.AccessDate.Format(layoutDayMonth), in.URL),
			}
		}),
	},
	Vancouver: {
		Label:   "Vancouver",
		Summary: "Numeric style (common in medical/scientific fields)",
		Render: escaped(func(in Input) Record {
			title := displayTitle(in.Title, unknownTitle)
			date := in.AccessDate.Format(layoutDayMonth)
			return Record{
				InText:    fmt.Sprintf("(%s)", title),
				Reference: fmt.Sprintf("%s [Internet]. %s; %s [cited %s]. Available from: %s", title, in.Domain, date, date, in.URL),
			}
		}),
	},
}

// escaped HTML-escapes the interpolated fields before render so titles and
// query strings survive the round trip through StripHTMLTags.
func escaped(render func(in Input) Record) func(in Input) Record {
	return func(in Input) Record {
		in.Title = html.EscapeString(in.Title)
		in.Domain = html.EscapeString(in.Domain)
		in.URL = html.EscapeString(in.URL)
		in.Author = html.EscapeString(in.Author)
		return render(in)
	}
}

// catalogue is the order styles are presented in.
var catalogue = []Style{Harvard, UNSW, MLA, Chicago, APA, IEEE, Vancouver}

// Styles lists every supported style in catalogue order.
func Styles() []Style {
	return append([]Style(nil), catalogue...)
}

// ParseStyle maps a case-insensitive identifier to a Style.
func ParseStyle(s string) (Style, bool) {
	st := Style(strings.ToLower(strings.TrimSpace(s)))
	_, ok := rules[st]
	return st, ok
}

// RuleFor returns the rule for s, falling back to Harvard for unknown
// identifiers. The returned Style is the one actually used.
func RuleFor(s string) (Style, Rule) {
	st, ok := ParseStyle(s)
	if !ok {
		st = Harvard
	}
	return st, rules[st]
}

// Format renders in with the requested style.
func Format(style string, in Input) (Style, Record) {
	st, rule := RuleFor(style)
	return st, rule.Render(in)
}

// IsUnknownTitle reports whether title is a fetch sentinel rather than a real
// page title.
func IsUnknownTitle(title string) bool {
	return title == "" || title == NoTitleFound || strings.HasPrefix(title, ErrorPrefix)
}

func displayTitle(title, placeholder string) string {
	if IsUnknownTitle(title) {
		return placeholder
	}
	return title
}
