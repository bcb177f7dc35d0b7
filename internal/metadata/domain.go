package metadata

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// UnknownAuthor is returned when not even the domain yields a name.
const UnknownAuthor = "Unknown Author"

// governmentAcronyms maps well-known agency labels to their full names.
var governmentAcronyms = map[string]string{
	"DSS": "Department of Social Services",
	"ATO": "Australian Taxation Office",
	"ABS": "Australian Bureau of Statistics",
}

type domainKind int

const (
	domainPlain domainKind = iota
	domainGovernment
	domainEducation
	domainOrganisation
)

// classifyDomain applies the suffix checks in fixed order: government, then
// education, then organisation. Only the first match counts.
func classifyDomain(domain string) domainKind {
	switch {
	case strings.Contains(domain, ".gov.au") || strings.Contains(domain, ".gov."):
		return domainGovernment
	case strings.Contains(domain, ".edu.au") || strings.Contains(domain, ".edu."):
		return domainEducation
	case strings.Contains(domain, ".org"):
		return domainOrganisation
	default:
		return domainPlain
	}
}

// AuthorFromDomain derives an organisation name from a host name, e.g.
// "dss.gov.au" -> "Department of Social Services", "my-site.org" ->
// "My Site (Organisation)".
func AuthorFromDomain(domain string) string {
	clean := strings.TrimPrefix(domain, "www.")
	labels := strings.Split(clean, ".")
	name := titleWords(strings.NewReplacer("-", " ", "_", " ").Replace(labels[0]))

	var author string
	switch classifyDomain(domain) {
	case domainGovernment:
		if len(labels) > 2 {
			if full, ok := governmentAcronyms[strings.ToUpper(labels[0])]; ok {
				return full
			}
		}
		author = name + " (Government)"
	case domainEducation:
		author = name + " (University)"
	case domainOrganisation:
		author = name + " (Organisation)"
	default:
		author = name
	}

	if strings.TrimSpace(author) == "" || strings.HasPrefix(author, " (") {
		return UnknownAuthor
	}
	return author
}

// Sponsor returns the institutional affiliation implied by the domain suffix,
// or "" when there is none.
func Sponsor(domain string) string {
	switch classifyDomain(domain) {
	case domainGovernment:
		return "Government"
	case domainEducation:
		return "Educational institution"
	case domainOrganisation:
		return "Organisation"
	default:
		return ""
	}
}

// titleWords capitalises the first letter of every word and lower-cases the rest.
func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}
