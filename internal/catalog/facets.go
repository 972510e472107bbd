// Package catalog classifies mfapi scheme names into the facets the scheme
// list is filtered on and summarizes the catalog.
package catalog

import (
	"strings"
	"unicode"
)

const (
	PlanDirect  = "Direct"
	PlanRegular = "Regular"

	OptionGrowth = "Growth"
	OptionIDCW   = "IDCW"
	OptionOther  = "Other"

	TypeHybrid   = "Hybrid"
	TypeEquity   = "Equity"
	TypeDebt     = "Debt"
	TypeSolution = "Solution Oriented"
	TypeOther    = "Other"
)

// Facets are the attributes parsed from a scheme name.
type Facets struct {
	AMC            string `json:"amc"`
	PlanType       string `json:"planType"`
	DividendOption string `json:"dividendOption"`
	FundType       string `json:"fundType"`
}

// fund types in match precedence; "equity savings" must resolve to Hybrid.
var fundTypeKeywords = []struct {
	fundType string
	words    []string
}{
	{TypeHybrid, []string{"hybrid", "balanced", "arbitrage", "equity savings", "multi asset", "asset allocation", "fund of funds", "fof"}},
	{TypeEquity, []string{"equity", "elss", "tax saver", "flexi cap", "flexicap", "large cap", "largecap", "mid cap", "midcap",
		"small cap", "smallcap", "multi cap", "multicap", "large and mid cap", "focused", "value", "contra", "index", "nifty",
		"sensex", "bluechip", "infrastructure", "pharma", "technology", "consumption", "thematic", "sectoral"}},
	{TypeDebt, []string{"debt", "liquid", "gilt", "bond", "income", "overnight", "money market", "treasury", "credit risk",
		"duration", "banking and psu", "corporate", "floater", "floating rate", "fixed maturity", "fmp", "interval"}},
	{TypeSolution, []string{"retirement", "children", "childrens", "pension"}},
}

// words that end the AMC prefix of a scheme name
var amcStopWords = map[string]bool{
	"fund": true, "scheme": true, "plan": true, "direct": true, "regular": true, "growth": true, "idcw": true,
	"dividend": true, "mutual": true, "equity": true, "debt": true, "hybrid": true, "liquid": true, "gilt": true,
	"balanced": true, "arbitrage": true, "elss": true, "tax": true, "flexi": true, "flexicap": true, "large": true,
	"largecap": true, "mid": true, "midcap": true, "small": true, "smallcap": true, "multi": true, "multicap": true,
	"focused": true, "value": true, "contra": true, "index": true, "nifty": true, "sensex": true, "bluechip": true,
	"overnight": true, "money": true, "treasury": true, "credit": true, "short": true, "ultra": true, "low": true,
	"medium": true, "long": true, "dynamic": true, "corporate": true, "banking": true, "floater": true, "floating": true,
	"income": true, "bond": true, "fixed": true, "retirement": true, "children": true, "childrens": true, "savings": true,
	"infrastructure": true, "etf": true, "fof": true, "interval": true, "capital": true, "opportunities": true,
	"pension": true,
}

// ParseFacets classifies a scheme name such as
// "Alpha Flexi Cap Fund - Direct Plan - Growth".
func ParseFacets(name string) Facets {
	norm := normalize(name)
	tail := norm
	if i := strings.Index(name, " - "); i >= 0 {
		tail = normalize(name[i+3:])
	}

	return Facets{
		AMC:            parseAMC(name),
		PlanType:       parsePlan(norm),
		DividendOption: parseOption(tail, norm),
		FundType:       parseFundType(norm),
	}
}

func parseAMC(name string) string {
	fields := strings.FieldsFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '(' || r == ')'
	})
	var amc []string
	for _, f := range fields {
		if amcStopWords[strings.ToLower(f)] {
			break
		}
		amc = append(amc, f)
	}
	switch {
	case len(amc) > 0:
		return strings.Join(amc, " ")
	case len(fields) > 0:
		return fields[0]
	default:
		return TypeOther
	}
}

func parsePlan(norm string) string {
	if containsWord(norm, "direct") {
		return PlanDirect
	}
	return PlanRegular
}

func parseOption(tail, norm string) string {
	for _, s := range []string{tail, norm} {
		switch {
		case containsWord(s, "growth"):
			return OptionGrowth
		case containsWord(s, "idcw"), containsWord(s, "dividend"), containsWord(s, "payout"),
			containsWord(s, "reinvestment"), containsWord(s, "reinvest"):
			return OptionIDCW
		}
	}
	return OptionOther
}

func parseFundType(norm string) string {
	for _, ft := range fundTypeKeywords {
		for _, w := range ft.words {
			if containsWord(norm, w) {
				return ft.fundType
			}
		}
	}
	return TypeOther
}

// normalize lower-cases s, maps punctuation to spaces and pads it so that
// word lookups can match on " word ".
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(' ')
	space := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if r == '&' {
			if !space {
				b.WriteByte(' ')
			}
			b.WriteString("and ")
			space = true
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	if !space {
		b.WriteByte(' ')
	}
	return b.String()
}

func containsWord(norm, phrase string) bool {
	return strings.Contains(norm, " "+phrase+" ")
}
