package catalog

import (
	"strings"

	"NAVigator/internal/model"
)

// FacetFilter selects schemes whose facets are listed. An empty list matches everything.
type FacetFilter struct {
	AMC            []string
	PlanType       []string
	DividendOption []string
	FundType       []string
}

// Empty reports whether no facet is constrained.
func (f FacetFilter) Empty() bool {
	return len(f.AMC) == 0 && len(f.PlanType) == 0 && len(f.DividendOption) == 0 && len(f.FundType) == 0
}

func (f FacetFilter) Match(fc Facets) bool {
	return matches(f.AMC, fc.AMC) &&
		matches(f.PlanType, fc.PlanType) &&
		matches(f.DividendOption, fc.DividendOption) &&
		matches(f.FundType, fc.FundType)
}

func matches(allowed []string, v string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimSpace(a), v) {
			return true
		}
	}
	return false
}

// Filter returns the schemes matching f, in input order.
func Filter(schemes []model.Scheme, f FacetFilter) []model.Scheme {
	out := make([]model.Scheme, 0, len(schemes))
	for _, s := range schemes {
		if f.Empty() || f.Match(ParseFacets(s.SchemeName)) {
			out = append(out, s)
		}
	}
	return out
}

// Summary holds the dashboard counts for a scheme catalog.
type Summary struct {
	TotalSchemes int `json:"totalSchemes"`
	FundHouses   int `json:"fundHouses"`
	EquityFunds  int `json:"equityFunds"`
	FundTypes    int `json:"fundTypes"`
}

func Summarize(schemes []model.Scheme) Summary {
	amcs := make(map[string]struct{})
	types := make(map[string]struct{})
	sum := Summary{TotalSchemes: len(schemes)}
	for _, s := range schemes {
		fc := ParseFacets(s.SchemeName)
		amcs[fc.AMC] = struct{}{}
		types[fc.FundType] = struct{}{}
		if fc.FundType == TypeEquity {
			sum.EquityFunds++
		}
	}
	sum.FundHouses = len(amcs)
	sum.FundTypes = len(types)
	return sum
}
