package model

// Scheme is an entry of the scheme listing.
type Scheme struct {
	SchemeCode int    `json:"schemeCode"`
	SchemeName string `json:"schemeName"`
}

// SchemeMeta describes a scheme in the detail responses.
type SchemeMeta struct {
	FundHouse           string `json:"fund_house"`
	SchemeType          string `json:"scheme_type"`
	SchemeCategory      string `json:"scheme_category"`
	SchemeCode          int    `json:"scheme_code"`
	SchemeName          string `json:"scheme_name"`
	ISINGrowth          string `json:"isin_growth,omitempty"`
	ISINDivReinvestment string `json:"isin_div_reinvestment,omitempty"`
}

// SchemeDetails is the latest or historical NAV payload of one scheme.
// Data arrives newest-first from the source.
type SchemeDetails struct {
	Meta   SchemeMeta     `json:"meta"`
	Data   []RawNavRecord `json:"data"`
	Status string         `json:"status,omitempty"`
}
