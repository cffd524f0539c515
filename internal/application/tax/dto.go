package tax

// QuarterlyVATResponse is the VAT balance of one calendar quarter
type QuarterlyVATResponse struct {
	Year         int    `json:"year"`
	Quarter      int    `json:"quarter"`
	VATCharged   string `json:"vat_charged"`
	VATPaid      string `json:"vat_paid"`
	VATBalance   string `json:"vat_balance"`
	InvoiceCount int    `json:"invoice_count"`
}

// ContributionsResponse estimates social contributions and income tax on the
// cash income collected so far in a year
type ContributionsResponse struct {
	Year                int    `json:"year"`
	TaxableCashIncome   string `json:"taxable_cash_income"`
	INPSPct             string `json:"inps_pct"`
	SocialContributions string `json:"social_contributions"`
	IncomeTaxBase       string `json:"income_tax_base"`
	IRPEFPct            string `json:"irpef_pct"`
	IncomeTaxEstimate   string `json:"income_tax_estimate"`
}

// FullEstimateResponse combines the yearly contribution estimate with the
// four quarterly VAT balances
type FullEstimateResponse struct {
	Year          int                    `json:"year"`
	Contributions ContributionsResponse  `json:"contributions"`
	Quarters      []QuarterlyVATResponse `json:"quarters"`
	TotalDue      string                 `json:"total_due"`
}
