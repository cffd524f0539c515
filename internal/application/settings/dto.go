package settings

import (
	"github.com/gestionale/backend/internal/domain/settings"
)

// UpdateSMTPRequest replaces the outgoing mail configuration
type UpdateSMTPRequest struct {
	Host     string `json:"host" binding:"required"`
	Port     int    `json:"port" binding:"required,min=1,max=65535"`
	Username string `json:"username"`
	Password string `json:"password"`
	From     string `json:"from" binding:"required,email"`
	UseTLS   bool   `json:"use_tls"`
}

// UpdateTaxRequest replaces the tax estimation percentages
type UpdateTaxRequest struct {
	INPSPct  string `json:"inps_pct" binding:"required"`
	IRPEFPct string `json:"irpef_pct" binding:"required"`
}

// UpdateLetterheadRequest replaces the letterhead printed on documents
type UpdateLetterheadRequest struct {
	Letterhead string `json:"letterhead"`
}

// SettingsResponse is the full settings view. The SMTP password is redacted.
type SettingsResponse struct {
	InvoicePrefix  string `json:"invoice_prefix"`
	LastInvoiceSeq int    `json:"last_invoice_seq"`
	QuotePrefix    string `json:"quote_prefix"`
	LastQuoteSeq   int    `json:"last_quote_seq"`
	SMTP           struct {
		Host        string `json:"host"`
		Port        int    `json:"port"`
		Username    string `json:"username"`
		From        string `json:"from"`
		UseTLS      bool   `json:"use_tls"`
		HasPassword bool   `json:"has_password"`
		Complete    bool   `json:"complete"`
	} `json:"smtp"`
	Tax struct {
		INPSPct  string `json:"inps_pct"`
		IRPEFPct string `json:"irpef_pct"`
	} `json:"tax"`
	Letterhead string `json:"letterhead"`
}

// ToSettingsResponse converts the aggregate into its API representation
func ToSettingsResponse(s *settings.Settings) SettingsResponse {
	var resp SettingsResponse
	resp.InvoicePrefix = s.InvoicePrefix
	resp.LastInvoiceSeq = s.LastInvoiceSeq
	resp.QuotePrefix = s.QuotePrefix
	resp.LastQuoteSeq = s.LastQuoteSeq
	resp.SMTP.Host = s.SMTP.Host
	resp.SMTP.Port = s.SMTP.Port
	resp.SMTP.Username = s.SMTP.Username
	resp.SMTP.From = s.SMTP.From
	resp.SMTP.UseTLS = s.SMTP.UseTLS
	resp.SMTP.HasPassword = s.SMTP.Password != ""
	resp.SMTP.Complete = s.SMTP.IsComplete()
	resp.Tax.INPSPct = s.Tax.INPSPct.StringFixed(2)
	resp.Tax.IRPEFPct = s.Tax.IRPEFPct.StringFixed(2)
	resp.Letterhead = s.CompanyLetterhead
	return resp
}
