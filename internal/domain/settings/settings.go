package settings

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestionale/backend/internal/domain/shared"
)

// DocumentKind selects which counter a number allocation touches
type DocumentKind string

const (
	DocumentKindInvoice DocumentKind = "invoice"
	DocumentKindQuote   DocumentKind = "quote"
)

// IsValid checks if the document kind is valid
func (k DocumentKind) IsValid() bool {
	return k == DocumentKindInvoice || k == DocumentKindQuote
}

// SMTPConfig holds the outgoing mail settings, stored as JSON
type SMTPConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	From     string `json:"from"`
	UseTLS   bool   `json:"use_tls"`
}

// IsComplete reports whether the config is usable for sending mail
func (c SMTPConfig) IsComplete() bool {
	return c.Host != "" && c.Port > 0 && c.From != ""
}

// Value implements driver.Valuer for GORM
func (c SMTPConfig) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner for GORM
func (c *SMTPConfig) Scan(value interface{}) error {
	return scanJSON(value, c)
}

// TaxConfig holds the contribution and income-tax percentages, stored as JSON.
// Configured records that the rates were set explicitly, so a deliberate 0%
// survives the defaults merge instead of reading as "never set".
type TaxConfig struct {
	INPSPct    decimal.Decimal `json:"inps_pct"`
	IRPEFPct   decimal.Decimal `json:"irpef_pct"`
	Configured bool            `json:"configured"`
}

// Value implements driver.Valuer for GORM
func (c TaxConfig) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner for GORM
func (c *TaxConfig) Scan(value interface{}) error {
	return scanJSON(value, c)
}

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan JSON column: unsupported type")
	}
	if len(bytes) == 0 {
		return nil
	}
	return json.Unmarshal(bytes, dest)
}

// Settings is the process-wide singleton holding document counters, mail and
// tax configuration. It is lazily created with defaults and merged
// field-by-field with defaults on every load, so fields added later appear
// in older persisted rows without migration scripts.
type Settings struct {
	shared.BaseAggregateRoot
	LastInvoiceSeq    int        `json:"last_invoice_seq" gorm:"not null;default:0"`
	LastQuoteSeq      int        `json:"last_quote_seq" gorm:"not null;default:0"`
	InvoicePrefix     string     `json:"invoice_prefix" gorm:"not null"`
	QuotePrefix       string     `json:"quote_prefix" gorm:"not null"`
	SMTP              SMTPConfig `json:"smtp" gorm:"type:text"`
	Tax               TaxConfig  `json:"tax" gorm:"type:text"`
	CompanyLetterhead string     `json:"company_letterhead"`
}

// TableName returns the table name for GORM
func (Settings) TableName() string {
	return "settings"
}

// Default tax percentages for an Italian freelancer
var (
	DefaultINPSPct  = decimal.RequireFromString("26.07")
	DefaultIRPEFPct = decimal.RequireFromString("23.0")
)

// DefaultSettings returns the settings a fresh installation starts with.
// Prefixes embed the current year.
func DefaultSettings(now time.Time) *Settings {
	year := now.Year()
	return &Settings{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoicePrefix:     fmt.Sprintf("F%d/", year),
		QuotePrefix:       fmt.Sprintf("P%d/", year),
		Tax: TaxConfig{
			INPSPct:    DefaultINPSPct,
			IRPEFPct:   DefaultIRPEFPct,
			Configured: true,
		},
	}
}

// MergeWithDefaults fills unset fields with their defaults. Called at the
// load boundary only; components never see partially-populated settings.
// Tax rates merge on the Configured flag, not on value, so an explicit 0%
// is kept.
func (s *Settings) MergeWithDefaults(now time.Time) {
	defaults := DefaultSettings(now)
	if s.InvoicePrefix == "" {
		s.InvoicePrefix = defaults.InvoicePrefix
	}
	if s.QuotePrefix == "" {
		s.QuotePrefix = defaults.QuotePrefix
	}
	if !s.Tax.Configured {
		s.Tax = defaults.Tax
	}
}

// UpdateSMTP replaces the mail configuration
func (s *Settings) UpdateSMTP(cfg SMTPConfig) {
	s.SMTP = cfg
	s.touch()
}

// UpdateTax replaces the tax percentages
func (s *Settings) UpdateTax(cfg TaxConfig) error {
	if cfg.INPSPct.IsNegative() || cfg.IRPEFPct.IsNegative() {
		return shared.ErrInvalidAmount
	}
	cfg.Configured = true
	s.Tax = cfg
	s.touch()
	return nil
}

// UpdateLetterhead replaces the company letterhead text
func (s *Settings) UpdateLetterhead(letterhead string) {
	s.CompanyLetterhead = letterhead
	s.touch()
}

// NextDocumentNumber allocates the next sequential number for the given
// document kind, applying the year rollover: when the stored prefix does not
// embed the current year, the counter resets and the prefix is rewritten,
// discarding the old sequence entirely. The caller persists the mutated
// settings in the same transaction that stores the document.
func (s *Settings) NextDocumentNumber(kind DocumentKind, now time.Time) (string, error) {
	if !kind.IsValid() {
		return "", shared.NewDomainError("INVALID_INPUT", "Unknown document kind")
	}

	year := fmt.Sprintf("%d", now.Year())

	prefix := s.InvoicePrefix
	seq := s.LastInvoiceSeq
	letter := "F"
	if kind == DocumentKindQuote {
		prefix = s.QuotePrefix
		seq = s.LastQuoteSeq
		letter = "P"
	}

	if !strings.Contains(prefix, year) {
		prefix = fmt.Sprintf("%s%s/", letter, year)
		seq = 0
	}
	seq++

	if kind == DocumentKindQuote {
		s.QuotePrefix = prefix
		s.LastQuoteSeq = seq
	} else {
		s.InvoicePrefix = prefix
		s.LastInvoiceSeq = seq
	}
	s.touch()

	return fmt.Sprintf("%s%03d", prefix, seq), nil
}

func (s *Settings) touch() {
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
