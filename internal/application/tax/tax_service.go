package tax

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestionale/backend/internal/domain/billing"
	"github.com/gestionale/backend/internal/domain/ledger"
	"github.com/gestionale/backend/internal/domain/settings"
	"github.com/gestionale/backend/internal/domain/shared"
)

// TaxService estimates the VAT and contribution liabilities of a freelancer.
// Estimates only: the VAT side works on invoices issued (competence), the
// contribution side on movements collected (cash).
type TaxService struct {
	documentRepo billing.DocumentRepository
	movementRepo ledger.MovementRepository
	settingsRepo settings.SettingsRepository
}

// NewTaxService creates a new tax service
func NewTaxService(
	documentRepo billing.DocumentRepository,
	movementRepo ledger.MovementRepository,
	settingsRepo settings.SettingsRepository,
) *TaxService {
	return &TaxService{
		documentRepo: documentRepo,
		movementRepo: movementRepo,
		settingsRepo: settingsRepo,
	}
}

// quarterBounds returns [start, end) of a calendar quarter
func quarterBounds(year, quarter int) (time.Time, time.Time) {
	startMonth := time.Month((quarter-1)*3 + 1)
	start := time.Date(year, startMonth, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 3, 0)
}

// QuarterlyVAT computes the VAT balance of one quarter: VAT charged on
// invoices issued in the quarter minus VAT paid on expense movements dated in
// the quarter.
func (s *TaxService) QuarterlyVAT(ctx context.Context, year, quarter int) (*QuarterlyVATResponse, error) {
	if quarter < 1 || quarter > 4 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Quarter must be between 1 and 4")
	}
	if year < 2000 || year > 2200 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Year out of range")
	}

	from, to := quarterBounds(year, quarter)

	invoices, err := s.documentRepo.FindIssuedBetween(ctx, billing.DocumentTypeInvoice, from, to)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}

	// Every invoice issued in the quarter counts, cancelled ones included:
	// an issued invoice owes its VAT until a credit note reverses it.
	charged := decimal.Zero
	for i := range invoices {
		charged = charged.Add(invoices[i].VATAmount)
	}
	count := len(invoices)

	expenses, err := s.movementRepo.FindByTypeBetween(ctx, ledger.MovementTypeExpense, from, to)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}

	paid := decimal.Zero
	for i := range expenses {
		paid = paid.Add(expenses[i].AmountVAT)
	}

	return &QuarterlyVATResponse{
		Year:         year,
		Quarter:      quarter,
		VATCharged:   charged.StringFixed(2),
		VATPaid:      paid.StringFixed(2),
		VATBalance:   charged.Sub(paid).StringFixed(2),
		InvoiceCount: count,
	}, nil
}

// YTDContributions estimates social contributions and income tax on the net
// income collected so far in the year. The income tax base never goes
// negative: contributions larger than income just zero it out.
func (s *TaxService) YTDContributions(ctx context.Context, year int) (*ContributionsResponse, error) {
	if year < 2000 || year > 2200 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Year out of range")
	}

	cfg, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}

	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	incomes, err := s.movementRepo.FindByTypeBetween(ctx, ledger.MovementTypeIncome, from, to)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}

	income := decimal.Zero
	for i := range incomes {
		income = income.Add(incomes[i].AmountNet)
	}

	hundred := decimal.NewFromInt(100)
	contributions := income.Mul(cfg.Tax.INPSPct).Div(hundred).Round(2)

	base := income.Sub(contributions)
	if base.IsNegative() {
		base = decimal.Zero
	}
	incomeTax := base.Mul(cfg.Tax.IRPEFPct).Div(hundred).Round(2)

	return &ContributionsResponse{
		Year:                year,
		TaxableCashIncome:   income.StringFixed(2),
		INPSPct:             cfg.Tax.INPSPct.StringFixed(2),
		SocialContributions: contributions.StringFixed(2),
		IncomeTaxBase:       base.StringFixed(2),
		IRPEFPct:            cfg.Tax.IRPEFPct.StringFixed(2),
		IncomeTaxEstimate:   incomeTax.StringFixed(2),
	}, nil
}

// FullEstimate combines the yearly contribution estimate with the four
// quarterly VAT balances. TotalDue sums contributions, income tax and the
// positive VAT balances.
func (s *TaxService) FullEstimate(ctx context.Context, year int) (*FullEstimateResponse, error) {
	contributions, err := s.YTDContributions(ctx, year)
	if err != nil {
		return nil, err
	}

	quarters := make([]QuarterlyVATResponse, 0, 4)
	vatDue := decimal.Zero
	for q := 1; q <= 4; q++ {
		quarterly, err := s.QuarterlyVAT(ctx, year, q)
		if err != nil {
			return nil, err
		}
		quarters = append(quarters, *quarterly)

		balance, err := decimal.NewFromString(quarterly.VATBalance)
		if err != nil {
			return nil, shared.WrapStorageError(err)
		}
		if balance.IsPositive() {
			vatDue = vatDue.Add(balance)
		}
	}

	socialContrib, err := decimal.NewFromString(contributions.SocialContributions)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}
	incomeTax, err := decimal.NewFromString(contributions.IncomeTaxEstimate)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}

	return &FullEstimateResponse{
		Year:          year,
		Contributions: *contributions,
		Quarters:      quarters,
		TotalDue:      socialContrib.Add(incomeTax).Add(vatDue).StringFixed(2),
	}, nil
}
