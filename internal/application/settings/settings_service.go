package settings

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/gestionale/backend/internal/domain/settings"
	"github.com/gestionale/backend/internal/domain/shared"
)

// SettingsService reads and edits the single settings record
type SettingsService struct {
	settingsRepo settings.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo settings.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// Get returns the current settings, creating defaults on first access
func (s *SettingsService) Get(ctx context.Context) (*SettingsResponse, error) {
	current, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}

	response := ToSettingsResponse(current)
	return &response, nil
}

// UpdateSMTP replaces the outgoing mail configuration. An empty password in
// the request keeps the stored one, so the UI never has to echo it back.
func (s *SettingsService) UpdateSMTP(ctx context.Context, req UpdateSMTPRequest) (*SettingsResponse, error) {
	current, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}

	password := req.Password
	if password == "" {
		password = current.SMTP.Password
	}

	current.UpdateSMTP(settings.SMTPConfig{
		Host:     req.Host,
		Port:     req.Port,
		Username: req.Username,
		Password: password,
		From:     req.From,
		UseTLS:   req.UseTLS,
	})

	if err := s.settingsRepo.Save(ctx, current); err != nil {
		return nil, shared.WrapStorageError(err)
	}

	response := ToSettingsResponse(current)
	return &response, nil
}

// UpdateTax replaces the tax estimation percentages
func (s *SettingsService) UpdateTax(ctx context.Context, req UpdateTaxRequest) (*SettingsResponse, error) {
	inps, err := decimal.NewFromString(req.INPSPct)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "INPS percentage is not a valid decimal")
	}
	irpef, err := decimal.NewFromString(req.IRPEFPct)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "IRPEF percentage is not a valid decimal")
	}

	current, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}

	if err := current.UpdateTax(settings.TaxConfig{INPSPct: inps, IRPEFPct: irpef}); err != nil {
		return nil, err
	}

	if err := s.settingsRepo.Save(ctx, current); err != nil {
		return nil, shared.WrapStorageError(err)
	}

	response := ToSettingsResponse(current)
	return &response, nil
}

// UpdateLetterhead replaces the letterhead printed on documents
func (s *SettingsService) UpdateLetterhead(ctx context.Context, req UpdateLetterheadRequest) (*SettingsResponse, error) {
	current, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}

	current.UpdateLetterhead(req.Letterhead)

	if err := s.settingsRepo.Save(ctx, current); err != nil {
		return nil, shared.WrapStorageError(err)
	}

	response := ToSettingsResponse(current)
	return &response, nil
}
