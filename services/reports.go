package services

import (
	"context"

	"fees-admin-api/models"
)

// ReportAPI is the slice of the upstream client the report screens need.
type ReportAPI interface {
	GetBankDues(ctx context.Context) ([]models.BankDue, error)
	GetCategoryTotals(ctx context.Context) ([]models.CategoryTotal, error)
}

// ReportsService backs the bank-due report and the insights charts.
type ReportsService struct {
	api      ReportAPI
	notifier Notifier
}

func NewReportsService(api ReportAPI, notifier Notifier) *ReportsService {
	return &ReportsService{api: api, notifier: notifier}
}

// BankDueReport lists bank dues, optionally restricted to unsettled rows.
func (s *ReportsService) BankDueReport(ctx context.Context, unsettledOnly bool) ([]models.BankDue, error) {
	dues, err := s.api.GetBankDues(ctx)
	if err != nil {
		s.notifier.Publish(err.Error(), models.SeverityError)
		return []models.BankDue{}, err
	}

	if !unsettledOnly {
		return dues, nil
	}

	filtered := make([]models.BankDue, 0, len(dues))
	for _, due := range dues {
		if !due.Settled {
			filtered = append(filtered, due)
		}
	}
	return filtered, nil
}

// FeeTotals assembles the per-category aggregates for the charts screen.
// The upstream reports per-schema counts and amounts; the grand total is
// computed here.
func (s *ReportsService) FeeTotals(ctx context.Context) (models.FeeTotals, error) {
	categories, err := s.api.GetCategoryTotals(ctx)
	if err != nil {
		s.notifier.Publish(err.Error(), models.SeverityError)
		return models.FeeTotals{}, err
	}

	totals := models.FeeTotals{Categories: categories}
	for _, cat := range categories {
		totals.GrandTotal += cat.Amount
		totals.TotalDues += cat.Count
	}
	return totals, nil
}
