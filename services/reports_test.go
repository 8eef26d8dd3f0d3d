package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fees-admin-api/models"
)

type fakeReportAPI struct {
	bankDues []models.BankDue
	totals   []models.CategoryTotal
	err      error
}

func (f *fakeReportAPI) GetBankDues(ctx context.Context) ([]models.BankDue, error) {
	return f.bankDues, f.err
}

func (f *fakeReportAPI) GetCategoryTotals(ctx context.Context) ([]models.CategoryTotal, error) {
	return f.totals, f.err
}

func TestBankDueReport(t *testing.T) {
	rows := []models.BankDue{
		{ReceiptNo: "B1", Settled: true},
		{ReceiptNo: "B2", Settled: false},
		{ReceiptNo: "B3", Settled: false},
	}

	t.Run("all rows", func(t *testing.T) {
		svc := NewReportsService(&fakeReportAPI{bankDues: rows}, &recordingNotifier{})

		dues, err := svc.BankDueReport(context.Background(), false)

		require.NoError(t, err)
		assert.Len(t, dues, 3)
	})

	t.Run("unsettled only", func(t *testing.T) {
		svc := NewReportsService(&fakeReportAPI{bankDues: rows}, &recordingNotifier{})

		dues, err := svc.BankDueReport(context.Background(), true)

		require.NoError(t, err)
		require.Len(t, dues, 2)
		assert.Equal(t, "B2", dues[0].ReceiptNo)
	})

	t.Run("upstream failure notifies", func(t *testing.T) {
		notifier := &recordingNotifier{}
		svc := NewReportsService(&fakeReportAPI{err: errors.New("report store down")}, notifier)

		dues, err := svc.BankDueReport(context.Background(), false)

		assert.Error(t, err)
		assert.Empty(t, dues)

		last, _ := notifier.last()
		assert.Equal(t, "report store down", last.Text)
		assert.Equal(t, models.SeverityError, last.Severity)
	})
}

func TestFeeTotals(t *testing.T) {
	svc := NewReportsService(&fakeReportAPI{totals: []models.CategoryTotal{
		{Category: models.TutionFee, Count: 10, Amount: 50000},
		{Category: models.HostelFee, Count: 4, Amount: 8000},
		{Category: models.Others, Count: 1, Amount: 150.5},
	}}, &recordingNotifier{})

	totals, err := svc.FeeTotals(context.Background())

	require.NoError(t, err)
	assert.Len(t, totals.Categories, 3)
	assert.Equal(t, 15, totals.TotalDues)
	assert.InDelta(t, 58150.5, totals.GrandTotal, 0.001)
}
