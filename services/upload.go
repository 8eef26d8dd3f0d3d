package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"fees-admin-api/models"
	"fees-admin-api/utils"
)

// UploadAPI is the slice of the upstream client the upload flow needs.
type UploadAPI interface {
	UploadFees(ctx context.Context, category models.FeeCategory, records []models.FeeRecord) error
}

// UploadService turns a staff-uploaded CSV of fee records into per-category
// batches and pushes each batch to the upstream. Expected header:
// StudentID,ReceiptNo,Amount,Date,Category. Bad rows are reported and
// skipped; they never abort the batch.
type UploadService struct {
	api      UploadAPI
	notifier Notifier
}

func NewUploadService(api UploadAPI, notifier Notifier) *UploadService {
	return &UploadService{api: api, notifier: notifier}
}

// ParseFeeCSV reads and validates the uploaded file.
func ParseFeeCSV(r io.Reader) ([]models.FeeRecord, []string) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	var records []models.FeeRecord
	var rowErrors []string

	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}

		// Header row.
		if line == 1 && strings.EqualFold(row[0], "StudentID") {
			continue
		}

		if len(row) != 5 {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: expected 5 columns, got %d", line, len(row)))
			continue
		}

		record, err := parseFeeRow(row)
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		records = append(records, record)
	}

	return records, rowErrors
}

func parseFeeRow(row []string) (models.FeeRecord, error) {
	studentID := strings.TrimSpace(row[0])
	receiptNo := strings.TrimSpace(row[1])
	if !utils.IsPresent(studentID) || !utils.IsPresent(receiptNo) {
		return models.FeeRecord{}, fmt.Errorf("missing student or receipt identifier")
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if err != nil || amount <= 0 {
		return models.FeeRecord{}, fmt.Errorf("invalid amount %q", row[2])
	}

	date := strings.TrimSpace(row[3])
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return models.FeeRecord{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
	}

	category := models.FeeCategory(strings.TrimSpace(row[4]))
	if !category.Valid() {
		return models.FeeRecord{}, fmt.Errorf("unknown category %q", row[4])
	}

	return models.FeeRecord{
		StudentID: studentID,
		ReceiptNo: receiptNo,
		Amount:    amount,
		Date:      date,
		Category:  category,
	}, nil
}

// Upload parses the CSV and pushes each category batch upstream. The result
// counts accepted and rejected rows; an upstream failure rejects the whole
// batch for that category only.
func (s *UploadService) Upload(ctx context.Context, r io.Reader) (models.UploadResult, error) {
	records, rowErrors := ParseFeeCSV(r)

	result := models.UploadResult{
		Rejected: len(rowErrors),
		Errors:   rowErrors,
	}

	if len(records) == 0 {
		s.notifier.Publish("No valid fee records in upload", models.SeverityError)
		return result, ErrValidation
	}

	batches := make(map[models.FeeCategory][]models.FeeRecord)
	for _, record := range records {
		batches[record.Category] = append(batches[record.Category], record)
	}

	for category, batch := range batches {
		if err := s.api.UploadFees(ctx, category, batch); err != nil {
			result.Rejected += len(batch)
			result.Errors = append(result.Errors,
				fmt.Sprintf("category %s: %v", category, err))
			continue
		}
		result.Accepted += len(batch)
	}

	if result.Accepted == 0 {
		s.notifier.Publish("Fee upload failed", models.SeverityError)
		return result, fmt.Errorf("no records accepted")
	}

	s.notifier.Publish(fmt.Sprintf("Uploaded %d fee records", result.Accepted), models.SeveritySuccess)
	return result, nil
}
