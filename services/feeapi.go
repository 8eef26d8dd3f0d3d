package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"fees-admin-api/models"
	"fees-admin-api/utils"
)

// FeeAPIService talks to the upstream student-fee API. Every method maps a
// fee category to its backend schema name before building the request; an
// unknown category is rejected here so it can never reach the wire.
type FeeAPIService struct {
	BaseURL string
	Client  *http.Client
}

func NewFeeAPIService() *FeeAPIService {
	baseURL := os.Getenv("FEE_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3001"
	}
	return &FeeAPIService{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// do executes one upstream request with timing logged.
func (s *FeeAPIService) do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := s.Client.Do(req)
	if err != nil {
		utils.SafeWarn("upstream %s %s failed: %v", req.Method, req.URL.Path, err)
		return nil, err
	}
	utils.LogUpstream(req.Method, req.URL.Path, resp.StatusCode, time.Since(start).String())
	return resp, nil
}

func (s *FeeAPIService) schemaFor(category models.FeeCategory) (string, error) {
	if !category.Valid() {
		return "", fmt.Errorf("unknown fee category %q", category)
	}
	return category.SchemaName(), nil
}

// GetDuesBasedOnFee lists the outstanding dues of one student within one
// fee category. The upstream wraps the due array in an outer array; the
// first element is the list.
func (s *FeeAPIService) GetDuesBasedOnFee(ctx context.Context, category models.FeeCategory, studentID string) ([]models.Due, error) {
	schema, err := s.schemaFor(category)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/api/v1/getDuesBasedOnFee/%s/%s", s.BaseURL, schema, url.PathEscape(studentID))
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, upstreamError(resp)
	}

	var envelope [][]models.Due
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode dues response: %w", err)
	}

	if len(envelope) == 0 {
		return []models.Due{}, nil
	}
	return envelope[0], nil
}

// GetAllDues lists every due of a student across all categories.
func (s *FeeAPIService) GetAllDues(ctx context.Context, studentID string) ([]models.Due, error) {
	endpoint := fmt.Sprintf("%s/api/v1/getAllDues/%s", s.BaseURL, url.PathEscape(studentID))
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, upstreamError(resp)
	}

	var dues []models.Due
	if err := json.NewDecoder(resp.Body).Decode(&dues); err != nil {
		return nil, fmt.Errorf("decode dues response: %w", err)
	}
	return dues, nil
}

// ExchangeInstallment asks the upstream to move one due from the source
// schema to the destination schema. Only the status is consumed.
func (s *FeeAPIService) ExchangeInstallment(ctx context.Context, transfer models.TransferRequest) error {
	sourceSchema, err := s.schemaFor(transfer.SourceCategory)
	if err != nil {
		return err
	}
	targetSchema, err := s.schemaFor(transfer.DestinationCategory)
	if err != nil {
		return err
	}

	payload := map[string]string{
		"sourceModel": sourceSchema,
		"targetModel": targetSchema,
		"ID":          transfer.StudentID,
		"DueNumber":   transfer.DueNumber,
	}

	body, _ := json.Marshal(payload)
	endpoint := s.BaseURL + "/api/v1/update/studentFee/exchange"
	req, err := http.NewRequestWithContext(ctx, "PUT", endpoint, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return upstreamError(resp)
	}
	return nil
}

// DeleteDue removes one due record from its category schema.
func (s *FeeAPIService) DeleteDue(ctx context.Context, category models.FeeCategory, studentID, receiptNo string) error {
	schema, err := s.schemaFor(category)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/api/v1/delete/studentFee/%s/%s/%s", s.BaseURL, schema, url.PathEscape(receiptNo), url.PathEscape(studentID))
	req, err := http.NewRequestWithContext(ctx, "DELETE", endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := s.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return upstreamError(resp)
	}
	return nil
}

// UploadFees pushes a batch of fee records into one category schema.
func (s *FeeAPIService) UploadFees(ctx context.Context, category models.FeeCategory, records []models.FeeRecord) error {
	schema, err := s.schemaFor(category)
	if err != nil {
		return err
	}

	body, _ := json.Marshal(records)
	endpoint := fmt.Sprintf("%s/api/v1/upload/studentFee/%s", s.BaseURL, schema)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return upstreamError(resp)
	}
	return nil
}

// GetBankDues fetches the bank-due report rows.
func (s *FeeAPIService) GetBankDues(ctx context.Context) ([]models.BankDue, error) {
	endpoint := s.BaseURL + "/api/v1/getBankDues"
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, upstreamError(resp)
	}

	var dues []models.BankDue
	if err := json.NewDecoder(resp.Body).Decode(&dues); err != nil {
		return nil, fmt.Errorf("decode bank dues response: %w", err)
	}
	return dues, nil
}

// GetCategoryTotals fetches per-category due counts and amounts for the
// insights screen.
func (s *FeeAPIService) GetCategoryTotals(ctx context.Context) ([]models.CategoryTotal, error) {
	endpoint := s.BaseURL + "/api/v1/getFeeTotals"
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, upstreamError(resp)
	}

	var totals []models.CategoryTotal
	if err := json.NewDecoder(resp.Body).Decode(&totals); err != nil {
		return nil, fmt.Errorf("decode totals response: %w", err)
	}
	return totals, nil
}

// upstreamError turns a non-2xx upstream response into an error carrying
// whatever message the backend sent.
func upstreamError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return fmt.Errorf("%s", payload.Error)
		}
		if payload.Message != "" {
			return fmt.Errorf("%s", payload.Message)
		}
	}
	return fmt.Errorf("upstream returned status %d", resp.StatusCode)
}
