package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"fees-admin-api/models"
	"fees-admin-api/utils"
)

// Messages shown to staff. The upstream error text is passed through
// verbatim for transport and server failures.
const (
	MsgCompleteAllFields  = "Please complete all fields"
	MsgEnterStudentID     = "Please Enter Student ID"
	MsgFetchedFeeDetails  = "Fetched Fee Details"
	MsgNoActiveDues       = "No Active Dues"
	MsgInstallmentUpdated = "Installment Updated"
	MsgDueDeleted         = "Due Deleted"
	MsgCategoriesDiffer   = "Source and destination categories must be different"
)

var (
	// ErrValidation is returned when input is rejected before any upstream
	// call is made.
	ErrValidation = errors.New("validation failed")

	// ErrBusy is returned when the same operation for the same student is
	// already in flight.
	ErrBusy = errors.New("request already in progress")
)

// Notifier publishes a status message to the staff notification surface.
// The websocket hub implements it.
type Notifier interface {
	Publish(text string, severity models.Severity)
}

// FeeAPI is the slice of the upstream client the installment flow needs.
type FeeAPI interface {
	GetDuesBasedOnFee(ctx context.Context, category models.FeeCategory, studentID string) ([]models.Due, error)
	GetAllDues(ctx context.Context, studentID string) ([]models.Due, error)
	ExchangeInstallment(ctx context.Context, transfer models.TransferRequest) error
	DeleteDue(ctx context.Context, category models.FeeCategory, studentID, receiptNo string) error
}

// InstallmentService drives the installment wizard: validate input, look up
// dues, resolve a selected due, submit the category transfer. Each
// (operation, student) pair carries an in-flight guard token so duplicate
// submissions are rejected and a stale completion can never publish over a
// newer request.
type InstallmentService struct {
	api      FeeAPI
	notifier Notifier

	mu       sync.Mutex
	inFlight map[string]string // guard key -> uuid token
}

func NewInstallmentService(api FeeAPI, notifier Notifier) *InstallmentService {
	return &InstallmentService{
		api:      api,
		notifier: notifier,
		inFlight: make(map[string]string),
	}
}

// begin claims the guard for a key. The returned token must be handed back
// to end.
func (s *InstallmentService) begin(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return "", false
	}
	token := uuid.NewString()
	s.inFlight[key] = token
	return token, true
}

// end releases the guard, but only if the token still owns it.
func (s *InstallmentService) end(key, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[key] == token {
		delete(s.inFlight, key)
	}
}

// InFlight reports whether an operation for the student is still pending.
// Invariant: false whenever no request is in flight.
func (s *InstallmentService) InFlight(operation, studentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.inFlight[operation+":"+studentID]
	return busy
}

// FetchDues looks up the outstanding dues of one student within the source
// category. Both categories must be selected before the lookup fires even
// though the destination is not part of the request; that keeps staff from
// reaching the transfer step half-configured. Upstream failures are
// published as error notifications and the caller gets an empty list back.
func (s *InstallmentService) FetchDues(ctx context.Context, req models.FetchDuesRequest) ([]models.Due, error) {
	if !utils.IsPresent(req.StudentID) || !req.SourceCategory.Valid() || !req.DestinationCategory.Valid() {
		s.notifier.Publish(MsgCompleteAllFields, models.SeverityError)
		return nil, ErrValidation
	}

	key := "fetch:" + req.StudentID
	token, ok := s.begin(key)
	if !ok {
		return nil, ErrBusy
	}
	defer s.end(key, token)

	dues, err := s.api.GetDuesBasedOnFee(ctx, req.SourceCategory, req.StudentID)
	if err != nil {
		s.notifier.Publish(err.Error(), models.SeverityError)
		return []models.Due{}, err
	}

	if len(dues) == 0 {
		s.notifier.Publish(MsgNoActiveDues, models.SeverityError)
	} else {
		s.notifier.Publish(MsgFetchedFeeDetails, models.SeveritySuccess)
	}
	return dues, nil
}

// ResolveDue re-fetches the source listing and resolves one due against it
// without touching the notification surface. Selection is silent: the staff
// member already saw the lookup notification when the list was fetched.
func (s *InstallmentService) ResolveDue(ctx context.Context, req models.FetchDuesRequest, receiptNo string) (models.DueDetails, bool, error) {
	if !utils.IsPresent(req.StudentID) || !req.SourceCategory.Valid() || !req.DestinationCategory.Valid() {
		return models.DueDetails{}, false, ErrValidation
	}

	dues, err := s.api.GetDuesBasedOnFee(ctx, req.SourceCategory, req.StudentID)
	if err != nil {
		return models.DueDetails{}, false, err
	}

	details, found := SelectDue(dues, receiptNo)
	return details, found, nil
}

// SelectDue resolves a due number against a fetched list. Pure exact-match
// lookup; not-found is silent.
func SelectDue(dues []models.Due, receiptNo string) (models.DueDetails, bool) {
	for _, due := range dues {
		if due.ReceiptNo == receiptNo {
			return models.DueDetails{
				DueNumber: due.ReceiptNo,
				Amount:    due.Amount,
				DueDate:   due.Date,
			}, true
		}
	}
	return models.DueDetails{}, false
}

// Transfer submits the category reassignment. On success the source
// category is refetched so the caller never acts on a stale listing; a
// failed refresh is not fatal to the transfer itself.
func (s *InstallmentService) Transfer(ctx context.Context, transfer models.TransferRequest) ([]models.Due, error) {
	if !utils.IsPresent(transfer.StudentID) || !utils.IsPresent(transfer.DueNumber) ||
		!transfer.SourceCategory.Valid() || !transfer.DestinationCategory.Valid() {
		s.notifier.Publish(MsgCompleteAllFields, models.SeverityError)
		return nil, ErrValidation
	}
	if transfer.SourceCategory == transfer.DestinationCategory {
		s.notifier.Publish(MsgCategoriesDiffer, models.SeverityError)
		return nil, ErrValidation
	}

	key := "transfer:" + transfer.StudentID
	token, ok := s.begin(key)
	if !ok {
		return nil, ErrBusy
	}
	defer s.end(key, token)

	if err := s.api.ExchangeInstallment(ctx, transfer); err != nil {
		s.notifier.Publish(err.Error(), models.SeverityError)
		return nil, err
	}

	s.notifier.Publish(MsgInstallmentUpdated, models.SeveritySuccess)
	utils.LogFeeAction("installment transfer", transfer.StudentID, transfer.DueNumber)

	dues, err := s.api.GetDuesBasedOnFee(ctx, transfer.SourceCategory, transfer.StudentID)
	if err != nil {
		utils.SafeWarn("refresh after transfer failed: %v", err)
		return []models.Due{}, nil
	}
	return dues, nil
}

// SearchAllDues lists every due of a student across categories, for the
// search/deletion screen.
func (s *InstallmentService) SearchAllDues(ctx context.Context, studentID string) ([]models.Due, error) {
	if !utils.IsPresent(studentID) {
		s.notifier.Publish(MsgEnterStudentID, models.SeverityError)
		return nil, ErrValidation
	}

	key := "search:" + studentID
	token, ok := s.begin(key)
	if !ok {
		return nil, ErrBusy
	}
	defer s.end(key, token)

	dues, err := s.api.GetAllDues(ctx, studentID)
	if err != nil {
		s.notifier.Publish(err.Error(), models.SeverityError)
		return []models.Due{}, err
	}

	if len(dues) == 0 {
		s.notifier.Publish(MsgNoActiveDues, models.SeverityError)
	} else {
		s.notifier.Publish(MsgFetchedFeeDetails, models.SeveritySuccess)
	}
	return dues, nil
}

// DeleteDue removes one due and returns the refreshed full listing.
func (s *InstallmentService) DeleteDue(ctx context.Context, category models.FeeCategory, studentID, receiptNo string) ([]models.Due, error) {
	if !utils.IsPresent(studentID) || !utils.IsPresent(receiptNo) || !category.Valid() {
		s.notifier.Publish(MsgCompleteAllFields, models.SeverityError)
		return nil, ErrValidation
	}

	key := "delete:" + studentID
	token, ok := s.begin(key)
	if !ok {
		return nil, ErrBusy
	}
	defer s.end(key, token)

	if err := s.api.DeleteDue(ctx, category, studentID, receiptNo); err != nil {
		s.notifier.Publish(err.Error(), models.SeverityError)
		return nil, err
	}

	s.notifier.Publish(MsgDueDeleted, models.SeveritySuccess)
	utils.LogFeeAction("due deleted", studentID, receiptNo)

	dues, err := s.api.GetAllDues(ctx, studentID)
	if err != nil {
		utils.SafeWarn("refresh after delete failed: %v", err)
		return []models.Due{}, nil
	}
	return dues, nil
}
