package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rentops/ledger_backend/internal/apperrors"
	"github.com/rentops/ledger_backend/internal/core/domain"
	portssvc "github.com/rentops/ledger_backend/internal/core/ports/services"
	"github.com/rentops/ledger_backend/internal/dto"
	"github.com/rentops/ledger_backend/internal/handlers"
	"github.com/rentops/ledger_backend/internal/platform/config"
	"github.com/rentops/ledger_backend/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CreateEntry(ctx context.Context, companyID string, userID string, req dto.CreateEntryRequest) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockLedgerService) GetEntryByID(ctx context.Context, companyID string, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockLedgerService) ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) ([]domain.JournalEntry, int64, error) {
	args := m.Called(ctx, companyID, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.JournalEntry), args.Get(1).(int64), args.Error(2)
}
func (m *MockLedgerService) UpdateEntry(ctx context.Context, companyID string, userID string, entryID string, req dto.UpdateEntryRequest) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, userID, entryID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockLedgerService) PostEntry(ctx context.Context, companyID string, userID string, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, userID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockLedgerService) ReverseEntry(ctx context.Context, companyID string, userID string, entryID string, req dto.ReverseEntryRequest) (*domain.JournalEntry, *domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, userID, entryID, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.JournalEntry), args.Get(1).(*domain.JournalEntry), args.Error(2)
}
func (m *MockLedgerService) DeleteEntry(ctx context.Context, companyID string, entryID string) error {
	args := m.Called(ctx, companyID, entryID)
	return args.Error(0)
}
func (m *MockLedgerService) ValidateEntry(ctx context.Context, companyID string, req dto.ValidateEntryRequest) (*dto.ValidateEntryResponse, error) {
	args := m.Called(ctx, companyID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ValidateEntryResponse), args.Error(1)
}

var _ portssvc.LedgerService = (*MockLedgerService)(nil)

const (
	testJWTSecret = "test-secret"
	testUserID    = "user-1"
	testCompanyID = "company-1"
)

func setupEntryRouter(t *testing.T) (*gin.Engine, *MockLedgerService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mockSvc := new(MockLedgerService)
	cfg := &config.Config{
		JWTSecret:       testJWTSecret,
		JWTIssuer:       "ledger-backend-test",
		FrontendBaseURL: "http://localhost:3000",
		IsProduction:    true,
	}
	services := &portssvc.ServiceContainer{LedgerSvc: mockSvc}

	r := gin.New()
	handlers.RegisterRoutes(r, cfg, services)
	return r, mockSvc
}

func authedRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	token, err := utils.GenerateJWT(testUserID, testCompanyID, testJWTSecret, time.Hour, "ledger-backend-test")
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func sampleEntry() *domain.JournalEntry {
	return &domain.JournalEntry{
		EntryID:     "e1",
		CompanyID:   testCompanyID,
		EntryNumber: "2026-001",
		EntryDate:   time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		EntryType:   "standard",
		Description: "August sale",
		TotalDebit:  decimal.NewFromInt(100),
		TotalCredit: decimal.NewFromInt(100),
		Status:      domain.Draft,
		Items: []domain.JournalEntryItem{
			{ItemID: "i1", EntryID: "e1", AccountCode: "1000", Debit: decimal.NewFromInt(100), LineNumber: 1},
			{ItemID: "i2", EntryID: "e1", AccountCode: "4000", Credit: decimal.NewFromInt(100), LineNumber: 2},
		},
	}
}

func TestCreateEntry_Created(t *testing.T) {
	r, mockSvc := setupEntryRouter(t)
	mockSvc.On("CreateEntry", mock.Anything, testCompanyID, testUserID, mock.AnythingOfType("dto.CreateEntryRequest")).
		Return(sampleEntry(), nil)

	body := dto.CreateEntryRequest{
		EntryDate:   time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		Description: "August sale",
		Items: []dto.EntryItemRequest{
			{AccountCode: "1000", Debit: decimal.NewFromInt(100)},
			{AccountCode: "4000", Credit: decimal.NewFromInt(100)},
		},
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodPost, "/api/v1/journal-entries", body))

	require.Equal(t, http.StatusCreated, w.Code)
	var resp dto.EntryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "e1", resp.EntryID)
	assert.Equal(t, "2026-001", resp.EntryNumber)
	assert.Len(t, resp.Items, 2)
	mockSvc.AssertExpectations(t)
}

func TestCreateEntry_MissingItemsRejectedByBinding(t *testing.T) {
	r, mockSvc := setupEntryRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodPost, "/api/v1/journal-entries", gin.H{
		"description": "no items",
	}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "CreateEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetEntry_NotFound(t *testing.T) {
	r, mockSvc := setupEntryRouter(t)
	mockSvc.On("GetEntryByID", mock.Anything, testCompanyID, "missing").
		Return(nil, apperrors.NewNotFoundError("journal entry not found"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodGet, "/api/v1/journal-entries/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "journal entry not found")
}

func TestPostEntry_ConflictWhenNotDraft(t *testing.T) {
	r, mockSvc := setupEntryRouter(t)
	mockSvc.On("PostEntry", mock.Anything, testCompanyID, testUserID, "e1").
		Return(nil, apperrors.NewConflictError("only draft journal entries can be posted"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodPost, "/api/v1/journal-entries/e1/post", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "only draft journal entries can be posted")
}

func TestReverseEntry_Created(t *testing.T) {
	r, mockSvc := setupEntryRouter(t)

	original := sampleEntry()
	original.Status = domain.Reversed
	original.IsReversed = true
	reversal := sampleEntry()
	reversal.EntryID = "e2"
	reversal.EntryNumber = "2026-002"
	reversal.EntryType = domain.EntryTypeReversal
	reversal.Status = domain.Posted

	mockSvc.On("ReverseEntry", mock.Anything, testCompanyID, testUserID, "e1", mock.AnythingOfType("dto.ReverseEntryRequest")).
		Return(original, reversal, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodPost, "/api/v1/journal-entries/e1/reverse", dto.ReverseEntryRequest{Reason: "posted in error"}))

	require.Equal(t, http.StatusCreated, w.Code)
	var resp dto.ReversalResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "e1", resp.Original.EntryID)
	assert.Equal(t, "e2", resp.Reversal.EntryID)
	assert.Equal(t, string(domain.Posted), resp.Reversal.Status)
}

func TestValidateEntry_ReturnsProblems(t *testing.T) {
	r, mockSvc := setupEntryRouter(t)
	mockSvc.On("ValidateEntry", mock.Anything, testCompanyID, mock.AnythingOfType("dto.ValidateEntryRequest")).
		Return(&dto.ValidateEntryResponse{
			OK:          false,
			TotalDebit:  decimal.NewFromInt(100),
			TotalCredit: decimal.NewFromInt(90),
			Message:     "total debit (100) must equal total credit (90)",
		}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodPost, "/api/v1/journal-entries/validate", dto.ValidateEntryRequest{
		Items: []dto.EntryItemRequest{
			{AccountCode: "1000", Debit: decimal.NewFromInt(100)},
			{AccountCode: "4000", Credit: decimal.NewFromInt(90)},
		},
	}))

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.ValidateEntryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.OK)
	assert.Contains(t, resp.Message, "must equal total credit")
}

func TestListEntries_Pagination(t *testing.T) {
	r, mockSvc := setupEntryRouter(t)
	mockSvc.On("ListEntries", mock.Anything, testCompanyID, mock.AnythingOfType("dto.ListEntriesParams")).
		Return([]domain.JournalEntry{*sampleEntry()}, int64(120), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodGet, "/api/v1/journal-entries?page=2&limit=50", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.ListEntriesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, 2, resp.Pagination.Page)
	assert.Equal(t, int64(120), resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.TotalPages)

	params := mockSvc.Calls[0].Arguments.Get(2).(dto.ListEntriesParams)
	assert.Equal(t, 2, params.Page)
	assert.Equal(t, 50, params.Limit)
}

func TestDeleteEntry_NoContent(t *testing.T) {
	r, mockSvc := setupEntryRouter(t)
	mockSvc.On("DeleteEntry", mock.Anything, testCompanyID, "e1").Return(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodDelete, "/api/v1/journal-entries/e1", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestEntryRoutes_RejectMissingToken(t *testing.T) {
	r, mockSvc := setupEntryRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/journal-entries", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockSvc.AssertNotCalled(t, "ListEntries", mock.Anything, mock.Anything, mock.Anything)
}

func TestEntryRoutes_RejectBadToken(t *testing.T) {
	r, _ := setupEntryRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/journal-entries", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
