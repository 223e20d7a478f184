package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rentops/ledger_backend/internal/apperrors"
	"github.com/rentops/ledger_backend/internal/core/domain"
	portsrepo "github.com/rentops/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/rentops/ledger_backend/internal/core/ports/services"
	"github.com/rentops/ledger_backend/internal/core/services"
	"github.com/rentops/ledger_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Mock EntryRepository ---
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) CreateEntry(ctx context.Context, entry *domain.JournalEntry, items []domain.JournalEntryItem) error {
	args := m.Called(ctx, entry, items)
	return args.Error(0)
}
func (m *MockEntryRepository) FindEntryByID(ctx context.Context, companyID string, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockEntryRepository) ListEntries(ctx context.Context, companyID string, filter portsrepo.EntryListFilter, page int, limit int) ([]domain.JournalEntry, int64, error) {
	args := m.Called(ctx, companyID, filter, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.JournalEntry), args.Get(1).(int64), args.Error(2)
}
func (m *MockEntryRepository) FindItemsByEntryID(ctx context.Context, companyID string, entryID string) ([]domain.JournalEntryItem, error) {
	args := m.Called(ctx, companyID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntryItem), args.Error(1)
}
func (m *MockEntryRepository) FindItemsByEntryIDs(ctx context.Context, companyID string, entryIDs []string) (map[string][]domain.JournalEntryItem, error) {
	args := m.Called(ctx, companyID, entryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.JournalEntryItem), args.Error(1)
}
func (m *MockEntryRepository) UpdateEntry(ctx context.Context, entry *domain.JournalEntry, items []domain.JournalEntryItem, replaceItems bool) error {
	args := m.Called(ctx, entry, items, replaceItems)
	return args.Error(0)
}
func (m *MockEntryRepository) PostEntry(ctx context.Context, entry *domain.JournalEntry, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, entry, balanceChanges)
	return args.Error(0)
}
func (m *MockEntryRepository) ReverseEntry(ctx context.Context, original *domain.JournalEntry, reversal *domain.JournalEntry, reversalItems []domain.JournalEntryItem, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, original, reversal, reversalItems, balanceChanges)
	return args.Error(0)
}
func (m *MockEntryRepository) DeleteEntry(ctx context.Context, companyID string, entryID string) error {
	args := m.Called(ctx, companyID, entryID)
	return args.Error(0)
}

var _ portsrepo.EntryRepositoryFacade = (*MockEntryRepository)(nil)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountRepository) FindAccountsByCodes(ctx context.Context, companyID string, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, companyID, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}
func (m *MockAccountRepository) ListAccounts(ctx context.Context, companyID string, includeInactive bool) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}
func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}
func (m *MockAccountRepository) FindAccountsByCodesForUpdate(ctx context.Context, tx pgx.Tx, companyID string, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, companyID, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}
func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, companyID string, changes map[string]decimal.Decimal) error {
	args := m.Called(ctx, tx, companyID, changes)
	return args.Error(0)
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

// --- Suite ---
type LedgerServiceTestSuite struct {
	suite.Suite
	entryRepo   *MockEntryRepository
	accountRepo *MockAccountRepository
	service     portssvc.LedgerService
	ctx         context.Context
}

const (
	testCompanyID = "company-1"
	testUserID    = "user-1"
)

func (s *LedgerServiceTestSuite) SetupTest() {
	s.entryRepo = new(MockEntryRepository)
	s.accountRepo = new(MockAccountRepository)
	s.service = services.NewLedgerService(s.entryRepo, s.accountRepo)
	s.ctx = context.Background()
}

func (s *LedgerServiceTestSuite) activeAccounts() map[string]domain.Account {
	return map[string]domain.Account{
		"1000": {AccountID: "a1", CompanyID: testCompanyID, Code: "1000", Name: "Cash", NormalBalance: domain.DebitNormal, IsActive: true},
		"4000": {AccountID: "a2", CompanyID: testCompanyID, Code: "4000", Name: "Revenue", NormalBalance: domain.CreditNormal, IsActive: true},
	}
}

func (s *LedgerServiceTestSuite) balancedRequest() dto.CreateEntryRequest {
	return dto.CreateEntryRequest{
		EntryDate:   time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		Description: "August sale",
		Items: []dto.EntryItemRequest{
			{AccountCode: "1000", Debit: decimal.NewFromInt(100)},
			{AccountCode: "4000", Credit: decimal.NewFromInt(100)},
		},
	}
}

func (s *LedgerServiceTestSuite) TestCreateEntry_Success() {
	s.accountRepo.On("FindAccountsByCodes", s.ctx, testCompanyID, mock.Anything).Return(s.activeAccounts(), nil)
	s.entryRepo.On("CreateEntry", s.ctx, mock.AnythingOfType("*domain.JournalEntry"), mock.Anything).Return(nil)

	entry, err := s.service.CreateEntry(s.ctx, testCompanyID, testUserID, s.balancedRequest())

	require.NoError(s.T(), err)
	require.NotNil(s.T(), entry)
	assert.Equal(s.T(), domain.Draft, entry.Status)
	assert.Equal(s.T(), "standard", entry.EntryType)
	assert.Equal(s.T(), testCompanyID, entry.CompanyID)
	assert.True(s.T(), entry.TotalDebit.Equal(decimal.NewFromInt(100)))
	assert.True(s.T(), entry.TotalCredit.Equal(decimal.NewFromInt(100)))
	require.Len(s.T(), entry.Items, 2)
	assert.Equal(s.T(), 1, entry.Items[0].LineNumber)
	assert.Equal(s.T(), 2, entry.Items[1].LineNumber)
	assert.Equal(s.T(), entry.EntryID, entry.Items[0].EntryID)
	s.entryRepo.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestCreateEntry_Unbalanced() {
	req := s.balancedRequest()
	req.Items[1].Credit = decimal.NewFromInt(90)

	entry, err := s.service.CreateEntry(s.ctx, testCompanyID, testUserID, req)

	require.Error(s.T(), err)
	assert.Nil(s.T(), entry)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
	assert.Contains(s.T(), err.Error(), "must equal total credit")
	s.entryRepo.AssertNotCalled(s.T(), "CreateEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestCreateEntry_MissingAccount() {
	accounts := s.activeAccounts()
	delete(accounts, "4000")
	s.accountRepo.On("FindAccountsByCodes", s.ctx, testCompanyID, mock.Anything).Return(accounts, nil)

	_, err := s.service.CreateEntry(s.ctx, testCompanyID, testUserID, s.balancedRequest())

	require.Error(s.T(), err)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
	assert.Contains(s.T(), err.Error(), "account 4000 does not exist")
}

func (s *LedgerServiceTestSuite) TestCreateEntry_InactiveAccount() {
	accounts := s.activeAccounts()
	acc := accounts["1000"]
	acc.IsActive = false
	accounts["1000"] = acc
	s.accountRepo.On("FindAccountsByCodes", s.ctx, testCompanyID, mock.Anything).Return(accounts, nil)

	_, err := s.service.CreateEntry(s.ctx, testCompanyID, testUserID, s.balancedRequest())

	require.Error(s.T(), err)
	assert.Contains(s.T(), err.Error(), "account 1000 is inactive")
}

func (s *LedgerServiceTestSuite) draftEntry() *domain.JournalEntry {
	return &domain.JournalEntry{
		EntryID:     "e1",
		CompanyID:   testCompanyID,
		EntryNumber: "2026-001",
		EntryDate:   time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		EntryType:   "standard",
		Status:      domain.Draft,
		TotalDebit:  decimal.NewFromInt(100),
		TotalCredit: decimal.NewFromInt(100),
		Items: []domain.JournalEntryItem{
			{ItemID: "i1", EntryID: "e1", CompanyID: testCompanyID, AccountCode: "1000", Debit: decimal.NewFromInt(100), LineNumber: 1},
			{ItemID: "i2", EntryID: "e1", CompanyID: testCompanyID, AccountCode: "4000", Credit: decimal.NewFromInt(100), LineNumber: 2},
		},
	}
}

func (s *LedgerServiceTestSuite) postedEntry() *domain.JournalEntry {
	entry := s.draftEntry()
	entry.Status = domain.Posted
	postedBy := testUserID
	postedAt := time.Now()
	entry.PostedBy = &postedBy
	entry.PostedAt = &postedAt
	return entry
}

func (s *LedgerServiceTestSuite) TestPostEntry_Success() {
	s.entryRepo.On("FindEntryByID", s.ctx, testCompanyID, "e1").Return(s.draftEntry(), nil)
	s.accountRepo.On("FindAccountsByCodes", s.ctx, testCompanyID, mock.Anything).Return(s.activeAccounts(), nil)
	s.entryRepo.On("PostEntry", s.ctx, mock.AnythingOfType("*domain.JournalEntry"), mock.Anything).Return(nil)

	entry, err := s.service.PostEntry(s.ctx, testCompanyID, testUserID, "e1")

	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.Posted, entry.Status)
	require.NotNil(s.T(), entry.PostedBy)
	assert.Equal(s.T(), testUserID, *entry.PostedBy)
	require.NotNil(s.T(), entry.PostedAt)

	// Both accounts move toward their normal side by 100.
	changes := s.entryRepo.Calls[1].Arguments.Get(2).(map[string]decimal.Decimal)
	assert.True(s.T(), changes["1000"].Equal(decimal.NewFromInt(100)))
	assert.True(s.T(), changes["4000"].Equal(decimal.NewFromInt(100)))
}

func (s *LedgerServiceTestSuite) TestPostEntry_NotDraft() {
	s.entryRepo.On("FindEntryByID", s.ctx, testCompanyID, "e1").Return(s.postedEntry(), nil)

	_, err := s.service.PostEntry(s.ctx, testCompanyID, testUserID, "e1")

	require.Error(s.T(), err)
	assert.ErrorIs(s.T(), err, apperrors.ErrConflict)
	assert.Contains(s.T(), err.Error(), "only draft journal entries can be posted")
	s.entryRepo.AssertNotCalled(s.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestPostEntry_MissingAccountFails() {
	s.entryRepo.On("FindEntryByID", s.ctx, testCompanyID, "e1").Return(s.draftEntry(), nil)
	accounts := s.activeAccounts()
	delete(accounts, "1000")
	s.accountRepo.On("FindAccountsByCodes", s.ctx, testCompanyID, mock.Anything).Return(accounts, nil)

	_, err := s.service.PostEntry(s.ctx, testCompanyID, testUserID, "e1")

	require.Error(s.T(), err)
	s.entryRepo.AssertNotCalled(s.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestReverseEntry_Success() {
	s.entryRepo.On("FindEntryByID", s.ctx, testCompanyID, "e1").Return(s.postedEntry(), nil)
	s.accountRepo.On("FindAccountsByCodes", s.ctx, testCompanyID, mock.Anything).Return(s.activeAccounts(), nil)
	s.entryRepo.On("ReverseEntry", s.ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	original, reversal, err := s.service.ReverseEntry(s.ctx, testCompanyID, testUserID, "e1", dto.ReverseEntryRequest{Reason: "posted in error"})

	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.Reversed, original.Status)
	assert.True(s.T(), original.IsReversed)
	require.NotNil(s.T(), original.ReversalEntryID)
	assert.Equal(s.T(), reversal.EntryID, *original.ReversalEntryID)

	assert.Equal(s.T(), domain.EntryTypeReversal, reversal.EntryType)
	assert.Equal(s.T(), domain.Posted, reversal.Status)
	assert.Contains(s.T(), reversal.Description, "Reversal:")
	assert.Contains(s.T(), reversal.Description, "posted in error")
	require.NotNil(s.T(), reversal.ReversedEntryID)
	assert.Equal(s.T(), original.EntryID, *reversal.ReversedEntryID)

	// Lines come back mirrored.
	require.Len(s.T(), reversal.Items, 2)
	assert.True(s.T(), reversal.Items[0].Credit.Equal(decimal.NewFromInt(100)))
	assert.True(s.T(), reversal.Items[0].Debit.IsZero())
	assert.True(s.T(), reversal.Items[1].Debit.Equal(decimal.NewFromInt(100)))

	// Balance deltas are the exact negation of posting.
	changes := s.entryRepo.Calls[1].Arguments.Get(4).(map[string]decimal.Decimal)
	assert.True(s.T(), changes["1000"].Equal(decimal.NewFromInt(-100)))
	assert.True(s.T(), changes["4000"].Equal(decimal.NewFromInt(-100)))
}

func (s *LedgerServiceTestSuite) TestReverseEntry_DraftRejected() {
	s.entryRepo.On("FindEntryByID", s.ctx, testCompanyID, "e1").Return(s.draftEntry(), nil)

	_, _, err := s.service.ReverseEntry(s.ctx, testCompanyID, testUserID, "e1", dto.ReverseEntryRequest{Reason: "nope"})

	require.Error(s.T(), err)
	assert.Contains(s.T(), err.Error(), "only posted journal entries can be reversed")
}

func (s *LedgerServiceTestSuite) TestReverseEntry_AlreadyReversed() {
	entry := s.postedEntry()
	entry.IsReversed = true
	s.entryRepo.On("FindEntryByID", s.ctx, testCompanyID, "e1").Return(entry, nil)

	_, _, err := s.service.ReverseEntry(s.ctx, testCompanyID, testUserID, "e1", dto.ReverseEntryRequest{Reason: "again"})

	require.Error(s.T(), err)
	assert.ErrorIs(s.T(), err, apperrors.ErrConflict)
	assert.Contains(s.T(), err.Error(), "already been reversed")
}

func (s *LedgerServiceTestSuite) TestUpdateEntry_NotDraft() {
	s.entryRepo.On("FindEntryByID", s.ctx, testCompanyID, "e1").Return(s.postedEntry(), nil)

	desc := "new description"
	_, err := s.service.UpdateEntry(s.ctx, testCompanyID, testUserID, "e1", dto.UpdateEntryRequest{Description: &desc})

	require.Error(s.T(), err)
	assert.Contains(s.T(), err.Error(), "only draft journal entries can be updated")
}

func (s *LedgerServiceTestSuite) TestUpdateEntry_ReplacesItems() {
	s.entryRepo.On("FindEntryByID", s.ctx, testCompanyID, "e1").Return(s.draftEntry(), nil)
	s.accountRepo.On("FindAccountsByCodes", s.ctx, testCompanyID, mock.Anything).Return(s.activeAccounts(), nil)
	s.entryRepo.On("UpdateEntry", s.ctx, mock.Anything, mock.Anything, true).Return(nil)

	newItems := []dto.EntryItemRequest{
		{AccountCode: "1000", Debit: decimal.NewFromInt(250)},
		{AccountCode: "4000", Credit: decimal.NewFromInt(250)},
	}
	entry, err := s.service.UpdateEntry(s.ctx, testCompanyID, testUserID, "e1", dto.UpdateEntryRequest{Items: &newItems})

	require.NoError(s.T(), err)
	assert.True(s.T(), entry.TotalDebit.Equal(decimal.NewFromInt(250)))
	require.Len(s.T(), entry.Items, 2)
	assert.Equal(s.T(), 1, entry.Items[0].LineNumber)
}

func (s *LedgerServiceTestSuite) TestDeleteEntry_DraftOnly() {
	s.entryRepo.On("FindEntryByID", s.ctx, testCompanyID, "e1").Return(s.draftEntry(), nil)
	s.entryRepo.On("DeleteEntry", s.ctx, testCompanyID, "e1").Return(nil)

	err := s.service.DeleteEntry(s.ctx, testCompanyID, "e1")
	require.NoError(s.T(), err)
	s.entryRepo.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestDeleteEntry_PostedRejected() {
	s.entryRepo.On("FindEntryByID", s.ctx, testCompanyID, "e1").Return(s.postedEntry(), nil)

	err := s.service.DeleteEntry(s.ctx, testCompanyID, "e1")

	require.Error(s.T(), err)
	assert.Contains(s.T(), err.Error(), "only draft journal entries can be deleted")
	s.entryRepo.AssertNotCalled(s.T(), "DeleteEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestValidateEntry_ReportsTotalsAndProblems() {
	accounts := s.activeAccounts()
	delete(accounts, "4000")
	s.accountRepo.On("FindAccountsByCodes", s.ctx, testCompanyID, mock.Anything).Return(accounts, nil)

	resp, err := s.service.ValidateEntry(s.ctx, testCompanyID, dto.ValidateEntryRequest{
		Items: []dto.EntryItemRequest{
			{AccountCode: "1000", Debit: decimal.NewFromInt(100)},
			{AccountCode: "4000", Credit: decimal.NewFromInt(90)},
		},
	})

	require.NoError(s.T(), err)
	assert.False(s.T(), resp.OK)
	assert.True(s.T(), resp.TotalDebit.Equal(decimal.NewFromInt(100)))
	assert.True(s.T(), resp.TotalCredit.Equal(decimal.NewFromInt(90)))
	assert.Contains(s.T(), resp.Message, "must equal total credit")
	require.Len(s.T(), resp.Errors, 1)
	assert.Contains(s.T(), resp.Errors[0], "account 4000 does not exist")
}

func (s *LedgerServiceTestSuite) TestValidateEntry_CleanItems() {
	s.accountRepo.On("FindAccountsByCodes", s.ctx, testCompanyID, mock.Anything).Return(s.activeAccounts(), nil)

	resp, err := s.service.ValidateEntry(s.ctx, testCompanyID, dto.ValidateEntryRequest{
		Items: []dto.EntryItemRequest{
			{AccountCode: "1000", Debit: decimal.NewFromInt(100)},
			{AccountCode: "4000", Credit: decimal.NewFromInt(100)},
		},
	})

	require.NoError(s.T(), err)
	assert.True(s.T(), resp.OK)
	assert.Empty(s.T(), resp.Errors)
	assert.Empty(s.T(), resp.Message)
}

func (s *LedgerServiceTestSuite) TestValidateEntry_Idempotent() {
	s.accountRepo.On("FindAccountsByCodes", s.ctx, testCompanyID, mock.Anything).Return(s.activeAccounts(), nil)

	req := dto.ValidateEntryRequest{
		Items: []dto.EntryItemRequest{
			{AccountCode: "1000", Debit: decimal.NewFromInt(100)},
			{AccountCode: "4000", Credit: decimal.NewFromInt(100)},
		},
	}

	first, err := s.service.ValidateEntry(s.ctx, testCompanyID, req)
	require.NoError(s.T(), err)
	second, err := s.service.ValidateEntry(s.ctx, testCompanyID, req)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), first, second)
	s.entryRepo.AssertNotCalled(s.T(), "CreateEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestListEntries_LoadsItems() {
	entries := []domain.JournalEntry{*s.draftEntry()}
	entries[0].Items = nil
	s.entryRepo.On("ListEntries", s.ctx, testCompanyID, mock.Anything, 1, 50).Return(entries, int64(1), nil)
	s.entryRepo.On("FindItemsByEntryIDs", s.ctx, testCompanyID, []string{"e1"}).Return(map[string][]domain.JournalEntryItem{
		"e1": s.draftEntry().Items,
	}, nil)

	got, total, err := s.service.ListEntries(s.ctx, testCompanyID, dto.ListEntriesParams{Page: 1, Limit: 50})

	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), total)
	require.Len(s.T(), got, 1)
	assert.Len(s.T(), got[0].Items, 2)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
