package mapping

import (
	"github.com/rentops/ledger_backend/internal/core/domain"
	"github.com/rentops/ledger_backend/internal/models"
)

// ToModelEntry converts a domain.JournalEntry to its persistence model.
func ToModelEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:         d.EntryID,
		CompanyID:       d.CompanyID,
		EntryNumber:     d.EntryNumber,
		EntryDate:       d.EntryDate,
		EntryType:       d.EntryType,
		Description:     d.Description,
		Reference:       d.Reference,
		TotalDebit:      d.TotalDebit,
		TotalCredit:     d.TotalCredit,
		Status:          models.EntryStatus(d.Status),
		IsReversed:      d.IsReversed,
		ReversedEntryID: d.ReversedEntryID,
		ReversalEntryID: d.ReversalEntryID,
		PostedBy:        d.PostedBy,
		PostedAt:        d.PostedAt,
		AuditFields:     toModelAudit(d.AuditFields),
	}
}

// ToDomainEntry converts a persistence model to a domain.JournalEntry.
func ToDomainEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:         m.EntryID,
		CompanyID:       m.CompanyID,
		EntryNumber:     m.EntryNumber,
		EntryDate:       m.EntryDate,
		EntryType:       m.EntryType,
		Description:     m.Description,
		Reference:       m.Reference,
		TotalDebit:      m.TotalDebit,
		TotalCredit:     m.TotalCredit,
		Status:          domain.EntryStatus(m.Status),
		IsReversed:      m.IsReversed,
		ReversedEntryID: m.ReversedEntryID,
		ReversalEntryID: m.ReversalEntryID,
		PostedBy:        m.PostedBy,
		PostedAt:        m.PostedAt,
		AuditFields:     toDomainAudit(m.AuditFields),
	}
}

// ToModelItem converts a domain.JournalEntryItem to its persistence model.
func ToModelItem(d domain.JournalEntryItem) models.JournalEntryItem {
	return models.JournalEntryItem{
		ItemID:      d.ItemID,
		EntryID:     d.EntryID,
		CompanyID:   d.CompanyID,
		AccountCode: d.AccountCode,
		AccountName: d.AccountName,
		Debit:       d.Debit,
		Credit:      d.Credit,
		Description: d.Description,
		LineNumber:  d.LineNumber,
	}
}

// ToDomainItem converts a persistence model to a domain.JournalEntryItem.
func ToDomainItem(m models.JournalEntryItem) domain.JournalEntryItem {
	return domain.JournalEntryItem{
		ItemID:      m.ItemID,
		EntryID:     m.EntryID,
		CompanyID:   m.CompanyID,
		AccountCode: m.AccountCode,
		AccountName: m.AccountName,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Description: m.Description,
		LineNumber:  m.LineNumber,
	}
}

// ToModelAccount converts a domain.Account to its persistence model.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		CompanyID:      d.CompanyID,
		Code:           d.Code,
		Name:           d.Name,
		NormalBalance:  models.NormalBalance(d.NormalBalance),
		Description:    d.Description,
		IsActive:       d.IsActive,
		CurrentBalance: d.CurrentBalance,
		AuditFields:    toModelAudit(d.AuditFields),
	}
}

// ToDomainAccount converts a persistence model to a domain.Account.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:      m.AccountID,
		CompanyID:      m.CompanyID,
		Code:           m.Code,
		Name:           m.Name,
		NormalBalance:  domain.NormalBalance(m.NormalBalance),
		Description:    m.Description,
		IsActive:       m.IsActive,
		CurrentBalance: m.CurrentBalance,
		AuditFields:    toDomainAudit(m.AuditFields),
	}
}

// ToModelUser converts a domain.User to its persistence model.
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:         d.UserID,
		CompanyID:      d.CompanyID,
		Username:       d.Username,
		Email:          d.Email,
		Name:           d.Name,
		PasswordHash:   d.PasswordHash,
		AuthProvider:   string(d.AuthProvider),
		ProviderUserID: d.ProviderUserID,
		EmailVerified:  d.EmailVerified,
		AuditFields:    toModelAudit(d.AuditFields),
		DeletedAt:      d.DeletedAt,
	}
}

// ToDomainUser converts a persistence model to a domain.User.
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:         m.UserID,
		CompanyID:      m.CompanyID,
		Username:       m.Username,
		Email:          m.Email,
		Name:           m.Name,
		PasswordHash:   m.PasswordHash,
		AuthProvider:   domain.AuthProvider(m.AuthProvider),
		ProviderUserID: m.ProviderUserID,
		EmailVerified:  m.EmailVerified,
		AuditFields:    toDomainAudit(m.AuditFields),
		DeletedAt:      m.DeletedAt,
	}
}

// ToModelCompany converts a domain.Company to its persistence model.
func ToModelCompany(d domain.Company) models.Company {
	return models.Company{
		CompanyID:   d.CompanyID,
		Name:        d.Name,
		AuditFields: toModelAudit(d.AuditFields),
	}
}

// ToDomainCompany converts a persistence model to a domain.Company.
func ToDomainCompany(m models.Company) domain.Company {
	return domain.Company{
		CompanyID:   m.CompanyID,
		Name:        m.Name,
		AuditFields: toDomainAudit(m.AuditFields),
	}
}

func toModelAudit(a domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt:     a.CreatedAt,
		CreatedBy:     a.CreatedBy,
		LastUpdatedAt: a.LastUpdatedAt,
		LastUpdatedBy: a.LastUpdatedBy,
	}
}

func toDomainAudit(a models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     a.CreatedAt,
		CreatedBy:     a.CreatedBy,
		LastUpdatedAt: a.LastUpdatedAt,
		LastUpdatedBy: a.LastUpdatedBy,
	}
}
