package domain

// Company is the tenant boundary: accounts, journal entries and users are
// all scoped to a single company.
type Company struct {
	CompanyID string `json:"companyID"`
	Name      string `json:"name"`
	AuditFields
}
