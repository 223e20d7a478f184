package models

// Company is the persistence model for companies rows.
type Company struct {
	CompanyID string `json:"companyID" db:"company_id"`
	Name      string `json:"name" db:"name"`
	AuditFields
}
