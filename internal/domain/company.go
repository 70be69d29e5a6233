package domain

import "time"

// CompanySize buckets companies for reporting.
type CompanySize string

const (
	CompanySizeSmall      CompanySize = "small"
	CompanySizeMedium     CompanySize = "medium"
	CompanySizeLarge      CompanySize = "large"
	CompanySizeEnterprise CompanySize = "enterprise"
)

// Company groups customer users under one tenant.
type Company struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address   string
	Website   string
	Industry  string
	Size      CompanySize
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
