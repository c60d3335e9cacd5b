package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Partner is a business-partner master record. BPNumber is the code
// slips carry in their partner field.
type Partner struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id,string"`
	BPNumber     string       `gorm:"column:bp_number;uniqueIndex" json:"bp_number"`
	Name         string       `json:"name"`
	LicenseNo    string       `json:"license_no"`
	ARAccount    string       `gorm:"column:ar_account" json:"ar_account"`
	APAccount    string       `gorm:"column:ap_account" json:"ap_account"`
	ContactName  string       `json:"contact_name"`
	ContactEmail string       `json:"contact_email"`
	IsActive     bool         `json:"is_active"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (Partner) TableName() string { return "partners" }

// Update patches a partner. Nil fields are left untouched.
type Update struct {
	Name         *string
	LicenseNo    *string
	ARAccount    *string
	APAccount    *string
	ContactName  *string
	ContactEmail *string
	IsActive     *bool
}
