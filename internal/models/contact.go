package models

import "time"

// DepartmentContact maps a department name, as it appears free-text in the
// workbook, to the people who receive its status mail. Department identity
// stays the workbook string; the contact row only decorates it.
type DepartmentContact struct {
	ContactID    uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Code         string    `gorm:"uniqueIndex;size:64;not null" json:"code"`
	ContactName  string    `gorm:"size:255" json:"contactName"`
	ContactEmail string    `gorm:"size:255" json:"contactEmail"`
	ContactPhone string    `gorm:"size:64" json:"contactPhone"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// TableName overrides the table name for DepartmentContact
func (DepartmentContact) TableName() string {
	return "department_contacts"
}
