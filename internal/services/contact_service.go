package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/complianceguard/regdash/internal/models"
)

// ErrNotFound marks lookups that matched nothing.
var ErrNotFound = errors.New("not found")

// ListContacts returns every registered department contact, ordered by name.
func ListContacts(db *gorm.DB) ([]models.DepartmentContact, error) {
	var contacts []models.DepartmentContact
	if err := db.Order("name").Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

// GetContactByCode returns the contact registered under code, or nil.
func GetContactByCode(db *gorm.DB, code string) (*models.DepartmentContact, error) {
	var contact models.DepartmentContact
	err := db.Where("code = ?", code).First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return &contact, nil
}

// ContactEmailForDepartment resolves the recipient address for a department
// name as it appears in the workbook. Match is exact on the contact's name
// first, then by code; empty string when no contact has an email.
func ContactEmailForDepartment(db *gorm.DB, department string) (string, error) {
	var contact models.DepartmentContact
	err := db.Where("name = ? OR code = ?", department, department).First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("resolve contact: %w", err)
	}
	return strings.TrimSpace(contact.ContactEmail), nil
}

// UpsertContact creates the contact or, when the code already exists,
// updates it in place.
func UpsertContact(db *gorm.DB, contact *models.DepartmentContact) error {
	if contact.Name == "" || contact.Code == "" {
		return errors.New("contact requires name and code")
	}

	var existing models.DepartmentContact
	err := db.Where("code = ?", contact.Code).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := db.Create(contact).Error; err != nil {
			return fmt.Errorf("create contact: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("upsert contact: %w", err)
	}

	contact.ContactID = existing.ContactID
	contact.CreatedAt = existing.CreatedAt
	if err := db.Save(contact).Error; err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	return nil
}

// DeleteContact removes the contact registered under code.
func DeleteContact(db *gorm.DB, code string) error {
	result := db.Where("code = ?", code).Delete(&models.DepartmentContact{})
	if result.Error != nil {
		return fmt.Errorf("delete contact: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
