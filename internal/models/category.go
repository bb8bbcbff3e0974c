package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups transactions, e.g. "Groceries".
type Category struct {
	DefaultModel
	Ledger   Ledger    `json:"-"`
	LedgerID uuid.UUID `gorm:"uniqueIndex:category_name_ledger_id"`
	Name     string    `gorm:"uniqueIndex:category_name_ledger_id"`
	Note     string
	Archived bool
}

// BeforeSave trims whitespace from all strings.
func (c *Category) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Note = strings.TrimSpace(c.Note)

	return nil
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	_ = c.DefaultModel.BeforeCreate(tx)

	return tx.First(&Ledger{}, c.LedgerID).Error
}

// Subcategories returns all subcategories linked to this category.
func (c Category) Subcategories(db *gorm.DB) ([]Subcategory, error) {
	var subcategories []Subcategory

	err := db.
		Joins("JOIN subcategory_links ON subcategory_links.subcategory_id = subcategories.id").
		Where("subcategory_links.category_id = ?", c.ID).
		Order("subcategories.name ASC").
		Find(&subcategories).Error

	return subcategories, err
}
