package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subcategory is a tag-like refinement of categories, e.g. "Vegetables"
// for "Groceries". A subcategory can be linked to multiple categories.
type Subcategory struct {
	DefaultModel
	Ledger   Ledger    `json:"-"`
	LedgerID uuid.UUID `gorm:"uniqueIndex:subcategory_name_ledger_id"`
	Name     string    `gorm:"uniqueIndex:subcategory_name_ledger_id"`
}

// BeforeSave trims whitespace from all strings.
func (s *Subcategory) BeforeSave(_ *gorm.DB) error {
	s.Name = strings.TrimSpace(s.Name)

	return nil
}

func (s *Subcategory) BeforeCreate(tx *gorm.DB) error {
	_ = s.DefaultModel.BeforeCreate(tx)

	return tx.First(&Ledger{}, s.LedgerID).Error
}

// SubcategoryLink records that a subcategory has been used with a category.
// Links are append-only, they are never removed when the combination stops
// being used.
type SubcategoryLink struct {
	DefaultModel
	Category      Category    `json:"-"`
	CategoryID    uuid.UUID   `gorm:"uniqueIndex:link_category_subcategory"`
	Subcategory   Subcategory `json:"-"`
	SubcategoryID uuid.UUID   `gorm:"uniqueIndex:link_category_subcategory"`
}

// LinkSubcategory creates the link between a category and a subcategory if
// it does not exist yet.
func LinkSubcategory(db *gorm.DB, categoryID, subcategoryID uuid.UUID) error {
	var link SubcategoryLink
	err := db.Where(SubcategoryLink{CategoryID: categoryID, SubcategoryID: subcategoryID}).First(&link).Error
	if err == nil {
		return nil
	}

	return db.Create(&SubcategoryLink{CategoryID: categoryID, SubcategoryID: subcategoryID}).Error
}
