package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EntityKind is the kind of ledger entity an import rule resolves.
type EntityKind string

const (
	EntityKindAccount     EntityKind = "account"
	EntityKindCategory    EntityKind = "category"
	EntityKindSubcategory EntityKind = "subcategory"
)

// Valid reports whether the kind is one of the known entity kinds.
func (k EntityKind) Valid() bool {
	return k == EntityKindAccount || k == EntityKindCategory || k == EntityKindSubcategory
}

// ImportRule is a persisted resolution for raw entity names found in CSV
// files. Match is a glob pattern checked against the raw value, Target is
// the name of the ledger entity the raw value resolves to.
//
// Rules are applied in priority order, the first matching rule wins.
type ImportRule struct {
	DefaultModel
	Ledger   Ledger    `json:"-"`
	LedgerID uuid.UUID
	Kind     EntityKind
	Priority uint
	Match    string
	Target   string
}

func (r *ImportRule) BeforeCreate(tx *gorm.DB) error {
	_ = r.DefaultModel.BeforeCreate(tx)

	return tx.First(&Ledger{}, r.LedgerID).Error
}
