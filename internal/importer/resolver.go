package importer

import (
	"fmt"
	"strings"

	"github.com/centbook/backend/internal/models"
	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
)

// entityResolver maps raw account, category and subcategory strings to
// ledger entity IDs for one import run.
//
// Lookup order: existing entities by case-insensitive name, then the
// user-approved EntityMapping, then persisted import rules, then
// auto-creation with the raw value as name. Created entities are counted
// once per distinct name, repeated raw values hit the memo table.
type entityResolver struct {
	store   Store
	mapping EntityMapping
	rules   []models.ImportRule
	result  *Result

	accounts      map[string]uuid.UUID
	categories    map[string]uuid.UUID
	subcategories map[string]uuid.UUID

	// linked memoizes subcategory/category combinations handled this run
	linked map[string]struct{}
}

func newEntityResolver(store Store, mapping EntityMapping, rules []models.ImportRule, result *Result) *entityResolver {
	return &entityResolver{
		store:         store,
		mapping:       mapping,
		rules:         rules,
		result:        result,
		accounts:      make(map[string]uuid.UUID),
		categories:    make(map[string]uuid.UUID),
		subcategories: make(map[string]uuid.UUID),
		linked:        make(map[string]struct{}),
	}
}

// resolveAccount resolves a raw account name. Rows without an account
// value fall back to DefaultAccountName.
func (r *entityResolver) resolveAccount(raw string) (uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		raw = DefaultAccountName
	}

	return r.resolve(raw, models.EntityKindAccount, r.accounts, r.mapping.Accounts,
		r.store.FindAccountByName, r.store.CreateAccount, &r.result.CreatedAccounts)
}

// resolveCategory resolves a raw category name.
func (r *entityResolver) resolveCategory(raw string) (uuid.UUID, error) {
	return r.resolve(raw, models.EntityKindCategory, r.categories, r.mapping.Categories,
		r.store.FindCategoryByName, r.store.CreateCategory, &r.result.CreatedCategories)
}

// resolveSubcategories resolves the raw subcategory names of one row and
// links them to the row's category. Duplicate raw values collapse to one
// entry by identity.
func (r *entityResolver) resolveSubcategories(raws []string, categoryID *uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID

	for _, raw := range raws {
		id, err := r.resolve(raw, models.EntityKindSubcategory, r.subcategories, r.mapping.Subcategories,
			r.store.FindSubcategoryByName, r.store.CreateSubcategory, &r.result.CreatedSubcategories)
		if err != nil {
			return nil, err
		}

		if !containsID(ids, id) {
			ids = append(ids, id)
		}

		if categoryID != nil {
			err = r.link(id, *categoryID)
			if err != nil {
				return nil, err
			}
		}
	}

	return ids, nil
}

// resolve implements the shared lookup-or-create logic for one entity kind.
func (r *entityResolver) resolve(
	raw string,
	kind models.EntityKind,
	memo map[string]uuid.UUID,
	decisions map[string]Decision,
	find func(string) (uuid.UUID, bool, error),
	create func(string) (uuid.UUID, error),
	counter *int,
) (uuid.UUID, error) {
	key := strings.ToLower(strings.TrimSpace(raw))

	if id, ok := memo[key]; ok {
		return id, nil
	}

	name := raw

	// An explicit decision for this raw value overrides the name, either
	// pointing to an existing entity or naming the entity to create
	decision, decided := decisions[raw]
	if decided && decision.Target != "" {
		name = decision.Target
	}

	// Persisted import rules resolve raw values by glob pattern
	if !decided {
		for _, rule := range r.rules {
			if rule.Kind == kind && glob.Glob(rule.Match, raw) {
				name = rule.Target
				break
			}
		}
	}

	// Even with a create directive, an entity with the resolved name may
	// already exist from an earlier row or a previous run
	id, found, err := find(name)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrStorageFault, err)
	}

	if found {
		memo[key] = id
		return id, nil
	}

	id, err = create(name)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrStorageFault, err)
	}

	memo[key] = id
	*counter++

	return id, nil
}

// link records the subcategory/category combination once per run, the
// store ignores combinations that already exist.
func (r *entityResolver) link(subcategoryID, categoryID uuid.UUID) error {
	key := subcategoryID.String() + "/" + categoryID.String()
	if _, ok := r.linked[key]; ok {
		return nil
	}

	err := r.store.LinkSubcategoryToCategory(subcategoryID, categoryID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrStorageFault, err)
	}

	r.linked[key] = struct{}{}
	return nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, entry := range ids {
		if entry == id {
			return true
		}
	}

	return false
}
