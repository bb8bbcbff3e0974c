package importer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/centbook/backend/internal/currency"
	"github.com/centbook/backend/internal/models"
	"github.com/rs/zerolog/log"
)

// Importer drives the import of one CSV file into one ledger. Create a
// new Importer per run, it owns the per-run resolver and dedup state.
type Importer struct {
	store    Store
	rates    *currency.Cache
	mapping  ColumnMapping
	entities EntityMapping
}

// New returns an importer for one run.
func New(store Store, rates *currency.Cache, mapping ColumnMapping, entities EntityMapping) *Importer {
	return &Importer{
		store:    store,
		rates:    rates,
		mapping:  mapping,
		entities: entities,
	}
}

// Run processes all rows of the file in order and returns the result
// summary. Row-level failures are collected in the result, they never
// abort the run. Only a storage fault aborts the remaining rows; the
// partial result is returned together with the error, everything
// committed up to that point stays committed.
func (i *Importer) Run(ctx context.Context, file *CSVFile) (Result, error) {
	result := Result{Errors: []string{}}

	// Refuse to start with an invalid mapping
	err := i.mapping.Validate(file.Headers)
	if err != nil {
		return result, err
	}

	existing, err := i.store.ExistingTransactions()
	if err != nil {
		return result, fmt.Errorf("%w: %s", ErrStorageFault, err)
	}
	dedup := newDedupSet(existing)

	rules, err := i.store.ImportRules()
	if err != nil {
		return result, fmt.Errorf("%w: %s", ErrStorageFault, err)
	}

	resolver := newEntityResolver(i.store, i.entities, rules, &result)
	base := i.store.BaseCurrency()

	for index, cells := range file.Rows {
		line := index + 1

		// Parsed -> Mapped
		row, err := i.mapping.Extract(file.Headers, cells, line)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			result.Skipped++
			continue
		}

		// Mapped -> EntitiesResolved. Entity creation cannot fail short
		// of a storage fault, which aborts the run.
		transaction, err := i.resolveEntities(resolver, row, base)
		if err != nil {
			return result, err
		}

		// EntitiesResolved -> CurrencyNormalized. A missing rate degrades
		// to the unconverted amount, it does not fail the row.
		if transaction.Currency != base {
			converted, ok := i.rates.Convert(ctx, transaction.Amount, transaction.Currency, base)
			if ok {
				transaction.Amount = converted
				transaction.Currency = base
			} else {
				log.Warn().
					Int("row", line).
					Str("currency", transaction.Currency).
					Msg("exchange rate unavailable, amount left unconverted")
			}
		}

		// CurrencyNormalized -> DedupChecked
		if dedup.isDuplicate(transaction) {
			result.Skipped++
			result.DuplicatesSkipped++
			continue
		}

		// DedupChecked -> Committed
		err = i.store.AppendTransaction(&transaction)
		if err != nil {
			return result, fmt.Errorf("%w: %s", ErrStorageFault, err)
		}

		dedup.add(transaction)
		result.Imported++
	}

	return result, nil
}

// resolveEntities resolves the raw names of a row and builds the
// transaction draft.
func (i *Importer) resolveEntities(resolver *entityResolver, row Row, base string) (models.Transaction, error) {
	accountID, err := resolver.resolveAccount(row.Account)
	if err != nil {
		return models.Transaction{}, err
	}

	transaction := models.Transaction{
		Date:      row.Date,
		Amount:    row.Amount,
		Type:      row.Type,
		Currency:  row.Currency,
		Note:      row.Note,
		AccountID: accountID,
	}

	// An unset currency defaults to the base currency of the ledger
	if transaction.Currency == "" {
		transaction.Currency = base
	}

	if row.Category != "" {
		categoryID, err := resolver.resolveCategory(row.Category)
		if err != nil {
			return models.Transaction{}, err
		}

		transaction.CategoryID = &categoryID
	}

	subcategoryIDs, err := resolver.resolveSubcategories(row.Subcategories, transaction.CategoryID)
	if err != nil {
		return models.Transaction{}, err
	}

	for _, id := range subcategoryIDs {
		transaction.Subcategories = append(transaction.Subcategories, models.Subcategory{DefaultModel: models.DefaultModel{ID: id}})
	}

	return transaction, nil
}

// EntityNames are the distinct raw entity values of a file, in sorted
// order. They are the input for building an EntityMapping interactively.
type EntityNames struct {
	Accounts      []string `json:"accounts"`
	Categories    []string `json:"categories"`
	Subcategories []string `json:"subcategories"`
}

// DistinctEntityNames collects the distinct raw account, category and
// subcategory values across all rows of a file. Rows that fail field
// extraction still contribute their entity values, resolution decisions
// should cover them in case the user fixes the mapping.
func DistinctEntityNames(file *CSVFile, mapping ColumnMapping) EntityNames {
	accounts := make(map[string]struct{})
	categories := make(map[string]struct{})
	subcategories := make(map[string]struct{})

	separator := mapping.ListSeparator
	if separator == "" {
		separator = ";"
	}

	lookup := func(cells []string, header string) string {
		if header == "" {
			return ""
		}

		for i, h := range file.Headers {
			if h == header && i < len(cells) {
				return strings.TrimSpace(cells[i])
			}
		}

		return ""
	}

	for _, cells := range file.Rows {
		if account := lookup(cells, mapping.Account); account != "" {
			accounts[account] = struct{}{}
		}

		if category := lookup(cells, mapping.Category); category != "" {
			categories[category] = struct{}{}
		}

		for _, token := range strings.Split(lookup(cells, mapping.Subcategories), separator) {
			token = strings.TrimSpace(token)
			if token != "" {
				subcategories[token] = struct{}{}
			}
		}
	}

	return EntityNames{
		Accounts:      sortedKeys(accounts),
		Categories:    sortedKeys(categories),
		Subcategories: sortedKeys(subcategories),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}

	sort.Strings(keys)
	return keys
}
