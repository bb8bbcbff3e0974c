package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/centbook/backend/internal/models"
	"github.com/shopspring/decimal"
)

// DateFormats enumerates the supported date patterns and their Go layouts.
var DateFormats = map[string]string{
	"YYYY-MM-DD": "2006-01-02",
	"DD.MM.YYYY": "02.01.2006",
	"DD/MM/YYYY": "02/01/2006",
	"MM/DD/YYYY": "01/02/2006",
	"YYYY/MM/DD": "2006/01/02",
}

// ListSeparators enumerates the supported subcategory list separators.
var ListSeparators = []string{";", ",", "|"}

// ColumnMapping maps the logical transaction fields to header names of a
// CSV file. Date, Type and Amount are required, all other fields are
// optional and may be left empty.
type ColumnMapping struct {
	Date          string `json:"date" example:"Booking Date"`
	Type          string `json:"type" example:"Direction"`
	Amount        string `json:"amount" example:"Amount"`
	Currency      string `json:"currency" example:"Currency"`
	Account       string `json:"account" example:"IBAN"`
	Category      string `json:"category" example:"Category"`
	Subcategories string `json:"subcategories" example:"Tags"`
	Note          string `json:"note" example:"Description"`

	DateFormat    string `json:"dateFormat" example:"YYYY-MM-DD"`
	ListSeparator string `json:"listSeparator" example:";"`
}

// Validate checks that the mapping can be used with the given headers.
// Import must not start with an invalid mapping.
func (m ColumnMapping) Validate(headers []string) error {
	required := map[string]string{
		"date":   m.Date,
		"type":   m.Type,
		"amount": m.Amount,
	}

	for field, header := range required {
		if strings.TrimSpace(header) == "" {
			return fmt.Errorf("%w: %s", ErrMappingFieldUnbound, field)
		}
	}

	if _, ok := DateFormats[m.DateFormat]; !ok {
		return fmt.Errorf("%w: %s", ErrMappingDateFormat, m.DateFormat)
	}

	if m.ListSeparator != "" && !contains(ListSeparators, m.ListSeparator) {
		return ErrMappingListSeparator
	}

	for _, header := range []string{m.Date, m.Type, m.Amount, m.Currency, m.Account, m.Category, m.Subcategories, m.Note} {
		if header != "" && !contains(headers, header) {
			return fmt.Errorf("%w: %s", ErrMappingHeaderMissing, header)
		}
	}

	return nil
}

// Row is the draft built from one CSV data row before entities are
// resolved. The amount is always the non-negative magnitude.
type Row struct {
	Line          int // 1-based position in the file
	Date          time.Time
	Type          models.TransactionType
	Amount        decimal.Decimal
	Currency      string // empty when the file does not carry a currency
	Account       string
	Category      string
	Subcategories []string
	Note          string
}

// typeVocabulary maps the recognized type tokens to transaction types.
// Tokens are matched case-insensitively.
var typeVocabulary = map[string]models.TransactionType{
	"income":            models.TransactionTypeIncome,
	"credit":            models.TransactionTypeIncome,
	"deposit":           models.TransactionTypeIncome,
	"in":                models.TransactionTypeIncome,
	"expense":           models.TransactionTypeExpense,
	"debit":             models.TransactionTypeExpense,
	"withdrawal":        models.TransactionTypeExpense,
	"out":               models.TransactionTypeExpense,
	"transfer":          models.TransactionTypeTransfer,
	"internal":          models.TransactionTypeTransfer,
	"internal transfer": models.TransactionTypeTransfer,
}

// Extract builds the draft for one data row. Line is the 1-based row
// number used in error messages.
//
// Errors are field-scoped and fail the whole row, there are no partially
// extracted rows.
func (m ColumnMapping) Extract(headers []string, cells []string, line int) (Row, error) {
	row := Row{Line: line}

	lookup := func(header string) string {
		if header == "" {
			return ""
		}

		for i, h := range headers {
			if h == header && i < len(cells) {
				return strings.TrimSpace(cells[i])
			}
		}

		return ""
	}

	// Date
	date, err := time.Parse(DateFormats[m.DateFormat], lookup(m.Date))
	if err != nil {
		return Row{}, fmt.Errorf("row %d: %w: %q", line, ErrInvalidDate, lookup(m.Date))
	}
	row.Date = date.In(time.UTC)

	// Type
	rawType := lookup(m.Type)
	transactionType, ok := typeVocabulary[strings.ToLower(rawType)]
	if !ok {
		return Row{}, fmt.Errorf("row %d: %w: %q", line, ErrInvalidType, rawType)
	}
	row.Type = transactionType

	// Amount. The sign of the raw number never overrides the type field,
	// a negative amount only contributes its magnitude.
	amount, err := parseAmount(lookup(m.Amount))
	if err != nil {
		return Row{}, fmt.Errorf("row %d: %w: %q", line, ErrInvalidAmount, lookup(m.Amount))
	}
	row.Amount = amount.Abs()

	// All remaining fields are optional, an empty cell means "unset"
	row.Currency = strings.ToUpper(lookup(m.Currency))
	row.Account = lookup(m.Account)
	row.Category = lookup(m.Category)
	row.Note = lookup(m.Note)

	separator := m.ListSeparator
	if separator == "" {
		separator = ";"
	}

	for _, token := range strings.Split(lookup(m.Subcategories), separator) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		row.Subcategories = append(row.Subcategories, token)
	}

	return row, nil
}

// parseAmount parses a decimal number in a locale-tolerant way: both "."
// and "," are accepted as decimal separator, thousands separators and
// currency symbols are stripped.
func parseAmount(s string) (decimal.Decimal, error) {
	// Keep digits, separators and the sign, drop currency symbols,
	// spaces and everything else
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		// Both present: the rightmost one is the decimal separator,
		// the other one separates thousands
		if lastComma > lastDot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case strings.Count(cleaned, ",") == 1:
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case lastComma >= 0:
		// Multiple commas can only be thousands separators
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case strings.Count(cleaned, ".") > 1:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}

	return decimal.NewFromString(cleaned)
}

func contains(list []string, s string) bool {
	for _, entry := range list {
		if entry == s {
			return true
		}
	}

	return false
}
