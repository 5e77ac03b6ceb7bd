package sync

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"budget-sync-backend/internal/erp"
	"budget-sync-backend/internal/models"
)

// The accounting system has shipped several historical spellings per field
// (localized name vs. its transliteration). Each logical field carries an
// ordered list of candidate keys tried in priority order.
var (
	nameAliases         = []string{"Description", "Naimenovanie", "Name"}
	codeAliases         = []string{"Code", "Kod"}
	dateAliases         = []string{"Date", "Data"}
	amountAliases       = []string{"Amount", "Summa"}
	purposeAliases      = []string{"PaymentPurpose", "NaznacheniePlatezha", "Purpose"}
	counterpartyAliases = []string{"Counterparty", "Kontragent"}
	taxIDAliases        = []string{"TaxID", "INN"}
	operationAliases    = []string{"BusinessOperation", "VidOperacii"}
)

// CatalogDraft is a validated catalog record ready for upsert.
type CatalogDraft struct {
	ExternalID       string
	Name             string
	Code             string
	IsFolder         bool
	Deleted          bool
	ExternalParentID string
}

// StatementDraft is a validated bank statement line ready for upsert.
type StatementDraft struct {
	ExternalID        string
	Date              time.Time
	Amount            float64
	Direction         string
	CounterpartyName  string
	CounterpartyTaxID string
	Purpose           string
	OperationCode     string
}

// MapCatalogRecord converts one raw record into a catalog draft. It returns
// a rejection reason instead of a draft when a mandatory field is missing
// or the external reference is the null sentinel; rejections never abort
// the rest of the page.
func MapCatalogRecord(rec erp.Record) (*CatalogDraft, error) {
	ref := stringField(rec, "Ref_Key")
	if isNullRef(ref) {
		return nil, errors.New("null external reference")
	}

	name := firstString(rec, nameAliases)
	if name == "" {
		return nil, fmt.Errorf("missing display name (ref %s)", ref)
	}

	draft := &CatalogDraft{
		ExternalID: ref,
		Name:       name,
		Code:       firstString(rec, codeAliases),
		IsFolder:   boolField(rec, "IsFolder"),
		Deleted:    boolField(rec, "DeletionMark"),
	}

	if parent := stringField(rec, "Parent_Key"); !isNullRef(parent) {
		draft.ExternalParentID = parent
	}
	return draft, nil
}

// MapStatementRecord converts one raw record into a statement draft.
// Mandatory fields are the external reference, date, and amount.
func MapStatementRecord(rec erp.Record) (*StatementDraft, error) {
	ref := stringField(rec, "Ref_Key")
	if isNullRef(ref) {
		return nil, errors.New("null external reference")
	}

	date, ok := dateField(rec, dateAliases)
	if !ok {
		return nil, fmt.Errorf("missing or malformed date (ref %s)", ref)
	}

	amount, ok := numberField(rec, amountAliases)
	if !ok {
		return nil, fmt.Errorf("missing or malformed amount (ref %s)", ref)
	}

	direction := models.DirectionCredit
	if amount < 0 {
		direction = models.DirectionDebit
	}

	return &StatementDraft{
		ExternalID:        ref,
		Date:              date,
		Amount:            amount,
		Direction:         direction,
		CounterpartyName:  firstString(rec, counterpartyAliases),
		CounterpartyTaxID: firstString(rec, taxIDAliases),
		Purpose:           firstString(rec, purposeAliases),
		OperationCode:     firstString(rec, operationAliases),
	}, nil
}

func isNullRef(ref string) bool {
	return ref == "" || ref == erp.NullRef
}

func stringField(rec erp.Record, key string) string {
	if v, ok := rec[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func firstString(rec erp.Record, aliases []string) string {
	for _, key := range aliases {
		if s := stringField(rec, key); s != "" {
			return s
		}
	}
	return ""
}

func boolField(rec erp.Record, key string) bool {
	if v, ok := rec[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// numberField accepts both JSON numbers and numeric strings; the source
// has sent both over the years.
func numberField(rec erp.Record, aliases []string) (float64, bool) {
	for _, key := range aliases {
		v, ok := rec[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, true
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err == nil {
				return parsed, true
			}
		}
	}
	return 0, false
}

var dateLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

func dateField(rec erp.Record, aliases []string) (time.Time, bool) {
	raw := firstString(rec, aliases)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
