package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"budget-sync-backend/internal/erp"
	"budget-sync-backend/internal/models"
)

func TestMapCatalogRecordBasic(t *testing.T) {
	t.Parallel()

	draft, err := MapCatalogRecord(erp.Record{
		"Ref_Key":     "a1b2c3d4-0000-0000-0000-000000000001",
		"Description": "  IT Department ",
		"Code":        "000012",
		"IsFolder":    true,
		"Parent_Key":  "a1b2c3d4-0000-0000-0000-000000000002",
	})
	require.NoError(t, err)
	require.Equal(t, "IT Department", draft.Name)
	require.Equal(t, "000012", draft.Code)
	require.True(t, draft.IsFolder)
	require.Equal(t, "a1b2c3d4-0000-0000-0000-000000000002", draft.ExternalParentID)
}

func TestMapCatalogRecordNameAliases(t *testing.T) {
	t.Parallel()

	// Older exports spell the display name field differently.
	draft, err := MapCatalogRecord(erp.Record{
		"Ref_Key":      "a1b2c3d4-0000-0000-0000-000000000001",
		"Naimenovanie": "Software",
	})
	require.NoError(t, err)
	require.Equal(t, "Software", draft.Name)
}

func TestMapCatalogRecordNullSentinelParent(t *testing.T) {
	t.Parallel()

	draft, err := MapCatalogRecord(erp.Record{
		"Ref_Key":     "a1b2c3d4-0000-0000-0000-000000000001",
		"Description": "Root",
		"Parent_Key":  erp.NullRef,
	})
	require.NoError(t, err)
	require.Empty(t, draft.ExternalParentID)
}

func TestMapCatalogRecordDeletionMark(t *testing.T) {
	t.Parallel()

	draft, err := MapCatalogRecord(erp.Record{
		"Ref_Key":      "a1b2c3d4-0000-0000-0000-000000000001",
		"Description":  "Retired",
		"DeletionMark": true,
	})
	require.NoError(t, err)
	require.True(t, draft.Deleted)
}

func TestMapCatalogRecordRejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		rec  erp.Record
		want string
	}{
		{"null ref", erp.Record{"Ref_Key": erp.NullRef, "Description": "X"}, "null external reference"},
		{"missing ref", erp.Record{"Description": "X"}, "null external reference"},
		{"missing name", erp.Record{"Ref_Key": "a1b2c3d4-0000-0000-0000-000000000001"}, "missing display name"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := MapCatalogRecord(tc.rec)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestMapStatementRecordBasic(t *testing.T) {
	t.Parallel()

	draft, err := MapStatementRecord(erp.Record{
		"Ref_Key":           "b1b2c3d4-0000-0000-0000-000000000001",
		"Date":              "2026-03-15T00:00:00",
		"Amount":            -1250.50,
		"Counterparty":      "Acme Supplies",
		"TaxID":             "7701234567",
		"PaymentPurpose":    "Office licenses",
		"BusinessOperation": "payment_to_supplier",
	})
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), draft.Date)
	require.Equal(t, -1250.50, draft.Amount)
	require.Equal(t, models.DirectionDebit, draft.Direction)
	require.Equal(t, "Acme Supplies", draft.CounterpartyName)
	require.Equal(t, "payment_to_supplier", draft.OperationCode)
}

func TestMapStatementRecordCreditDirection(t *testing.T) {
	t.Parallel()

	draft, err := MapStatementRecord(erp.Record{
		"Ref_Key": "b1b2c3d4-0000-0000-0000-000000000002",
		"Data":    "2026-03-16",
		"Summa":   "900.00",
	})
	require.NoError(t, err)
	require.Equal(t, 900.0, draft.Amount)
	require.Equal(t, models.DirectionCredit, draft.Direction)
}

func TestMapStatementRecordRejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		rec  erp.Record
		want string
	}{
		{
			"missing date",
			erp.Record{"Ref_Key": "b1b2c3d4-0000-0000-0000-000000000003", "Amount": 10.0},
			"malformed date",
		},
		{
			"malformed amount",
			erp.Record{"Ref_Key": "b1b2c3d4-0000-0000-0000-000000000004", "Date": "2026-01-01", "Amount": "ten"},
			"malformed amount",
		},
		{
			"null ref",
			erp.Record{"Ref_Key": erp.NullRef, "Date": "2026-01-01", "Amount": 10.0},
			"null external reference",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := MapStatementRecord(tc.rec)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}
