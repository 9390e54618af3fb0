package dataprocessing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankpipe/pkg/contracts/domain"
)

func TestCleaner_Clean(t *testing.T) {
	cleaner := NewCleaner(nil, nil, DefaultCleanerConfig())

	tests := []struct {
		name   string
		row    RawRow
		wantOK bool
		check  func(t *testing.T, tx domain.Transaction)
	}{
		{
			name: "complete row",
			row: RawRow{
				"Customer ID":                       "1001",
				"Transaction ID":                    "TX-1",
				"Transaction Date":                  "2024-03-15",
				"Transaction Type":                  "Deposit",
				"Transaction Amount":                "$250.00",
				"Account Balance After Transaction": "1250.00",
				"Age":                               "34",
				"Gender":                            "F",
				"Branch ID":                         "BR-7",
			},
			wantOK: true,
			check: func(t *testing.T, tx domain.Transaction) {
				assert.Equal(t, int64(1001), tx.CustomerID)
				assert.Equal(t, "TX-1", tx.TransactionID)
				assert.Equal(t, domain.TypeDeposit, tx.Type)
				assert.InDelta(t, 250.0, tx.Amount, 1e-9)
				require.True(t, tx.HasBalance())
				assert.InDelta(t, 1250.0, *tx.BalanceAfter, 1e-9)
				require.True(t, tx.HasAge())
				assert.Equal(t, 34, *tx.Age)
				assert.Equal(t, domain.GenderFemale, tx.Gender)
				assert.Equal(t, "BR-7", tx.BranchID)
			},
		},
		{
			name: "missing customer id rejected",
			row: RawRow{
				"Transaction Date":   "2024-03-15",
				"Transaction Amount": "10",
			},
			wantOK: false,
		},
		{
			name: "unparseable date rejected",
			row: RawRow{
				"Customer ID":        "1001",
				"Transaction Date":   "soon",
				"Transaction Amount": "10",
			},
			wantOK: false,
		},
		{
			name: "unparseable amount rejected",
			row: RawRow{
				"Customer ID":        "1001",
				"Transaction Date":   "2024-03-15",
				"Transaction Amount": "lots",
			},
			wantOK: false,
		},
		{
			name: "non-positive customer id rejected",
			row: RawRow{
				"Customer ID":        "0",
				"Transaction Date":   "2024-03-15",
				"Transaction Amount": "10",
			},
			wantOK: false,
		},
		{
			name: "unknown type kept as Other under lenient policy",
			row: RawRow{
				"Customer ID":        "1001",
				"Transaction Date":   "2024-03-15",
				"Transaction Type":   "mystery",
				"Transaction Amount": "10",
			},
			wantOK: true,
			check: func(t *testing.T, tx domain.Transaction) {
				assert.Equal(t, domain.TypeOther, tx.Type)
			},
		},
		{
			name: "optional fields survive bad values",
			row: RawRow{
				"Customer ID":        "1001",
				"Transaction Date":   "2024-03-15",
				"Transaction Type":   "Withdrawal",
				"Transaction Amount": "10",
				"Account Balance":    "unknown",
				"Age":                "??",
				"Email":              "not-an-email",
			},
			wantOK: true,
			check: func(t *testing.T, tx domain.Transaction) {
				assert.False(t, tx.HasBalance())
				assert.False(t, tx.HasAge())
				assert.Empty(t, tx.Email)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, ok := cleaner.Clean(tt.row, 0)
			require.Equal(t, tt.wantOK, ok)
			if tt.check != nil {
				tt.check(t, tx)
			}
		})
	}
}

func TestCleaner_Clean_AliasPrecedence(t *testing.T) {
	cleaner := NewCleaner(nil, nil, DefaultCleanerConfig())

	// Both aliases present with different values: first-listed wins.
	row := RawRow{
		"Customer ID":        "1001",
		"CustomerID":         "9999",
		"Transaction Date":   "2024-03-15",
		"Transaction Amount": "10",
	}
	tx, ok := cleaner.Clean(row, 0)
	require.True(t, ok)
	assert.Equal(t, int64(1001), tx.CustomerID)
}

func TestCleaner_Clean_StrictTypes(t *testing.T) {
	cfg := DefaultCleanerConfig()
	cfg.StrictTypes = true
	cleaner := NewCleaner(nil, nil, cfg)

	row := RawRow{
		"Customer ID":        "1001",
		"Transaction Date":   "2024-03-15",
		"Transaction Type":   "mystery",
		"Transaction Amount": "10",
	}
	_, ok := cleaner.Clean(row, 0)
	assert.False(t, ok)

	row["Transaction Type"] = "Deposit"
	tx, ok := cleaner.Clean(row, 0)
	require.True(t, ok)
	assert.Equal(t, domain.TypeDeposit, tx.Type)
}

func TestCleaner_CleanAll(t *testing.T) {
	cleaner := NewCleaner(nil, nil, CleanerConfig{Workers: 2})

	rows := []RawRow{
		{"Customer ID": "1", "Transaction Date": "2024-01-01", "Transaction Amount": "10"},
		{"Customer ID": "bad", "Transaction Date": "2024-01-02", "Transaction Amount": "20"},
		{"Customer ID": "2", "Transaction Date": "2024-01-03", "Transaction Amount": "30"},
		{"Customer ID": "3", "Transaction Date": "nope", "Transaction Amount": "40"},
		{"Customer ID": "4", "Transaction Date": "2024-01-05", "Transaction Amount": "50"},
	}

	cleaned, rejected, err := cleaner.CleanAll(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 2, rejected)
	require.Len(t, cleaned, 3)

	// Source order is preserved across parallel chunks.
	assert.Equal(t, int64(1), cleaned[0].CustomerID)
	assert.Equal(t, int64(2), cleaned[1].CustomerID)
	assert.Equal(t, int64(4), cleaned[2].CustomerID)
	assert.Equal(t, 0, cleaned[0].Row)
	assert.Equal(t, 2, cleaned[1].Row)
	assert.Equal(t, 4, cleaned[2].Row)
}

func TestCleaner_CleanAll_Cancelled(t *testing.T) {
	cleaner := NewCleaner(nil, nil, DefaultCleanerConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := make([]RawRow, 100)
	for i := range rows {
		rows[i] = RawRow{
			"Customer ID":        "1",
			"Transaction Date":   "2024-01-01",
			"Transaction Amount": "10",
		}
	}
	_, _, err := cleaner.CleanAll(ctx, rows)
	assert.Error(t, err)
}

func TestCleaner_Clean_DateOrder(t *testing.T) {
	cfg := DefaultCleanerConfig()
	cfg.DateOrder = DateOrderDMY
	cleaner := NewCleaner(nil, nil, cfg)

	row := RawRow{
		"Customer ID":        "1001",
		"Transaction Date":   "05/03/2024",
		"Transaction Amount": "10",
	}
	tx, ok := cleaner.Clean(row, 0)
	require.True(t, ok)
	assert.Equal(t, time.March, tx.Date.Month())
	assert.Equal(t, 5, tx.Date.Day())
}
