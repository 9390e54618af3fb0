package dataprocessing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankpipe/pkg/contracts/domain"
)

func tx(customer int64, date string, typ domain.TransactionType, amount float64) domain.Transaction {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return domain.Transaction{CustomerID: customer, Date: d, Type: typ, Amount: amount}
}

func withAge(t domain.Transaction, age int) domain.Transaction {
	t.Age = &age
	return t
}

func withBalance(t domain.Transaction, balance float64) domain.Transaction {
	t.BalanceAfter = &balance
	return t
}

func withID(t domain.Transaction, id string) domain.Transaction {
	t.TransactionID = id
	return t
}

func TestCorrector_CorrectAges(t *testing.T) {
	corrector := NewCorrector(nil, 0)
	ctx := context.Background()

	t.Run("mode wins", func(t *testing.T) {
		records := []domain.Transaction{
			withAge(tx(1, "2024-01-01", domain.TypeDeposit, 10), 30),
			withAge(tx(1, "2024-01-02", domain.TypeDeposit, 10), 30),
			withAge(tx(1, "2024-01-03", domain.TypeDeposit, 10), 31),
		}
		corrected, events := corrector.CorrectAges(ctx, records)
		require.Len(t, events, 1)
		assert.Equal(t, int64(1), events[0].CustomerID)
		assert.Equal(t, 30, events[0].CorrectedTo)
		assert.ElementsMatch(t, []int{30, 31}, events[0].DistinctAges)
		for _, r := range corrected {
			require.True(t, r.HasAge())
			assert.Equal(t, 30, *r.Age)
		}
	})

	t.Run("tie resolves to first seen", func(t *testing.T) {
		records := []domain.Transaction{
			withAge(tx(1, "2024-01-01", domain.TypeDeposit, 10), 40),
			withAge(tx(1, "2024-01-02", domain.TypeDeposit, 10), 41),
		}
		_, events := corrector.CorrectAges(ctx, records)
		require.Len(t, events, 1)
		assert.Equal(t, 40, events[0].CorrectedTo)
	})

	t.Run("consistent customer untouched", func(t *testing.T) {
		records := []domain.Transaction{
			withAge(tx(1, "2024-01-01", domain.TypeDeposit, 10), 30),
			withAge(tx(1, "2024-01-02", domain.TypeDeposit, 10), 30),
		}
		corrected, events := corrector.CorrectAges(ctx, records)
		assert.Empty(t, events)
		assert.Equal(t, records, corrected)
	})

	t.Run("input slice not mutated", func(t *testing.T) {
		records := []domain.Transaction{
			withAge(tx(1, "2024-01-01", domain.TypeDeposit, 10), 30),
			withAge(tx(1, "2024-01-02", domain.TypeDeposit, 10), 31),
			withAge(tx(1, "2024-01-03", domain.TypeDeposit, 10), 31),
		}
		_, _ = corrector.CorrectAges(ctx, records)
		assert.Equal(t, 30, *records[0].Age)
	})

	t.Run("missing ages ignored", func(t *testing.T) {
		records := []domain.Transaction{
			tx(1, "2024-01-01", domain.TypeDeposit, 10),
			withAge(tx(1, "2024-01-02", domain.TypeDeposit, 10), 30),
		}
		corrected, events := corrector.CorrectAges(ctx, records)
		assert.Empty(t, events)
		assert.False(t, corrected[0].HasAge())
	})
}

func TestCorrector_RemoveDuplicates(t *testing.T) {
	corrector := NewCorrector(nil, 0)
	ctx := context.Background()

	t.Run("transaction id keys duplicate detection", func(t *testing.T) {
		records := []domain.Transaction{
			withID(tx(1, "2024-01-01", domain.TypeDeposit, 10), "TX-1"),
			withID(tx(2, "2024-01-02", domain.TypeDeposit, 99), "TX-1"),
			withID(tx(1, "2024-01-03", domain.TypeDeposit, 10), "TX-2"),
		}
		kept, dups := corrector.RemoveDuplicates(ctx, records)
		require.Len(t, kept, 2)
		require.Len(t, dups, 1)
		assert.Equal(t, "id:TX-1", dups[0].Key)
		// First occurrence survives.
		assert.Equal(t, int64(1), kept[0].CustomerID)
	})

	t.Run("composite key without transaction id", func(t *testing.T) {
		a := tx(1, "2024-01-01", domain.TypeDeposit, 10)
		a.BranchID = "BR-1"
		b := a // same composite identity
		c := a
		c.Amount = 20

		kept, dups := corrector.RemoveDuplicates(ctx, []domain.Transaction{a, b, c})
		assert.Len(t, kept, 2)
		assert.Len(t, dups, 1)
	})

	t.Run("idempotent", func(t *testing.T) {
		records := []domain.Transaction{
			withID(tx(1, "2024-01-01", domain.TypeDeposit, 10), "TX-1"),
			withID(tx(1, "2024-01-01", domain.TypeDeposit, 10), "TX-1"),
		}
		once, _ := corrector.RemoveDuplicates(ctx, records)
		twice, dups := corrector.RemoveDuplicates(ctx, once)
		assert.Equal(t, once, twice)
		assert.Empty(t, dups)
	})

	t.Run("id presence separates identical rows", func(t *testing.T) {
		// One row with an id and one without never share a key, even when
		// every other field matches.
		a := withID(tx(1, "2024-01-01", domain.TypeDeposit, 10), "TX-1")
		b := tx(1, "2024-01-01", domain.TypeDeposit, 10)
		kept, dups := corrector.RemoveDuplicates(ctx, []domain.Transaction{a, b})
		assert.Len(t, kept, 2)
		assert.Empty(t, dups)
	})
}

func TestCorrector_ReconcileBalances(t *testing.T) {
	corrector := NewCorrector(nil, 0.01)
	ctx := context.Background()

	t.Run("mismatched balance rewritten and chain continues from expected", func(t *testing.T) {
		records := []domain.Transaction{
			withBalance(tx(1, "2024-01-01", domain.TypeDeposit, 100), 1000),
			withBalance(tx(1, "2024-01-02", domain.TypeDeposit, 50), 1100), // expected 1050
			withBalance(tx(1, "2024-01-03", domain.TypeWithdrawal, 25), 1025),
		}
		out, rewritten := corrector.ReconcileBalances(ctx, records)
		assert.Equal(t, 1, rewritten)
		assert.InDelta(t, 1050, *out[1].BalanceAfter, 1e-9)
		// Third row checks against the corrected chain: 1050-25=1025, ok.
		assert.InDelta(t, 1025, *out[2].BalanceAfter, 1e-9)
	})

	t.Run("within epsilon untouched", func(t *testing.T) {
		records := []domain.Transaction{
			withBalance(tx(1, "2024-01-01", domain.TypeDeposit, 100), 1000),
			withBalance(tx(1, "2024-01-02", domain.TypeDeposit, 50), 1050.009),
		}
		_, rewritten := corrector.ReconcileBalances(ctx, records)
		assert.Equal(t, 0, rewritten)
	})

	t.Run("transfer trusted as observed", func(t *testing.T) {
		records := []domain.Transaction{
			withBalance(tx(1, "2024-01-01", domain.TypeDeposit, 100), 1000),
			withBalance(tx(1, "2024-01-02", domain.TypeTransfer, 500), 700),
			withBalance(tx(1, "2024-01-03", domain.TypeDeposit, 100), 800),
		}
		out, rewritten := corrector.ReconcileBalances(ctx, records)
		assert.Equal(t, 0, rewritten)
		assert.InDelta(t, 700, *out[1].BalanceAfter, 1e-9)
	})

	t.Run("customers reconcile independently", func(t *testing.T) {
		records := []domain.Transaction{
			withBalance(tx(2, "2024-01-01", domain.TypeDeposit, 100), 500),
			withBalance(tx(1, "2024-01-01", domain.TypeDeposit, 100), 1000),
			withBalance(tx(1, "2024-01-02", domain.TypeDeposit, 100), 1100),
			withBalance(tx(2, "2024-01-02", domain.TypeDeposit, 100), 9999),
		}
		out, rewritten := corrector.ReconcileBalances(ctx, records)
		assert.Equal(t, 1, rewritten)
		// Output is sorted by (customer, date).
		assert.Equal(t, int64(1), out[0].CustomerID)
		assert.InDelta(t, 600, *out[3].BalanceAfter, 1e-9)
	})

	t.Run("records without balance skipped", func(t *testing.T) {
		records := []domain.Transaction{
			withBalance(tx(1, "2024-01-01", domain.TypeDeposit, 100), 1000),
			tx(1, "2024-01-02", domain.TypeDeposit, 50),
			withBalance(tx(1, "2024-01-03", domain.TypeDeposit, 25), 1025),
		}
		_, rewritten := corrector.ReconcileBalances(ctx, records)
		assert.Equal(t, 0, rewritten)
	})
}
