package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankpipe/pkg/contracts/domain"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{name: "plain number", input: "123.45", want: 123.45, wantOK: true},
		{name: "dollar sign", input: "$1,234.56", want: 1234.56, wantOK: true},
		{name: "euro sign", input: "€99.99", want: 99.99, wantOK: true},
		{name: "negative", input: "-50.00", want: -50, wantOK: true},
		{name: "surrounding whitespace", input: "  250 ", want: 250, wantOK: true},
		{name: "empty", input: "", wantOK: false},
		{name: "dash placeholder", input: "-", wantOK: false},
		{name: "na placeholder", input: "N/A", wantOK: false},
		{name: "null placeholder", input: "null", wantOK: false},
		{name: "garbage", input: "abc", wantOK: false},
		{name: "partial garbage", input: "12x3", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   int64
		wantOK bool
	}{
		{name: "plain", input: "42", want: 42, wantOK: true},
		{name: "whitespace", input: " 1001 ", want: 1001, wantOK: true},
		{name: "negative", input: "-5", want: -5, wantOK: true},
		{name: "float rejected", input: "42.5", wantOK: false},
		{name: "empty", input: "", wantOK: false},
		{name: "none placeholder", input: "none", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseInt(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		order  DateOrder
		want   time.Time
		wantOK bool
	}{
		{
			name:   "iso date",
			input:  "2024-03-15",
			order:  DateOrderMDY,
			want:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "iso datetime",
			input:  "2024-03-15 10:30:00",
			order:  DateOrderMDY,
			want:   time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "ambiguous slash date resolves MDY",
			input:  "03/04/2024",
			order:  DateOrderMDY,
			want:   time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "ambiguous slash date resolves DMY",
			input:  "03/04/2024",
			order:  DateOrderDMY,
			want:   time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "iso wins over configured order",
			input:  "2024-03-04",
			order:  DateOrderDMY,
			want:   time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{name: "empty", input: "", order: DateOrderMDY, wantOK: false},
		{name: "placeholder", input: "n/a", order: DateOrderMDY, wantOK: false},
		{name: "garbage", input: "not-a-date", order: DateOrderMDY, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input, tt.order)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "want %v got %v", tt.want, got)
			}
		})
	}
}

func TestNormalizeTransactionType(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  domain.TransactionType
	}{
		{name: "deposit", input: "Deposit", want: domain.TypeDeposit},
		{name: "credit alias", input: "CREDIT", want: domain.TypeDeposit},
		{name: "withdrawal", input: "withdrawal", want: domain.TypeWithdrawal},
		{name: "debit alias", input: "debit", want: domain.TypeWithdrawal},
		{name: "transfer", input: " Transfer ", want: domain.TypeTransfer},
		{name: "payment", input: "pay", want: domain.TypePayment},
		{name: "fee", input: "charge", want: domain.TypeFee},
		{name: "unknown defaults to other", input: "mystery", want: domain.TypeOther},
		{name: "empty defaults to other", input: "", want: domain.TypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTransactionType(tt.input))
		})
	}
}

func TestParseTransactionType_Strict(t *testing.T) {
	_, ok := ParseTransactionType("mystery")
	assert.False(t, ok)

	got, ok := ParseTransactionType("xfer")
	require.True(t, ok)
	assert.Equal(t, domain.TypeTransfer, got)
}

func TestNormalizeGender(t *testing.T) {
	assert.Equal(t, domain.GenderMale, NormalizeGender("M"))
	assert.Equal(t, domain.GenderMale, NormalizeGender("male"))
	assert.Equal(t, domain.GenderFemale, NormalizeGender(" Female "))
	assert.Equal(t, domain.GenderOther, NormalizeGender("x"))
	assert.Equal(t, domain.GenderOther, NormalizeGender(""))
}

func TestParseEmail(t *testing.T) {
	got, ok := ParseEmail(" Alice@Example.COM ")
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", got)

	_, ok = ParseEmail("not-an-email")
	assert.False(t, ok)

	_, ok = ParseEmail("")
	assert.False(t, ok)
}

func TestParsePhone(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "formatted", input: "(555) 123-4567", want: "5551234567", wantOK: true},
		{name: "international", input: "+1 555 123 4567", want: "+15551234567", wantOK: true},
		{name: "too short", input: "12345", wantOK: false},
		{name: "too long", input: "1234567890123456", wantOK: false},
		{name: "letters", input: "555-CALL-NOW", wantOK: false},
		{name: "empty", input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePhone(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
