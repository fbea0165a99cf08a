package statement_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/levy/internal/statement"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestParser_GTBank(t *testing.T) {
	csv := `Customer Statement
Account Name,ABUJA MUNICIPAL AREA COUNCIL REVENUE
Account Number,0123456789
Period,01-Jan-2026 to 31-Jan-2026

Trans. Date,Value Date,Reference,Debits,Credits,Balance,Remarks
15-Jan-2026,15-Jan-2026,FT26015ABCD,,"150,000.00","1,250,000.00",NIP TRF FRM ADA OBI AMC-HOT-1768469400000-ABC123
16-Jan-2026,16-Jan-2026,FT26016XYZ,"2,500.00",,"1,247,500.00",SMS ALERT CHARGES
17-Jan-2026,17-Jan-2026,FT26017QRS,,"49,999.50","1,297,499.50",RRR 1234-5678-9012 MARKET LEVY
,,,,,"1,297,499.50",Closing Balance
`

	bank, lines, err := statement.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, "gtbank", bank)
	require.Len(t, lines, 2)

	assert.Equal(t, date(2026, 1, 15), lines[0].Date)
	assert.Equal(t, int64(150000), lines[0].Amount)
	assert.Equal(t, "FT26015ABCD", lines[0].BankReference)
	assert.Equal(t, "NIP TRF FRM ADA OBI AMC-HOT-1768469400000-ABC123", lines[0].Narration)

	assert.Equal(t, int64(50000), lines[1].Amount)
	assert.Equal(t, "FT26017QRS", lines[1].BankReference)
}

func TestParser_FirstBankSemicolonWindows1252(t *testing.T) {
	csv := `Transaction Date;Narration;Withdrawals;Lodgements;Balance
02/02/2026;TRF FRM ÉMEKA STORES;;5000.00;10000.00
03/02/2026;COT CHARGE;10.75;;9989.25
`

	encoded, err := charmap.Windows1252.NewEncoder().String(csv)
	require.NoError(t, err)

	bank, lines, err := statement.NewParser().Parse(bytes.NewReader([]byte(encoded)))
	require.NoError(t, err)
	assert.Equal(t, "firstbank", bank)
	require.Len(t, lines, 1)

	assert.Equal(t, date(2026, 2, 2), lines[0].Date)
	assert.Equal(t, "TRF FRM ÉMEKA STORES", lines[0].Narration)
	assert.Equal(t, int64(5000), lines[0].Amount)
	assert.Equal(t, "firstbank-20260202-2", lines[0].BankReference)
}

func TestParser_GenericSignedAmount(t *testing.T) {
	csv := "Date\tNarration\tAmount\tReference\n" +
		"2026-03-01\tPOS PURCHASE\t-1200.00\tP1\n" +
		"2026-03-02\tTRANSFER AMC-SIG-1768469400000-Q1W2E3\t25000\tP2\n"

	bank, lines, err := statement.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, "generic", bank)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(25000), lines[0].Amount)
	assert.Equal(t, "P2", lines[0].BankReference)
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr string
	}{
		{
			name:    "UnknownLayout",
			csv:     "When,What,How much\n01-Jan-2026,x,1\n",
			wantErr: "no known bank statement layout",
		},
		{
			name:    "BadAmount",
			csv:     "Date,Narration,Amount\n01-Jan-2026,TRF,abc\n",
			wantErr: "row 2",
		},
		{
			name:    "MissingNarration",
			csv:     "Date,Narration,Amount\n01-Jan-2026,,100\n",
			wantErr: "missing narration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := statement.NewParser().Parse(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReferences(t *testing.T) {
	tests := []struct {
		narration string
		refs      []string
		rrrs      []string
	}{
		{
			narration: "nip trf frm ada obi amc-hot-1768469400000-abc123",
			refs:      []string{"AMC-HOT-1768469400000-ABC123"},
		},
		{
			narration: "REMITA RRR:123456789012 MARKET",
			rrrs:      []string{"123456789012"},
		},
		{
			narration: "RRR 1234-5678-9012",
			rrrs:      []string{"123456789012"},
		},
		{
			narration: "ACCT 01234567890 TRF",
		},
		{
			narration: "ACCT 1234567890123 TRF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.narration, func(t *testing.T) {
			refs, rrrs := statement.References(tt.narration)
			assert.Equal(t, tt.refs, refs)
			assert.Equal(t, tt.rrrs, rrrs)
		})
	}
}
