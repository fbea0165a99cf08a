package statement

type amountMode int

const (
	// amountSplit has separate debit and credit columns.
	amountSplit amountMode = iota
	// amountSigned has one column where credits are positive.
	amountSigned
)

// Profile is the column layout of one bank's CSV export. Header names are
// matched case-insensitively after trimming.
type Profile struct {
	Bank       string
	DateCol    string
	DescCol    string
	AmountMode amountMode
	AmountCol  string
	DebitCol   string
	CreditCol  string
	// RefCol is optional; lines without a bank reference get a derived one.
	RefCol string
}

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	if p.AmountMode == amountSigned {
		return append(cols, p.AmountCol)
	}

	return append(cols, p.DebitCol, p.CreditCol)
}

// profiles are tried in order; the generic layout goes last.
var profiles = []Profile{
	{
		Bank:      "gtbank",
		DateCol:   "trans. date",
		DescCol:   "remarks",
		DebitCol:  "debits",
		CreditCol: "credits",
		RefCol:    "reference",
	},
	{
		Bank:      "firstbank",
		DateCol:   "transaction date",
		DescCol:   "narration",
		DebitCol:  "withdrawals",
		CreditCol: "lodgements",
		RefCol:    "reference",
	},
	{
		Bank:      "zenith",
		DateCol:   "date posted",
		DescCol:   "description",
		DebitCol:  "debit",
		CreditCol: "credit",
	},
	{
		Bank:      "access",
		DateCol:   "posted date",
		DescCol:   "description",
		DebitCol:  "debit",
		CreditCol: "credit",
		RefCol:    "transaction reference",
	},
	{
		Bank:       "generic",
		DateCol:    "date",
		DescCol:    "narration",
		AmountMode: amountSigned,
		AmountCol:  "amount",
		RefCol:     "reference",
	},
}
