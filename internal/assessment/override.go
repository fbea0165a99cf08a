package assessment

import (
	"strings"
	"time"

	"github.com/MrJamesThe3rd/levy/internal/calc"
)

type Source string

const (
	SourceManual     Source = "manual"
	SourceAIAssisted Source = "ai_assisted"
)

// Basis tells audit queries who set the assessed amount.
type Basis string

const (
	BasisFormula         Basis = "formula"
	BasisHuman           Basis = "human"
	BasisHumanAIInformed Basis = "human_ai_informed"
)

// AISuggestion is an externally produced amount recommendation. It has no
// effect until an operator accepts it.
type AISuggestion struct {
	Amount        int64   `json:"recommended_amount"`
	Justification string  `json:"justification"`
	Confidence    float64 `json:"confidence"`
	Model         string  `json:"model,omitempty"`
}

// Override replaces the formula amount. The formula result is kept alongside it.
type Override struct {
	Amount     int64         `json:"amount"`
	Reason     string        `json:"reason"`
	AdjustedBy string        `json:"adjusted_by"`
	Source     Source        `json:"source"`
	Suggestion *AISuggestion `json:"ai_suggestion,omitempty"`
	AdjustedAt time.Time     `json:"adjusted_at"`
}

// Details is what an assessment stores as calculation_details.
type Details struct {
	AutoCalculated   *calc.Result `json:"auto_calculated"`
	ManualAdjustment *Override    `json:"manual_adjustment,omitempty"`
}

func (d Details) Amount() int64 {
	if d.ManualAdjustment != nil {
		return d.ManualAdjustment.Amount
	}

	if d.AutoCalculated == nil {
		return 0
	}

	return d.AutoCalculated.Amount
}

func (d Details) Method() Method {
	if d.ManualAdjustment != nil {
		return MethodManual
	}

	return MethodFormula
}

func (d Details) Basis() Basis {
	switch {
	case d.ManualAdjustment == nil:
		return BasisFormula
	case d.ManualAdjustment.Source == SourceAIAssisted:
		return BasisHumanAIInformed
	default:
		return BasisHuman
	}
}

// Finalize merges the formula result with an optional override.
func Finalize(auto *calc.Result, override *Override) (Details, error) {
	if auto == nil {
		return Details{}, ErrInvalidApplication
	}

	if override == nil {
		return Details{AutoCalculated: auto}, nil
	}

	o := *override
	o.Reason = strings.TrimSpace(o.Reason)
	o.AdjustedBy = strings.TrimSpace(o.AdjustedBy)

	if o.Reason == "" {
		return Details{}, ErrMissingAdjustmentReason
	}

	if o.AdjustedBy == "" {
		return Details{}, ErrMissingAdjuster
	}

	if o.Amount < 0 {
		return Details{}, ErrNegativeAmount
	}

	if o.Source == "" {
		o.Source = SourceManual
	}

	if o.Source == SourceAIAssisted && o.Suggestion == nil {
		return Details{}, ErrMissingAdjustmentReason
	}

	return Details{AutoCalculated: auto, ManualAdjustment: &o}, nil
}

// AcceptAISuggestion is the operator's explicit acceptance of s. The AI
// justification becomes the adjustment reason.
func AcceptAISuggestion(s AISuggestion, operator string, at time.Time) Override {
	return Override{
		Amount:     s.Amount,
		Reason:     s.Justification,
		AdjustedBy: operator,
		Source:     SourceAIAssisted,
		Suggestion: &s,
		AdjustedAt: at,
	}
}
