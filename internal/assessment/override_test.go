package assessment_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/levy/internal/assessment"
	"github.com/MrJamesThe3rd/levy/internal/calc"
)

func scenarioA() *calc.Result {
	return &calc.Result{
		Amount:    150000,
		RawAmount: 100000,
		Breakdown: []calc.Component{
			{Name: "base_fee", Amount: 100000},
			{Name: "zone_premium", Amount: 50000},
		},
		RevenueTypeCode: "HOTEL_LICENSE",
		ZoneID:          "zone-a",
	}
}

func TestFinalize(t *testing.T) {
	type testCase struct {
		name       string
		override   *assessment.Override
		wantAmount int64
		wantMethod assessment.Method
		wantBasis  assessment.Basis
		wantErr    error
	}

	tests := []testCase{
		{
			name:       "FormulaOnly",
			wantAmount: 150000,
			wantMethod: assessment.MethodFormula,
			wantBasis:  assessment.BasisFormula,
		},
		{
			name: "ManualOverride",
			override: &assessment.Override{
				Amount:     175000,
				Reason:     "AI-adjusted for room count",
				AdjustedBy: "assessor@amac",
			},
			wantAmount: 175000,
			wantMethod: assessment.MethodManual,
			wantBasis:  assessment.BasisHuman,
		},
		{
			name:     "MissingReason",
			override: &assessment.Override{Amount: 175000, AdjustedBy: "assessor@amac"},
			wantErr:  assessment.ErrMissingAdjustmentReason,
		},
		{
			name:     "WhitespaceReason",
			override: &assessment.Override{Amount: 175000, Reason: "   ", AdjustedBy: "assessor@amac"},
			wantErr:  assessment.ErrMissingAdjustmentReason,
		},
		{
			name:     "MissingAdjuster",
			override: &assessment.Override{Amount: 175000, Reason: "site visit"},
			wantErr:  assessment.ErrMissingAdjuster,
		},
		{
			name:     "NegativeAmount",
			override: &assessment.Override{Amount: -1, Reason: "typo", AdjustedBy: "assessor@amac"},
			wantErr:  assessment.ErrNegativeAmount,
		},
		{
			name:     "AISourceWithoutSuggestion",
			override: &assessment.Override{Amount: 1, Reason: "ai", AdjustedBy: "a", Source: assessment.SourceAIAssisted},
			wantErr:  assessment.ErrMissingAdjustmentReason,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := assessment.Finalize(scenarioA(), tt.override)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantAmount, got.Amount())
			assert.Equal(t, tt.wantMethod, got.Method())
			assert.Equal(t, tt.wantBasis, got.Basis())
			assert.Equal(t, int64(150000), got.AutoCalculated.Amount)
		})
	}
}

func TestAcceptAISuggestion(t *testing.T) {
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	suggestion := assessment.AISuggestion{
		Amount:        175000,
		Justification: "40 rooms exceed the category average",
		Confidence:    0.82,
	}

	override := assessment.AcceptAISuggestion(suggestion, "assessor@amac", at)

	details, err := assessment.Finalize(scenarioA(), &override)
	require.NoError(t, err)

	assert.Equal(t, assessment.BasisHumanAIInformed, details.Basis())
	assert.Equal(t, assessment.MethodManual, details.Method())
	assert.Equal(t, "40 rooms exceed the category average", details.ManualAdjustment.Reason)
	assert.Equal(t, "assessor@amac", details.ManualAdjustment.AdjustedBy)
	assert.Equal(t, int64(150000), details.AutoCalculated.Amount)
	assert.Equal(t, int64(175000), details.Amount())
}

func TestAcceptAISuggestion_EmptyJustificationRejected(t *testing.T) {
	override := assessment.AcceptAISuggestion(assessment.AISuggestion{Amount: 1}, "assessor@amac", time.Now())

	_, err := assessment.Finalize(scenarioA(), &override)
	assert.ErrorIs(t, err, assessment.ErrMissingAdjustmentReason)
}
