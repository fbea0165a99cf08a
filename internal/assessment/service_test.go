package assessment_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/levy/internal/assessment"
	"github.com/MrJamesThe3rd/levy/internal/audit"
	"github.com/MrJamesThe3rd/levy/internal/calc"
	"github.com/MrJamesThe3rd/levy/internal/catalog"
)

var now = time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

type mocks struct {
	repo    *assessment.MockRepository
	calc    *assessment.MockCalculator
	auditor *assessment.MockAuditor
	tx      *assessment.MockUpdateTx
}

func newService(t *testing.T) (*assessment.Service, mocks) {
	ctrl := gomock.NewController(t)

	m := mocks{
		repo:    assessment.NewMockRepository(ctrl),
		calc:    assessment.NewMockCalculator(ctrl),
		auditor: assessment.NewMockAuditor(ctrl),
		tx:      assessment.NewMockUpdateTx(ctrl),
	}

	svc := assessment.NewService(m.repo, m.calc, m.auditor,
		assessment.WithClock(func() time.Time { return now }),
	)

	return svc, m
}

func submitted() *assessment.Application {
	return &assessment.Application{
		ID:              uuid.New(),
		Number:          "APP-2026-ABC123",
		ApplicantName:   "Transcorp Hotels",
		RevenueTypeCode: "HOTEL_LICENSE",
		ZoneID:          "zone-a",
		Data:            calc.Fields{"rooms": "40"},
		Status:          assessment.ApplicationSubmitted,
	}
}

type auditMatcher struct {
	outcome audit.Outcome
	action  string
}

func (m auditMatcher) Matches(x any) bool {
	e, ok := x.(audit.Entry)
	return ok && e.Outcome == m.outcome && e.Action == m.action
}

func (m auditMatcher) String() string {
	return fmt.Sprintf("audit entry %s/%s", m.action, m.outcome)
}

func expectAudit(m mocks, outcome audit.Outcome, action string) {
	m.auditor.EXPECT().Record(gomock.Any(), auditMatcher{outcome: outcome, action: action})
}

func TestService_Assess(t *testing.T) {
	type testCase struct {
		name       string
		override   *assessment.Override
		setupMock  func(m mocks, app *assessment.Application)
		wantAmount int64
		wantMethod assessment.Method
		wantErrIs  error
	}

	tests := []testCase{
		{
			name: "FormulaBased",
			setupMock: func(m mocks, app *assessment.Application) {
				m.repo.EXPECT().GetApplication(gomock.Any(), app.ID).Return(app, nil)
				m.calc.EXPECT().Calculate(gomock.Any(), calc.Input{
					RevenueTypeCode: "HOTEL_LICENSE", ZoneID: "zone-a", Fields: app.Data, AsOf: now,
				}).Return(scenarioA(), nil)
				m.repo.EXPECT().CreateAssessment(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, a *assessment.Assessment) error {
						a.ID = uuid.New()
						return nil
					})
				expectAudit(m, audit.OutcomeSuccess, "assessment.create")
			},
			wantAmount: 150000,
			wantMethod: assessment.MethodFormula,
		},
		{
			name: "ManualOverrideKeepsAutoAmount",
			override: &assessment.Override{
				Amount: 175000, Reason: "AI-adjusted for room count", AdjustedBy: "assessor@amac",
			},
			setupMock: func(m mocks, app *assessment.Application) {
				m.repo.EXPECT().GetApplication(gomock.Any(), app.ID).Return(app, nil)
				m.calc.EXPECT().Calculate(gomock.Any(), gomock.Any()).Return(scenarioA(), nil)
				m.repo.EXPECT().CreateAssessment(gomock.Any(), gomock.Any()).Return(nil)
				expectAudit(m, audit.OutcomeSuccess, "assessment.create")
			},
			wantAmount: 175000,
			wantMethod: assessment.MethodManual,
		},
		{
			name:     "OverrideWithoutReason",
			override: &assessment.Override{Amount: 175000, AdjustedBy: "assessor@amac"},
			setupMock: func(m mocks, app *assessment.Application) {
				m.repo.EXPECT().GetApplication(gomock.Any(), app.ID).Return(app, nil)
				m.calc.EXPECT().Calculate(gomock.Any(), gomock.Any()).Return(scenarioA(), nil)
				expectAudit(m, audit.OutcomeFailure, "assessment.create")
			},
			wantErrIs: assessment.ErrMissingAdjustmentReason,
		},
		{
			name: "FormulaNotFound",
			setupMock: func(m mocks, app *assessment.Application) {
				m.repo.EXPECT().GetApplication(gomock.Any(), app.ID).Return(app, nil)
				m.calc.EXPECT().Calculate(gomock.Any(), gomock.Any()).Return(nil, catalog.ErrFormulaNotFound)
				expectAudit(m, audit.OutcomeFailure, "assessment.create")
			},
			wantErrIs: catalog.ErrFormulaNotFound,
		},
		{
			name: "ApplicationAlreadyReviewed",
			setupMock: func(m mocks, app *assessment.Application) {
				app.Status = assessment.ApplicationRejected
				m.repo.EXPECT().GetApplication(gomock.Any(), app.ID).Return(app, nil)
				expectAudit(m, audit.OutcomeFailure, "assessment.create")
			},
			wantErrIs: assessment.ErrApplicationClosed,
		},
		{
			name: "RetriesNumberCollision",
			setupMock: func(m mocks, app *assessment.Application) {
				m.repo.EXPECT().GetApplication(gomock.Any(), app.ID).Return(app, nil)
				m.calc.EXPECT().Calculate(gomock.Any(), gomock.Any()).Return(scenarioA(), nil)
				gomock.InOrder(
					m.repo.EXPECT().CreateAssessment(gomock.Any(), gomock.Any()).Return(assessment.ErrDuplicateNumber),
					m.repo.EXPECT().CreateAssessment(gomock.Any(), gomock.Any()).Return(nil),
				)
				expectAudit(m, audit.OutcomeSuccess, "assessment.create")
			},
			wantAmount: 150000,
			wantMethod: assessment.MethodFormula,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			app := submitted()
			tt.setupMock(m, app)

			got, err := svc.Assess(context.Background(), assessment.AssessParams{
				ApplicationID: app.ID,
				AssessedBy:    "assessor@amac",
				Override:      tt.override,
			})

			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantAmount, got.AssessedAmount)
			assert.Equal(t, tt.wantMethod, got.Method)
			assert.Equal(t, int64(150000), got.Details.AutoCalculated.Amount)
			assert.Equal(t, assessment.StatusDraft, got.Status)
			assert.Regexp(t, `^ASS-2026-[A-Z0-9]{6}$`, got.Number)
			assert.True(t, got.ValidUntil.After(got.ValidFrom))
		})
	}
}

func TestService_AssessInvalidValidity(t *testing.T) {
	svc, m := newService(t)
	app := submitted()

	m.repo.EXPECT().GetApplication(gomock.Any(), app.ID).Return(app, nil)
	m.calc.EXPECT().Calculate(gomock.Any(), gomock.Any()).Return(scenarioA(), nil)
	expectAudit(m, audit.OutcomeFailure, "assessment.create")

	_, err := svc.Assess(context.Background(), assessment.AssessParams{
		ApplicationID: app.ID,
		AssessedBy:    "assessor@amac",
		ValidFrom:     now,
		ValidUntil:    now,
	})
	assert.ErrorIs(t, err, assessment.ErrInvalidValidity)
}

func approvedAssessment() *assessment.Assessment {
	details, _ := assessment.Finalize(scenarioA(), nil)

	return &assessment.Assessment{
		ID:             uuid.New(),
		Number:         "ASS-2026-XYZ789",
		AssessedAmount: 150000,
		Method:         assessment.MethodFormula,
		Details:        details,
		Status:         assessment.StatusApproved,
		Version:        1,
	}
}

func TestService_Approve(t *testing.T) {
	t.Run("Draft", func(t *testing.T) {
		svc, m := newService(t)
		a := approvedAssessment()
		a.Status = assessment.StatusDraft

		m.repo.EXPECT().BeginUpdate(gomock.Any(), a.ID).Return(m.tx, nil)
		m.tx.EXPECT().Assessment(gomock.Any()).Return(a, nil)
		m.tx.EXPECT().UpdateAssessment(gomock.Any(), a).Return(nil)
		m.tx.EXPECT().Commit().Return(nil)
		m.tx.EXPECT().Rollback().Return(nil)
		expectAudit(m, audit.OutcomeSuccess, "assessment.approve")

		got, err := svc.Approve(context.Background(), a.ID, "director@amac")
		require.NoError(t, err)
		assert.Equal(t, assessment.StatusApproved, got.Status)
		assert.Equal(t, "director@amac", got.ApprovedBy)
	})

	t.Run("AlreadyApproved", func(t *testing.T) {
		svc, m := newService(t)
		a := approvedAssessment()

		m.repo.EXPECT().BeginUpdate(gomock.Any(), a.ID).Return(m.tx, nil)
		m.tx.EXPECT().Assessment(gomock.Any()).Return(a, nil)
		m.tx.EXPECT().Rollback().Return(nil)
		expectAudit(m, audit.OutcomeFailure, "assessment.approve")

		_, err := svc.Approve(context.Background(), a.ID, "director@amac")
		assert.ErrorIs(t, err, assessment.ErrInvalidTransition)
	})
}

func TestService_AdjustApprovedCreatesVersion(t *testing.T) {
	svc, m := newService(t)
	a := approvedAssessment()

	m.repo.EXPECT().BeginUpdate(gomock.Any(), a.ID).Return(m.tx, nil)
	m.tx.EXPECT().Assessment(gomock.Any()).Return(a, nil)
	m.tx.EXPECT().
		CreateAdjustment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, adj *assessment.Adjustment) error {
			assert.Equal(t, 2, adj.Version)
			assert.Equal(t, int64(150000), adj.PreviousAmount)
			assert.Equal(t, int64(175000), adj.NewAmount)
			assert.Equal(t, assessment.SourceAIAssisted, adj.Source)
			return nil
		})
	m.tx.EXPECT().UpdateAssessment(gomock.Any(), gomock.Any()).Return(nil)
	m.tx.EXPECT().Commit().Return(nil)
	m.tx.EXPECT().Rollback().Return(nil)
	expectAudit(m, audit.OutcomeSuccess, "assessment.adjust")

	got, err := svc.AcceptAISuggestion(context.Background(), a.ID, assessment.AISuggestion{
		Amount:        175000,
		Justification: "AI-adjusted for room count",
		Confidence:    0.9,
	}, "assessor@amac")
	require.NoError(t, err)

	assert.Equal(t, int64(175000), got.AssessedAmount)
	assert.Equal(t, 2, got.Version)
	assert.Equal(t, assessment.MethodManual, got.Method)
	assert.Equal(t, assessment.BasisHumanAIInformed, got.Details.Basis())
	assert.Equal(t, int64(150000), got.Details.AutoCalculated.Amount)
}

func TestService_AdjustDraftInPlace(t *testing.T) {
	svc, m := newService(t)
	a := approvedAssessment()
	a.Status = assessment.StatusDraft

	m.repo.EXPECT().BeginUpdate(gomock.Any(), a.ID).Return(m.tx, nil)
	m.tx.EXPECT().Assessment(gomock.Any()).Return(a, nil)
	m.tx.EXPECT().UpdateAssessment(gomock.Any(), gomock.Any()).Return(nil)
	m.tx.EXPECT().Commit().Return(nil)
	m.tx.EXPECT().Rollback().Return(nil)
	expectAudit(m, audit.OutcomeSuccess, "assessment.adjust")

	got, err := svc.Adjust(context.Background(), a.ID, assessment.Override{
		Amount: 120000, Reason: "hardship waiver", AdjustedBy: "director@amac",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
	assert.Equal(t, int64(120000), got.AssessedAmount)
}

func TestService_RejectApplication(t *testing.T) {
	svc, m := newService(t)
	id := uuid.New()

	expectAudit(m, audit.OutcomeFailure, "application.reject")

	err := svc.RejectApplication(context.Background(), id, "assessor@amac", " ")
	assert.ErrorIs(t, err, assessment.ErrMissingReason)
}
