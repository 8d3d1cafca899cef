package e2e

import (
	"context"
	"sync"
	"testing"
	"time"

	"kisan-scheme-workers/internal/common/logger"
	"kisan-scheme-workers/internal/scheme"

	notifyfarmer "kisan-scheme-workers/internal/workers/communication/notify-farmer"
	checkdocumentreadiness "kisan-scheme-workers/internal/workers/documents/check-document-readiness"
	analyzeschemeeligibility "kisan-scheme-workers/internal/workers/eligibility/analyze-scheme-eligibility"
	generateschemecatalog "kisan-scheme-workers/internal/workers/eligibility/generate-scheme-catalog"
	rankeligibleschemes "kisan-scheme-workers/internal/workers/eligibility/rank-eligible-schemes"
	recordschemeanalysis "kisan-scheme-workers/internal/workers/profile/record-scheme-analysis"
	validatefarmerprofile "kisan-scheme-workers/internal/workers/profile/validate-farmer-profile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const timeout = 5 * time.Second

type recordingSender struct {
	mu       sync.Mutex
	messages []string
}

func (s *recordingSender) SendText(_ context.Context, to, subject, body string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, subject+"\n"+body)
	return "ses-msg-1", nil
}

func (s *recordingSender) SendSMS(_ context.Context, phone, message string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, message)
	return "sns-msg-1", nil
}

func rawProfile() map[string]interface{} {
	return map[string]interface{}{
		"landSize":       1.5,
		"location":       map[string]interface{}{"state": "Maharashtra", "district": "Latur"},
		"cropType":       "Soybean",
		"irrigationType": "Rainfed",
		"annualIncome":   80000,
		"farmerCategory": "Small and Marginal",
	}
}

// TestSchemeDiscoveryProcess runs the service tasks of the scheme discovery
// process in BPMN order, feeding each output into the next input.
func TestSchemeDiscoveryProcess(t *testing.T) {
	ctx := context.Background()
	log := logger.NewTestLogger(t)

	validator, err := validatefarmerprofile.NewHandler(&validatefarmerprofile.Config{Timeout: timeout}, log)
	require.NoError(t, err)
	validated, err := validator.Execute(ctx, &validatefarmerprofile.Input{FarmerProfile: rawProfile()})
	require.NoError(t, err)
	require.True(t, validated.IsValid)
	require.NotNil(t, validated.FarmerProfile)
	profile := *validated.FarmerProfile

	generator := generateschemecatalog.NewHandler(&generateschemecatalog.Config{Timeout: timeout, Seed: 2024}, log)
	catalog, err := generator.Execute(ctx, &generateschemecatalog.Input{State: profile.Location.State})
	require.NoError(t, err)
	assert.True(t, catalog.SupportedState)
	assert.Equal(t, len(catalog.Schemes), catalog.SchemeCount)

	ranker := rankeligibleschemes.NewHandler(&rankeligibleschemes.Config{MaxCatalogSize: 100, Timeout: timeout}, log)
	ranked, err := ranker.Execute(ctx, &rankeligibleschemes.Input{FarmerProfile: profile, Schemes: catalog.Schemes})
	require.NoError(t, err)
	require.NotEmpty(t, ranked.EligibleSchemes)
	assert.LessOrEqual(t, len(ranked.EligibleSchemes), 7)
	assert.False(t, ranked.FallbackOnly)
	assert.Equal(t, ranked.EligibleSchemes[0], ranked.TopScheme)

	// The combined worker must agree with the three-step chain for the same seed.
	analyzer := analyzeschemeeligibility.NewHandler(&analyzeschemeeligibility.Config{
		CacheTTL: 10 * time.Minute,
		Timeout:  timeout,
		Seed:     2024,
	}, nil, nil, log)
	analysis, err := analyzer.Execute(ctx, &analyzeschemeeligibility.Input{FarmerProfile: &profile})
	require.NoError(t, err)
	assert.Equal(t, ranked.EligibleSchemes, analysis.EligibleSchemes)

	readinessHandler := checkdocumentreadiness.NewHandler(&checkdocumentreadiness.Config{MaxDocuments: 50, Timeout: timeout}, log)
	readiness, err := readinessHandler.Execute(ctx, &checkdocumentreadiness.Input{
		UserDocuments: []string{"Aadhaar Card", "Passport Size Photograph"},
	})
	require.NoError(t, err)
	assert.Equal(t, scheme.StatusAlmostReady, readiness.ReadinessStatus)
	assert.Len(t, readiness.MissingDocuments, 2)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("farmer-001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO scheme_analyses`).
		WithArgs(
			sqlmock.AnyArg(), "farmer-001", "Maharashtra", "Small and Marginal",
			sqlmock.AnyArg(), ranked.TopScheme.SchemeName, len(ranked.EligibleSchemes), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).WillReturnResult(sqlmock.NewResult(1, 1))

	recorder := recordschemeanalysis.NewHandler(&recordschemeanalysis.Config{Timeout: timeout}, db, log)
	recorded, err := recorder.Execute(ctx, &recordschemeanalysis.Input{
		FarmerID:        "farmer-001",
		FarmerProfile:   profile,
		EligibleSchemes: ranked.EligibleSchemes,
	})
	require.NoError(t, err)
	assert.Equal(t, recordschemeanalysis.StatusRecorded, recorded.Status)

	for range []string{notifyfarmer.TypeSchemesMatched, notifyfarmer.TypeDocumentsPending} {
		mock.ExpectQuery(`SELECT email, phone FROM farmers`).
			WithArgs("farmer-001").
			WillReturnRows(sqlmock.NewRows([]string{"email", "phone"}).AddRow("ramesh.patil@example.in", "+919876543210"))
	}

	sender := &recordingSender{}
	notifier := notifyfarmer.NewHandler(&notifyfarmer.Config{
		EmailEnabled: true,
		SMSEnabled:   true,
		Timeout:      timeout,
	}, db, sender, sender, log)

	matched, err := notifier.Execute(ctx, &notifyfarmer.Input{
		FarmerID:         "farmer-001",
		NotificationType: notifyfarmer.TypeSchemesMatched,
		EligibleSchemes:  ranked.EligibleSchemes,
	})
	require.NoError(t, err)
	assert.Equal(t, notifyfarmer.StatusSent, matched.Status)
	assert.ElementsMatch(t, []string{notifyfarmer.ChannelEmail, notifyfarmer.ChannelSMS}, matched.Channels)

	pending, err := notifier.Execute(ctx, &notifyfarmer.Input{
		FarmerID:         "farmer-001",
		NotificationType: notifyfarmer.TypeDocumentsPending,
		ReadinessStatus:  readiness.ReadinessStatus,
		MissingDocuments: readiness.MissingDocuments,
	})
	require.NoError(t, err)
	assert.Equal(t, notifyfarmer.StatusSent, pending.Status)

	assert.Len(t, sender.messages, 4)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestHighIncomeFallback covers a farmer who qualifies for nothing but the
// general guidance scheme.
func TestHighIncomeFallback(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNoOpLogger()

	profile := scheme.FarmerProfile{
		LandSizeAcres:  40,
		Location:       scheme.Location{State: "Punjab"},
		CropType:       "Saffron",
		IrrigationType: scheme.IrrigationCanal,
		AnnualIncome:   900000,
		FarmerCategory: scheme.FarmerLarge,
	}

	analyzer := analyzeschemeeligibility.NewHandler(&analyzeschemeeligibility.Config{Timeout: timeout, Seed: 7}, nil, nil, log)
	out, err := analyzer.Execute(ctx, &analyzeschemeeligibility.Input{FarmerProfile: &profile})
	require.NoError(t, err)
	require.Len(t, out.EligibleSchemes, 1)
	assert.Equal(t, scheme.CategoryFallback, out.TopScheme.Category)
	assert.Equal(t, analyzeschemeeligibility.SourceInline, out.ProfileSource)
}
