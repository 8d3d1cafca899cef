package recordschemeanalysis

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"kisan-scheme-workers/internal/common/errors"
	"kisan-scheme-workers/internal/common/logger"
	"kisan-scheme-workers/internal/scheme"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{Timeout: 3 * time.Second}
}

func createTestInput() *Input {
	return &Input{
		FarmerID: "farmer-001",
		FarmerProfile: scheme.FarmerProfile{
			LandSizeAcres:  1.5,
			Location:       scheme.Location{State: "Maharashtra", District: "Latur"},
			CropType:       "Soybean",
			IrrigationType: scheme.IrrigationRainfed,
			AnnualIncome:   80000,
			FarmerCategory: scheme.FarmerSmallMarginal,
		},
		EligibleSchemes: []scheme.EligibleScheme{
			{SchemeName: "Maharashtra Storage Infrastructure Aid", AdjustedSubsidyAmount: "₹2,34,000", Category: scheme.CategoryStorage},
			{SchemeName: "Pradhan Mantri Kisan Samman Nidhi (PM-KISAN)", AdjustedSubsidyAmount: "₹7,200", Category: scheme.CategoryNational},
		},
	}
}

// jsonResult matches the JSONB payload written for the analysis.
type jsonResult struct {
	fallbackOnly bool
}

func (m jsonResult) Match(v driver.Value) bool {
	raw, ok := v.([]byte)
	if !ok {
		return false
	}
	var stored storedResult
	if err := json.Unmarshal(raw, &stored); err != nil {
		return false
	}
	return len(stored.EligibleSchemes) > 0 && stored.FallbackOnly == m.fallbackOnly
}

type uuidArg struct{}

func (uuidArg) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("farmer-001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO scheme_analyses`).
		WithArgs(
			uuidArg{},
			"farmer-001",
			"Maharashtra",
			"Small and Marginal",
			jsonResult{fallbackOnly: false},
			"Maharashtra Storage Infrastructure Aid",
			2,
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs("scheme_analysis_recorded", "scheme_analysis", uuidArg{}, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), createTestInput())
	require.NoError(t, err)

	assert.Equal(t, StatusRecorded, output.Status)
	_, err = uuid.Parse(output.AnalysisID)
	assert.NoError(t, err)
	_, err = time.Parse(time.RFC3339, output.CreatedAt)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_FallbackOnlyResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	input := createTestInput()
	input.EligibleSchemes = []scheme.EligibleScheme{
		{SchemeName: scheme.Fallback().Name, AdjustedSubsidyAmount: "₹5,000", Category: scheme.CategoryFallback},
	}

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("farmer-001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO scheme_analyses`).
		WithArgs(uuidArg{}, "farmer-001", "Maharashtra", "Small and Marginal",
			jsonResult{fallbackOnly: true}, scheme.Fallback().Name, 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))
	_, err = handler.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_AuditLogFailureIsNotFatal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO scheme_analyses`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WillReturnError(stderrors.New("audit_log: permission denied"))

	handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), createTestInput())
	require.NoError(t, err)
	assert.Equal(t, StatusRecorded, output.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name              string
		mutate            func(in *Input)
		setupMock         func(mock sqlmock.Sqlmock)
		expectedCode      errors.ErrorCode
		expectedRetryable bool
	}{
		{
			name:         "missing farmer id",
			mutate:       func(in *Input) { in.FarmerID = " " },
			setupMock:    func(sqlmock.Sqlmock) {},
			expectedCode: errors.ErrCodeProfileValidationFailed,
		},
		{
			name:         "invalid profile",
			mutate:       func(in *Input) { in.FarmerProfile.LandSizeAcres = 0 },
			setupMock:    func(sqlmock.Sqlmock) {},
			expectedCode: errors.ErrCodeProfileValidationFailed,
		},
		{
			name:         "no schemes",
			mutate:       func(in *Input) { in.EligibleSchemes = nil },
			setupMock:    func(sqlmock.Sqlmock) {},
			expectedCode: errors.ErrCodeInvalidCatalog,
		},
		{
			name:   "already analysed today",
			mutate: func(*Input) {},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs("farmer-001").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			},
			expectedCode: errors.ErrCodeDuplicateAnalysis,
		},
		{
			name:   "duplicate check fails",
			mutate: func(*Input) {},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT EXISTS`).
					WillReturnError(stderrors.New("connection reset by peer"))
			},
			expectedCode:      errors.ErrCodeQueryExecutionFailed,
			expectedRetryable: true,
		},
		{
			name:   "insert fails",
			mutate: func(*Input) {},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT EXISTS`).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
				mock.ExpectExec(`INSERT INTO scheme_analyses`).
					WillReturnError(stderrors.New("relation \"scheme_analyses\" does not exist"))
			},
			expectedCode:      errors.ErrCodeDatabaseInsertFailed,
			expectedRetryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.setupMock(mock)

			input := createTestInput()
			tt.mutate(input)

			handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))
			output, err := handler.Execute(context.Background(), input)
			require.Error(t, err)
			assert.Nil(t, output)

			stdErr, ok := errors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, tt.expectedCode, stdErr.Code)
			assert.Equal(t, tt.expectedRetryable, stdErr.Retryable)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
