package findalternativeguards

import (
	"context"
	"testing"

	"guard-matching/internal/common/config"
	"guard-matching/internal/common/errors"
	"guard-matching/internal/common/logger"
	"guard-matching/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFinder struct {
	results []models.MatchResult
	err     error
	calls   int
}

func (s *stubFinder) FindAlternativeGuards(context.Context, string, int) ([]models.MatchResult, error) {
	s.calls++
	return s.results, s.err
}

func newHandler(t *testing.T, f AlternativeFinder) *Handler {
	return NewHandler(LoadConfig(config.WorkerConfig{}), f, nil, logger.NewTestLogger(t))
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name    string
		finder  *stubFinder
		input   Input
		want    int
		code    errors.ErrorCode
		noCalls bool
	}{
		{
			name:   "alternatives found",
			finder: &stubFinder{results: []models.MatchResult{{Guard: models.GuardProfile{ID: "g-3"}, Score: 70}}},
			input:  Input{BookingID: "b-1"},
			want:   1,
		},
		{
			name:   "none available",
			finder: &stubFinder{results: []models.MatchResult{}},
			input:  Input{BookingID: "b-1"},
		},
		{
			name:   "booking not found",
			finder: &stubFinder{err: errors.NewBookingNotFoundError("b-404")},
			input:  Input{BookingID: "b-404"},
			code:   errors.ErrCodeBookingNotFound,
		},
		{
			name:    "missing booking id",
			finder:  &stubFinder{},
			code:    errors.ErrCodeInputValidationFailed,
			noCalls: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := newHandler(t, tt.finder).Execute(context.Background(), &tt.input)
			if tt.code != "" {
				require.Error(t, err)
				assert.Equal(t, tt.code, errors.Normalize(err).Code)
				if tt.noCalls {
					assert.Zero(t, tt.finder.calls)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.TotalAlternatives)
			assert.Equal(t, tt.want > 0, out.HasAlternatives)
		})
	}
}
