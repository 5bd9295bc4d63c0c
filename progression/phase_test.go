package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yerlan-k/league-system/models"
)

func TestNextPhase(t *testing.T) {
	testCases := []struct {
		name     string
		created  []models.PhaseType
		selected []models.PhaseType
		want     models.PhaseType
		wantErr  error
	}{
		{
			name:     "empty created list picks first selected in logical order",
			created:  nil,
			selected: []models.PhaseType{models.PhaseRoundRobin, models.PhaseFinal},
			want:     models.PhaseRoundRobin,
		},
		{
			name:     "selection order does not matter",
			created:  nil,
			selected: []models.PhaseType{models.PhaseFinal, models.PhaseRoundRobin},
			want:     models.PhaseRoundRobin,
		},
		{
			name:     "skips phases absent from the selection",
			created:  []models.PhaseType{models.PhaseRoundRobin},
			selected: []models.PhaseType{models.PhaseRoundRobin, models.PhaseQuarterfinals, models.PhaseFinal},
			want:     models.PhaseQuarterfinals,
		},
		{
			name:     "empty selection fails",
			created:  []models.PhaseType{models.PhaseRoundRobin},
			selected: nil,
			wantErr:  ErrNoPhasesSelected,
		},
		{
			name:     "at final always fails",
			created:  []models.PhaseType{models.PhaseSemifinals, models.PhaseFinal},
			selected: []models.PhaseType{models.PhaseRoundRobin, models.PhaseSemifinals, models.PhaseFinal},
			wantErr:  ErrAtFinalPhase,
		},
		{
			name:     "at final fails regardless of selection",
			created:  []models.PhaseType{models.PhaseFinal},
			selected: []models.PhaseType{models.PhaseRoundRobin},
			wantErr:  ErrAtFinalPhase,
		},
		{
			name:     "no selected phase beyond the last created one",
			created:  []models.PhaseType{models.PhaseQuarterfinals},
			selected: []models.PhaseType{models.PhaseRoundRobin, models.PhaseQuarterfinals},
			wantErr:  ErrNoNextPhase,
		},
		{
			// Quarterfinals created before group stage, so the
			// candidate after group stage already exists and the
			// retry lands on final.
			name:     "existing candidate retries exactly one step forward",
			created:  []models.PhaseType{models.PhaseQuarterfinals, models.PhaseGroupStage},
			selected: []models.PhaseType{models.PhaseGroupStage, models.PhaseQuarterfinals, models.PhaseFinal},
			want:     models.PhaseFinal,
		},
		{
			name:     "existing candidate with no second step gives up",
			created:  []models.PhaseType{models.PhaseQuarterfinals, models.PhaseGroupStage},
			selected: []models.PhaseType{models.PhaseGroupStage, models.PhaseQuarterfinals},
			wantErr:  ErrPhaseExhausted,
		},
		{
			name:    "creation order out of logical sequence is reconciled",
			created: []models.PhaseType{models.PhaseSemifinals, models.PhaseGroupStage},
			selected: []models.PhaseType{
				models.PhaseGroupStage, models.PhaseRoundOf16, models.PhaseFinal,
			},
			want: models.PhaseRoundOf16,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextPhase(tc.created, tc.selected)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLogicalIndexOrdering(t *testing.T) {
	prev := -1
	for _, pt := range []models.PhaseType{
		models.PhaseRoundRobin, models.PhaseGroupStage, models.PhaseRoundOf16,
		models.PhaseQuarterfinals, models.PhaseSemifinals, models.PhaseFinal,
	} {
		idx, ok := LogicalIndex(pt)
		require.True(t, ok, "missing logical index for %s", pt)
		assert.Greater(t, idx, prev)
		prev = idx
	}

	_, ok := LogicalIndex(models.PhaseType("bogus"))
	assert.False(t, ok)
}

func TestNextKnockout(t *testing.T) {
	next, ok := NextKnockout(models.PhaseRoundOf16)
	require.True(t, ok)
	assert.Equal(t, models.PhaseQuarterfinals, next)

	next, ok = NextKnockout(models.PhaseSemifinals)
	require.True(t, ok)
	assert.Equal(t, models.PhaseFinal, next)

	_, ok = NextKnockout(models.PhaseFinal)
	assert.False(t, ok)

	_, ok = NextKnockout(models.PhaseRoundRobin)
	assert.False(t, ok)
}
