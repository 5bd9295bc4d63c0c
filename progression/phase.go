package progression

import (
	"errors"

	"github.com/yerlan-k/league-system/models"
)

var (
	ErrNoPhasesSelected = errors.New("tournament has no phases selected")
	ErrAtFinalPhase     = errors.New("tournament is already at the final phase")
	ErrNoNextPhase      = errors.New("no further phase available in the selected set")
	ErrPhaseExhausted   = errors.New("next phase already exists and the following one is unavailable")
)

// logicalOrder fixes the one true ordering of phase types. Creation
// order of phases may differ from it; all transition decisions compare
// logical indices, never creation indices.
var logicalOrder = []models.PhaseType{
	models.PhaseRoundRobin,
	models.PhaseGroupStage,
	models.PhaseRoundOf16,
	models.PhaseQuarterfinals,
	models.PhaseSemifinals,
	models.PhaseFinal,
}

// LogicalIndex returns the position of t in the fixed phase ordering.
func LogicalIndex(t models.PhaseType) (int, bool) {
	for i, pt := range logicalOrder {
		if pt == t {
			return i, true
		}
	}
	return 0, false
}

// KnockoutPhases returns the elimination stages in logical order.
func KnockoutPhases() []models.PhaseType {
	return []models.PhaseType{
		models.PhaseRoundOf16,
		models.PhaseQuarterfinals,
		models.PhaseSemifinals,
		models.PhaseFinal,
	}
}

// NextKnockout returns the knockout stage immediately after t.
func NextKnockout(t models.PhaseType) (models.PhaseType, bool) {
	ko := KnockoutPhases()
	for i, pt := range ko {
		if pt == t && i+1 < len(ko) {
			return ko[i+1], true
		}
	}
	return "", false
}

// SortSelection returns the selected set ordered by logical index,
// dropping unknown values and duplicates.
func SortSelection(selected []models.PhaseType) []models.PhaseType {
	return sortedSelection(selected)
}

// sortedSelection returns the selected set ordered by logical index,
// dropping unknown values and duplicates.
func sortedSelection(selected []models.PhaseType) []models.PhaseType {
	out := make([]models.PhaseType, 0, len(selected))
	seen := make(map[models.PhaseType]bool, len(selected))
	for _, pt := range logicalOrder {
		for _, sel := range selected {
			if sel == pt && !seen[pt] {
				out = append(out, pt)
				seen[pt] = true
			}
		}
	}
	return out
}

// NextPhase computes the phase type to create next for a tournament in
// manual progression.
//
// created is the list of phase types already generated, in creation
// order; selected is the admin's target set. The candidate is the
// first selected entry whose logical index exceeds that of the last
// created phase (or the logically first selected entry when nothing
// has been created yet). If the candidate already exists, exactly one
// further step forward is attempted before giving up; this bounded
// retry is deliberate, not a general skip-ahead search.
func NextPhase(created []models.PhaseType, selected []models.PhaseType) (models.PhaseType, error) {
	ordered := sortedSelection(selected)
	if len(ordered) == 0 {
		return "", ErrNoPhasesSelected
	}

	existing := make(map[models.PhaseType]bool, len(created))
	for _, pt := range created {
		existing[pt] = true
	}

	lastIdx := -1
	if len(created) > 0 {
		last := created[len(created)-1]
		if last == models.PhaseFinal {
			return "", ErrAtFinalPhase
		}
		idx, ok := LogicalIndex(last)
		if !ok {
			return "", ErrNoNextPhase
		}
		lastIdx = idx
	}

	candidates := make([]models.PhaseType, 0, 2)
	for _, pt := range ordered {
		idx, _ := LogicalIndex(pt)
		if idx > lastIdx {
			candidates = append(candidates, pt)
			if len(candidates) == 2 {
				break
			}
		}
	}
	if len(candidates) == 0 {
		return "", ErrNoNextPhase
	}

	if !existing[candidates[0]] {
		return candidates[0], nil
	}
	// Bounded depth-1 retry past an already-created phase.
	if len(candidates) == 2 && !existing[candidates[1]] {
		return candidates[1], nil
	}
	return "", ErrPhaseExhausted
}

// DisplayName is the default human-readable name for a phase type.
func DisplayName(t models.PhaseType) string {
	switch t {
	case models.PhaseRoundRobin:
		return "Round Robin"
	case models.PhaseGroupStage:
		return "Group Stage"
	case models.PhaseRoundOf16:
		return "Round of 16"
	case models.PhaseQuarterfinals:
		return "Quarterfinals"
	case models.PhaseSemifinals:
		return "Semifinals"
	case models.PhaseFinal:
		return "Final"
	}
	return string(t)
}
