package progression

import (
	"errors"
	"fmt"

	"github.com/yerlan-k/league-system/models"
)

var (
	ErrMatchNotFinished = errors.New("match is not finished")
	ErrMatchDrawn       = errors.New("knockout match is drawn and has no forced winner")
	ErrMatchNoTeams     = errors.New("match has no teams assigned")
	ErrNoWinners        = errors.New("no winners to pair")
)

// Pairing is one next-round fixture between two advancing teams.
type Pairing struct {
	HomeTeamID int
	AwayTeamID int
}

// PairingResult carries the next-round pairings and, when the winner
// count is odd, the team receiving a bye. The bye is recorded
// deterministically (always the last winner in source-match order)
// instead of being dropped.
type PairingResult struct {
	Pairings  []Pairing
	ByeTeamID *int
}

// Winner returns the advancing team of a finished knockout match:
// strictly higher score wins; a draw is resolved only by the forced
// winner set through the admin override. A bye fixture carries a lone
// home team and no score, and its team advances unplayed.
func Winner(m models.Match) (int, error) {
	if m.Status != models.MatchFinished {
		return 0, fmt.Errorf("%w: match %d", ErrMatchNotFinished, m.ID)
	}
	if m.HomeTeamID != nil && m.AwayTeamID == nil {
		return *m.HomeTeamID, nil
	}
	if m.HomeTeamID == nil || m.AwayTeamID == nil {
		return 0, fmt.Errorf("%w: match %d", ErrMatchNoTeams, m.ID)
	}
	if m.HomeScore == nil || m.AwayScore == nil {
		return 0, fmt.Errorf("%w: match %d", ErrMatchNotFinished, m.ID)
	}
	switch {
	case *m.HomeScore > *m.AwayScore:
		return *m.HomeTeamID, nil
	case *m.AwayScore > *m.HomeScore:
		return *m.AwayTeamID, nil
	}
	if m.ForcedWinnerID != nil {
		return *m.ForcedWinnerID, nil
	}
	return 0, fmt.Errorf("%w: match %d", ErrMatchDrawn, m.ID)
}

// PairWinners determines per-match winners of a finished knockout
// phase and pairs them sequentially into next-round fixtures: winner
// of the first match against the winner of the second, and so on, in
// source-match order. Any unresolved draw blocks the whole phase.
func PairWinners(matches []models.Match) (*PairingResult, error) {
	if len(matches) == 0 {
		return nil, ErrNoWinners
	}

	winners := make([]int, 0, len(matches))
	for _, m := range matches {
		w, err := Winner(m)
		if err != nil {
			return nil, err
		}
		winners = append(winners, w)
	}

	result := &PairingResult{
		Pairings: make([]Pairing, 0, len(winners)/2),
	}
	for i := 0; i+1 < len(winners); i += 2 {
		result.Pairings = append(result.Pairings, Pairing{
			HomeTeamID: winners[i],
			AwayTeamID: winners[i+1],
		})
	}
	if len(winners)%2 == 1 {
		bye := winners[len(winners)-1]
		result.ByeTeamID = &bye
	}
	return result, nil
}
