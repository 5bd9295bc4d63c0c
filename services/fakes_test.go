package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/yerlan-k/league-system/models"
	"github.com/yerlan-k/league-system/repositories"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
	nextID      int
}

func newFakeTournamentRepo(tournaments ...*models.Tournament) *fakeTournamentRepo {
	repo := &fakeTournamentRepo{tournaments: make(map[int]*models.Tournament), nextID: 1}
	for _, t := range tournaments {
		if t.ID >= repo.nextID {
			repo.nextID = t.ID + 1
		}
		repo.tournaments[t.ID] = t
	}
	return repo
}

func (r *fakeTournamentRepo) Create(_ context.Context, t *models.Tournament) error {
	t.ID = r.nextID
	r.nextID++
	t.CreatedAt = time.Now()
	r.tournaments[t.ID] = t
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTournamentRepo) List(_ context.Context, _ repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	out := make([]models.Tournament, 0, len(r.tournaments))
	for _, t := range r.tournaments {
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTournamentRepo) Update(_ context.Context, t *models.Tournament) error {
	if _, ok := r.tournaments[t.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	r.tournaments[t.ID] = t
	return nil
}

func (r *fakeTournamentRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(r.tournaments, id)
	return nil
}

type fakePhaseRepo struct {
	phases    []models.Phase
	nextID    int
	createErr error
}

func newFakePhaseRepo(phases ...models.Phase) *fakePhaseRepo {
	repo := &fakePhaseRepo{nextID: 1}
	for _, p := range phases {
		if p.ID >= repo.nextID {
			repo.nextID = p.ID + 1
		}
		repo.phases = append(repo.phases, p)
	}
	return repo
}

func (r *fakePhaseRepo) Create(_ context.Context, _ repositories.SQLExecutor, phase *models.Phase) error {
	if r.createErr != nil {
		return r.createErr
	}
	order := 0
	for _, p := range r.phases {
		if p.TournamentID == phase.TournamentID {
			if p.Type == phase.Type {
				return repositories.ErrPhaseTypeConflict
			}
			if p.OrderIndex > order {
				order = p.OrderIndex
			}
		}
	}
	phase.ID = r.nextID
	r.nextID++
	phase.OrderIndex = order + 1
	phase.CreatedAt = time.Now()
	r.phases = append(r.phases, *phase)
	return nil
}

func (r *fakePhaseRepo) ListByTournament(_ context.Context, tournamentID int) ([]models.Phase, error) {
	var out []models.Phase
	for _, p := range r.phases {
		if p.TournamentID == tournamentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePhaseRepo) Delete(_ context.Context, id int) error {
	for i, p := range r.phases {
		if p.ID == id {
			r.phases = append(r.phases[:i], r.phases[i+1:]...)
			return nil
		}
	}
	return repositories.ErrPhaseNotFound
}

type fakeTeamRepo struct {
	teams  map[int]*models.Team
	nextID int
}

func newFakeTeamRepo(teams ...*models.Team) *fakeTeamRepo {
	repo := &fakeTeamRepo{teams: make(map[int]*models.Team), nextID: 1}
	for _, t := range teams {
		if t.ID >= repo.nextID {
			repo.nextID = t.ID + 1
		}
		repo.teams[t.ID] = t
	}
	return repo
}

func (r *fakeTeamRepo) Create(_ context.Context, _ repositories.SQLExecutor, team *models.Team) error {
	for _, t := range r.teams {
		if t.TournamentID == team.TournamentID && t.Name == team.Name {
			return repositories.ErrTeamNameConflict
		}
	}
	team.ID = r.nextID
	r.nextID++
	team.CreatedAt = time.Now()
	r.teams[team.ID] = team
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	t, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTeamRepo) ListByTournament(_ context.Context, tournamentID int, status *models.TeamStatus) ([]models.Team, error) {
	var out []models.Team
	for _, t := range r.teams {
		if t.TournamentID != tournamentID {
			continue
		}
		if status != nil && t.Status != *status {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTeamRepo) CountByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) (int, error) {
	count := 0
	for _, t := range r.teams {
		if t.TournamentID == tournamentID {
			count++
		}
	}
	return count, nil
}

func (r *fakeTeamRepo) UpdateStatus(_ context.Context, id int, status models.TeamStatus) error {
	t, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTeamRepo) UpdateLogoKey(_ context.Context, id int, logoKey *string) error {
	t, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.LogoKey = logoKey
	return nil
}

func (r *fakeTeamRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.teams, id)
	return nil
}

type fakePlayerRepo struct {
	players map[int]*models.Player
	nextID  int
}

func newFakePlayerRepo(players ...*models.Player) *fakePlayerRepo {
	repo := &fakePlayerRepo{players: make(map[int]*models.Player), nextID: 1}
	for _, p := range players {
		if p.ID >= repo.nextID {
			repo.nextID = p.ID + 1
		}
		repo.players[p.ID] = p
	}
	return repo
}

func (r *fakePlayerRepo) CreateBatch(_ context.Context, _ repositories.SQLExecutor, players []*models.Player) error {
	for _, p := range players {
		p.ID = r.nextID
		r.nextID++
		p.CreatedAt = time.Now()
		r.players[p.ID] = p
	}
	return nil
}

func (r *fakePlayerRepo) GetByID(_ context.Context, id int) (*models.Player, error) {
	p, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakePlayerRepo) ListByTeam(_ context.Context, teamID int) ([]models.Player, error) {
	var out []models.Player
	for _, p := range r.players {
		if p.TeamID == teamID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePlayerRepo) UpdatePhotoKey(_ context.Context, id int, photoKey *string) error {
	p, ok := r.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	p.PhotoKey = photoKey
	return nil
}

type fakeMatchRepo struct {
	matches map[int]*models.Match
	nextID  int
}

func newFakeMatchRepo(matches ...*models.Match) *fakeMatchRepo {
	repo := &fakeMatchRepo{matches: make(map[int]*models.Match), nextID: 1}
	for _, m := range matches {
		if m.ID >= repo.nextID {
			repo.nextID = m.ID + 1
		}
		repo.matches[m.ID] = m
	}
	return repo
}

func (r *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	match.ID = r.nextID
	r.nextID++
	match.CreatedAt = time.Now()
	r.matches[match.ID] = match
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMatchRepo) ListByTournament(_ context.Context, tournamentID int, phase *string, status *models.MatchStatus) ([]models.Match, error) {
	var out []models.Match
	for _, m := range r.matches {
		if m.TournamentID != tournamentID {
			continue
		}
		if phase != nil && m.Phase != *phase {
			continue
		}
		if status != nil && m.Status != *status {
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMatchRepo) UpdateResult(_ context.Context, id int, homeScore, awayScore *int, status models.MatchStatus, events []models.PlayerEvent) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.HomeScore = homeScore
	m.AwayScore = awayScore
	m.Status = status
	m.Events = events
	return nil
}

func (r *fakeMatchRepo) UpdateSchedule(_ context.Context, id int, homeTeamID, awayTeamID *int, venue *string, kickoffAt *time.Time) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.HomeTeamID = homeTeamID
	m.AwayTeamID = awayTeamID
	m.Venue = venue
	m.KickoffAt = kickoffAt
	return nil
}

func (r *fakeMatchRepo) SetForcedWinner(_ context.Context, id int, winnerTeamID int) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.ForcedWinnerID = &winnerTeamID
	return nil
}

func (r *fakeMatchRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(r.matches, id)
	return nil
}

type fakeUserRepo struct {
	users  map[int]*models.User
	nextID int
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[int]*models.User), nextID: 1}
	for _, u := range users {
		if u.ID >= repo.nextID {
			repo.nextID = u.ID + 1
		}
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) ListAdmins(_ context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range r.users {
		if u.Admin {
			copied := *u
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) SetActive(_ context.Context, id int, active bool) error {
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Active = active
	return nil
}

type fakeNotificationRepo struct {
	notifications map[int]*models.Notification
	nextID        int
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[int]*models.Notification), nextID: 1}
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	n.ID = r.nextID
	r.nextID++
	n.CreatedAt = time.Now()
	r.notifications[n.ID] = n
	return nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID int, includeDismissed bool) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		if n.Dismissed && !includeDismissed {
			continue
		}
		out = append(out, *n)
	}
	return out, nil
}

func (r *fakeNotificationRepo) Dismiss(_ context.Context, id, userID int) error {
	n, ok := r.notifications[id]
	if !ok || n.UserID != userID {
		return repositories.ErrNotificationNotFound
	}
	n.Dismissed = true
	return nil
}
