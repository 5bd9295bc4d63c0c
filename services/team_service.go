package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/yerlan-k/league-system/models"
	"github.com/yerlan-k/league-system/repositories"
	"github.com/yerlan-k/league-system/storage"
)

type TeamService interface {
	// GetByID returns the team with its roster attached.
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByTournament(ctx context.Context, tournamentID int, status *models.TeamStatus) ([]models.Team, error)
	// ChangeStatus moves a team between pending, approved and
	// rejected. Status changes never free capacity: rejected teams
	// still count toward the tournament limit.
	ChangeStatus(ctx context.Context, id int, status models.TeamStatus) (*models.Team, error)
	UploadLogo(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Team, error)
	Delete(ctx context.Context, id int) error
}

type teamService struct {
	teamRepo   repositories.TeamRepository
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
	logger     *slog.Logger
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		uploader:   uploader,
		logger:     logger,
	}
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team %d: %w", id, err)
	}

	players, err := s.playerRepo.ListByTeam(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for team %d: %w", id, err)
	}
	for i := range players {
		s.attachPhotoURL(&players[i])
	}
	team.Players = players
	s.attachLogoURL(team)
	return team, nil
}

func (s *teamService) ListByTournament(ctx context.Context, tournamentID int, status *models.TeamStatus) ([]models.Team, error) {
	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown team status %q", ErrValidationFailed, *status)
	}
	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	for i := range teams {
		s.attachLogoURL(&teams[i])
	}
	return teams, nil
}

func (s *teamService) ChangeStatus(ctx context.Context, id int, status models.TeamStatus) (*models.Team, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown team status %q", ErrValidationFailed, status)
	}

	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team %d: %w", id, err)
	}

	if err := s.teamRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to update status for team %d: %w", id, err)
	}

	team.Status = status
	s.attachLogoURL(team)
	s.logger.Info("team status changed",
		slog.Int("team_id", id),
		slog.String("status", string(status)),
	)
	return team, nil
}

func (s *teamService) UploadLogo(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team %d: %w", id, err)
	}
	if s.uploader == nil {
		return nil, ErrStorageUnavailable
	}

	key := "teams/" + strconv.Itoa(id) + "/logo-" + uuid.NewString()
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload logo for team %d: %w", id, err)
	}

	oldKey := team.LogoKey
	if err := s.teamRepo.UpdateLogoKey(ctx, id, &result.Key); err != nil {
		return nil, fmt.Errorf("failed to store logo key for team %d: %w", id, err)
	}
	if oldKey != nil {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.Warn("failed to delete previous logo",
				slog.String("key", *oldKey),
				slog.String("error", err.Error()),
			)
		}
	}

	team.LogoKey = &result.Key
	s.attachLogoURL(team)
	return team, nil
}

func (s *teamService) Delete(ctx context.Context, id int) error {
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team %d: %w", id, err)
	}
	return nil
}

func (s *teamService) attachLogoURL(team *models.Team) {
	if team.LogoKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*team.LogoKey)
	team.LogoURL = &url
}

func (s *teamService) attachPhotoURL(player *models.Player) {
	if player.PhotoKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*player.PhotoKey)
	player.PhotoURL = &url
}
