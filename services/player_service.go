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

type PlayerService interface {
	GetByID(ctx context.Context, id int) (*models.Player, error)
	UploadPhoto(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Player, error)
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
	logger     *slog.Logger
}

func NewPlayerService(playerRepo repositories.PlayerRepository, uploader storage.FileUploader, logger *slog.Logger) PlayerService {
	return &playerService{playerRepo: playerRepo, uploader: uploader, logger: logger}
}

func (s *playerService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to load player %d: %w", id, err)
	}
	s.attachPhotoURL(player)
	return player, nil
}

func (s *playerService) UploadPhoto(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to load player %d: %w", id, err)
	}
	if s.uploader == nil {
		return nil, ErrStorageUnavailable
	}

	key := "players/" + strconv.Itoa(id) + "/photo-" + uuid.NewString()
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload photo for player %d: %w", id, err)
	}

	oldKey := player.PhotoKey
	if err := s.playerRepo.UpdatePhotoKey(ctx, id, &result.Key); err != nil {
		return nil, fmt.Errorf("failed to store photo key for player %d: %w", id, err)
	}
	if oldKey != nil {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.Warn("failed to delete previous photo",
				slog.String("key", *oldKey),
				slog.String("error", err.Error()),
			)
		}
	}

	player.PhotoKey = &result.Key
	s.attachPhotoURL(player)
	return player, nil
}

func (s *playerService) attachPhotoURL(player *models.Player) {
	if player.PhotoKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*player.PhotoKey)
	player.PhotoURL = &url
}
