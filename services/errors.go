package services

import "errors"

// Errors shared across services and the HTTP error mapping.
var (
	// Missing resources
	ErrNotFound             = errors.New("requested resource not found")
	ErrTournamentNotFound   = errors.New("tournament not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrMatchNotFound        = errors.New("match not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrNotificationNotFound = errors.New("notification not found")

	// Validation
	ErrValidationFailed = errors.New("validation failed")
	ErrPasswordTooShort = errors.New("password is too short")

	// Authentication and authorization
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// Conflicts
	ErrEmailTaken             = errors.New("email address is already in use")
	ErrTeamNameConflict       = errors.New("team name is already taken in this tournament")
	ErrTournamentNameConflict = errors.New("tournament name already exists")

	// Registration gate
	ErrRegistrationClosed = errors.New("tournament registration is closed")
	ErrTournamentFull     = errors.New("tournament is full")

	// Phase progression
	ErrWrongProgressionMode = errors.New("operation not available in this tournament's progression mode")
	ErrPhaseAlreadyExists   = errors.New("phase already exists for this tournament")
	ErrPhaseNotSelected     = errors.New("requested phase is not in the tournament's selected set")
	ErrPhaseNotFinished     = errors.New("phase still has unfinished matches")
	ErrNextPhaseNotEmpty    = errors.New("next knockout phase already has matches")
	ErrNoKnockoutPhase      = errors.New("tournament has no knockout phase with matches")

	// Match state
	ErrMatchAlreadyFinished = errors.New("match is already finished; schedule and teams are frozen")
	ErrMatchNotDrawn        = errors.New("force winner applies only to finished drawn matches")
	ErrWinnerNotInMatch     = errors.New("forced winner must be one of the match teams")
	ErrScoresRequired       = errors.New("both scores are required to finish a match")

	// Infrastructure
	ErrStorageUnavailable = errors.New("file storage is not configured")
)
