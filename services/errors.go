package services

import "errors"

// Shared errors surfaced by the service layer and mapped onto HTTP statuses
// by the handlers. Engine precondition errors (insufficient teams, no groups,
// no venues, invalid manual groups) are passed through from the engine
// package untouched.
var (
	ErrValidationFailed = errors.New("validation failed")

	// teams
	ErrTeamNameRequired   = errors.New("team name is required")
	ErrTeamShortNameLong  = errors.New("team short name must be at most 5 characters")
	ErrTeamsNotFound      = errors.New("one or more referenced teams do not exist")
	ErrLogoUploadDisabled = errors.New("logo storage is not configured")

	// matches
	ErrMatchRoundInvalid       = errors.New("invalid match round")
	ErrKnockoutRoundRequired   = errors.New("match round must be a knockout round")
	ErrScoresRequired          = errors.New("home and away scores are required for this status")
	ErrMatchSidesUnresolved    = errors.New("both sides must be resolved to a team before entering a score")
	ErrKnockoutTieUnresolved   = errors.New("a knockout match cannot complete level: record a penalty shootout result")
	ErrMatchStatusInvalid      = errors.New("invalid match status")
	ErrMatchAlreadyCancelled   = errors.New("a cancelled match cannot be updated")
	ErrGroupMatchManualCreated = errors.New("group-round matches are created by the fixture generator")

	// scheduling configuration
	ErrGroupCountOutOfRange    = errors.New("group count must be between 2 and 8")
	ErrTeamsPerGroupOutOfRange = errors.New("teams per group must be between 3 and 6")
	ErrStartDateInvalid        = errors.New("start date must be formatted as YYYY-MM-DD")
	ErrStartTimeInvalid        = errors.New("start time must be formatted as HH:MM")
	ErrDurationInvalid         = errors.New("match duration and break must be positive")

	// auth
	ErrInvalidCredentials = errors.New("invalid admin password")
)
