package services

import (
	"errors"

	"github.com/Dosada05/tennis-ladder/brackets"
)

// Общие ошибки, используемые в сервисах и маппинге HTTP.
var (
	ErrTournamentNotFound = errors.New("tournament not found")

	// Ошибки валидации и бизнес-правил (400)
	ErrValidationFailed         = errors.New("validation failed")
	ErrTournamentNotReady       = errors.New("tournament is not ready for bracket generation")
	ErrInsufficientParticipants = brackets.ErrInsufficientParticipants
	ErrUnsupportedFormat        = brackets.ErrUnsupportedFormat
	ErrBracketAlreadyGenerated  = errors.New("bracket already generated for this tournament")

	// Ошибки хранилища (500)
	ErrPersistenceFailed = errors.New("persistence failure")
)
