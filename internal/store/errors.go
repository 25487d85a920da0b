package store

import "errors"

var (
	ErrNoStagesConfigured = errors.New("no active stages configured")
	ErrEntryNotFound      = errors.New("queue entry not found")
	ErrStageNotFound      = errors.New("stage not found")
	ErrFlagNotFound       = errors.New("emergency flag not found")
	ErrPatientNotFound    = errors.New("patient not found")
	ErrStaffNotFound      = errors.New("staff member not found")
	ErrInvalidTransition  = errors.New("entry state does not allow this action")
	ErrAccessDenied       = errors.New("access denied")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateStage     = errors.New("stage name or order already in use")
)
