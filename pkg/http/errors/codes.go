package errors

// Error codes for standardized error responses
const (
	// Authentication errors
	ErrCodeUnauthorized           = "unauthorized"
	ErrCodeInvalidToken           = "invalid_token"
	ErrCodeTokenExpired           = "token_expired"
	ErrCodeAuthenticationRequired = "authentication_required"

	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"

	// Resource errors
	ErrCodeNotFound = "not_found"
	ErrCodeConflict = "conflict"

	// Auth flows
	ErrCodeAnonymousFailed = "anonymous_failed"
	ErrCodeRefreshFailed   = "refresh_failed"

	// Score errors
	ErrCodeInvalidNickname   = "invalid_nickname"
	ErrCodeInvalidScore      = "invalid_score"
	ErrCodeInvalidDifficulty = "invalid_difficulty"
	ErrCodeInvalidIQ         = "invalid_iq"
	ErrCodeSubmitFailed      = "submit_failed"

	// Pack and matrix errors
	ErrCodePackNotFound = "pack_not_found"
	ErrCodeInvalidPack  = "invalid_pack"
	ErrCodeInvalidSeed  = "invalid_seed"
	ErrCodeInvalidCell  = "invalid_cell"

	// Session errors
	ErrCodeSessionNotFound    = "session_not_found"
	ErrCodeSessionFinished    = "session_finished"
	ErrCodeQuestionMismatch   = "question_mismatch"
	ErrCodeInvalidOption      = "invalid_option"
	ErrCodeNoResult           = "no_result"
	ErrCodeSessionStartFailed = "session_start_failed"
	ErrCodeSessionBusy        = "session_busy"

	// WebSocket errors
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeUnknownMessageType = "unknown_message_type"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeUpstreamError      = "upstream_error"

	// Leaderboard errors
	ErrCodeLeaderboardFetchFailed = "leaderboard_fetch_failed"
	ErrCodeUnknownFilter          = "unknown_leaderboard_filter"
)
