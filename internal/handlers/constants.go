package handlers

const (
	ErrInvalidJSON         = "Invalid JSON body"
	ErrInvalidLevelID      = "Invalid level ID"
	ErrInvalidStage        = "Invalid stage"
	ErrInvalidIndex        = "Invalid problem index"
	ErrInvalidMode         = "Invalid practice mode"
	ErrInvalidMonth        = "Invalid month, expected YYYY-MM"
	ErrInvalidPath         = "Unknown learning path"
	ErrInvalidReplace      = "Invalid replace flag, expected true or false"
	ErrBodyTooLarge        = "Request body too large"
	ErrTooManyRequests     = "Too many requests"
	ErrInternalServerError = "Internal server error"
	ErrNotFound            = "Not found"

	maxRequestBodyBytes = 1 << 16
	maxBackupBytes      = 16 << 20
)
