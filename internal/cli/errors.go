package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Workspace errors
	ErrConfigInvalid    = "CONFIG_INVALID"
	ErrWorkspaceInvalid = "WORKSPACE_INVALID"

	// Category and policy errors
	ErrInvalidCategory = "INVALID_CATEGORY"
	ErrPolicyRefused   = "POLICY_REFUSED"
	ErrInvalidTagName  = "INVALID_TAG_NAME"

	// File errors
	ErrFileNotFound        = "FILE_NOT_FOUND"
	ErrFileExists          = "FILE_EXISTS"
	ErrFileReadError       = "FILE_READ_ERROR"
	ErrFileWriteError      = "FILE_WRITE_ERROR"
	ErrFileOutsideNotebook = "FILE_OUTSIDE_NOTEBOOKS"
	ErrTemplateNotFound    = "TEMPLATE_NOT_FOUND"
	ErrTemplateInvalid     = "TEMPLATE_INVALID"

	// Validation errors
	ErrValidationFailed = "VALIDATION_FAILED"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"
	ErrCancelled       = "CANCELLED"

	// External tool errors
	ErrGitNotFound   = "GIT_NOT_FOUND"
	ErrGitFailed     = "GIT_FAILED"
	ErrEngineMissing = "ENGINE_NOT_INSTALLED"
	ErrEngineFailed  = "ENGINE_FAILED"

	// Audit ledger errors
	ErrDatabaseError = "DATABASE_ERROR"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnSizeThreshold  = "SIZE_WARNING"
	WarnAuditFailed    = "AUDIT_WRITE_FAILED"
	WarnSkippedRecords = "SKIPPED_RECORDS"
	WarnUnknownDir     = "UNKNOWN_CATEGORY_DIR"
)
