package errs

// Stable API error codes. 1xxx argument/auth problems, 2xxx resource
// problems, 5xxx server side.
const (
	ArgsErrorCode       = 1001
	TokenInvalidCode    = 1101
	TokenExpiredCode    = 1102
	ForbiddenCode       = 1103
	CredentialsCode     = 1104
	RecordNotFoundCode  = 2001
	DuplicateRecordCode = 2002
	DatabaseErrorCode   = 5001
	ServerInternalCode  = 5000
)

var (
	ErrArgs           = NewCodeError(ArgsErrorCode, "invalid argument")
	ErrTokenInvalid   = NewCodeError(TokenInvalidCode, "please authenticate")
	ErrTokenExpired   = NewCodeError(TokenExpiredCode, "token expired")
	ErrForbidden      = NewCodeError(ForbiddenCode, "admin access required")
	ErrCredentials    = NewCodeError(CredentialsCode, "invalid credentials")
	ErrRecordNotFound = NewCodeError(RecordNotFoundCode, "record not found")
	ErrDuplicate      = NewCodeError(DuplicateRecordCode, "record already exists")
	ErrDatabase       = NewCodeError(DatabaseErrorCode, "database error")
	ErrServerInternal = NewCodeError(ServerInternalCode, "server internal error")
)
