package shared

// Kind classifies a domain error into the taxonomy the HTTP boundary
// switches on. Critical marks chart-of-accounts integrity violations that
// must never be downgraded to a warning.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
	KindCritical
)

// Error is a tagged domain error. Packages declare sentinel instances with
// the constructors below and compare them with errors.Is.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Validation builds a 400-class sentinel.
func Validation(msg string) *Error { return &Error{Kind: KindValidation, Msg: msg} }

// NotFound builds a 404-class sentinel.
func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Msg: msg} }

// Conflict builds a 409-class sentinel.
func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Msg: msg} }

// Unauthorized builds a 401-class sentinel.
func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Msg: msg} }

// Forbidden builds a 403-class sentinel.
func Forbidden(msg string) *Error { return &Error{Kind: KindForbidden, Msg: msg} }

// Critical builds an integrity-violation sentinel. It aborts the enclosing
// transaction and surfaces as 500 with its full message.
func Critical(msg string) *Error { return &Error{Kind: KindCritical, Msg: msg} }

var (
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = Unauthorized("auth: invalid credentials")
	// ErrTokenInvalid indicates a missing or unverifiable bearer token.
	ErrTokenInvalid = Unauthorized("auth: token invalid")
	// ErrEmailTaken indicates a duplicate signup email. Shared because both
	// tenant signup and user creation hit the same unique constraint.
	ErrEmailTaken = Conflict("auth: email already registered")
)
