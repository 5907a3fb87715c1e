package apperr

// Kind classifies an error so transport code can pick a status without
// string matching.
type Kind int

const (
	KindValidation Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindInvariant
	KindInternal
)

// Error is the tagged error carried from the database and policy layers up
// to the HTTP error handler.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func Validation(msg string) *Error   { return &Error{Kind: KindValidation, Message: msg} }
func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }
func Forbidden(msg string) *Error    { return &Error{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Kind: KindConflict, Message: msg} }
func Invariant(msg string) *Error    { return &Error{Kind: KindInvariant, Message: msg} }
func Internal(msg string) *Error     { return &Error{Kind: KindInternal, Message: msg} }

// Status maps an error kind to its HTTP status code. Conflict and invariant
// violations surface as 400 to match the original API contract.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindConflict, KindInvariant:
		return 400
	case KindUnauthorized:
		return 401
	case KindForbidden:
		return 403
	case KindNotFound:
		return 404
	default:
		return 500
	}
}
