// game/errors.go
package game

import "errors"

// Domain errors. Each carries the caller-safe message that ends up in the
// {message, error:true} envelope; anything else is reported as a generic
// server error and logged with detail server-side.
var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrInvalidRoom        = errors.New("invalid room")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrRoomAlreadyStarted = errors.New("room already started")
	ErrForbidden          = errors.New("you can't start the game")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrJudgeCannotSubmit  = errors.New("you are the judge")
	ErrAlreadySubmitted   = errors.New("you already play")
	ErrNotJudge           = errors.New("you are not the judge")
)

// domainErrors lists the errors whose message may be shown to callers.
var domainErrors = []error{
	ErrRoomNotFound,
	ErrInvalidRoom,
	ErrPlayerNotFound,
	ErrRoomAlreadyStarted,
	ErrForbidden,
	ErrUsernameTaken,
	ErrJudgeCannotSubmit,
	ErrAlreadySubmitted,
	ErrNotJudge,
}

// IsDomainError reports whether err is safe to surface to the caller.
func IsDomainError(err error) bool {
	for _, domain := range domainErrors {
		if errors.Is(err, domain) {
			return true
		}
	}
	return false
}
