package engine

import "errors"

// Code is a machine-readable combat error code.
type Code string

const (
	CodeNoActiveSession  Code = "no_active_session"
	CodeSessionNotActive Code = "session_not_active"
	CodeNotYourTurn      Code = "not_your_turn"
	CodeNoSpecialPower   Code = "no_special_power"
	CodeInvalidAction    Code = "invalid_action"
	CodeAlreadyInCombat  Code = "already_in_combat"
)

// Error is a recoverable combat failure reported back to the caller.
// None of them leave the session in a changed state.
type Error struct {
	Code    Code
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors for errors.Is matching.
var (
	ErrNoActiveSession  = &Error{Code: CodeNoActiveSession, Message: "no battle in progress"}
	ErrSessionNotActive = &Error{Code: CodeSessionNotActive, Message: "battle is already over"}
	ErrNotYourTurn      = &Error{Code: CodeNotYourTurn, Message: "it is not your turn"}
	ErrNoSpecialPower   = &Error{Code: CodeNoSpecialPower, Message: "you have no devil fruit power to unleash"}
	ErrInvalidAction    = &Error{Code: CodeInvalidAction, Message: "unknown combat action"}
	ErrAlreadyInCombat  = &Error{Code: CodeAlreadyInCombat, Message: "already in a battle"}
)

// CodeOf returns the code of a combat error, or "" for anything else.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
