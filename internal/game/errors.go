// internal/game/errors.go
package game

import "fmt"

// Code identifies a class of rejected action. Codes are stable: the
// transport layer maps them to client-facing responses, the engine never
// formats user-facing text itself.
type Code string

const (
	CodeNotYourTurn              Code = "not_your_turn"
	CodeWrongPhase               Code = "wrong_phase"
	CodeIllegalMove              Code = "illegal_move"
	CodeNoSuchParticipant        Code = "no_such_participant"
	CodeGameAlreadyFinished      Code = "game_already_finished"
	CodeInsufficientParticipants Code = "insufficient_participants"
	CodeNotYourCard              Code = "not_your_card"
	CodeSessionNotFound          Code = "session_not_found"
	CodeSessionFull              Code = "session_full"
	CodeAlreadyStarted           Code = "already_started"
	CodeInvalidAction            Code = "invalid_action"
)

// DomainError is a rejected action. Rejections never mutate session state.
type DomainError struct {
	Code    Code
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches on Code so errors.Is(err, ErrNotYourTurn) works for wrapped
// and reconstructed errors alike.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

func domainErrf(code Code, format string, args ...any) *DomainError {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Sentinel values for errors.Is checks.
var (
	ErrNotYourTurn              = &DomainError{Code: CodeNotYourTurn, Message: "it is not your turn"}
	ErrWrongPhase               = &DomainError{Code: CodeWrongPhase, Message: "action not legal in the current phase"}
	ErrIllegalMove              = &DomainError{Code: CodeIllegalMove, Message: "destination is not reachable"}
	ErrNoSuchParticipant        = &DomainError{Code: CodeNoSuchParticipant, Message: "unknown participant"}
	ErrGameAlreadyFinished      = &DomainError{Code: CodeGameAlreadyFinished, Message: "game is already finished"}
	ErrInsufficientParticipants = &DomainError{Code: CodeInsufficientParticipants, Message: "at least 2 participants are required"}
	ErrNotYourCard              = &DomainError{Code: CodeNotYourCard, Message: "card is not valid to show"}
	ErrSessionNotFound          = &DomainError{Code: CodeSessionNotFound, Message: "session not found"}
	ErrSessionFull              = &DomainError{Code: CodeSessionFull, Message: "session is full"}
	ErrAlreadyStarted           = &DomainError{Code: CodeAlreadyStarted, Message: "game has already started"}
	ErrInvalidAction            = &DomainError{Code: CodeInvalidAction, Message: "invalid action payload"}
)
