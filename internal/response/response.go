package response

import "github.com/yourname/sleeprelay/internal"

// Message is the success body: {"message": ...} plus optional extra fields.
type Message struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error is the failure body. External API failures carry the external body verbatim.
type Error struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func Success(msg string, data any) Message {
	return Message{Message: msg, Data: data}
}

func FromAppError(err *internal.AppError) Error {
	return Error{Error: err.Message, Kind: string(err.Kind)}
}

func BadRequest(msg string) Error {
	return Error{Error: msg}
}
