package service

import "fmt"

// Messages carried by the service errors. They are part of the wire contract.
const (
	MsgRequiredFieldsMissing = "required field(s) missing"
	MsgMissingID             = "missing _id"
	MsgNoUpdateFields        = "no update field(s) sent"
	MsgCouldNotUpdate        = "could not update"
	MsgCouldNotDelete        = "could not delete"
)

// ValidationError means the client omitted a required input.
// ID is set when the request carried an id.
type ValidationError struct {
	Message string
	ID      string
}

func (e *ValidationError) Error() string {
	if e.ID == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (_id=%s)", e.Message, e.ID)
}

// NotFoundError means the referenced id does not resolve to an issue,
// either because it is malformed or because no record has it.
type NotFoundError struct {
	Message string
	ID      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s (_id=%s)", e.Message, e.ID)
}
