package tracker

import (
	"errors"
	"fmt"

	"github.com/jonathan/job-tracker/internal/store"
	"github.com/jonathan/job-tracker/internal/types"
)

// Op names a coordinator operation.
type Op string

const (
	OpLoad   Op = "load"
	OpPage   Op = "page"
	OpAdd    Op = "add"
	OpEdit   Op = "edit"
	OpRemove Op = "remove"
	OpStatus Op = "status"
)

var successMessages = map[Op]string{
	OpLoad:   "Applications loaded",
	OpPage:   "Page loaded",
	OpAdd:    "Application added",
	OpEdit:   "Application updated",
	OpRemove: "Application deleted",
	OpStatus: "Status updated",
}

var failureVerbs = map[Op]string{
	OpLoad:   "load applications",
	OpPage:   "load page",
	OpAdd:    "add application",
	OpEdit:   "update application",
	OpRemove: "delete application",
	OpStatus: "update status",
}

// Result is the outcome of one coordinator operation. Exactly one of success
// or failure holds: Err is nil on success. Warning carries a non-fatal
// problem noticed after a successful operation, such as a failed durable
// write or a failed refresh.
type Result struct {
	Op      Op
	Record  types.Application
	Err     error
	Warning error
}

// OK reports whether the operation took effect.
func (r Result) OK() bool { return r.Err == nil }

// FieldErrors returns the validation failures, if Err is a validation error.
func (r Result) FieldErrors() []types.FieldError {
	var ve *types.ValidationError
	if errors.As(r.Err, &ve) {
		return ve.Errors
	}
	return nil
}

// Message is a one-line notification for the user.
func (r Result) Message() string {
	if r.OK() {
		return successMessages[r.Op]
	}
	if len(r.FieldErrors()) > 0 {
		return "Please fix the highlighted fields"
	}
	if store.IsNotFound(r.Err) {
		return fmt.Sprintf("Could not %s: it no longer exists", failureVerbs[r.Op])
	}
	return fmt.Sprintf("Could not %s: %v", failureVerbs[r.Op], r.Err)
}
