package tracker

import (
	"github.com/jonathan/job-tracker/internal/types"
)

// Form is what the add/edit dialog submits: either an AddForm or an
// EditForm.
type Form interface {
	isForm()
}

// AddForm carries the fields for a new record.
type AddForm struct {
	Fields types.NewApplication
}

// EditForm carries the changed fields of an existing record.
type EditForm struct {
	ID      types.ID
	Changes types.ApplicationPatch
}

func (AddForm) isForm()  {}
func (EditForm) isForm() {}

// NewEditForm builds an EditForm holding only the fields that differ between
// original and edited, so that validation covers changed fields only.
func NewEditForm(original, edited types.Application) EditForm {
	var p types.ApplicationPatch
	if edited.Company != original.Company {
		p.Company = &edited.Company
	}
	if edited.Position != original.Position {
		p.Position = &edited.Position
	}
	if edited.Status != original.Status {
		p.Status = &edited.Status
	}
	if edited.DateApplied != original.DateApplied {
		p.DateApplied = &edited.DateApplied
	}
	if edited.Notes != original.Notes {
		p.Notes = &edited.Notes
	}
	return EditForm{ID: original.ID, Changes: p}
}
