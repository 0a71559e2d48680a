// Package tracker coordinates mutations between the record store and the
// list view-model, and reports each outcome as a Result value.
package tracker

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/job-tracker/internal/logging"
	"github.com/jonathan/job-tracker/internal/store"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/jonathan/job-tracker/internal/viewmodel"
)

// Coordinator applies user actions to the store and keeps the view-model in
// step. In local mode a successful mutation is patched into the held
// collection; in remote mode the current page is fetched again so that
// server-assigned fields stay authoritative. Failed operations leave the
// visible state as it was.
type Coordinator struct {
	store     store.Store
	lister    store.Lister
	pager     store.Pager
	vm        *viewmodel.ViewModel
	validator *types.Validator
	log       logrus.FieldLogger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithValidator replaces the default validator.
func WithValidator(v *types.Validator) Option {
	return func(c *Coordinator) { c.validator = v }
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Coordinator) {
		if log != nil {
			c.log = log
		}
	}
}

// New builds a Coordinator. The store must implement store.Lister for a local
// view-model and store.Pager for a remote one.
func New(s store.Store, vm *viewmodel.ViewModel, opts ...Option) (*Coordinator, error) {
	c := &Coordinator{
		store:     s,
		vm:        vm,
		validator: types.DefaultValidator(),
		log:       logging.Discard(),
	}
	switch vm.Mode() {
	case viewmodel.Remote:
		pager, ok := s.(store.Pager)
		if !ok {
			return nil, fmt.Errorf("remote view-model needs a paged store, got %T", s)
		}
		c.pager = pager
	default:
		lister, ok := s.(store.Lister)
		if !ok {
			return nil, fmt.Errorf("local view-model needs a listing store, got %T", s)
		}
		c.lister = lister
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// View returns the view-model the coordinator maintains.
func (c *Coordinator) View() *viewmodel.ViewModel {
	return c.vm
}

// Load fills the view-model: the full collection in local mode, the current
// page in remote mode.
func (c *Coordinator) Load(ctx context.Context) Result {
	if c.pager != nil {
		return c.fetchPage(ctx, OpLoad, c.vm.CurrentPage())
	}
	apps, err := c.lister.ListAll(ctx)
	if err != nil {
		return c.fail(OpLoad, err)
	}
	c.vm.SetSource(apps)
	return c.succeed(Result{Op: OpLoad})
}

// GoToPage moves to page. In remote mode the page is fetched; on failure the
// previous page stays visible.
func (c *Coordinator) GoToPage(ctx context.Context, page int) Result {
	if c.pager != nil {
		return c.fetchPage(ctx, OpPage, page)
	}
	c.vm.SetPage(page)
	return Result{Op: OpPage}
}

// Submit dispatches an add or edit form.
func (c *Coordinator) Submit(ctx context.Context, form Form) Result {
	switch f := form.(type) {
	case AddForm:
		return c.Add(ctx, f.Fields)
	case EditForm:
		return c.Edit(ctx, f.ID, f.Changes)
	default:
		return Result{Err: fmt.Errorf("unsupported form %T", form)}
	}
}

// Add validates and creates a record.
func (c *Coordinator) Add(ctx context.Context, f types.NewApplication) Result {
	if err := c.validator.ValidateNew(f); err != nil {
		return Result{Op: OpAdd, Err: err}
	}

	created, err := c.store.Create(ctx, f)
	if err != nil {
		return c.fail(OpAdd, err)
	}

	res := Result{Op: OpAdd, Record: created}
	if c.pager != nil {
		res.Warning = c.refresh(ctx, func() { c.vm.Append(created) })
		return c.succeed(res)
	}
	c.vm.Append(created)
	return c.succeed(res)
}

// Edit validates the provided fields and updates the record.
func (c *Coordinator) Edit(ctx context.Context, id types.ID, p types.ApplicationPatch) Result {
	if err := c.validator.ValidatePatch(p); err != nil {
		return Result{Op: OpEdit, Err: err}
	}

	updated, err := c.store.Update(ctx, id, p)
	if err != nil {
		return c.fail(OpEdit, err)
	}

	res := Result{Op: OpEdit, Record: updated}
	if c.pager != nil {
		res.Warning = c.refresh(ctx, func() { c.vm.Replace(updated) })
		return c.succeed(res)
	}
	c.vm.Replace(updated)
	return c.succeed(res)
}

// Remove deletes the record. Deleting an id the store does not hold fails
// with *store.ErrNotFound; a stale copy in the view-model is dropped.
func (c *Coordinator) Remove(ctx context.Context, id types.ID) Result {
	removed, err := c.store.Delete(ctx, id)
	if err != nil {
		return c.fail(OpRemove, err)
	}

	record, _ := c.vm.Find(id)
	if !removed {
		c.vm.Remove(id)
		return c.fail(OpRemove, &store.ErrNotFound{ID: id})
	}

	res := Result{Op: OpRemove, Record: record}
	if c.pager != nil {
		res.Warning = c.refresh(ctx, func() { c.vm.Remove(id) })
		if res.Warning == nil && c.vm.Pagination().PastEnd() {
			if r := c.fetchPage(ctx, OpPage, c.vm.Pagination().LastPage()); !r.OK() {
				res.Warning = r.Err
			}
		}
		return c.succeed(res)
	}
	c.vm.Remove(id)
	return c.succeed(res)
}

// QuickStatus sets only the status of a visible record, bypassing full-form
// validation. The change is shown optimistically on a copy of the record and
// reverted if the store rejects it.
func (c *Coordinator) QuickStatus(ctx context.Context, id types.ID, status types.Status) Result {
	current, ok := c.vm.Find(id)
	if !ok {
		return c.fail(OpStatus, &store.ErrNotFound{ID: id})
	}
	if !status.Valid() {
		return Result{Op: OpStatus, Record: current, Err: &types.ValidationError{
			Errors: []types.FieldError{{Field: "status", Message: fmt.Sprintf("unknown status %q", status)}},
		}}
	}

	snapshot := c.vm.Snapshot()
	optimistic := types.StatusPatch(status).Apply(current)
	c.vm.Replace(optimistic)

	updated, err := c.store.Update(ctx, id, types.StatusPatch(status))
	if err != nil {
		c.vm.Restore(snapshot)
		res := c.fail(OpStatus, err)
		res.Record = current
		return res
	}

	res := Result{Op: OpStatus, Record: updated}
	if c.pager != nil {
		res.Warning = c.refresh(ctx, func() { c.vm.Replace(updated) })
		return c.succeed(res)
	}
	c.vm.Replace(updated)
	return c.succeed(res)
}

// fetchPage loads page from the remote store. The view-model is only touched
// on success.
func (c *Coordinator) fetchPage(ctx context.Context, op Op, page int) Result {
	if page < 1 {
		page = 1
	}
	limit := c.vm.Limit()
	result, err := c.pager.ListPage(ctx, viewmodel.OffsetFor(page, limit), limit)
	if err != nil {
		return c.fail(op, err)
	}
	c.vm.ApplyPage(result, page)
	return Result{Op: op}
}

// refresh re-fetches the current page after a successful remote mutation. If
// that fails, patch is applied so the mutation is still visible, and the
// refresh error is returned as a warning.
func (c *Coordinator) refresh(ctx context.Context, patch func()) error {
	r := c.fetchPage(ctx, OpPage, c.vm.CurrentPage())
	if r.OK() {
		return nil
	}
	patch()
	return r.Err
}

func (c *Coordinator) succeed(res Result) Result {
	if res.Warning == nil {
		if reporter, ok := c.store.(store.PersistenceReporter); ok {
			res.Warning = reporter.TakePersistError()
		}
	}
	entry := c.log.WithField("op", res.Op)
	if res.Record.ID != "" {
		entry = entry.WithField("id", res.Record.ID)
	}
	if res.Warning != nil {
		entry.WithError(res.Warning).Warn("operation succeeded with warning")
	} else {
		entry.Debug("operation succeeded")
	}
	return res
}

func (c *Coordinator) fail(op Op, err error) Result {
	c.log.WithField("op", op).WithError(err).Warn("operation failed")
	return Result{Op: op, Err: err}
}
