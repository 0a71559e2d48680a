package tracker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-tracker/internal/blob"
	"github.com/jonathan/job-tracker/internal/store"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/jonathan/job-tracker/internal/viewmodel"
)

var testNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return testNow }

func newLocal(t *testing.T) (*Coordinator, *blob.Memory) {
	t.Helper()
	mem := blob.NewMemory()
	n := 0
	s := store.NewLocalStore(mem,
		store.WithClock(clock),
		store.WithIDGenerator(func() string { n++; return fmt.Sprintf("new-%d", n) }),
	)
	c, err := New(s, viewmodel.New(viewmodel.Local, 5), WithValidator(types.NewValidator(clock)))
	require.NoError(t, err)
	require.True(t, c.Load(context.Background()).OK())
	return c, mem
}

func visibleIDs(c *Coordinator) []types.ID {
	var out []types.ID
	for _, a := range c.View().Visible() {
		out = append(out, a.ID)
	}
	return out
}

func TestNew_RequiresMatchingStore(t *testing.T) {
	local := store.NewLocalStore(blob.NewMemory())
	_, err := New(local, viewmodel.New(viewmodel.Remote, 5))
	assert.Error(t, err)

	_, err = New(newFakeRemote(0), viewmodel.New(viewmodel.Local, 5))
	assert.Error(t, err)
}

func TestLocal_LoadServesSeed(t *testing.T) {
	c, _ := newLocal(t)
	assert.Len(t, c.View().Source(), 3)
	assert.Equal(t, 1, c.View().Pagination().TotalPages)
}

func TestLocal_Add(t *testing.T) {
	ctx := context.Background()
	c, mem := newLocal(t)

	res := c.Add(ctx, types.NewApplication{Company: "Acme", Position: "Engineer"})
	require.True(t, res.OK(), res.Message())
	assert.Equal(t, "Application added", res.Message())
	assert.Equal(t, types.ID("new-1"), res.Record.ID)
	assert.Nil(t, res.Warning)

	got, ok := c.View().Find("new-1")
	require.True(t, ok, "visible state reflects the mutation before returning")
	assert.Equal(t, types.StatusApplied, got.Status)
	assert.Equal(t, 1, mem.Writes())
}

func TestLocal_AddValidationFailure(t *testing.T) {
	ctx := context.Background()
	c, mem := newLocal(t)
	before := c.View().Source()

	res := c.Add(ctx, types.NewApplication{Company: "", Position: " ", DateApplied: types.MustParseDate("2024-06-02")})
	require.False(t, res.OK())
	assert.Equal(t, "Please fix the highlighted fields", res.Message())

	fields := map[string]bool{}
	for _, fe := range res.FieldErrors() {
		fields[fe.Field] = true
	}
	assert.Equal(t, map[string]bool{"company": true, "position": true, "dateApplied": true}, fields)
	assert.Equal(t, before, c.View().Source())
	assert.Zero(t, mem.Writes())
}

func TestLocal_Submit(t *testing.T) {
	ctx := context.Background()
	c, _ := newLocal(t)

	res := c.Submit(ctx, AddForm{Fields: types.NewApplication{Company: "Acme", Position: "Engineer"}})
	require.True(t, res.OK())
	assert.Equal(t, OpAdd, res.Op)

	original, _ := c.View().Find("1")
	edited := original
	edited.Notes = "second interview booked"
	form := NewEditForm(original, edited)
	assert.Nil(t, form.Changes.Company, "unchanged fields are not part of the edit")
	require.NotNil(t, form.Changes.Notes)

	res = c.Submit(ctx, form)
	require.True(t, res.OK())
	assert.Equal(t, OpEdit, res.Op)
	got, _ := c.View().Find("1")
	assert.Equal(t, "second interview booked", got.Notes)
	assert.Equal(t, original.Company, got.Company)
}

func TestLocal_EditUnknownID(t *testing.T) {
	c, _ := newLocal(t)
	res := c.Edit(context.Background(), "ghost", types.StatusPatch(types.StatusOffer))
	require.False(t, res.OK())
	assert.True(t, store.IsNotFound(res.Err))
	assert.Contains(t, res.Message(), "no longer exists")
}

func TestLocal_Remove(t *testing.T) {
	ctx := context.Background()
	c, _ := newLocal(t)

	res := c.Remove(ctx, "2")
	require.True(t, res.OK())
	assert.Equal(t, "Microsoft", res.Record.Company)
	_, ok := c.View().Find("2")
	assert.False(t, ok)

	res = c.Remove(ctx, "2")
	assert.False(t, res.OK())
	assert.True(t, store.IsNotFound(res.Err))
	assert.Len(t, c.View().Source(), 2)
}

func TestLocal_QuickStatus(t *testing.T) {
	ctx := context.Background()
	c, _ := newLocal(t)

	res := c.QuickStatus(ctx, "3", types.StatusOffer)
	require.True(t, res.OK())
	got, _ := c.View().Find("3")
	assert.Equal(t, types.StatusOffer, got.Status)
	assert.Equal(t, "Apple", got.Company)

	res = c.QuickStatus(ctx, "3", types.Status("ghosted"))
	assert.False(t, res.OK())
	assert.NotEmpty(t, res.FieldErrors())
	got, _ = c.View().Find("3")
	assert.Equal(t, types.StatusOffer, got.Status)

	res = c.QuickStatus(ctx, "missing", types.StatusOffer)
	assert.True(t, store.IsNotFound(res.Err))
}

func TestLocal_WriteFailureBecomesWarning(t *testing.T) {
	ctx := context.Background()
	c, mem := newLocal(t)
	mem.FailWrites(errors.New("quota exceeded"))

	res := c.Add(ctx, types.NewApplication{Company: "Acme", Position: "Engineer"})
	require.True(t, res.OK(), "durability is best effort")
	require.Error(t, res.Warning)
	var pe *store.PersistenceError
	assert.True(t, errors.As(res.Warning, &pe))

	_, ok := c.View().Find(res.Record.ID)
	assert.True(t, ok)
}

func TestLocal_GoToPage(t *testing.T) {
	ctx := context.Background()
	c, _ := newLocal(t)
	for i := 0; i < 4; i++ {
		require.True(t, c.Add(ctx, types.NewApplication{Company: fmt.Sprintf("Co %d", i), Position: "P"}).OK())
	}
	c.View().SetSort(viewmodel.SortCompany, viewmodel.Ascending)

	assert.Equal(t, 2, c.View().Pagination().TotalPages)
	res := c.GoToPage(ctx, 2)
	require.True(t, res.OK())
	assert.Equal(t, []types.ID{"1", "2"}, visibleIDs(c), "Google and Microsoft sort last")
}

// fakeRemote implements store.Store and store.Pager with failure injection.
type fakeRemote struct {
	items    []types.Application
	next     int
	failList error
	failMut  error
	listed   []int
}

func newFakeRemote(n int) *fakeRemote {
	f := &fakeRemote{next: n + 1}
	for i := 1; i <= n; i++ {
		f.items = append(f.items, types.Application{
			ID:          types.ID(fmt.Sprint(i)),
			Company:     fmt.Sprintf("Company %02d", i),
			Position:    "Engineer",
			Status:      types.StatusApplied,
			DateApplied: types.MustParseDate("2024-01-01"),
		})
	}
	return f
}

func (f *fakeRemote) ListPage(_ context.Context, offset, limit int) (types.PagedResult, error) {
	f.listed = append(f.listed, offset)
	if f.failList != nil {
		return types.PagedResult{}, f.failList
	}
	end := min(offset+limit, len(f.items))
	items := []types.Application{}
	if offset < len(f.items) {
		items = append(items, f.items[offset:end]...)
	}
	return types.PagedResult{Items: items, TotalCount: len(f.items)}, nil
}

func (f *fakeRemote) Create(_ context.Context, n types.NewApplication) (types.Application, error) {
	if f.failMut != nil {
		return types.Application{}, f.failMut
	}
	created := types.Application{ID: types.ID(fmt.Sprint(f.next)), Company: n.Company, Position: n.Position, Status: types.StatusApplied, DateApplied: types.MustParseDate("2024-05-01")}
	f.next++
	f.items = append(f.items, created)
	return created, nil
}

func (f *fakeRemote) Update(_ context.Context, id types.ID, p types.ApplicationPatch) (types.Application, error) {
	if f.failMut != nil {
		return types.Application{}, f.failMut
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i] = p.Apply(f.items[i])
			return f.items[i], nil
		}
	}
	return types.Application{}, &store.ErrNotFound{ID: id}
}

func (f *fakeRemote) Delete(_ context.Context, id types.ID) (bool, error) {
	if f.failMut != nil {
		return false, f.failMut
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func newRemote(t *testing.T, n int) (*Coordinator, *fakeRemote) {
	t.Helper()
	fake := newFakeRemote(n)
	c, err := New(fake, viewmodel.New(viewmodel.Remote, 5), WithValidator(types.NewValidator(clock)))
	require.NoError(t, err)
	return c, fake
}

func TestRemote_LoadAndPaging(t *testing.T) {
	ctx := context.Background()
	c, fake := newRemote(t, 23)

	require.True(t, c.Load(ctx).OK())
	p := c.View().Pagination()
	assert.Equal(t, 5, p.TotalPages)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, p.PageNumbers())

	require.True(t, c.GoToPage(ctx, 5).OK())
	assert.Equal(t, []int{0, 20}, fake.listed)
	assert.Len(t, c.View().Visible(), 3)
}

func TestRemote_EmptyCollection(t *testing.T) {
	c, _ := newRemote(t, 0)
	require.True(t, c.Load(context.Background()).OK())
	p := c.View().Pagination()
	assert.Equal(t, 0, p.TotalPages)
	assert.Empty(t, p.PageNumbers())
}

func TestRemote_FetchFailureKeepsVisibleState(t *testing.T) {
	ctx := context.Background()
	c, fake := newRemote(t, 12)
	require.True(t, c.Load(ctx).OK())
	before := c.View().Visible()

	fake.failList = &store.TransportError{Op: "list", URL: "http://api/All", StatusCode: 503}
	res := c.GoToPage(ctx, 2)
	require.False(t, res.OK())
	assert.True(t, store.IsTransport(res.Err))

	assert.Equal(t, before, c.View().Visible(), "no flash to empty")
	assert.Equal(t, 1, c.View().CurrentPage())
}

func TestRemote_AddRefetchesCurrentPage(t *testing.T) {
	ctx := context.Background()
	c, fake := newRemote(t, 2)
	require.True(t, c.Load(ctx).OK())

	res := c.Add(ctx, types.NewApplication{Company: "Acme", Position: "Engineer"})
	require.True(t, res.OK())
	assert.Nil(t, res.Warning)
	assert.Equal(t, []int{0, 0}, fake.listed)

	got, ok := c.View().Find(res.Record.ID)
	require.True(t, ok)
	assert.Equal(t, "2024-05-01", got.DateApplied.String(), "server-assigned fields come from the refetch")
}

func TestRemote_RefreshFailurePatchesLocally(t *testing.T) {
	ctx := context.Background()
	c, fake := newRemote(t, 2)
	require.True(t, c.Load(ctx).OK())

	fake.failList = errors.New("network down")
	res := c.Edit(ctx, "1", types.StatusPatch(types.StatusRejected))
	require.True(t, res.OK())
	require.Error(t, res.Warning)

	got, _ := c.View().Find("1")
	assert.Equal(t, types.StatusRejected, got.Status)
}

func TestRemote_MutationFailure(t *testing.T) {
	ctx := context.Background()
	c, fake := newRemote(t, 3)
	require.True(t, c.Load(ctx).OK())
	before := c.View().Source()

	fake.failMut = &store.TransportError{Op: "create", StatusCode: 500}
	res := c.Add(ctx, types.NewApplication{Company: "Acme", Position: "Engineer"})
	require.False(t, res.OK())
	assert.Contains(t, res.Message(), "Could not add application")
	assert.Equal(t, before, c.View().Source())
}

func TestRemote_QuickStatusRevertsOnFailure(t *testing.T) {
	ctx := context.Background()
	c, fake := newRemote(t, 3)
	require.True(t, c.Load(ctx).OK())

	fake.failMut = errors.New("server rejected")
	res := c.QuickStatus(ctx, "2", types.StatusOffer)
	require.False(t, res.OK())
	assert.Equal(t, types.StatusApplied, res.Record.Status)

	got, _ := c.View().Find("2")
	assert.Equal(t, types.StatusApplied, got.Status, "optimistic copy reverted")
	assert.Equal(t, types.StatusApplied, fake.items[1].Status, "store record untouched")

	fake.failMut = nil
	res = c.QuickStatus(ctx, "2", types.StatusOffer)
	require.True(t, res.OK())
	got, _ = c.View().Find("2")
	assert.Equal(t, types.StatusOffer, got.Status)
}

func TestRemote_RemoveLastItemOnLastPageMovesBack(t *testing.T) {
	ctx := context.Background()
	c, fake := newRemote(t, 11)
	require.True(t, c.Load(ctx).OK())
	require.True(t, c.GoToPage(ctx, 3).OK())
	require.Len(t, c.View().Visible(), 1)

	res := c.Remove(ctx, "11")
	require.True(t, res.OK())
	assert.Nil(t, res.Warning)
	assert.Equal(t, 2, c.View().CurrentPage())
	assert.Len(t, c.View().Visible(), 5)
	assert.Equal(t, []int{0, 10, 10, 5}, fake.listed)
}

func TestResult_Message(t *testing.T) {
	tests := []struct {
		res  Result
		want string
	}{
		{res: Result{Op: OpRemove}, want: "Application deleted"},
		{res: Result{Op: OpStatus}, want: "Status updated"},
		{res: Result{Op: OpLoad, Err: errors.New("boom")}, want: "Could not load applications: boom"},
		{res: Result{Op: OpEdit, Err: &store.ErrNotFound{ID: "9"}}, want: "Could not update application: it no longer exists"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.res.Message())
	}
}
