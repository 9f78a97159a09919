package todos

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/invoice-dashboard/internal/platform/cache"
)

type fakeStore struct {
	todos map[string][]Todo
	err   error
	seq   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{todos: map[string][]Todo{}}
}

func (f *fakeStore) Insert(_ context.Context, userID, content string) error {
	if f.err != nil {
		return f.err
	}
	f.seq++
	f.todos[userID] = append(f.todos[userID], Todo{ID: string(rune('0' + f.seq)), UserID: userID, Content: content})
	return nil
}

func (f *fakeStore) Toggle(_ context.Context, userID, id string) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.todos[userID] {
		if f.todos[userID][i].ID == id {
			f.todos[userID][i].Complete = !f.todos[userID][i].Complete
		}
	}
	return nil
}

func (f *fakeStore) Delete(_ context.Context, userID, id string) error {
	if f.err != nil {
		return f.err
	}
	kept := f.todos[userID][:0]
	for _, t := range f.todos[userID] {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	f.todos[userID] = kept
	return nil
}

func (f *fakeStore) List(_ context.Context, userID string) ([]Todo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.todos[userID], nil
}

type fakeRevalidator struct {
	paths []string
}

func (f *fakeRevalidator) Revalidate(_ context.Context, path string) error {
	f.paths = append(f.paths, path)
	return nil
}

func newTestService(store Store, rv Revalidator) *Service {
	return NewService(store, rv, cache.NewPathCache(nil, 0), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreateTodo(t *testing.T) {
	store := newFakeStore()
	rv := &fakeRevalidator{}
	svc := newTestService(store, rv)
	ctx := context.Background()

	res := svc.Create(ctx, "user-1", url.Values{"content": {"  Ship invoices  "}})
	assert.Equal(t, Result{Redirect: ListPath}, res)
	assert.Equal(t, []string{ListPath}, rv.paths)

	items, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Ship invoices", items[0].Content)
	assert.False(t, items[0].Complete)

	others, err := svc.List(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestCreateTodoValidation(t *testing.T) {
	store := newFakeStore()
	rv := &fakeRevalidator{}
	svc := newTestService(store, rv)

	for _, content := range []string{"", "   ", strings.Repeat("x", 256)} {
		res := svc.Create(context.Background(), "user-1", url.Values{"content": {content}})
		assert.Empty(t, res.Redirect)
		assert.Equal(t, []string{MsgContent}, res.State.Errors["content"])
	}
	assert.Empty(t, store.todos["user-1"])
	assert.Empty(t, rv.paths)
}

func TestToggleAndDeleteTodo(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeRevalidator{})
	ctx := context.Background()
	svc.Create(ctx, "user-1", url.Values{"content": {"Pay rent"}})
	id := store.todos["user-1"][0].ID

	assert.Equal(t, ListPath, svc.Toggle(ctx, "user-1", id).Redirect)
	assert.True(t, store.todos["user-1"][0].Complete)

	assert.Equal(t, State{Message: MsgDeleted}, svc.Delete(ctx, "user-1", id))
	assert.Equal(t, State{Message: MsgDeleted}, svc.Delete(ctx, "user-1", id))
	assert.Empty(t, store.todos["user-1"])
}

func TestTodoStoreFailures(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("boom")
	rv := &fakeRevalidator{}
	svc := newTestService(store, rv)
	ctx := context.Background()

	assert.Equal(t, State{Message: MsgCreateFailed}, svc.Create(ctx, "user-1", url.Values{"content": {"x"}}).State)
	assert.Equal(t, State{Message: MsgUpdateFailed}, svc.Toggle(ctx, "user-1", "1").State)
	assert.Equal(t, State{Message: MsgDeleteFailed}, svc.Delete(ctx, "user-1", "1"))
	assert.Empty(t, rv.paths)
}
