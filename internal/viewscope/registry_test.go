package viewscope

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homefix/marketplace-client/internal/logger"
)

func init() {
	logger.Discard()
}

func waitDone(t *testing.T, ctx context.Context) {
	t.Helper()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("контекст не был отменён")
	}
}

func TestRegistry_CloseCancelsInFlight(t *testing.T) {
	reg := NewRegistry(context.Background())
	id := reg.Open()

	ctx, cancel, err := reg.Context(context.Background(), id)
	require.NoError(t, err)
	defer cancel()

	assert.True(t, reg.Close(id))
	waitDone(t, ctx)
	assert.ErrorIs(t, ctx.Err(), context.Canceled)

	assert.False(t, reg.Close(id))
	_, _, err = reg.Context(context.Background(), id)
	assert.ErrorIs(t, err, ErrUnknownView)
}

func TestRegistry_CloseCancelsBeforeReturning(t *testing.T) {
	reg := NewRegistry(context.Background())
	a := reg.Open()
	b := reg.Open()

	ctxA, cancelA, err := reg.Context(context.Background(), a)
	require.NoError(t, err)
	defer cancelA()
	ctxB, cancelB, err := reg.Context(context.Background(), b)
	require.NoError(t, err)
	defer cancelB()

	// Без ожидания: стор проверяет ctx.Err() сразу после закрытия
	reg.Close(a)
	assert.ErrorIs(t, ctxA.Err(), context.Canceled)
	assert.NoError(t, ctxB.Err())

	reg.CloseAll()
	assert.ErrorIs(t, ctxB.Err(), context.Canceled)
}

func TestRegistry_ReleasedRequestIsForgotten(t *testing.T) {
	reg := NewRegistry(context.Background())
	id := reg.Open()

	ctx, cancel, err := reg.Context(context.Background(), id)
	require.NoError(t, err)
	cancel()
	assert.Error(t, ctx.Err())

	reg.mu.Lock()
	assert.Empty(t, reg.scopes[id].requests)
	reg.mu.Unlock()
	assert.True(t, reg.Close(id))
}

func TestRegistry_ParentCancellationIndependentOfScope(t *testing.T) {
	reg := NewRegistry(context.Background())
	id := reg.Open()

	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel, err := reg.Context(parent, id)
	require.NoError(t, err)
	defer cancel()

	cancelParent()
	waitDone(t, ctx)

	// представление остаётся открытым для следующих запросов
	next, cancelNext, err := reg.Context(context.Background(), id)
	require.NoError(t, err)
	defer cancelNext()
	assert.NoError(t, next.Err())
}

func TestRegistry_CloseAllAndBase(t *testing.T) {
	base, cancelBase := context.WithCancel(context.Background())
	reg := NewRegistry(base)
	a := reg.Open()
	b := reg.Open()
	assert.Equal(t, 2, reg.Len())

	ctxA, cancelA, err := reg.Context(context.Background(), a)
	require.NoError(t, err)
	defer cancelA()

	reg.CloseAll()
	waitDone(t, ctxA)
	assert.Equal(t, 0, reg.Len())
	assert.False(t, reg.Close(b))

	c := reg.Open()
	ctxC, cancelC, err := reg.Context(context.Background(), c)
	require.NoError(t, err)
	defer cancelC()
	cancelBase()
	waitDone(t, ctxC)
}
