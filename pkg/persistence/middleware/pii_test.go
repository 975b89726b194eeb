package middleware_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/clickflow/pkg/adapters/memory"
	"github.com/aretw0/clickflow/pkg/domain"
	"github.com/aretw0/clickflow/pkg/persistence/middleware"
	"github.com/aretw0/clickflow/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskMiddleware(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	mw, err := middleware.NewMaskMiddleware([]string{`^sk-`, `^vault$`})
	require.NoError(t, err)
	store := mw(underlying)

	plan := &domain.Plan{Flows: []domain.CompiledFlow{
		{FlowID: "login", Actions: []domain.Action{
			{Kind: domain.ActionType, Text: "alice"},
			{Kind: domain.ActionType, Text: "sk-123"},
			{Kind: domain.ActionHotkey, Keys: []string{"enter"}},
		}},
		{FlowID: "vault", Actions: []domain.Action{
			{Kind: domain.ActionType, Text: "hunter2"},
		}},
	}}
	require.NoError(t, store.Save(ctx, "p1", plan))

	assert.Equal(t, "sk-123", plan.Flows[0].Actions[1].Text, "caller's plan is not modified")

	stored, err := store.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Flows[0].Actions[0].Text)
	assert.Equal(t, middleware.Mask, stored.Flows[0].Actions[1].Text, "matched by text")
	assert.Equal(t, []string{"enter"}, stored.Flows[0].Actions[2].Keys)
	assert.Equal(t, middleware.Mask, stored.Flows[1].Actions[0].Text, "matched by flow id")
}

func TestMaskMiddleware_BadPattern(t *testing.T) {
	_, err := middleware.NewMaskMiddleware([]string{"("})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	mask, err := middleware.NewMaskMiddleware([]string{"hunter"})
	require.NoError(t, err)
	seal, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	require.NoError(t, err)

	store := middleware.Chain(underlying, mask, seal)
	require.NoError(t, store.Save(ctx, "p1", secretPlan()))

	raw, err := underlying.Load(ctx, "p1")
	require.NoError(t, err)
	assert.NotEmpty(t, raw.Sealed)

	loaded, err := store.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, middleware.Mask, loaded.Flows[0].Actions[0].Text, "masked before sealing")
}

type downStore struct {
	*memory.Store
}

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestChain_ForwardsPing(t *testing.T) {
	mask, err := middleware.NewMaskMiddleware(nil)
	require.NoError(t, err)
	enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: make([]byte, 32)})
	require.NoError(t, err)

	store := middleware.Chain(downStore{memory.NewStore()}, mask, enc)
	p, ok := store.(ports.Pinger)
	require.True(t, ok)
	assert.EqualError(t, p.Ping(context.Background()), "connection refused")

	p, ok = middleware.Chain(memory.NewStore(), mask).(ports.Pinger)
	require.True(t, ok)
	assert.NoError(t, p.Ping(context.Background()), "stores without Ping are always reachable")
}
