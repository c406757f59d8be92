package indexer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStateMachine(t *testing.T) {
	ctx := context.Background()

	t.Run("walk", func(t *testing.T) {
		sm := newStateMachine()
		require.Equal(t, StateIdle, sm.Current())

		for _, step := range []struct{ event, state string }{
			{EventStart, StateFetching},
			{EventApply, StateApplying},
			{EventNext, StateFetching},
			{EventApply, StateApplying},
			{EventCheckpoint, StateCommitting},
			{EventNext, StateFetching},
			{EventApply, StateApplying},
			{EventCheckpoint, StateCommitting},
			{EventFinish, StateDone},
		} {
			require.NoError(t, sm.Event(ctx, step.event))
			require.Equal(t, step.state, sm.Current())
		}

		require.False(t, sm.Can(EventFail))
	})

	t.Run("caught up", func(t *testing.T) {
		sm := newStateMachine()
		require.NoError(t, sm.Event(ctx, EventFinish))
		require.Equal(t, StateDone, sm.Current())
	})

	t.Run("fail", func(t *testing.T) {
		sm := newStateMachine()
		require.NoError(t, sm.Event(ctx, EventStart))
		require.NoError(t, sm.Event(ctx, EventFail))
		require.Equal(t, StateFailed, sm.Current())

		require.Error(t, sm.Event(ctx, EventStart))
		require.Error(t, sm.Event(ctx, EventFail))
	})

	t.Run("no commit while fetching", func(t *testing.T) {
		sm := newStateMachine()
		require.NoError(t, sm.Event(ctx, EventStart))
		require.Error(t, sm.Event(ctx, EventCheckpoint))
		require.Equal(t, StateFetching, sm.Current())
	})
}
