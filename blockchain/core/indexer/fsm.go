package indexer

import (
	"context"

	"github.com/looplab/fsm"
)

// Walker states.
const (
	StateIdle       = "idle"
	StateFetching   = "fetching"
	StateApplying   = "applying"
	StateCommitting = "committing"
	StateDone       = "done"
	StateFailed     = "failed"
)

// Walker events.
const (
	EventStart      = "start"
	EventApply      = "apply"
	EventNext       = "next"
	EventCheckpoint = "checkpoint"
	EventFinish     = "finish"
	EventFail       = "fail"
)

var stateCodes = map[string]float64{
	StateIdle:       0,
	StateFetching:   1,
	StateApplying:   2,
	StateCommitting: 3,
	StateDone:       4,
	StateFailed:     5,
}

// newStateMachine creates the walker state machine:
//
//	idle -> fetching -> applying -> committing -> fetching | done
//	applying -> fetching between checkpoints
//	idle -> done when there is nothing to index
//	any non terminal state -> failed
func newStateMachine() *fsm.FSM {
	return fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: EventStart, Src: []string{StateIdle}, Dst: StateFetching},
			{Name: EventApply, Src: []string{StateFetching}, Dst: StateApplying},
			{Name: EventNext, Src: []string{StateApplying, StateCommitting}, Dst: StateFetching},
			{Name: EventCheckpoint, Src: []string{StateApplying}, Dst: StateCommitting},
			{Name: EventFinish, Src: []string{StateIdle, StateCommitting}, Dst: StateDone},
			{
				Name: EventFail,
				Src: []string{
					StateIdle,
					StateFetching,
					StateApplying,
					StateCommitting,
				},
				Dst: StateFailed,
			},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				walkerState.Set(stateCodes[e.Dst])
				log.Debugf("Walker state %s -> %s.", e.Src, e.Dst)
			},
		},
	)
}
