package jobs

import (
	"context"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
	"github.com/looplab/fsm"
)

// Action is a job lifecycle event.
type Action string

const (
	ActionStart  Action = "start"
	ActionStop   Action = "stop"
	ActionPause  Action = "pause"
	ActionResume Action = "resume"
	ActionRetry  Action = "retry"

	// Raised by workers only.
	actionFail     Action = "fail"
	actionComplete Action = "complete"
)

func newLifecycle(status model.JobStatus) *fsm.FSM {
	created := string(model.JobCreated)
	running := string(model.JobRunning)
	paused := string(model.JobPaused)
	failed := string(model.JobFailed)

	return fsm.NewFSM(
		string(status),
		fsm.Events{
			{Name: string(ActionStart), Src: []string{created}, Dst: running},
			{Name: string(ActionStop), Src: []string{running, paused, failed}, Dst: created},
			{Name: string(ActionPause), Src: []string{running}, Dst: paused},
			{Name: string(ActionResume), Src: []string{paused}, Dst: running},
			{Name: string(ActionRetry), Src: []string{failed}, Dst: running},
			{Name: string(actionFail), Src: []string{running}, Dst: failed},
			{Name: string(actionComplete), Src: []string{running}, Dst: string(model.JobCompleted)},
		},
		fsm.Callbacks{},
	)
}

// nextStatus returns the status action leads to from status.
func nextStatus(ctx context.Context, status model.JobStatus, action Action) (model.JobStatus, error) {
	lifecycle := newLifecycle(status)
	if err := lifecycle.Event(ctx, string(action)); err != nil {
		return "", err
	}
	return model.JobStatus(lifecycle.Current()), nil
}
