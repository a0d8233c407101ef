package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/vitwit/onramp/logger"
	"github.com/vitwit/onramp/metrics"
	"github.com/vitwit/onramp/types"
)

// State is the lifecycle position of a Workflow.
type State int

const (
	StateRunning State = iota
	StateCompleted
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Workflow drives one purchase through the steps the server hands out.
// It owns the current step: only Advance replaces it, and only one
// submission may be in flight at a time.
type Workflow struct {
	id        string
	submitter Submitter
	logger    logger.Logger
	metrics   metrics.Recorder
	params    types.StepParams
	terminal  TerminalFunc

	addresses       types.DefaultAddresses
	crypto          string
	reviewCardForms bool

	inFlight atomic.Bool

	mu          sync.RWMutex
	current     types.NextStep
	state       State
	err         error
	lastErr     *types.StepError
	submissions int
	reviewed    bool
}

// New starts a workflow at entry, usually the next step of the chosen quote.
func New(submitter Submitter, entry types.NextStep, opts ...Option) (*Workflow, error) {
	if submitter == nil {
		return nil, &types.Error{Code: types.ErrCodeInvalidRequest, Message: "submitter is required"}
	}

	w := &Workflow{
		id:        uuid.NewString(),
		submitter: submitter,
		terminal:  NoNextStep,
		current:   entry,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logger.OrNoop(w.logger).With(map[string]any{"workflow_id": w.id})
	w.metrics = metrics.OrNoop(w.metrics)

	if w.terminal(entry) {
		w.state = StateCompleted
	}
	return w, nil
}

func (w *Workflow) ID() string {
	return w.id
}

// CurrentStep returns the step awaiting input, or the final step once completed.
func (w *Workflow) CurrentStep() types.NextStep {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

func (w *Workflow) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// Err returns the error that aborted the workflow.
func (w *Workflow) Err() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.err
}

// LastError returns the recoverable error of the last submission, cleared by
// the next successful one.
func (w *Workflow) LastError() *types.StepError {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastErr
}

// Submissions counts the successful submissions so far.
func (w *Workflow) Submissions() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.submissions
}

// Advance submits payload for the current step.
//
// On success the returned step replaces the current one and the workflow
// completes when the terminal predicate accepts it. A non-fatal
// *types.StepError leaves the current step in place so the input can be
// corrected and resubmitted. A fatal one aborts the workflow. Other errors,
// such as network failures, also leave the step in place.
func (w *Workflow) Advance(ctx context.Context, payload types.Payload) (types.NextStep, error) {
	if !w.inFlight.CompareAndSwap(false, true) {
		return nil, types.ErrSubmissionInFlight
	}
	defer w.inFlight.Store(false)

	w.mu.RLock()
	step, state, abortErr := w.current, w.state, w.err
	w.mu.RUnlock()

	switch state {
	case StateCompleted:
		return nil, types.ErrWorkflowCompleted
	case StateAborted:
		return nil, &types.Error{Code: types.ErrCodeWorkflowAborted, Message: "workflow aborted", Err: abortErr}
	}

	if fields, ok := payload.(types.FieldMap); ok {
		payload = w.withPrefill(step, fields)
	}

	start := time.Now()
	next, err := w.submitter.SubmitStep(ctx, step, payload, w.params)
	w.metrics.ObserveLatency("workflow_step", time.Since(start), map[string]string{
		metrics.LabelOutcome: outcomeOf(err),
	})

	if err != nil {
		return nil, w.fail(step, err)
	}

	terminal := w.terminal(next)

	w.mu.Lock()
	w.current = next
	w.lastErr = nil
	w.submissions++
	if terminal {
		w.state = StateCompleted
	}
	w.mu.Unlock()

	w.logger.Info("workflow advanced", map[string]any{
		"from":     kindOf(step),
		"to":       kindOf(next),
		"terminal": terminal,
	})
	w.metrics.IncCounter("workflow_transition", map[string]string{
		metrics.LabelStepKind: kindOf(step),
		metrics.LabelOutcome:  "ok",
	})
	if terminal {
		w.metrics.IncCounter("workflow_completed", nil)
	}
	return next, nil
}

func (w *Workflow) fail(step types.NextStep, err error) error {
	var stepErr *types.StepError
	if !errors.As(err, &stepErr) {
		w.logger.Warn("step submission did not complete", map[string]any{
			"step":  kindOf(step),
			"error": err.Error(),
		})
		return err
	}

	w.mu.Lock()
	if stepErr.Fatal {
		w.state = StateAborted
		w.err = stepErr
	} else {
		w.lastErr = stepErr
	}
	w.mu.Unlock()

	if stepErr.Fatal {
		w.logger.Error("workflow aborted", map[string]any{
			"step":  kindOf(step),
			"error": stepErr.Error(),
		})
		w.metrics.IncCounter("workflow_aborted", map[string]string{metrics.LabelStepKind: kindOf(step)})
	} else {
		w.logger.Warn("step rejected", map[string]any{
			"step":   kindOf(step),
			"kind":   stepErr.Kind().String(),
			"error":  stepErr.Error(),
			"status": stepErr.StatusCode,
		})
		w.metrics.IncCounter("workflow_transition", map[string]string{
			metrics.LabelStepKind: kindOf(step),
			metrics.LabelOutcome:  "rejected",
		})
	}
	return stepErr
}

// Run drives the workflow with c until it completes or aborts.
//
// Recoverable step errors are handed back to the collector with the same
// step. A fatal step error is returned as is. Collector, context and network
// errors are returned with the workflow left at its current step, so Run may
// be called again to resume.
func (w *Workflow) Run(ctx context.Context, c Collector) error {
	if c == nil {
		return &types.Error{Code: types.ErrCodeInvalidRequest, Message: "collector is required"}
	}

	for {
		w.mu.RLock()
		step, state, abortErr, lastErr := w.current, w.state, w.err, w.lastErr
		w.mu.RUnlock()

		switch state {
		case StateCompleted:
			return nil
		case StateAborted:
			return abortErr
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if w.needsReview(step) {
			if _, err := c.Collect(ctx, Request{
				WorkflowID: w.id,
				Capability: CapabilityReview,
				Step:       step,
			}); err != nil {
				return err
			}
			w.mu.Lock()
			w.reviewed = true
			w.mu.Unlock()
			continue
		}

		capability := Resolve(step)
		if capability == "" {
			return &types.Error{
				Code:    types.ErrCodeUnsupportedStep,
				Message: fmt.Sprintf("no capability for step %s", kindOf(step)),
			}
		}

		payload, err := c.Collect(ctx, Request{
			WorkflowID: w.id,
			Capability: capability,
			Step:       step,
			Err:        lastErr,
			Prefill:    w.prefill(step),
		})
		if err != nil {
			return err
		}

		if _, err := w.Advance(ctx, payload); err != nil {
			var stepErr *types.StepError
			if errors.As(err, &stepErr) && !stepErr.Fatal {
				continue
			}
			return err
		}
	}
}

func (w *Workflow) needsReview(step types.NextStep) bool {
	if !w.reviewCardForms {
		return false
	}
	w.mu.RLock()
	done := w.reviewed || w.submissions > 0
	w.mu.RUnlock()
	if done {
		return false
	}
	form, ok := step.(*types.FormStep)
	return ok && form.HasField(types.FieldCardNumber)
}

// prefill returns the configured address values for the form's address fields.
func (w *Workflow) prefill(step types.NextStep) types.FieldMap {
	form, ok := step.(*types.FormStep)
	if !ok {
		return nil
	}
	addr, ok := w.addresses.For(w.crypto)
	if !ok {
		return nil
	}

	values := types.FieldMap{}
	if form.HasField(types.FieldCryptoAddress) && addr.Address != "" {
		values[types.FieldCryptoAddress] = addr.Address
	}
	if form.HasField(types.FieldCryptoAddressTag) && addr.HasMemo() {
		values[types.FieldCryptoAddressTag] = addr.Memo
	}
	if len(values) == 0 {
		return nil
	}
	return values
}

// withPrefill fills in address values the collector left out.
func (w *Workflow) withPrefill(step types.NextStep, fields types.FieldMap) types.FieldMap {
	defaults := w.prefill(step)
	if len(defaults) == 0 {
		return fields
	}
	merged := make(types.FieldMap, len(fields)+len(defaults))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return merged
}

func kindOf(step types.NextStep) string {
	if step == nil {
		return "none"
	}
	return step.Kind().String()
}

func outcomeOf(err error) string {
	var stepErr *types.StepError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &stepErr) && stepErr.Fatal:
		return "fatal"
	case stepErr != nil:
		return "rejected"
	default:
		return "error"
	}
}
