package checkout

import (
	"errors"
	"fmt"
	"sync"
)

// Mode is the chosen delivery channel for the order summary.
type Mode string

const (
	ModeEmail    Mode = "email"
	ModeWhatsApp Mode = "whatsapp"
)

// State of the checkout flow. The whole flow is three steps:
// unselected -> mode-selected -> (submitted | cancelled), with back
// returning to unselected.
type State string

const (
	StateUnselected   State = "UNSELECTED"
	StateModeSelected State = "MODE_SELECTED"
	StateSubmitted    State = "SUBMITTED"
	StateCancelled    State = "CANCELLED"
)

var ErrInvalidTransition = errors.New("invalid checkout flow transition")

// Flow tracks one checkout attempt's progress. Terminal states reset
// to unselected on the next Select, so a single Flow serves the whole
// session.
type Flow struct {
	mu    sync.Mutex
	state State
	mode  Mode
}

func NewFlow() *Flow {
	return &Flow{state: StateUnselected}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// Select picks a delivery mode and moves the flow to mode-selected.
func (f *Flow) Select(mode Mode) error {
	if mode != ModeEmail && mode != ModeWhatsApp {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidTransition, mode)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateModeSelected && f.mode != mode {
		return fmt.Errorf("%w: mode already selected", ErrInvalidTransition)
	}
	f.state = StateModeSelected
	f.mode = mode
	return nil
}

// Back returns to unselected from mode-selected.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateModeSelected {
		return fmt.Errorf("%w: back from %s", ErrInvalidTransition, f.state)
	}
	f.state = StateUnselected
	f.mode = ""
	return nil
}

// Cancel abandons the attempt from any non-terminal state.
func (f *Flow) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateSubmitted {
		return fmt.Errorf("%w: cancel after submit", ErrInvalidTransition)
	}
	f.state = StateCancelled
	return nil
}

// submit marks the attempt done. Only valid with the matching mode
// selected.
func (f *Flow) submit(mode Mode) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateModeSelected || f.mode != mode {
		return fmt.Errorf("%w: submit %s from %s/%s", ErrInvalidTransition, mode, f.state, f.mode)
	}
	f.state = StateSubmitted
	return nil
}
