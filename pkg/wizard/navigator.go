package wizard

import (
	"context"

	"essaypilot/pkg/profile"
)

// PositionStore persists the current step index independently of the
// profile document, so a reloaded session resumes at the same step.
type PositionStore interface {
	LoadPosition(ctx context.Context, identity string) (index int, err error)
	SavePosition(ctx context.Context, identity string, index int) (err error)
}

// Navigator tracks the current position within the flow and enforces
// the step gate on forward navigation. Backward navigation is always
// permitted.
type Navigator struct {
	flow  []StepID
	index int
}

// NewNavigator returns a navigator positioned at the first step.
func NewNavigator() (n *Navigator) {
	n = &Navigator{flow: Flow}
	return n
}

// Current returns the step the navigator is on.
func (n *Navigator) Current() (step StepID) {
	step = n.flow[n.index]
	return step
}

// Index returns the current position within the flow.
func (n *Navigator) Index() (index int) {
	index = n.index
	return index
}

// SetIndex restores a persisted position. Out-of-range values clamp to
// the flow bounds.
func (n *Navigator) SetIndex(index int) {
	if index < 0 {
		index = 0
	}
	if index >= len(n.flow) {
		index = len(n.flow) - 1
	}
	n.index = index
}

// CanAdvance reports whether the gate for the current step passes.
func (n *Navigator) CanAdvance(p profile.Profile) (ok bool) {
	ok = IsStepComplete(n.Current(), p)
	return ok
}

// Next advances to the following step if the current step's gate
// passes. Returns the step landed on and whether movement occurred.
func (n *Navigator) Next(p profile.Profile) (step StepID, moved bool) {
	if n.index >= len(n.flow)-1 || !n.CanAdvance(p) {
		step = n.Current()
		return step, moved
	}
	n.index++
	step = n.Current()
	moved = true
	return step, moved
}

// Back moves to the previous step. Always permitted.
func (n *Navigator) Back() (step StepID) {
	if n.index > 0 {
		n.index--
	}
	step = n.Current()
	return step
}

// Resolve validates a navigation target against the gates of every
// step preceding it, the way a route guard re-validates on direct URL
// entry. When a required predecessor is incomplete, the target is
// replaced with the first form step rather than raising an error.
func (n *Navigator) Resolve(target StepID, p profile.Profile) (resolved StepID) {
	resolved = target
	for _, step := range n.flow {
		if step == target {
			break
		}
		if !IsStepComplete(step, p) {
			resolved = StepBasicInfo
			return resolved
		}
	}
	return resolved
}

// Goto moves the navigator to the resolved target and returns where it
// landed.
func (n *Navigator) Goto(target StepID, p profile.Profile) (landed StepID) {
	landed = n.Resolve(target, p)
	for i, step := range n.flow {
		if step == landed {
			n.index = i
			break
		}
	}
	return landed
}
