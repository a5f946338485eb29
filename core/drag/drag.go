/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Vgrid Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package drag turns pointer drag events over column headers into column moves.
//
// Moves are applied on hover, not on drop: every hover over a new target moves
// the dragged column there at once, and ending the drag never reverts them.
package drag

//go:generate mockgen -source=drag.go -destination=mock_mover_test.go -package=drag

// Mover is the column order a drag acts on. Indices are visible leaf positions.
type Mover interface {
	MoveColumn(from, to int) bool
	VisibleCount() int
}

// Phase is the state of a drag.
type Phase int

const (
	Idle Phase = iota
	Dragging
)

func (p Phase) String() string {
	if p == Dragging {
		return "dragging"
	}
	return "idle"
}

// State is Idle or Dragging with the current position of the dragged column.
type State struct {
	Phase       Phase
	SourceIndex int
}

// Controller is the drag state machine.
type Controller struct {
	mover Mover
	state State
}

func NewController(mover Mover) *Controller {
	return &Controller{mover: mover}
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Dragging() bool {
	return c.state.Phase == Dragging
}

// Start begins dragging the column at index. Indices outside the visible columns
// are ignored. Starting again while dragging re-anchors on the new index.
func (c *Controller) Start(index int) bool {
	if !c.inRange(index) {
		return false
	}
	c.state = State{Phase: Dragging, SourceIndex: index}
	return true
}

// Hover moves the dragged column to target when target differs from where the
// column currently is, and follows it there.
func (c *Controller) Hover(target int) bool {
	if c.state.Phase != Dragging || target == c.state.SourceIndex || !c.inRange(target) {
		return false
	}
	c.mover.MoveColumn(c.state.SourceIndex, target)
	c.state.SourceIndex = target
	return true
}

// End returns to Idle whether or not the pointer was released over a target.
func (c *Controller) End() {
	c.state = State{Phase: Idle}
}

func (c *Controller) inRange(i int) bool {
	return i >= 0 && i < c.mover.VisibleCount()
}
