// Package session keeps per-conversant intake state. One Session exists per
// in-progress conversation, created lazily on first contact and removed on
// reset (the flow keeps completed sessions around so it can repeat the
// tracking notice).
package session

import (
	issuemodel "NagarSeva/module/issue/model"
)

// Session is the mutable conversation state for one conversant. Fields fill
// monotonically as the flow advances; BACK rewinds Step but never clears
// captured values.
type Session struct {
	Step        int                 `json:"step"`
	History     []int               `json:"history"`
	Department  string              `json:"department,omitempty"`
	Location    issuemodel.Location `json:"location"`
	Description string              `json:"description,omitempty"`
	LastTicket  string              `json:"lastTicket,omitempty"`
}

// Store is the keyed session state. Get lazily creates; Put writes back a
// mutated session (a no-op for the in-memory store, required for shared
// backends); Clear removes the entry.
type Store interface {
	Get(conversantID string) *Session
	Put(conversantID string, s *Session)
	Clear(conversantID string)
}
