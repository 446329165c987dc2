package testutil

import (
	"techlead/internal/events"
	"techlead/internal/service"
)

// TestUserID is the signed-in user of sessions built by NewSession.
const TestUserID = "u1"

// NewSession wires fakes into a session with its own bus.
func NewSession(st *FakeStore, ai *FakeAssistant) *service.Session {
	if st == nil {
		st = NewFakeStore()
	}
	if ai == nil {
		ai = NewFakeAssistant()
	}
	return &service.Session{
		UserID:    TestUserID,
		Store:     st,
		Assistant: ai,
		Bus:       events.NewBus(),
	}
}
