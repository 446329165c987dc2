package service

import "strings"

// Canonical status labels. Status is an open-ended string; these are the
// labels the assistant is asked to produce.
const (
	StatusPending    = "⏳ pendente"
	StatusInProgress = "⚙️ em andamento"
	StatusCompleted  = "✅ concluído"
	StatusOverdue    = "⚠️ atrasado"
)

// DefaultStatus is assigned to new tasks that do not state one.
const DefaultStatus = StatusPending

// StatusKind is the coarse category of a status label.
type StatusKind int

const (
	KindPending StatusKind = iota
	KindInProgress
	KindCompleted
	KindOverdue
)

func (k StatusKind) String() string {
	switch k {
	case KindInProgress:
		return "Em Andamento"
	case KindCompleted:
		return "Concluído"
	case KindOverdue:
		return "Atrasado"
	default:
		return "Pendente"
	}
}

// StatusKindOf classifies a free-text status label by keyword or emoji.
// Unrecognised labels count as pending.
func StatusKindOf(status string) StatusKind {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "concluído") || strings.Contains(s, "concluido") || strings.Contains(s, "✅"):
		return KindCompleted
	case strings.Contains(s, "andamento") || strings.Contains(s, "⚙"):
		return KindInProgress
	case strings.Contains(s, "atrasado") || strings.Contains(s, "⚠"):
		return KindOverdue
	default:
		return KindPending
	}
}
