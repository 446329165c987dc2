// Package service defines the backend-agnostic task model and interfaces.
package service

import (
	"strings"
	"time"
)

// Field names as stored in task documents and exchanged with the assistant.
const (
	FieldProject     = "Projeto"
	FieldDescription = "Tarefa"
	FieldAssignee    = "Responsável"
	FieldStatus      = "Status"
	FieldDeadline    = "Prazo"
	FieldLastUpdated = "Última Atualização"
	FieldNotes       = "Observações"
)

// ServerTimestamp stands in for the store-assigned update time in
// diagnostic payloads. It is never written as a literal value.
const ServerTimestamp = "<server timestamp>"

// Task represents a single task item.
type Task struct {
	ID          string    `json:"id,omitempty"`
	Project     string    `json:"Projeto"`
	Description string    `json:"Tarefa"`
	Assignee    string    `json:"Responsável"`
	Status      string    `json:"Status"`
	Deadline    string    `json:"Prazo"`
	LastUpdated time.Time `json:"Última Atualização"`
	Notes       string    `json:"Observações,omitempty"`
}

// NewTask holds the writable fields of a task that has not been persisted.
// It has no ID and no update time; both are assigned by the store.
type NewTask struct {
	Project     string `json:"Projeto"`
	Description string `json:"Tarefa"`
	Assignee    string `json:"Responsável"`
	Status      string `json:"Status"`
	Deadline    string `json:"Prazo"`
	Notes       string `json:"Observações,omitempty"`
}

// Fields returns the task as a field-name keyed map.
func (t NewTask) Fields() map[string]string {
	m := map[string]string{
		FieldProject:     t.Project,
		FieldDescription: t.Description,
		FieldAssignee:    t.Assignee,
		FieldStatus:      t.Status,
		FieldDeadline:    t.Deadline,
	}
	if t.Notes != "" {
		m[FieldNotes] = t.Notes
	}
	return m
}

// TaskPatch is a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Project     *string
	Description *string
	Assignee    *string
	Status      *string
	Deadline    *string
	Notes       *string
}

// StatusPatch returns a patch that only changes the status.
func StatusPatch(status string) TaskPatch {
	return TaskPatch{Status: &status}
}

// Fields returns the set fields of the patch as a field-name keyed map.
func (p TaskPatch) Fields() map[string]string {
	m := make(map[string]string)
	set := func(name string, v *string) {
		if v != nil {
			m[name] = *v
		}
	}
	set(FieldProject, p.Project)
	set(FieldDescription, p.Description)
	set(FieldAssignee, p.Assignee)
	set(FieldStatus, p.Status)
	set(FieldDeadline, p.Deadline)
	set(FieldNotes, p.Notes)
	return m
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Set assigns a field by its stored name. Matching is case-insensitive and
// accepts the unaccented spellings (responsavel, observacoes).
// Returns false if the name is not an editable field.
func (p *TaskPatch) Set(name, value string) bool {
	v := value
	switch normalizeFieldName(name) {
	case "projeto":
		p.Project = &v
	case "tarefa":
		p.Description = &v
	case "responsavel":
		p.Assignee = &v
	case "status":
		p.Status = &v
	case "prazo":
		p.Deadline = &v
	case "observacoes":
		p.Notes = &v
	default:
		return false
	}
	return true
}

func normalizeFieldName(name string) string {
	r := strings.NewReplacer("á", "a", "ç", "c", "õ", "o", "ú", "u", "ã", "a", "é", "e")
	return r.Replace(strings.ToLower(strings.TrimSpace(name)))
}

// Apply returns a copy of t with the patch applied.
func (p TaskPatch) Apply(t Task) Task {
	if p.Project != nil {
		t.Project = *p.Project
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Assignee != nil {
		t.Assignee = *p.Assignee
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Deadline != nil {
		t.Deadline = *p.Deadline
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	return t
}

// CollectionPath returns the logical path of a user's task collection.
func CollectionPath(userID string) string {
	return "users/" + userID + "/tasks"
}

// TaskPath returns the logical path of a single task document.
func TaskPath(userID, taskID string) string {
	return CollectionPath(userID) + "/" + taskID
}
