package firestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	fsapi "google.golang.org/api/firestore/v1"
	"google.golang.org/api/option"

	"techlead/internal/service"
)

// fakeFirestore records commit requests and serves canned list pages.
type fakeFirestore struct {
	mu      sync.Mutex
	commits []fsapi.CommitRequest
	queries []string

	status int
	pages  []string
}

func (f *fakeFirestore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		fmt.Fprintf(w, `{"error":{"code":%d,"message":"request rejected"}}`, f.status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":commit"):
		var req fsapi.CommitRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.commits = append(f.commits, req)
		w.Write([]byte(`{"commitTime":"2025-10-22T12:00:00Z"}`))
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/tasks"):
		f.queries = append(f.queries, r.URL.RawQuery)
		page := 0
		if tok := r.URL.Query().Get("pageToken"); tok != "" {
			page = int(tok[0] - '0')
		}
		w.Write([]byte(f.pages[page]))
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewWithOptions(context.Background(), "proj", "",
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	c.newID = func() string { return "01JTESTID" }
	return c
}

const docPrefix = "projects/proj/databases/(default)/documents/"

func TestCreateTask(t *testing.T) {
	fake := &fakeFirestore{}
	c := newTestClient(t, fake)

	id, err := c.CreateTask(context.Background(), "u1", service.NewTask{
		Project:     "Alpha",
		Description: "Write report",
		Assignee:    "Ana",
		Status:      service.StatusPending,
		Deadline:    "",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "01JTESTID" {
		t.Errorf("expected generated ID, got %q", id)
	}

	if len(fake.commits) != 1 || len(fake.commits[0].Writes) != 1 {
		t.Fatalf("expected one commit with one write, got %+v", fake.commits)
	}
	w := fake.commits[0].Writes[0]
	if w.Update.Name != docPrefix+"users/u1/tasks/01JTESTID" {
		t.Errorf("unexpected document name %q", w.Update.Name)
	}
	if got := w.Update.Fields[service.FieldAssignee].StringValue; got != "Ana" {
		t.Errorf("expected assignee Ana, got %q", got)
	}
	if _, ok := w.Update.Fields[service.FieldDeadline]; !ok {
		t.Error("empty deadline must still be written")
	}
	if _, ok := w.Update.Fields[service.FieldLastUpdated]; ok {
		t.Error("last-updated must come from the server transform, not the payload")
	}
	if w.CurrentDocument == nil || w.CurrentDocument.Exists {
		t.Errorf("expected exists=false precondition, got %+v", w.CurrentDocument)
	}
	if len(w.UpdateTransforms) != 1 ||
		w.UpdateTransforms[0].FieldPath != "`Última Atualização`" ||
		w.UpdateTransforms[0].SetToServerValue != "REQUEST_TIME" {
		t.Errorf("unexpected transforms %+v", w.UpdateTransforms)
	}
}

func TestUpdateTask_MasksPatchedFields(t *testing.T) {
	fake := &fakeFirestore{}
	c := newTestClient(t, fake)

	patch := service.StatusPatch(service.StatusCompleted)
	notes := "ok"
	patch.Notes = &notes

	if err := c.UpdateTask(context.Background(), "u1", "t9", patch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w := fake.commits[0].Writes[0]
	if w.Update.Name != docPrefix+"users/u1/tasks/t9" {
		t.Errorf("unexpected document name %q", w.Update.Name)
	}
	want := []string{"`Observações`", "Status"}
	if got := w.UpdateMask.FieldPaths; len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("expected mask %v, got %v", want, got)
	}
	if !w.CurrentDocument.Exists {
		t.Error("expected exists=true precondition")
	}
	if len(w.Update.Fields) != 2 {
		t.Errorf("expected only patched fields, got %v", w.Update.Fields)
	}
}

func TestDeleteTask(t *testing.T) {
	fake := &fakeFirestore{}
	c := newTestClient(t, fake)

	if err := c.DeleteTask(context.Background(), "u1", "t1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := fake.commits[0].Writes[0].Delete; got != docPrefix+"users/u1/tasks/t1" {
		t.Errorf("unexpected delete target %q", got)
	}
}

func TestListTasks_AllPagesNewestFirst(t *testing.T) {
	fake := &fakeFirestore{pages: []string{
		`{"documents":[{"name":"` + docPrefix + `users/u1/tasks/b","fields":{
			"Projeto":{"stringValue":"Alpha"},
			"Tarefa":{"stringValue":"Second"},
			"Responsável":{"stringValue":"Ana"},
			"Status":{"stringValue":"⚙️ em andamento"},
			"Prazo":{"stringValue":"30/10/2025"},
			"Última Atualização":{"timestampValue":"2025-10-22T11:00:00Z"}}}],
		"nextPageToken":"1"}`,
		`{"documents":[{"name":"` + docPrefix + `users/u1/tasks/a","fields":{
			"Tarefa":{"stringValue":"First"},
			"Observações":{"stringValue":"note"},
			"Última Atualização":{"timestampValue":"2025-10-22T10:00:00Z"}}}]}`,
	}}
	c := newTestClient(t, fake)

	tasks, err := c.ListTasks(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != "b" || tasks[0].Assignee != "Ana" || tasks[0].Status != service.StatusInProgress {
		t.Errorf("unexpected first task %+v", tasks[0])
	}
	if !tasks[0].LastUpdated.Equal(time.Date(2025, 10, 22, 11, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected time %v", tasks[0].LastUpdated)
	}
	if tasks[1].ID != "a" || tasks[1].Notes != "note" || tasks[1].Project != "" {
		t.Errorf("unexpected second task %+v", tasks[1])
	}

	if len(fake.queries) != 2 {
		t.Fatalf("expected 2 list requests, got %d", len(fake.queries))
	}
	if !strings.Contains(fake.queries[0], "orderBy=") {
		t.Errorf("expected orderBy in query %q", fake.queries[0])
	}
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusForbidden, service.ErrPermissionDenied},
		{http.StatusUnauthorized, service.ErrPermissionDenied},
		{http.StatusNotFound, service.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newTestClient(t, &fakeFirestore{status: tt.status})
			err := c.UpdateTask(context.Background(), "u1", "t1", service.StatusPatch("x"))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestWrapError_Timeout(t *testing.T) {
	err := wrapError(context.DeadlineExceeded)
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout error, got %v", err)
	}
	if wrapError(nil) != nil {
		t.Error("nil must stay nil")
	}
}

func TestFieldPath(t *testing.T) {
	tests := map[string]string{
		"Status":             "Status",
		"Projeto":            "Projeto",
		"Última Atualização": "`Última Atualização`",
		"Responsável":        "`Responsável`",
		"a`b":                "`a\\`b`",
		"1abc":               "`1abc`",
	}
	for in, want := range tests {
		if got := fieldPath(in); got != want {
			t.Errorf("fieldPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewWithOptions_RequiresProject(t *testing.T) {
	_, err := NewWithOptions(context.Background(), "", "", option.WithoutAuthentication())
	if !errors.Is(err, ErrNoProject) {
		t.Errorf("expected ErrNoProject, got %v", err)
	}
}
