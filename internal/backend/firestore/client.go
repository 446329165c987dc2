// Package firestore implements the service.Store interface using the
// Cloud Firestore REST API.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	fsapi "google.golang.org/api/firestore/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"techlead/internal/auth"
	"techlead/internal/config"
	"techlead/internal/service"
)

const (
	// PageSize is the number of documents per list page.
	PageSize = 300

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// tasksCollection is the per-user subcollection holding task documents.
	tasksCollection = "tasks"

	// requestTime is the server value for the commit time.
	requestTime = "REQUEST_TIME"
)

// ErrNoProject is returned when no Google Cloud project is configured.
var ErrNoProject = fmt.Errorf("%w: no project (set project_id in config.yaml or TECHLEAD_PROJECT)", config.ErrNotConfigured)

// Client implements service.Store using Firestore documents under
// users/{uid}/tasks.
type Client struct {
	docs     *fsapi.ProjectsDatabasesDocumentsService
	database string
	log      zerolog.Logger

	newID func() string
}

var _ service.Store = (*Client)(nil)

// New creates a new Firestore client for the configured project.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg.Settings.ProjectID == "" {
		return nil, ErrNoProject
	}
	httpClient, err := auth.HTTPClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c, err := NewWithOptions(ctx, cfg.Settings.ProjectID, cfg.Settings.Database, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}
	c.log = cfg.Log.With().Str("backend", "firestore").Logger()
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client.
func NewWithHTTPClient(ctx context.Context, projectID, database string, httpClient *http.Client) (*Client, error) {
	return NewWithOptions(ctx, projectID, database, option.WithHTTPClient(httpClient))
}

// NewWithOptions creates a client with explicit API options (for testing).
func NewWithOptions(ctx context.Context, projectID, database string, opts ...option.ClientOption) (*Client, error) {
	if projectID == "" {
		return nil, ErrNoProject
	}
	if database == "" {
		database = config.DefaultDatabase
	}
	svc, err := fsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore service: %w", err)
	}
	return &Client{
		docs:     svc.Projects.Databases.Documents,
		database: "projects/" + projectID + "/databases/" + database,
		log:      zerolog.Nop(),
		newID:    func() string { return ulid.Make().String() },
	}, nil
}

// ListTasks returns all of the user's tasks, most recently updated first.
func (c *Client) ListTasks(ctx context.Context, userID string) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	parent := c.documentName("users/" + userID)
	call := c.docs.List(parent, tasksCollection).
		OrderBy(fieldPath(service.FieldLastUpdated) + " desc").
		PageSize(PageSize)

	var result []service.Task
	err := call.Pages(ctx, func(resp *fsapi.ListDocumentsResponse) error {
		for _, doc := range resp.Documents {
			result = append(result, decodeTask(doc))
		}
		return nil
	})
	if err != nil {
		return nil, wrapError(err)
	}

	c.log.Debug().Str("path", service.CollectionPath(userID)).Int("count", len(result)).Msg("listed tasks")
	return result, nil
}

// CreateTask writes a new document with a client-generated ID. The
// last-updated field is set to the commit time.
func (c *Client) CreateTask(ctx context.Context, userID string, task service.NewTask) (string, error) {
	id := c.newID()
	write := &fsapi.Write{
		Update: &fsapi.Document{
			Name:   c.documentName(service.TaskPath(userID, id)),
			Fields: encodeFields(task.Fields()),
		},
		CurrentDocument: &fsapi.Precondition{
			Exists:          false,
			ForceSendFields: []string{"Exists"},
		},
		UpdateTransforms: lastUpdatedTransform(),
	}
	if err := c.commit(ctx, write); err != nil {
		return "", err
	}
	c.log.Debug().Str("task_id", id).Msg("created task")
	return id, nil
}

// UpdateTask merges the patched fields into an existing document.
// Fails with service.ErrNotFound if the document does not exist.
func (c *Client) UpdateTask(ctx context.Context, userID, taskID string, patch service.TaskPatch) error {
	fields := patch.Fields()
	paths := make([]string, 0, len(fields))
	for _, name := range sortedKeys(fields) {
		paths = append(paths, fieldPath(name))
	}
	write := &fsapi.Write{
		Update: &fsapi.Document{
			Name:   c.documentName(service.TaskPath(userID, taskID)),
			Fields: encodeFields(fields),
		},
		UpdateMask:       &fsapi.DocumentMask{FieldPaths: paths},
		CurrentDocument:  &fsapi.Precondition{Exists: true},
		UpdateTransforms: lastUpdatedTransform(),
	}
	if err := c.commit(ctx, write); err != nil {
		return err
	}
	c.log.Debug().Str("task_id", taskID).Strs("fields", paths).Msg("updated task")
	return nil
}

// DeleteTask removes a task document. Deleting a missing document succeeds.
func (c *Client) DeleteTask(ctx context.Context, userID, taskID string) error {
	write := &fsapi.Write{Delete: c.documentName(service.TaskPath(userID, taskID))}
	if err := c.commit(ctx, write); err != nil {
		return err
	}
	c.log.Debug().Str("task_id", taskID).Msg("deleted task")
	return nil
}

func (c *Client) commit(ctx context.Context, writes ...*fsapi.Write) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.docs.Commit(c.database, &fsapi.CommitRequest{Writes: writes}).Context(ctx).Do()
	return wrapError(err)
}

func (c *Client) documentName(path string) string {
	return c.database + "/documents/" + path
}

func lastUpdatedTransform() []*fsapi.FieldTransform {
	return []*fsapi.FieldTransform{{
		FieldPath:        fieldPath(service.FieldLastUpdated),
		SetToServerValue: requestTime,
	}}
}

// wrapError converts API errors to user-friendly errors that still match
// the service sentinels.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	// Check for timeout
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized:
			return fmt.Errorf("token expired or revoked (run: techlead login): %w", service.ErrPermissionDenied)
		case http.StatusForbidden:
			return fmt.Errorf("%s: %w", apiErr.Message, service.ErrPermissionDenied)
		case http.StatusNotFound:
			return service.ErrNotFound
		case http.StatusConflict:
			return fmt.Errorf("document already exists: %s", apiErr.Message)
		}
	}

	return err
}
