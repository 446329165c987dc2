package testutil

import (
	"context"
	"sync"

	"techlead/internal/service"
)

// FakeAssistant is a scripted implementation of service.Assistant.
// Unset outputs fall back to echoing the request.
type FakeAssistant struct {
	mu sync.Mutex

	CreateOutput   *service.CreateTaskOutput
	AnalysisOutput string

	// StatusFunc, when set, computes the normalised status.
	StatusFunc func(string) string

	// Error injection for testing
	CreateErr   error
	StatusErr   error
	AnalysisErr error

	// Recorded requests
	CreateCalls   []service.CreateTaskInput
	StatusCalls   []service.StatusUpdateInput
	AnalysisCalls []service.AnalysisInput
}

// NewFakeAssistant creates a FakeAssistant with echo behaviour.
func NewFakeAssistant() *FakeAssistant {
	return &FakeAssistant{}
}

// CreateTask implements service.Assistant.
func (f *FakeAssistant) CreateTask(ctx context.Context, in service.CreateTaskInput) (service.CreateTaskOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls = append(f.CreateCalls, in)

	if f.CreateErr != nil {
		return service.CreateTaskOutput{}, f.CreateErr
	}
	if f.CreateOutput != nil {
		return *f.CreateOutput, nil
	}
	return service.CreateTaskOutput{
		Description: in.NaturalLanguageDescription,
		Status:      service.DefaultStatus,
	}, nil
}

// UpdateTaskStatus implements service.Assistant.
func (f *FakeAssistant) UpdateTaskStatus(ctx context.Context, in service.StatusUpdateInput) (service.StatusUpdateOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.StatusCalls = append(f.StatusCalls, in)

	if f.StatusErr != nil {
		return service.StatusUpdateOutput{}, f.StatusErr
	}
	status := in.NewStatus
	if f.StatusFunc != nil {
		status = f.StatusFunc(status)
	}
	return service.StatusUpdateOutput{TaskID: in.TaskID, NewStatus: status}, nil
}

// AnalyzeTasks implements service.Assistant.
func (f *FakeAssistant) AnalyzeTasks(ctx context.Context, in service.AnalysisInput) (service.AnalysisOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.AnalysisCalls = append(f.AnalysisCalls, in)

	if f.AnalysisErr != nil {
		return service.AnalysisOutput{}, f.AnalysisErr
	}
	return service.AnalysisOutput{AnalysisResult: f.AnalysisOutput}, nil
}

// Calls returns the number of requests of each kind.
func (f *FakeAssistant) Calls() (create, status, analysis int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.CreateCalls), len(f.StatusCalls), len(f.AnalysisCalls)
}
