package service

// TaskSummary is the reduced task context sent along with creation requests.
type TaskSummary struct {
	ID          string `json:"id,omitempty"`
	Description string `json:"Tarefa"`
	Status      string `json:"Status"`
	Project     string `json:"Projeto"`
}

// Summarize reduces tasks to the fields the create extractor needs.
func Summarize(tasks []Task) []TaskSummary {
	out := make([]TaskSummary, len(tasks))
	for i, t := range tasks {
		out[i] = TaskSummary{ID: t.ID, Description: t.Description, Status: t.Status, Project: t.Project}
	}
	return out
}

// CreateTaskInput is the request to the task extractor.
type CreateTaskInput struct {
	NaturalLanguageDescription string        `json:"naturalLanguageDescription"`
	CurrentTasks               []TaskSummary `json:"currentTasks"`
}

// CreateTaskOutput is the extractor's record. LastUpdated is part of the
// extractor's schema but is never persisted.
type CreateTaskOutput struct {
	Project     string `json:"Projeto"`
	Description string `json:"Tarefa"`
	Assignee    string `json:"Responsável"`
	Status      string `json:"Status"`
	Deadline    string `json:"Prazo"`
	LastUpdated string `json:"Última Atualização"`
	Notes       string `json:"Observações,omitempty"`
}

// NewTask converts the record to writable task fields, dropping LastUpdated.
func (o CreateTaskOutput) NewTask() NewTask {
	return NewTask{
		Project:     o.Project,
		Description: o.Description,
		Assignee:    o.Assignee,
		Status:      o.Status,
		Deadline:    o.Deadline,
		Notes:       o.Notes,
	}
}

// StatusUpdateInput is the request to the status normaliser.
type StatusUpdateInput struct {
	TaskID          string `json:"taskId"`
	NewStatus       string `json:"newStatus"`
	TaskDescription string `json:"taskDescription,omitempty"`
}

// StatusUpdateOutput is the normaliser's answer.
type StatusUpdateOutput struct {
	TaskID    string `json:"taskId"`
	NewStatus string `json:"newStatus"`
}

// AnalysisInput is the request to the analyser.
type AnalysisInput struct {
	TaskList   []Task `json:"taskList"`
	UserPrompt string `json:"userPrompt"`
}

// AnalysisOutput is the analyser's answer.
type AnalysisOutput struct {
	AnalysisResult string `json:"analysisResult"`
}
