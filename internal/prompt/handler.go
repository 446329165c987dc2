package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"techlead/internal/service"
)

// Handler routes prompts to the assistant.
type Handler struct {
	ai  service.Assistant
	log zerolog.Logger
}

// NewHandler creates a handler backed by ai.
func NewHandler(ai service.Assistant, log zerolog.Logger) *Handler {
	return &Handler{ai: ai, log: log}
}

// HandlePrompt classifies prompt and runs the matching handler against
// tasks, the caller's current view of userID's task list. It never returns
// an error: assistant failures and panics become an error Result.
// Nothing is written to the store; see Apply.
func (h *Handler) HandlePrompt(ctx context.Context, prompt string, tasks []service.Task, userID string) (res Result) {
	if strings.TrimSpace(prompt) == "" {
		return errorResult("❌ Comando vazio.")
	}

	cmd := Classify(prompt)
	log := h.log.With().Str("intent", cmd.Intent.String()).Str("user", userID).Logger()
	log.Debug().Int("tasks", len(tasks)).Msg("handling prompt")

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("prompt handler panicked")
			res = failed(fmt.Errorf("%v", r))
		}
	}()

	var err error
	switch cmd.Intent {
	case IntentCreate:
		res, err = h.create(ctx, cmd, tasks)
	case IntentUpdateStatus:
		res, err = h.updateStatus(ctx, cmd, tasks)
	default:
		res, err = h.analyze(ctx, cmd, tasks)
	}
	if err != nil {
		log.Error().Err(err).Msg("assistant request failed")
		return failed(err)
	}
	return res
}

const failurePrefix = "🚨"

func failed(err error) Result {
	return errorResult(fmt.Sprintf("%s Erro no processamento da IA: %s", failurePrefix, err))
}

func (h *Handler) create(ctx context.Context, cmd Command, tasks []service.Task) (Result, error) {
	out, err := h.ai.CreateTask(ctx, service.CreateTaskInput{
		NaturalLanguageDescription: cmd.Prompt,
		CurrentTasks:               service.Summarize(tasks),
	})
	if err != nil {
		return Result{}, err
	}

	task := out.NewTask()
	if strings.TrimSpace(task.Status) == "" {
		task.Status = service.DefaultStatus
	}

	return Result{
		Type:    ResultCreate,
		Content: fmt.Sprintf("✅ Tarefa **%s** adicionada com sucesso!", task.Description),
		Task:    &task,
	}, nil
}

func (h *Handler) updateStatus(ctx context.Context, cmd Command, tasks []service.Task) (Result, error) {
	task, ok := FindTask(tasks, cmd.TaskQuery)
	if !ok || task.ID == "" {
		return errorResult(fmt.Sprintf("❌ Tarefa \"%s\" não encontrada.", cmd.TaskQuery)), nil
	}

	out, err := h.ai.UpdateTaskStatus(ctx, service.StatusUpdateInput{
		TaskID:          task.ID,
		NewStatus:       cmd.NewStatus,
		TaskDescription: task.Description,
	})
	if err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(out.NewStatus) == "" {
		return Result{}, fmt.Errorf("assistant returned an empty status for %q", task.Description)
	}

	return Result{
		Type:    ResultUpdate,
		Content: fmt.Sprintf("✅ Status de **%s** atualizado para **%s**.", task.Description, out.NewStatus),
		Status:  &StatusChange{TaskID: task.ID, NewStatus: out.NewStatus},
	}, nil
}

func (h *Handler) analyze(ctx context.Context, cmd Command, tasks []service.Task) (Result, error) {
	out, err := h.ai.AnalyzeTasks(ctx, service.AnalysisInput{
		TaskList:   tasks,
		UserPrompt: cmd.Prompt,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Type: ResultAnalysis, Content: out.AnalysisResult}, nil
}

// FindTask returns the first task, in list order, whose description
// contains query case-insensitively.
func FindTask(tasks []service.Task, query string) (service.Task, bool) {
	q := strings.ToLower(query)
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Description), q) {
			return t, true
		}
	}
	return service.Task{}, false
}
