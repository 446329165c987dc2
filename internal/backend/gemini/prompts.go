package gemini

import (
	"encoding/json"
	"strings"
	"text/template"

	"google.golang.org/genai"

	"techlead/internal/service"
)

// DateLayout is how dates are written in prompts and deadlines (dd/mm/yyyy).
const DateLayout = "02/01/2006"

var createTmpl = template.Must(template.New("create").Parse(`You are an expert project manager. Generate a JSON object containing task details.

Today's date for calculating deadlines is {{.Today}}.

User Input: {{.Description}}

Current Tasks (JSON format, use the 'id' field for updates): {{.CurrentTasks}}

Ensure the Status defaults to "{{.DefaultStatus}}". Based on the user input, extract the relevant information and populate the JSON object. Return ONLY the JSON.
`))

var statusTmpl = template.Must(template.New("status").Parse(`You are a task management assistant. The user wants to update the status of a task.

The task has the following description: {{.TaskDescription}}

The task ID is {{.TaskID}}.

The user wants to update the status to {{.NewStatus}}.

Prefer one of these status labels when the request matches one: {{range $i, $s := .Known}}{{if $i}}, {{end}}"{{$s}}"{{end}}.

Return the task ID and the new status.
`))

var analysisTmpl = template.Must(template.New("analysis").Parse(`You are a leadership assistant and expert in productivity and project management.

The user has provided a list of tasks and is requesting an analysis, mind map, or list of pending tasks.
Your goal is to use the task list to generate a helpful and informative response based on the user's request.

Task List:
{{range .Tasks}}- Projeto: {{.Project}}, Tarefa: {{.Description}}, Responsável: {{.Assignee}}, Status: {{.Status}}, Prazo: {{.Deadline}}
{{end}}
User Request: {{.Prompt}}

If the user asks for a "mind map" or "mapa mental", you MUST generate the output using Mermaid syntax inside a "mermaid" code block.
For example:
` + "```" + `mermaid
mindmap
  root((My Tasks))
    ProjectA
      Task1
      Task2
    ProjectB
      Task3
` + "```" + `

For all other requests, respond in markdown format.
`))

func render(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func createPrompt(in service.CreateTaskInput, today string) (string, error) {
	current, err := json.Marshal(in.CurrentTasks)
	if err != nil {
		return "", err
	}
	return render(createTmpl, struct {
		Today, Description, CurrentTasks, DefaultStatus string
	}{today, in.NaturalLanguageDescription, string(current), service.DefaultStatus})
}

func statusPrompt(in service.StatusUpdateInput) (string, error) {
	return render(statusTmpl, struct {
		service.StatusUpdateInput
		Known []string
	}{in, []string{service.StatusPending, service.StatusInProgress, service.StatusCompleted, service.StatusOverdue}})
}

func analysisPrompt(in service.AnalysisInput) (string, error) {
	return render(analysisTmpl, struct {
		Tasks  []service.Task
		Prompt string
	}{in.TaskList, in.UserPrompt})
}

func str(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc}
}

var createSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		service.FieldProject:     str("The project the task belongs to."),
		service.FieldDescription: str("The description of the task."),
		service.FieldAssignee:    str("The person responsible for the task."),
		service.FieldStatus:      str(`The status of the task, should default to "` + service.DefaultStatus + `".`),
		service.FieldDeadline:    str("The deadline for the task."),
		service.FieldLastUpdated: str("The last time the task was updated."),
		service.FieldNotes:       str("Any observations about the task."),
	},
	Required: []string{
		service.FieldProject,
		service.FieldDescription,
		service.FieldAssignee,
		service.FieldStatus,
		service.FieldDeadline,
		service.FieldLastUpdated,
	},
}

var statusSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"taskId":    str("The ID of the updated task."),
		"newStatus": str("The updated status of the task."),
	},
	Required: []string{"taskId", "newStatus"},
}
