package service

import (
	"fmt"
	"sort"
	"strings"
)

// SortTasks orders tasks in place by a column. Field names are matched
// like TaskPatch.Set, plus "ultima atualizacao" for the update time.
// Ties keep their existing order.
func SortTasks(tasks []Task, field string, asc bool) error {
	var less func(a, b Task) bool
	switch normalizeFieldName(field) {
	case "projeto":
		less = byString(func(t Task) string { return t.Project })
	case "tarefa":
		less = byString(func(t Task) string { return t.Description })
	case "responsavel":
		less = byString(func(t Task) string { return t.Assignee })
	case "status":
		less = byString(func(t Task) string { return t.Status })
	case "prazo":
		less = byString(func(t Task) string { return t.Deadline })
	case "observacoes":
		less = byString(func(t Task) string { return t.Notes })
	case "ultima atualizacao", "atualizacao", "":
		less = func(a, b Task) bool { return a.LastUpdated.Before(b.LastUpdated) }
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		if asc {
			return less(tasks[i], tasks[j])
		}
		return less(tasks[j], tasks[i])
	})
	return nil
}

func byString(get func(Task) string) func(a, b Task) bool {
	return func(a, b Task) bool {
		return strings.ToLower(get(a)) < strings.ToLower(get(b))
	}
}
