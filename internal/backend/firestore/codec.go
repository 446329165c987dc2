package firestore

import (
	"sort"
	"strings"
	"time"

	fsapi "google.golang.org/api/firestore/v1"

	"techlead/internal/service"
)

// fieldPath quotes a field name with backticks unless it is a simple
// identifier. Backticks and backslashes inside the name are escaped.
func fieldPath(name string) string {
	if isSimpleField(name) {
		return name
	}
	r := strings.NewReplacer(`\`, `\\`, "`", "\\`")
	return "`" + r.Replace(name) + "`"
}

func isSimpleField(name string) bool {
	if name == "" {
		return false
	}
	for i, c := range name {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func stringValue(s string) fsapi.Value {
	v := fsapi.Value{StringValue: s}
	if s == "" {
		v.ForceSendFields = []string{"StringValue"}
	}
	return v
}

func encodeFields(m map[string]string) map[string]fsapi.Value {
	out := make(map[string]fsapi.Value, len(m))
	for k, v := range m {
		out[k] = stringValue(v)
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// decodeTask converts a document to a task. Missing fields are empty.
func decodeTask(doc *fsapi.Document) service.Task {
	f := doc.Fields
	return service.Task{
		ID:          documentID(doc.Name),
		Project:     f[service.FieldProject].StringValue,
		Description: f[service.FieldDescription].StringValue,
		Assignee:    f[service.FieldAssignee].StringValue,
		Status:      f[service.FieldStatus].StringValue,
		Deadline:    f[service.FieldDeadline].StringValue,
		LastUpdated: decodeTime(f[service.FieldLastUpdated]),
		Notes:       f[service.FieldNotes].StringValue,
	}
}

// decodeTime reads a timestamp value. Older documents may carry the time
// as an RFC 3339 string.
func decodeTime(v fsapi.Value) time.Time {
	s := v.TimestampValue
	if s == "" {
		s = v.StringValue
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func documentID(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
