package prompt

import (
	"regexp"
	"strings"
)

var mermaidBlock = regexp.MustCompile("(?s)```mermaid[ \\t]*\\r?\\n(.*?)```")

// ExtractDiagram returns the body of the first fenced mermaid block in an
// analysis result.
func ExtractDiagram(content string) (string, bool) {
	m := mermaidBlock.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	body := strings.TrimRight(m[1], " \t\r\n")
	if body == "" {
		return "", false
	}
	return body + "\n", true
}
