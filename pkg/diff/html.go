package diff

import (
	"fmt"
	"html"
	"strings"
)

// SideBySide holds the two marked-up panes of an HTML diff. Deleted lines
// appear only in Old, inserted lines only in New, equal lines in both.
type SideBySide struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// HTMLDiff renders the edit script between two payloads as side-by-side
// panes. Content is escaped; styling is left to the consuming theme.
func HTMLDiff(oldText, newText string) SideBySide {
	var oldPane, newPane strings.Builder
	for _, ln := range LineDiff(oldText, newText) {
		esc := html.EscapeString(ln.Content)
		switch ln.Type {
		case Equal:
			fmt.Fprintf(&oldPane, "<div class=\"diff-line\" data-line=\"%d\">%s</div>\n", ln.OldLine, esc)
			fmt.Fprintf(&newPane, "<div class=\"diff-line\" data-line=\"%d\">%s</div>\n", ln.NewLine, esc)
		case Delete:
			fmt.Fprintf(&oldPane, "<div class=\"diff-line diff-delete\" data-line=\"%d\">%s</div>\n", ln.OldLine, esc)
		case Insert:
			fmt.Fprintf(&newPane, "<div class=\"diff-line diff-insert\" data-line=\"%d\">%s</div>\n", ln.NewLine, esc)
		}
	}
	return SideBySide{Old: oldPane.String(), New: newPane.String()}
}
