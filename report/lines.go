package report

import "strings"

// Lines is an assembled report, one display line per element.
type Lines []string

// Text joins the lines with newlines, ending with a trailing newline.
func (l Lines) Text() string {
	if len(l) == 0 {
		return ""
	}
	return strings.Join(l, "\n") + "\n"
}

const indent = "   "

func (l *Lines) add(s string) {
	*l = append(*l, s)
}

func (l *Lines) blank() {
	*l = append(*l, "")
}
