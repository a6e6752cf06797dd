package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"evalportal/internal/view"
)

// termRenderer draws panel descriptions as plain text. It is the only place
// that knows how a Panel looks on screen.
type termRenderer struct {
	mu  sync.Mutex
	out io.Writer

	header    view.Header
	hasHeader bool
}

func newTermRenderer(out io.Writer) *termRenderer {
	return &termRenderer{out: out}
}

func (t *termRenderer) SetHeader(h view.Header) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.header = h
	t.hasHeader = true
}

func (t *termRenderer) Notify(title, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "\n[%s] %s\n", title, message)
}

func (t *termRenderer) Render(p view.Panel) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if p.Loading {
		fmt.Fprintf(t.out, "\n-- %s (loading...) --\n", p.Title)
		return
	}

	fmt.Fprintf(t.out, "\n== %s ==\n", p.Title)
	if t.hasHeader {
		fmt.Fprintf(t.out, "%s (%s) | Batch: %s, Dept: %s\n",
			t.header.Name, t.header.StudentID, t.header.Batch, t.header.Department)
	}
	if p.Error != "" {
		fmt.Fprintf(t.out, "! %s\n", p.Error)
	}
	if p.Notice != "" {
		fmt.Fprintf(t.out, "* %s\n", p.Notice)
	}
	if p.Empty != "" {
		fmt.Fprintf(t.out, "  %s\n", p.Empty)
	}

	for i, item := range p.Items {
		badge := ""
		if item.Badge != "" {
			badge = " [" + item.Badge + "]"
		}
		fmt.Fprintf(t.out, "%2d. %s%s\n", i+1, item.Title, badge)
		for _, line := range item.Lines {
			fmt.Fprintf(t.out, "      %s\n", line)
		}
		if item.Action != nil {
			fmt.Fprintf(t.out, "      -> %s\n", formatAction(item.Action))
		}
	}

	for _, f := range p.Fields {
		marker := " "
		if f.Editing {
			marker = "*"
		} else if f.Editable {
			marker = "e"
		}
		fmt.Fprintf(t.out, " [%s] %-20s %s\n", marker, f.Label+":", f.Value)
	}
	if p.SaveVisible {
		fmt.Fprintln(t.out, "  (unsaved edits, type 'save' to commit all)")
	}

	if p.Overlay != nil {
		fmt.Fprintf(t.out, "\n  ┌─ %s ─┐\n", p.Overlay.Title)
		for _, section := range p.Overlay.Sections {
			fmt.Fprintf(t.out, "  %s\n", section.Heading)
			for _, row := range section.Rows {
				fmt.Fprintf(t.out, "    %s\n", row)
			}
		}
		fmt.Fprintln(t.out, "  (type 'close' to dismiss)")
	}
}

func formatAction(a *view.Action) string {
	parts := make([]string, 0, len(a.Params))
	for _, key := range sortedKeys(a.Params) {
		parts = append(parts, key+"="+a.Params[key])
	}
	return a.Name + "?" + strings.Join(parts, "&")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
