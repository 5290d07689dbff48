package engine

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	diffHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	diffHunkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	diffAddStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("green"))
	diffDelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("red"))
)

// Diff renders a unified diff between the on-disk content and the newly
// rendered content for conflict review. Returns "" when the contents are
// identical.
func Diff(path string, existing, planned []byte) string {
	if bytes.Equal(existing, planned) {
		return ""
	}
	if isBinary(existing) || isBinary(planned) {
		return "Binary files differ\n"
	}

	oldLines := splitLines(string(existing))
	newLines := splitLines(string(planned))

	edits := editScript(oldLines, newLines)
	hunks := buildHunks(edits, 3)
	if len(hunks) == 0 {
		return ""
	}

	width := terminalWidth()

	var b strings.Builder
	b.WriteString(diffHeaderStyle.Render("--- "+path) + "\n")
	b.WriteString(diffHeaderStyle.Render("+++ "+path+" (generated)") + "\n")
	for _, h := range hunks {
		b.WriteString(diffHunkStyle.Render(fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.oldStart, h.oldCount, h.newStart, h.newCount)) + "\n")
		for _, line := range h.lines {
			text := truncate(line.content, width-2)
			switch line.op {
			case opAdd:
				b.WriteString(diffAddStyle.Render("+ "+text) + "\n")
			case opDel:
				b.WriteString(diffDelStyle.Render("- "+text) + "\n")
			default:
				b.WriteString("  " + text + "\n")
			}
		}
	}
	return b.String()
}

type editOp int

const (
	opSame editOp = iota
	opAdd
	opDel
)

type editLine struct {
	oldLine int // 1-based line in old content, 0 if added
	newLine int // 1-based line in new content, 0 if removed
	content string
	op      editOp
}

// editScript computes a line-level edit script via LCS dynamic
// programming. Scaffolded files are small, so the quadratic table is
// fine here.
func editScript(old, newer []string) []editLine {
	n, m := len(old), len(newer)
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if old[i] == newer[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var out []editLine
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case old[i] == newer[j]:
			out = append(out, editLine{oldLine: i + 1, newLine: j + 1, content: old[i], op: opSame})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			out = append(out, editLine{oldLine: i + 1, content: old[i], op: opDel})
			i++
		default:
			out = append(out, editLine{newLine: j + 1, content: newer[j], op: opAdd})
			j++
		}
	}
	for ; i < n; i++ {
		out = append(out, editLine{oldLine: i + 1, content: old[i], op: opDel})
	}
	for ; j < m; j++ {
		out = append(out, editLine{newLine: j + 1, content: newer[j], op: opAdd})
	}
	return out
}

type diffHunk struct {
	oldStart, oldCount int
	newStart, newCount int
	lines              []editLine
}

// buildHunks groups changed lines into hunks with surrounding context.
func buildHunks(edits []editLine, context int) []diffHunk {
	var hunks []diffHunk
	i := 0
	for i < len(edits) {
		if edits[i].op == opSame {
			i++
			continue
		}

		start := i - context
		if start < 0 {
			start = 0
		}
		end := i
		gap := 0
		for j := i; j < len(edits); j++ {
			if edits[j].op == opSame {
				gap++
				if gap > context*2 {
					break
				}
			} else {
				gap = 0
				end = j
			}
		}
		stop := end + context + 1
		if stop > len(edits) {
			stop = len(edits)
		}

		h := diffHunk{lines: edits[start:stop]}
		for _, l := range h.lines {
			if l.op != opAdd {
				if h.oldStart == 0 {
					h.oldStart = l.oldLine
				}
				h.oldCount++
			}
			if l.op != opDel {
				if h.newStart == 0 {
					h.newStart = l.newLine
				}
				h.newCount++
			}
		}
		hunks = append(hunks, h)
		i = stop
	}
	return hunks
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func isBinary(data []byte) bool {
	return bytes.IndexByte(data, 0) >= 0
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
		return w
	}
	return 80
}

func truncate(s string, width int) string {
	if width <= 3 || len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}
