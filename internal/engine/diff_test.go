package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff_IdenticalContentIsEmpty(t *testing.T) {
	content := []byte("same\nlines\n")
	assert.Empty(t, Diff("a.txt", content, content))
}

func TestDiff_BinaryContent(t *testing.T) {
	out := Diff("logo.png", []byte{0x89, 0x00, 0x01}, []byte("text"))
	assert.Equal(t, "Binary files differ\n", out)
}

func TestDiff_ShowsChangedLines(t *testing.T) {
	existing := []byte("line one\nline two\nline three\n")
	planned := []byte("line one\nline 2\nline three\n")

	out := Diff("README.md", existing, planned)
	require.NotEmpty(t, out)
	assert.Contains(t, out, "--- README.md")
	assert.Contains(t, out, "+++ README.md (generated)")
	assert.Contains(t, out, "line two")
	assert.Contains(t, out, "line 2")
}

func TestEditScript_ClassifiesOps(t *testing.T) {
	edits := editScript([]string{"a", "b", "c"}, []string{"a", "x", "c"})

	var same, added, deleted []string
	for _, e := range edits {
		switch e.op {
		case opSame:
			same = append(same, e.content)
		case opAdd:
			added = append(added, e.content)
		case opDel:
			deleted = append(deleted, e.content)
		}
	}
	assert.Equal(t, []string{"a", "c"}, same)
	assert.Equal(t, []string{"x"}, added)
	assert.Equal(t, []string{"b"}, deleted)
}

func TestBuildHunks_GroupsWithContext(t *testing.T) {
	old := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}
	newer := append([]string{}, old...)
	newer[1] = "changed early"
	newer[10] = "changed late"

	hunks := buildHunks(editScript(old, newer), 3)
	require.Len(t, hunks, 2, "distant changes get separate hunks")
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, splitLines(""))
	assert.Equal(t, []string{"a"}, splitLines("a\n"))
	assert.Equal(t, []string{"a", "b"}, splitLines("a\nb"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 80))
	long := strings.Repeat("x", 100)
	got := truncate(long, 20)
	assert.Len(t, got, 20)
	assert.True(t, strings.HasSuffix(got, "..."))
}
