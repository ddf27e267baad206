package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeTerminalTextLeavesSafeInput(t *testing.T) {
	require.Equal(t, "report-2024.txt", SanitizeTerminalText("report-2024.txt"))
	require.Equal(t, "zażółć.md", SanitizeTerminalText("zażółć.md"))
}

func TestSanitizeTerminalTextReplacesControlSequences(t *testing.T) {
	require.Equal(t, "bad?[31m path", SanitizeTerminalText("bad\x1b[31m\npath"))
	require.Equal(t, "a b", SanitizeTerminalText("a\tb"))
	require.Equal(t, "x?", SanitizeTerminalText("x\x7f"))
}

func TestSanitizeTerminalTextLabelsFormattingRunes(t *testing.T) {
	got := SanitizeTerminalText("evil\u202etxt.exe")
	require.Equal(t, "evil⟪RLO⟫txt.exe", got)
}

func TestTruncateToWidth(t *testing.T) {
	require.Equal(t, "short", TruncateToWidth("short", 10))
	require.Equal(t, "abcd…", TruncateToWidth("abcdefgh", 5))
	require.Equal(t, "", TruncateToWidth("abc", 0))
	require.LessOrEqual(t, DisplayWidth(TruncateToWidth("日本語のファイル", 7)), 7)
}

func TestTruncateLeftToWidth(t *testing.T) {
	require.Equal(t, "/a/b", TruncateLeftToWidth("/a/b", 10))
	require.Equal(t, "…/c/file.txt", TruncateLeftToWidth("/home/user/c/file.txt", 12))
	require.Equal(t, ".", TruncateLeftToWidth("/long/path", 1))
	require.Equal(t, "…h", TruncateLeftToWidth("/long/path", 2))
}

func TestPadRight(t *testing.T) {
	require.Equal(t, "ab  ", PadRight("ab", 4))
	require.Equal(t, "abcdef", PadRight("abcdef", 4))
	require.Equal(t, "日 ", PadRight("日", 3))
}
