package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const guidPattern = `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-4[0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}`

var (
	lowerV4 = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	anyGUID = regexp.MustCompile(guidPattern)
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GUIDGENIE_PRETTY_JSON", "")

	root := NewRootCmd("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestInsert_ReplacesMultiLineSelection(t *testing.T) {
	out, err := runCLI(t, "Line A\nLine B\nLine C\nLine D",
		"insert", "--select", "1:0-2:6", "--uppercase=false", "--braces=false")
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "Line A", lines[0])
	require.Regexp(t, lowerV4, lines[1])
	require.Equal(t, "Line D", lines[2])
}

func TestInsert_ReusesSurroundingBraces(t *testing.T) {
	out, err := runCLI(t, "const id = {REPLACE_ME};",
		"insert", "--select", "0:12-0:22", "--uppercase", "--braces")
	require.NoError(t, err)

	require.Regexp(t, regexp.MustCompile(`^const id = \{[0-9A-F-]{36}\};$`), out)
	require.NotContains(t, out, "{{")
}

func TestInsert_EmptyDocumentWithBraces(t *testing.T) {
	out, err := runCLI(t, "", "insert", "--braces")
	require.NoError(t, err)

	require.Len(t, out, 38)
	require.True(t, strings.HasPrefix(out, "{"))
	require.True(t, strings.HasSuffix(out, "}"))
	require.Regexp(t, anyGUID, out[1:37])
}

func TestInsert_MixedLineEndings(t *testing.T) {
	out, err := runCLI(t, "first\nconst id = {REPLACE_ME};\r\nlast",
		"insert", "-s", "1:12-1:22", "--braces", "--uppercase")
	require.NoError(t, err)

	require.Regexp(t, regexp.MustCompile(`^first\nconst id = \{[0-9A-F-]{36}\};\r\nlast$`), out)
	require.NotContains(t, out, "{{")
}

func TestInsert_MultipleCursorsGetDistinctIDs(t *testing.T) {
	out, err := runCLI(t, "a=\nb=", "insert", "-s", "0:2", "-s", "1:2", "--uppercase=false")
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "a="))
	require.True(t, strings.HasPrefix(lines[1], "b="))
	a, b := strings.TrimPrefix(lines[0], "a="), strings.TrimPrefix(lines[1], "b=")
	require.Regexp(t, lowerV4, a)
	require.Regexp(t, lowerV4, b)
	require.NotEqual(t, a, b)
}

func TestInsert_InPlace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.txt")
	require.NoError(t, os.WriteFile(path, []byte("id: \n"), 0o640))

	out, err := runCLI(t, "", "insert", "--file", path, "--select", "0:4", "--in-place", "--uppercase=false")
	require.NoError(t, err)
	require.Empty(t, out)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^id: `+guidPattern+"\n$"), string(b))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o640), fi.Mode().Perm())
}

func TestInsert_InPlaceNeedsFile(t *testing.T) {
	_, err := runCLI(t, "x", "insert", "--in-place")
	require.Error(t, err)

	var ce *codedError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "INVALID_FLAGS", ce.ErrorCode())
}

func TestInsert_OverlappingSelectionsLeaveFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("abcdef"), 0o600))

	_, err := runCLI(t, "", "insert", "-f", path, "-i", "-s", "0:0-0:4", "-s", "0:2-0:6")
	require.Error(t, err)

	var ce *codedError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "OVERLAPPING_SELECTIONS", ce.ErrorCode())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "abcdef", string(b))
}

func TestInsert_SelectionOutsideDocument(t *testing.T) {
	_, err := runCLI(t, "one line", "insert", "-s", "4:0")
	require.Error(t, err)

	var ce *codedError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "INVALID_POSITION", ce.ErrorCode())
}

func TestInsert_BadSelectionSyntax(t *testing.T) {
	_, err := runCLI(t, "x", "insert", "-s", "nope")
	require.Error(t, err)
	require.ErrorAs(t, err, new(printedError))
}

func TestInsert_Diff(t *testing.T) {
	out, err := runCLI(t, "first\nkey = \nlast\n", "--no-color", "insert", "-s", "1:6", "--diff", "--uppercase")
	require.NoError(t, err)

	require.Contains(t, out, "--- a/stdin")
	require.Contains(t, out, "+++ b/stdin")
	require.Contains(t, out, "-key = \n")
	require.Regexp(t, regexp.MustCompile(`\+key = [0-9A-F-]{36}\n`), out)
	require.NotContains(t, out, "\x1b[")
}

func TestInsert_JSON(t *testing.T) {
	out, err := runCLI(t, "x = {PLACEHOLDER}", "insert", "-s", "0:5-0:16", "--braces", "--uppercase=false", "--json")
	require.NoError(t, err)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Preferences struct {
				Uppercase     bool `json:"uppercase"`
				IncludeBraces bool `json:"include_braces"`
			} `json:"preferences"`
			Edits []struct {
				Text string `json:"text"`
			} `json:"edits"`
			Text string `json:"text"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.True(t, resp.Success)
	require.False(t, resp.Data.Preferences.Uppercase)
	require.True(t, resp.Data.Preferences.IncludeBraces)
	require.Len(t, resp.Data.Edits, 1)
	require.Regexp(t, lowerV4, resp.Data.Edits[0].Text)
	require.Equal(t, "x = {"+resp.Data.Edits[0].Text+"}", resp.Data.Text)
}

type errorEnvelope struct {
	Success         bool   `json:"success"`
	Error           string `json:"error"`
	ErrorCode       string `json:"error_code"`
	SuggestedAction string `json:"suggested_action"`
}

func TestInsert_JSONReportsErrors(t *testing.T) {
	out, err := runCLI(t, "x", "insert", "-s", "nope", "--json")
	require.Error(t, err)

	var resp errorEnvelope
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.False(t, resp.Success)
	require.Equal(t, "INVALID_SELECTION", resp.ErrorCode)
	require.Equal(t, selectionHint, resp.SuggestedAction)
	require.Contains(t, resp.Error, `"nope"`)

	out, err = runCLI(t, "abcdef", "insert", "-s", "0:0-0:4", "-s", "0:2-0:6", "--json")
	require.Error(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "OVERLAPPING_SELECTIONS", resp.ErrorCode)
}

func TestInsert_PlainErrorsPrintNothing(t *testing.T) {
	out, err := runCLI(t, "x", "insert", "-s", "nope")
	require.Error(t, err)
	require.Empty(t, out)
}

func TestGenerate_JSONReportsErrors(t *testing.T) {
	out, err := runCLI(t, "", "generate", "--count", "0", "--json")
	require.Error(t, err)

	var resp errorEnvelope
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.False(t, resp.Success)
	require.Equal(t, "INVALID_FLAGS", resp.ErrorCode)
	require.NotEmpty(t, resp.SuggestedAction)
}

func TestGenerate_Count(t *testing.T) {
	out, err := runCLI(t, "", "generate", "-n", "5", "--uppercase=false")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	seen := map[string]bool{}
	for _, l := range lines {
		require.Regexp(t, lowerV4, l)
		seen[l] = true
	}
	require.Len(t, seen, 5)
}

func TestGenerate_Braces(t *testing.T) {
	out, err := runCLI(t, "", "generate", "--braces", "--uppercase")
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^\{[0-9A-F-]{36}\}\n$`), out)
}

func TestGenerate_RejectsBadCount(t *testing.T) {
	_, err := runCLI(t, "", "generate", "--count", "0")
	require.Error(t, err)

	var ce *codedError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "INVALID_FLAGS", ce.ErrorCode())
}

func TestRoot_Version(t *testing.T) {
	out, err := runCLI(t, "", "--version")
	require.NoError(t, err)
	require.Contains(t, out, `"version":"test"`)
}

func TestSchemaCommands_ListsCommands(t *testing.T) {
	out, err := runCLI(t, "", "schema", "commands")
	require.NoError(t, err)

	var resp struct {
		Data struct {
			Commands []commandArgSchema `json:"commands"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	names := make([]string, 0, len(resp.Data.Commands))
	for _, c := range resp.Data.Commands {
		names = append(names, c.Command)
	}
	require.ElementsMatch(t, []string{"guidgenie config", "guidgenie generate", "guidgenie insert"}, names)
}
