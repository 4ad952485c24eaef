package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	recordio "github.com/Takheer/mstroy-test/pkg/io"
	"github.com/Takheer/mstroy-test/pkg/tree"
)

const fixtureJSON = `[
  {"id": 1, "parent": null, "label": "Child 1"},
  {"id": "X", "parent": 1, "label": "Child 2"},
  {"id": 3, "parent": 1, "label": "Child 3"},
  {"id": 4, "parent": "X", "label": "Child 4"},
  {"id": 5, "parent": "X", "label": "Child 5"},
  {"id": 6, "parent": "X", "label": "Child 6"},
  {"id": 7, "parent": 4, "label": "Child 7"},
  {"id": 8, "parent": 4, "label": "Child 8"}
]`

// isolate points config and cache lookups at temporary directories.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
}

func fixtureStore(t *testing.T) *tree.Store {
	t.Helper()
	records, err := recordio.ReadJSON(strings.NewReader(fixtureJSON))
	if err != nil {
		t.Fatal(err)
	}
	s, err := tree.New(records, tree.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func ids(recs []tree.Record) []string { return idStrings(recs) }

func TestQuery(t *testing.T) {
	s := fixtureStore(t)

	res, err := query(s, tree.IntID(4), relAll)
	if err != nil {
		t.Fatalf("query() error = %v", err)
	}
	if got := ids(res.Children); !slices.Equal(got, []string{"7", "8"}) {
		t.Errorf("children = %v, want [7 8]", got)
	}
	if got := ids(res.Ancestors); !slices.Equal(got, []string{"X", "1"}) {
		t.Errorf("ancestors = %v, want [X 1]", got)
	}

	res, err = query(s, tree.IntID(8), relChildren)
	if err != nil {
		t.Fatalf("query() error = %v", err)
	}
	data, err := json.Marshal(res)
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if string(out["children"]) != "[]" {
		t.Errorf("children of a leaf = %s, want []", out["children"])
	}
	if _, ok := out["ancestors"]; ok {
		t.Error("relations that were not requested should be omitted")
	}

	if _, err := query(s, tree.IntID(99), relAll); err == nil {
		t.Error("query() of an unknown id should fail")
	}
}

func TestStatsOf(t *testing.T) {
	got := statsOf(fixtureStore(t))
	want := treeStats{records: 8, roots: 1, leaves: 5, maxDepth: 3}
	if got != want {
		t.Errorf("statsOf() = %+v, want %+v", got, want)
	}
}

func TestRecordTable(t *testing.T) {
	out := recordTable(fixtureStore(t), 3).Render()
	for _, want := range []string{"Descendants", "label", "Child 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Child 4") {
		t.Errorf("limit 3 should cut the fourth record:\n%s", out)
	}
}

func TestHierarchy(t *testing.T) {
	s := fixtureStore(t)

	full := hierarchy(s, tree.ID{}, "label").String()
	for _, want := range []string{"Child 1", "Child 8"} {
		if !strings.Contains(full, want) {
			t.Errorf("hierarchy missing %q:\n%s", want, full)
		}
	}

	sub := hierarchy(s, tree.IntID(4), "label").String()
	if strings.Contains(sub, "Child 2") || !strings.Contains(sub, "Child 7") {
		t.Errorf("subtree of 4 should hold 4, 7 and 8 only:\n%s", sub)
	}
}

func TestParseIDArg(t *testing.T) {
	tests := []struct {
		in       string
		asString bool
		want     tree.ID
		wantErr  bool
	}{
		{"42", false, tree.IntID(42), false},
		{"42", true, tree.StrID("42"), false},
		{"X", false, tree.StrID("X"), false},
		{"", false, tree.ID{}, true},
		{"a\x00b", false, tree.ID{}, true},
	}
	for _, tt := range tests {
		got, err := parseIDArg(tt.in, tt.asString)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseIDArg(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseIDArg(%q, %v) = %#v, want %#v", tt.in, tt.asString, got, tt.want)
		}
	}
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		n    int
		noun string
		want string
	}{
		{1, "record", "1 record"},
		{0, "record", "0 records"},
		{2, "leaf", "2 leaves"},
		{3, "cached entry", "3 cached entries"},
		{12345, "operation", "12,345 operations"},
	}
	for _, tt := range tests {
		if got := pluralize(tt.n, tt.noun); got != tt.want {
			t.Errorf("pluralize(%d, %q) = %q, want %q", tt.n, tt.noun, got, tt.want)
		}
	}
}

func TestPortOf(t *testing.T) {
	for addr, want := range map[string]string{":8080": ":8080", "0.0.0.0:9000": ":9000", "9000": ":9000"} {
		if got := portOf(addr); got != want {
			t.Errorf("portOf(%q) = %q, want %q", addr, got, want)
		}
	}
}

func TestApplyCommand(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "records.json", fixtureJSON)
	script := writeFile(t, dir, "ops.toml", `
[[ops]]
op = "add"
id = 9
parent = 8
label = "Child 9"

[[ops]]
op = "update"
id = 4
parent = 3

[[ops]]
op = "remove"
id = "X"
`)
	output := filepath.Join(dir, "out.yaml")

	if err := runCLI(t, "apply", input, script, "-o", output); err != nil {
		t.Fatalf("apply error = %v", err)
	}

	records, err := recordio.Import(output)
	if err != nil {
		t.Fatalf("Import(output) error = %v", err)
	}
	got := make([]string, len(records))
	for i, rec := range records {
		got[i] = rec.ID.String()
	}
	slices.Sort(got)
	if want := []string{"1", "3", "4", "7", "8", "9"}; !slices.Equal(got, want) {
		t.Errorf("records after apply = %v, want %v", got, want)
	}
}

func TestApplyCommandStopsOnError(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "records.json", fixtureJSON)
	script := writeFile(t, dir, "ops.yaml", "- {op: add, id: 9, parent: 8}\n- {op: add, id: 10, parent: missing}\n")
	output := filepath.Join(dir, "out.json")

	err := runCLI(t, "apply", input, script, "-o", output)
	if err == nil || !strings.Contains(err.Error(), "op 1") {
		t.Fatalf("apply error = %v, want it to name op 1", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Error("a failed script should not write output")
	}
}

func TestRenderCommandDOT(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "records.json", fixtureJSON)
	output := filepath.Join(dir, "tree.dot")

	if err := runCLI(t, "render", input, "-o", output, "--root", "X", "--string-id"); err != nil {
		t.Fatalf("render error = %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("digraph G {")) || bytes.Count(data, []byte("->")) != 5 {
		t.Errorf("render output unexpected:\n%s", data)
	}

	if err := runCLI(t, "render", input, "-o", filepath.Join(dir, "tree.png")); err == nil {
		t.Error("render to png should be rejected")
	}
	if err := runCLI(t, "render", input, "-o", output, "--root", "404"); err == nil {
		t.Error("render of an unknown root should fail")
	}
}

func TestCommandsRejectBadInput(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "records.json", fixtureJSON)
	cyclic := writeFile(t, dir, "cycle.json", `[{"id": 1, "parent": 2}, {"id": 2, "parent": 1}]`)

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"show", filepath.Join(dir, "nope.json")}},
		{"cycle", []string{"show", cyclic}},
		{"unknown id", []string{"query", input, "99"}},
		{"bad relation", []string{"query", input, "1", "-r", "siblings"}},
		{"missing config", []string{"--config", filepath.Join(dir, "nope.toml"), "show", input}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runCLI(t, tt.args...); err == nil {
				t.Errorf("treestore %v should fail", tt.args)
			}
		})
	}
}

func TestLoadStoreUsesConfiguredOrder(t *testing.T) {
	isolate(t)
	input := writeFile(t, t.TempDir(), "records.json", fixtureJSON)

	c := New(io.Discard, LogInfo)
	c.Config.Store.Order = "level"
	s, err := c.loadStore(input)
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(s.Descendants(tree.IntID(1))); !slices.Equal(got, []string{"X", "3", "4", "5", "6", "7", "8"}) {
		t.Errorf("level-order descendants = %v", got)
	}
}

func TestCompletionCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"completion", "bash"})
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("completion error = %v", err)
	}
	if !strings.Contains(buf.String(), "treestore") {
		t.Error("bash completion should mention the command name")
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m BrowseModel, keys ...string) (BrowseModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(BrowseModel)
	}
	return m, cmd
}

func TestBrowseModel(t *testing.T) {
	s := fixtureStore(t)
	m := NewBrowseModel(s, "label")

	if len(m.Entries) != 1 || !m.Current.IsZero() {
		t.Fatalf("initial entries = %v", ids(m.Entries))
	}

	m, _ = press(m, "enter", "enter")
	if m.Current != tree.StrID("X") || !slices.Equal(ids(m.Entries), []string{"4", "5", "6"}) {
		t.Fatalf("after two descents current = %v, entries = %v", m.Current, ids(m.Entries))
	}
	if !strings.Contains(m.View(), "1 → X") {
		t.Errorf("breadcrumb missing:\n%s", m.View())
	}

	m, _ = press(m, "down", "down", "down", "enter")
	if m.Cursor != 2 || m.Current != tree.StrID("X") {
		t.Errorf("cursor should stop at the last entry and leaves cannot be opened: cursor %d, current %v", m.Cursor, m.Current)
	}

	m, _ = press(m, "left")
	if m.Current != tree.IntID(1) || m.Cursor != 0 {
		t.Errorf("after going back current = %v, cursor = %d; want 1, 0", m.Current, m.Cursor)
	}

	m, _ = press(m, "left", "left")
	if !m.Current.IsZero() || len(m.Entries) != 1 {
		t.Errorf("going back past the top should stay at the roots")
	}

	m, cmd := press(m, "s")
	if m.Selected == nil || m.Selected.ID != tree.IntID(1) || cmd == nil {
		t.Errorf("s should select the record under the cursor and quit")
	}
}
