package topics_test

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/arthur-debert/bootstrap/pkg/cobrax/topics"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"hooks.md":          {Data: []byte("# Hooks\n\nPre and post executables.\n")},
		"option-dry-run.md": {Data: []byte("# Dry run\n")},
		"notes.txt":         {Data: []byte("plain notes\n")},
		"ignored.json":      {Data: []byte("{}")},
	}
}

func TestLoad(t *testing.T) {
	m, err := topics.Load(testFS(), topics.Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"hooks", "notes", "option-dry-run"}, m.Names())

	topic, ok := m.Get("--dry-run")
	require.True(t, ok)
	assert.Equal(t, "option-dry-run", topic.Name)

	_, ok = m.Get("ignored")
	assert.False(t, ok)
}

func TestWriteIndex(t *testing.T) {
	m, err := topics.Load(testFS(), topics.Options{})
	require.NoError(t, err)

	var out bytes.Buffer
	m.WriteIndex(&out, "bootstrap")
	assert.Contains(t, out.String(), "General topics:\n  hooks\n  notes\n")
	assert.Contains(t, out.String(), "Option topics:\n  --dry-run\n")
	assert.Contains(t, out.String(), "Use 'bootstrap help <topic>'")

	empty, err := topics.Load(fstest.MapFS{}, topics.Options{})
	require.NoError(t, err)
	out.Reset()
	empty.WriteIndex(&out, "bootstrap")
	assert.Equal(t, "No help topics available.\n", out.String())
}

func TestInstall(t *testing.T) {
	m, err := topics.Load(testFS(), topics.Options{})
	require.NoError(t, err)

	root := &cobra.Command{Use: "bootstrap", Run: func(*cobra.Command, []string) {}}
	root.AddCommand(&cobra.Command{Use: "version", Run: func(*cobra.Command, []string) {}})
	m.Install(root)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"help", "hooks"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "# Hooks\n\nPre and post executables.\n", out.String())

	out.Reset()
	root.SetArgs([]string{"help", "topics"})
	require.NoError(t, root.Execute())
	assert.True(t, strings.HasPrefix(out.String(), "Available help topics:"))
}

func TestGlamourRenderer(t *testing.T) {
	r := &topics.GlamourRenderer{Style: "notty", Width: 60}
	assert.Equal(t, "plain", r.Render("plain", ".txt"))

	out := r.Render("# Title\n\nbody text", ".md")
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "body text")
}
