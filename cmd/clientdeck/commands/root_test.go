package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/clientdeck/internal/model"
	"github.com/nhle/clientdeck/internal/persist"
)

type cli struct {
	dir    string
	config string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	cfg := &model.AppConfig{
		Storage: model.StorageConfig{Path: filepath.Join(dir, "clientdeck.db")},
		Log:     model.LogConfig{File: filepath.Join(dir, "clientdeck.log"), Level: "debug"},
		Display: model.DisplayConfig{Theme: "default", DefaultFilter: "all"},
	}
	require.NoError(t, model.SaveConfig(path, cfg))
	return &cli{dir: dir, config: path}
}

// run executes one command against a fresh command tree.
func (c *cli) run(args ...string) (stdout, stderr string, err error) {
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", c.config}, args...))
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func (c *cli) addClient(t *testing.T, name string) int64 {
	t.Helper()
	out, _, err := c.run("client", "add", name)
	require.NoError(t, err)
	var id int64
	_, err = fmt.Sscanf(out, "Added "+name+" (%d)", &id)
	require.NoError(t, err, out)
	return id
}

func TestClientLifecycle(t *testing.T) {
	c := newCLI(t)
	id := c.addClient(t, "Acme")
	sid := strconv.FormatInt(id, 10)

	out, _, err := c.run("client", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "To Do")

	out, stderr, err := c.run("client", "set", sid, "conta-amazon", "true")
	require.NoError(t, err)
	assert.Contains(t, out, "(In Progress)")
	assert.Contains(t, stderr, `Acme moved automatically to "In Progress"`)

	_, _, err = c.run("client", "move", sid, "done")
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Payment method confirmed?"}, verr.Missing)

	out, _, err = c.run("client", "move", sid, "in_progress")
	require.NoError(t, err)
	assert.Equal(t, "Already in In Progress\n", out)

	out, _, err = c.run("client", "duplicate", sid)
	require.NoError(t, err)
	assert.Contains(t, out, "Added Acme (Copy)")

	out, _, err = c.run("stats")
	require.NoError(t, err)
	assert.Contains(t, out, "TOTAL")

	out, _, err = c.run("client", "delete", sid)
	require.NoError(t, err)
	assert.Equal(t, "Deleted client "+sid+"\n", out)
}

func TestClientArgumentErrors(t *testing.T) {
	c := newCLI(t)
	id := c.addClient(t, "Acme")
	sid := strconv.FormatInt(id, 10)

	_, _, err := c.run("client", "move", "abc", "done")
	assert.ErrorIs(t, err, model.ErrMalformedInput)

	_, _, err = c.run("client", "set", sid, "conta-amazon", "maybe")
	assert.ErrorIs(t, err, model.ErrInvalidResponse)

	_, _, err = c.run("client", "set", sid, "missing-item", "x")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, _, err = c.run("client", "add", "Beta", "--template", "nope")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestTemplateCommands(t *testing.T) {
	c := newCLI(t)

	def := filepath.Join(c.dir, "tpl.yaml")
	require.NoError(t, os.WriteFile(def, []byte(`name: Retail
items:
  - text: Contract signed?
    type: checkbox
    required: true
  - text: Plan
    type: select
    options: [basic, pro]
`), 0o644))

	out, _, err := c.run("template", "add", "-f", def)
	require.NoError(t, err)
	assert.Contains(t, out, "Created template Retail (custom-")

	out, _, err = c.run("template", "list")
	require.NoError(t, err)
	assert.Contains(t, out, persist.DefaultTemplateID)
	assert.Contains(t, out, "Retail")

	_, _, err = c.run("template", "delete", persist.DefaultTemplateID)
	assert.ErrorIs(t, err, model.ErrProtected)

	bad := filepath.Join(c.dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("name: [unclosed"), 0o644))
	_, _, err = c.run("template", "add", "-f", bad)
	assert.ErrorIs(t, err, model.ErrMalformedInput)
}

func TestExportImport(t *testing.T) {
	c := newCLI(t)
	c.addClient(t, "Acme")

	backup := filepath.Join(c.dir, "backup.json")
	out, _, err := c.run("export", "-o", backup)
	require.NoError(t, err)
	assert.Equal(t, "Exported to "+backup+"\n", out)

	c.addClient(t, "Beta")

	out, _, err = c.run("import", backup)
	require.NoError(t, err)
	assert.Equal(t, "Data imported successfully\n", out)

	out, _, err = c.run("client", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Acme")
	assert.NotContains(t, out, "Beta")

	_, _, err = c.run("import", filepath.Join(c.dir, "missing.json"))
	assert.Error(t, err)
}
