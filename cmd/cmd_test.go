package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lessonkit/internal/generation"
)

func newTestCmd(t *testing.T, flags map[string]string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{}
	for _, name := range []string{"db", "title", "info", "info-file", "resources"} {
		c.Flags().String(name, "", "")
	}
	for k, v := range flags {
		require.NoError(t, c.Flags().Set(k, v))
	}
	return c
}

func TestResolveDBPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")

	tests := []struct {
		name    string
		flag    string
		fromEnv string
		want    string
	}{
		{"default", "", "", filepath.Join("/data", "lessonkit", "lessonkit.db")},
		{"env", "", "/tmp/env.db", "/tmp/env.db"},
		{"flag wins", "/tmp/flag.db", "/tmp/env.db", "/tmp/flag.db"},
		{"env off", "", "off", ""},
		{"flag off", "OFF", "/tmp/env.db", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCmd(t, map[string]string{"db": tt.flag})
			got, err := resolveDBPath(c, tt.fromEnv)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("Causes of the Texas Revolution"), 0o644))

	c := newTestCmd(t, map[string]string{"title": "The Alamo", "info-file": path, "resources": "TSLAC"})
	in, err := generateInput(c)
	require.NoError(t, err)
	assert.Equal(t, "The Alamo", in.Title)
	assert.Equal(t, "Causes of the Texas Revolution", in.LessonInfo)
	assert.Equal(t, "TSLAC", in.AdditionalResources)
}

func TestGenerateInput_Stdin(t *testing.T) {
	c := newTestCmd(t, map[string]string{"info-file": "-"})
	c.SetIn(strings.NewReader("Goliad campaign"))
	in, err := generateInput(c)
	require.NoError(t, err)
	assert.Equal(t, "Goliad campaign", in.LessonInfo)
}

func TestGenerateInput_Errors(t *testing.T) {
	_, err := generateInput(newTestCmd(t, map[string]string{"title": "only a title"}))
	assert.ErrorIs(t, err, generation.ErrMissingLessonInfo)

	_, err = generateInput(newTestCmd(t, map[string]string{"info": "x", "info-file": "y"}))
	assert.Error(t, err)

	_, err = generateInput(newTestCmd(t, map[string]string{"info-file": filepath.Join(t.TempDir(), "missing.md")}))
	assert.Error(t, err)
}
