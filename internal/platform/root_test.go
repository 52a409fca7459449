package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindConfig(t *testing.T) {
	// base/
	//   project/ (tenor.yaml)
	//     corpus/
	//       speeches/
	//   hidden/ (.tenor.yaml)
	//   empty/
	baseDir := t.TempDir()
	projectDir := filepath.Join(baseDir, "project")
	nestedDir := filepath.Join(projectDir, "corpus", "speeches")
	hiddenDir := filepath.Join(baseDir, "hidden")
	emptyDir := filepath.Join(baseDir, "empty")

	require.NoError(t, os.MkdirAll(nestedDir, 0755))
	require.NoError(t, os.MkdirAll(emptyDir, 0755))
	writeFile(t, filepath.Join(projectDir, "tenor.yaml"), "workers: 2\n")
	writeFile(t, filepath.Join(hiddenDir, ".tenor.yaml"), "workers: 2\n")

	tests := []struct {
		name      string
		startPath string
		want      string
		wantErr   bool
	}{
		{"start at project", projectDir, filepath.Join(projectDir, "tenor.yaml"), false},
		{"start nested deeply", nestedDir, filepath.Join(projectDir, "tenor.yaml"), false},
		{"dotfile", hiddenDir, filepath.Join(hiddenDir, ".tenor.yaml"), false},
		{"no config found", emptyDir, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindConfig(tt.startPath)
			if tt.wantErr {
				// Some ancestor of the temp dir could hold a tenor.yaml.
				if err == nil {
					assert.NotContains(t, got, baseDir)
					return
				}
				require.ErrorIs(t, err, ErrConfigNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Clean(tt.want), filepath.Clean(got))
		})
	}
}

func TestFindConfig_IgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "tenor.yaml"), 0755))

	got, err := FindConfig(dir)
	if err == nil {
		assert.NotEqual(t, filepath.Join(dir, "tenor.yaml"), got)
	}
}
