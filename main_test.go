package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, 6060, cfg.AdminPort)
	assert.Equal(t, 5, cfg.Resolver.MaxDepth)
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("VAST_RESOLVER_MAX_DEPTH", "0")

	_, err := loadConfig()
	assert.Error(t, err)
}

// Every directory holding Go code must also hold tests. Directories starting
// with "." or "_" are not part of the module and are skipped.
func TestEveryDirWithGoCodeHasTests(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	err = filepath.WalkDir(wd, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != wd && (strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_")) {
			return filepath.SkipDir
		}

		matches, err := filepath.Glob(filepath.Join(path, "*.go"))
		if err != nil {
			return err
		}
		var hasCode, hasTests bool
		for _, match := range matches {
			if strings.HasSuffix(match, "_test.go") {
				hasTests = true
			} else {
				hasCode = true
			}
		}
		if hasCode {
			assert.Truef(t, hasTests, "found directory with go code but without any tests %s", path)
		}
		return nil
	})
	assert.NoError(t, err)
}
