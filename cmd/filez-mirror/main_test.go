package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/MarkoPoloResearchLab/file_mirror/internal/mirror"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEnvironmentLoadingAndLoggerInit(t *testing.T) {
	t.Setenv("FILEZ_MIRROR_MODE", "pair")
	t.Setenv("FILEZ_MIRROR_PARENTS", "skip")
	t.Setenv("FILEZ_MIRROR_ON_PAIR_ERROR", "continue")
	t.Setenv("FILEZ_MIRROR_LOG_LEVEL", "debug")
	t.Setenv("FILEZ_MIRROR_JOBS", "4")

	viper.Reset()
	bindConfig()
	defer func() {
		viper.Reset()
		bindConfig()
	}()

	if err := rootCmd.PersistentPreRunE(rootCmd, []string{}); err != nil {
		t.Fatalf("pre-run: %v", err)
	}
	defer func() { logger = nil }()

	if logger == nil || !logger.Core().Enabled(zap.DebugLevel) {
		t.Fatalf("debug logging not enabled")
	}

	options, err := optionsFromConfig("src", "dst")
	require.NoError(t, err)
	assert.Equal(t, mirror.ModePair, options.Mode)
	assert.Equal(t, mirror.ParentsSkipMissing, options.Parents)
	assert.Equal(t, mirror.FailContinue, options.OnPairError)
	assert.Equal(t, mirror.EnumerationLenient, options.Enumeration)
	assert.Equal(t, mirror.CloneAuto, options.Clone)
	assert.Equal(t, 4, options.Jobs)
	assert.Equal(t, "src", options.SourceRoot)
	assert.Equal(t, "dst", options.DestinationRoot)
}

func TestOptionsFromConfigRejectsUnknownPolicies(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  string
	}{
		{"Mode", "mode", "mirror-everything"},
		{"Parents", "parents", "sometimes"},
		{"Enumeration", "enumeration", "paranoid"},
		{"PairError", "on-pair-error", "retry"},
		{"Clone", "clone", "always"},
	}

	logger = zap.NewNop()
	defer func() { logger = nil }()

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			viper.Set(tc.key, tc.val)
			defer func() {
				viper.Reset()
				bindConfig()
			}()

			_, err := optionsFromConfig("src", "dst")
			assert.Error(t, err)
		})
	}
}

func TestRootCommandMirrorsPair(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	dst := filepath.Join(tmp, "dst")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "docs"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dst, "docs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "docs", "a.txt"), []byte("fresh"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "skip.tmp"), []byte("tmp"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "docs", "c.txt"), []byte("old"), 0o644))

	viper.Reset()
	bindConfig()
	defer func() {
		viper.Reset()
		bindConfig()
		logger = nil
	}()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--mode", "pair", "--log-level", "error", "--exclude", "*.tmp", src, dst})
	defer rootCmd.SetArgs(nil)
	defer rootCmd.SetOut(nil)

	require.NoError(t, rootCmd.Execute())

	assert.Equal(t,
		"Delete "+filepath.Join(dst, "docs", "c.txt")+"\n"+
			"Copy "+filepath.Join(src, "docs", "a.txt")+" -> "+filepath.Join(dst, "docs", "a.txt")+"\n",
		out.String())

	got, err := os.ReadFile(filepath.Join(dst, "docs", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(got))
	assert.NoFileExists(t, filepath.Join(dst, "skip.tmp"))
}

func TestRootCommandRejectsSelfSync(t *testing.T) {
	dir := t.TempDir()

	viper.Reset()
	bindConfig()
	defer func() {
		viper.Reset()
		bindConfig()
		logger = nil
	}()

	rootCmd.SetArgs([]string{"--mode", "pair", "--log-level", "error", dir, dir})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	var structural *mirror.StructuralError
	require.ErrorAs(t, err, &structural)
	assert.ErrorIs(t, err, mirror.ErrSameEntry)
}
