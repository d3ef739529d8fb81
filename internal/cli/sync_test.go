package cli

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/glorpus-work/modsync/pkg/errors"
	"github.com/glorpus-work/modsync/pkg/manifest"
	"github.com/glorpus-work/modsync/test/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	jei = testutil.Mod{ProjectID: 238222, FileID: 4712866, Name: "jei-1.20.1.jar", Content: []byte("jei classes")}
	ftb = testutil.Mod{ProjectID: 268655, FileID: 4596743, Name: "ftb-library.jar", Content: []byte("ftb classes")}
)

// useFlags points the package-level flag values at test values for one test.
func useFlags(t *testing.T, cfgPath, format string) {
	t.Helper()
	verbose := false
	ConfigPath = &cfgPath
	Verbose = &verbose
	OutputFormat = &format
	t.Cleanup(func() {
		ConfigPath = nil
		Verbose = nil
		OutputFormat = nil
	})
}

type syncFixture struct {
	host     *testutil.ModHost
	modsDir  string
	manifest string
}

func newSyncFixture(t *testing.T, format string, entries ...manifest.Entry) syncFixture {
	t.Helper()
	dir := t.TempDir()
	host := testutil.NewModHost(t, jei, ftb)
	modsDir := filepath.Join(dir, "instance", "mods")
	useFlags(t, testutil.WriteConfig(t, dir, host.URL, modsDir), format)
	return syncFixture{
		host:     host,
		modsDir:  modsDir,
		manifest: testutil.WriteManifest(t, dir, entries...),
	}
}

func TestRunSync_DownloadsThenSkips(t *testing.T) {
	fx := newSyncFixture(t, "", jei.Entry(), ftb.Entry())
	opts := syncOptions{concurrency: -1}

	var out, errOut bytes.Buffer
	require.NoError(t, runSync(context.Background(), &out, &errOut, fx.manifest, opts))
	assert.Contains(t, out.String(), "STATUS")
	assert.Contains(t, out.String(), filepath.Join(fx.modsDir, jei.Name))
	assert.Contains(t, out.String(), "2 downloaded, 0 up to date, 0 failed (2 total)")

	for _, m := range []testutil.Mod{jei, ftb} {
		data, err := os.ReadFile(filepath.Join(fx.modsDir, m.Name))
		require.NoError(t, err)
		assert.Equal(t, m.Content, data)
	}

	out.Reset()
	require.NoError(t, runSync(context.Background(), &out, &errOut, fx.manifest, opts))
	assert.Contains(t, out.String(), "0 downloaded, 2 up to date, 0 failed (2 total)")
	assert.Equal(t, 1, fx.host.Downloads(jei))
	assert.Equal(t, 1, fx.host.Downloads(ftb))
}

func TestRunSync_JSONReportWithFailure(t *testing.T) {
	missing := manifest.Entry{ProjectID: 1, FileID: 2}
	fx := newSyncFixture(t, OutputJSON, jei.Entry(), missing)

	var out, errOut bytes.Buffer
	err := runSync(context.Background(), &out, &errOut, fx.manifest, syncOptions{concurrency: 1, progress: true})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrSyncFailed))

	var report syncReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	require.Len(t, report.Outcomes, 2)

	assert.Equal(t, "downloaded", report.Outcomes[0].Status)
	assert.Equal(t, int64(238222), report.Outcomes[0].ProjectID)
	assert.Equal(t, "failed", report.Outcomes[1].Status)
	assert.Equal(t, "metadata_fetch", report.Outcomes[1].Stage)
	assert.Contains(t, report.Outcomes[1].Error, "404")
	assert.Equal(t, summaryReport{Total: 2, Downloaded: 1, Failed: 1}, report.Summary)

	assert.Contains(t, errOut.String(), "[1/2]")
	assert.Contains(t, errOut.String(), "[2/2]")
}

func TestRunSync_ModsDirFlagOverridesConfig(t *testing.T) {
	fx := newSyncFixture(t, "", jei.Entry())
	override := filepath.Join(t.TempDir(), "elsewhere")

	var out, errOut bytes.Buffer
	require.NoError(t, runSync(context.Background(), &out, &errOut, fx.manifest, syncOptions{modsDir: override, concurrency: -1}))

	_, err := os.Stat(filepath.Join(override, jei.Name))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(fx.modsDir, jei.Name))
	assert.True(t, os.IsNotExist(err))
}

func TestRunSync_RejectsBeforeDownloading(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		manifest func(fx syncFixture) string
		opts     syncOptions
		wantErr  error
	}{
		{
			name:     "minecraft version outside constraint",
			manifest: func(fx syncFixture) string { return fx.manifest },
			opts:     syncOptions{minecraft: ">= 1.21", concurrency: -1},
			wantErr:  errors.ErrMinecraftVersion,
		},
		{
			name:     "missing manifest",
			manifest: func(fx syncFixture) string { return filepath.Join(filepath.Dir(fx.manifest), "absent.json") },
			opts:     syncOptions{concurrency: -1},
			wantErr:  errors.ErrManifestNotFound,
		},
		{
			name:     "unknown output format",
			format:   "yaml",
			manifest: func(fx syncFixture) string { return fx.manifest },
			opts:     syncOptions{concurrency: -1},
			wantErr:  errors.ErrInvalidOutputFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newSyncFixture(t, tt.format, jei.Entry())

			var out, errOut bytes.Buffer
			err := runSync(context.Background(), &out, &errOut, tt.manifest(fx), tt.opts)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, tt.wantErr), "got %v", err)
			assert.Equal(t, 0, fx.host.Downloads(jei))
		})
	}
}

func TestRunSync_MissingHookScript(t *testing.T) {
	fx := newSyncFixture(t, "", jei.Entry())
	cfgPath := *ConfigPath
	f, err := os.OpenFile(cfgPath, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = f.WriteString("hooks:\n  post_download: " + filepath.Join(t.TempDir(), "missing.tengo") + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	var out, errOut bytes.Buffer
	err = runSync(context.Background(), &out, &errOut, fx.manifest, syncOptions{concurrency: -1})
	assert.True(t, stderrors.Is(err, errors.ErrHookLoad), "got %v", err)
}

func TestRunCheck(t *testing.T) {
	fx := newSyncFixture(t, "", jei.Entry(), ftb.Entry())

	var out bytes.Buffer
	require.NoError(t, runCheck(context.Background(), &out, fx.manifest, ">= 1.20, < 1.21"))
	assert.Contains(t, out.String(), "Test Pack 1.0.0 by tester")
	assert.Contains(t, out.String(), "Minecraft 1.20.1")
	assert.Contains(t, out.String(), "238222")
	assert.Contains(t, out.String(), "2 entries")
	assert.Equal(t, 0, fx.host.Downloads(jei))

	err := runCheck(context.Background(), &out, fx.manifest, "< 1.20")
	assert.True(t, stderrors.Is(err, errors.ErrMinecraftVersion))
}
