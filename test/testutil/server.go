// Package testutil provides a fake mod host and fixture writers for CLI tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/glorpus-work/modsync/internal/logger"
	"github.com/glorpus-work/modsync/pkg/checksum"
	"github.com/glorpus-work/modsync/pkg/manifest"
)

// Mod is one file served by a ModHost.
type Mod struct {
	ProjectID int64
	FileID    int64
	Name      string
	Content   []byte
}

// Entry returns the manifest entry for the mod.
func (m Mod) Entry() manifest.Entry {
	return manifest.Entry{ProjectID: m.ProjectID, FileID: m.FileID}
}

// ModHost serves metadata pages and downloads in the layout the sync pipeline expects.
// Unknown project/file pairs answer 404.
type ModHost struct {
	Server *httptest.Server
	URL    string

	mu        sync.Mutex
	mods      map[string]Mod
	downloads map[string]int
}

// NewModHost starts a host serving mods. It is closed when the test ends.
func NewModHost(t *testing.T, mods ...Mod) *ModHost {
	t.Helper()
	h := &ModHost{
		mods:      make(map[string]Mod),
		downloads: make(map[string]int),
	}
	for _, m := range mods {
		h.Put(m)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /projects/{p}/files/{f}", h.serveMetadata)
	mux.HandleFunc("GET /projects/{p}/files/{f}/download", h.serveDownload)
	h.Server = httptest.NewServer(mux)
	h.URL = h.Server.URL
	t.Cleanup(h.Server.Close)

	logger.Debugf("Mod host listening on %s", h.URL)
	return h
}

func key(p, f string) string { return p + "/" + f }

// Put adds or replaces a mod.
func (h *ModHost) Put(m Mod) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mods[key(strconv.FormatInt(m.ProjectID, 10), strconv.FormatInt(m.FileID, 10))] = m
}

// Downloads returns how often the mod's file was downloaded.
func (h *ModHost) Downloads(m Mod) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.downloads[m.Entry().String()]
}

func (h *ModHost) lookup(r *http.Request) (Mod, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.mods[key(r.PathValue("p"), r.PathValue("f"))]
	return m, ok
}

func (h *ModHost) serveMetadata(w http.ResponseWriter, r *http.Request) {
	m, ok := h.lookup(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	_, _ = fmt.Fprintf(w, `<!DOCTYPE html>
<html><body>
<div class="project-file-details">
  <div class="info-label">Filename</div>
  <div class="info-data overflow-tip">%s</div>
  <div class="info-label">MD5</div>
  <span class="md5">%s</span>
</div>
</body></html>`, m.Name, checksum.Sum(m.Content))
}

func (h *ModHost) serveDownload(w http.ResponseWriter, r *http.Request) {
	m, ok := h.lookup(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.mu.Lock()
	h.downloads[m.Entry().String()]++
	h.mu.Unlock()
	_, _ = w.Write(m.Content)
}

// WriteManifest writes a manifest.json listing entries into dir and returns its path.
func WriteManifest(t *testing.T, dir string, entries ...manifest.Entry) string {
	t.Helper()
	m := manifest.Manifest{
		ManifestType:    "minecraftModpack",
		ManifestVersion: 1,
		Name:            "Test Pack",
		Version:         "1.0.0",
		Author:          "tester",
		Minecraft:       manifest.Minecraft{Version: "1.20.1"},
		Files:           entries,
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		t.Fatalf("Failed to encode manifest: %v", err)
	}
	path := filepath.Join(dir, manifest.FileName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("Failed to write manifest: %v", err)
	}
	return path
}

// WriteConfig writes a config file pointing at baseURL and modsDir and returns its path.
func WriteConfig(t *testing.T, dir, baseURL, modsDir string) string {
	t.Helper()
	content := "settings:\n" +
		"  mods_dir: " + strconv.Quote(modsDir) + "\n" +
		"  metadata_base_url: " + baseURL + "\n" +
		"  http_timeout: 5s\n" +
		"  log_level: error\n"
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}
