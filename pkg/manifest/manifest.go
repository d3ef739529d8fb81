// Package manifest loads modpack manifests, either a bare manifest.json or one
// embedded in a modpack archive.
package manifest

import (
	"context"
	stderrors "errors"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/modsync/pkg/errors"
	"github.com/hashicorp/go-version"
	"github.com/mholt/archives"
)

// FileName is the manifest's name inside a modpack archive.
const FileName = "manifest.json"

// Entry identifies one remote mod file.
type Entry struct {
	ProjectID int64 `json:"projectID"`
	FileID    int64 `json:"fileID"`
	Required  *bool `json:"required,omitempty"`
}

// String renders the entry as "projectID/fileID".
func (e Entry) String() string {
	return fmt.Sprintf("%d/%d", e.ProjectID, e.FileID)
}

// ModLoader is a loader declared by the pack, e.g. "forge-14.23.5.2847".
type ModLoader struct {
	ID      string `json:"id"`
	Primary bool   `json:"primary"`
}

// Minecraft holds the game version the pack targets.
type Minecraft struct {
	Version    string      `json:"version"`
	ModLoaders []ModLoader `json:"modLoaders,omitempty"`
}

// Manifest is the decoded manifest document. Only Files is required.
type Manifest struct {
	ManifestType    string    `json:"manifestType,omitempty"`
	ManifestVersion int       `json:"manifestVersion,omitempty"`
	Name            string    `json:"name,omitempty"`
	Version         string    `json:"version,omitempty"`
	Author          string    `json:"author,omitempty"`
	Minecraft       Minecraft `json:"minecraft"`
	Files           []Entry   `json:"files"`
}

// Load reads a manifest from path. Files ending in .json are decoded directly;
// anything else is opened as an archive and its root manifest.json is decoded.
func Load(ctx context.Context, path string) (*Manifest, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrapf(errors.ErrManifestNotFound, "%s", path)
			}
			return nil, errors.Wrapf(err, "failed to open manifest %s", path)
		}
		defer func() { _ = f.Close() }()
		return Parse(f)
	}
	return loadFromArchive(ctx, path)
}

func loadFromArchive(ctx context.Context, path string) (*Manifest, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(errors.ErrManifestNotFound, "%s", path)
	}
	fsys, err := archives.FileSystem(ctx, path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open modpack archive %s", path)
	}
	// Close the underlying archive filesystem when done (important on Windows)
	if closer, ok := fsys.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	f, err := fsys.Open(FileName)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(errors.ErrManifestNotFound, "%s has no %s", path, FileName)
		}
		return nil, errors.Wrapf(err, "failed to open %s in %s", FileName, path)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// Parse decodes and validates a manifest document.
func Parse(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, errors.Wrap(errors.ErrManifestParse, err.Error())
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks that the files list is present and every entry carries positive identifiers.
func (m *Manifest) Validate() error {
	if m.Files == nil {
		return errors.Wrap(errors.ErrManifestInvalid, "missing \"files\" list")
	}
	for i, e := range m.Files {
		if e.ProjectID <= 0 || e.FileID <= 0 {
			return errors.Wrapf(errors.ErrManifestInvalid, "files[%d]: projectID and fileID must be positive, got %s", i, e)
		}
	}
	return nil
}

// CheckMinecraft verifies the pack's Minecraft version satisfies constraint, for
// example ">= 1.12, < 1.13". An empty constraint always passes.
func (m *Manifest) CheckMinecraft(constraint string) error {
	if strings.TrimSpace(constraint) == "" {
		return nil
	}
	constraints, err := version.NewConstraint(constraint)
	if err != nil {
		return errors.Wrapf(err, "invalid minecraft constraint %q", constraint)
	}
	if m.Minecraft.Version == "" {
		return errors.Wrap(errors.ErrMinecraftVersion, "manifest does not declare a minecraft version")
	}
	v, err := version.NewVersion(m.Minecraft.Version)
	if err != nil {
		return errors.Wrapf(errors.ErrMinecraftVersion, "cannot parse %q: %v", m.Minecraft.Version, err)
	}
	if !constraints.Check(v) {
		return errors.Wrapf(errors.ErrMinecraftVersion, "%s does not satisfy %s", v, constraints)
	}
	return nil
}
