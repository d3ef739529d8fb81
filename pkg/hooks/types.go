package hooks

// HookType represents the type of hook.
type HookType string

// Supported hook types.
const (
	PostDownload HookType = "post-download"
	PostSkip     HookType = "post-skip"
)

// Hook represents a hook script with its type and content.
type Hook struct {
	Type    HookType
	Content string
}

// HookContext contains information passed to hooks.
type HookContext struct {
	ModName   string
	ModPath   string
	Checksum  string
	ProjectID int64
	FileID    int64
	Vars      map[string]interface{}
}
