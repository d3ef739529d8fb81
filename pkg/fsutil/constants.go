package fsutil

// File and directory permission constants.
const (
	FileModeDefault = 0o644 // -rw-r--r--: mods and other regular files
	FileModeSecure  = 0o600 // -rw-------: config files

	DirModeDefault = 0o755 // drwxr-xr-x: mods directory
	DirModeSecure  = 0o750 // drwxr-x---: config directory
)

// AppName is the name of the application used in paths.
const AppName = "modsync"
