package hooks

import (
	"os"

	"github.com/glorpus-work/modsync/pkg/errors"
)

// LoadScripts reads each configured script file into the executor. Empty paths
// are ignored.
func LoadScripts(executor *TengoExecutor, paths map[HookType]string) error {
	for hookType, path := range paths {
		if path == "" {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(errors.ErrHookLoad, "%s hook %s: %v", hookType, path, err)
		}
		executor.AddScript(hookType, string(content))
	}
	return nil
}
