package scenario

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

//go:embed builtin/*.yaml
var builtins embed.FS

// Builtins lists the names of the bundled scripts.
func Builtins() []string {
	entries, _ := fs.ReadDir(builtins, "builtin")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// LoadBuiltin returns a bundled script by name.
func LoadBuiltin(name string) (*Script, error) {
	b, err := builtins.ReadFile(path.Join("builtin", name+".yaml"))
	if err != nil {
		return nil, errors.Errorf("unknown builtin scenario %q", name)
	}
	s, err := Parse(b, "yaml")
	if err != nil {
		return nil, errors.Wrapf(err, "builtin %s", name)
	}
	if s.Name == "" {
		s.Name = name
	}
	return s, nil
}
