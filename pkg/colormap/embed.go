package colormap

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed colormaps.yaml
var builtinData []byte

type builtinTable struct {
	Colormaps []builtinEntry `yaml:"colormaps"`
}

type builtinEntry struct {
	Name  string `yaml:"name"`
	Stops []Stop `yaml:"stops"`
}

// The built-in table is a build-time asset; a malformed entry is a bug in
// this package, not a runtime condition.
func init() {
	var table builtinTable
	if err := yaml.Unmarshal(builtinData, &table); err != nil {
		panic(fmt.Sprintf("colormap: invalid built-in table: %v", err))
	}
	for _, entry := range table.Colormaps {
		cm, err := New(entry.Name, entry.Stops)
		if err != nil {
			panic(fmt.Sprintf("colormap: invalid built-in %q: %v", entry.Name, err))
		}
		if err := Register(cm); err != nil {
			panic(fmt.Sprintf("colormap: %v", err))
		}
	}
}
