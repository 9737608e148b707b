package experiment

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/san-kum/floatsim/internal/config"
	"github.com/san-kum/floatsim/internal/design"
)

// PresetPrefix marks a design reference as a built-in preset.
const PresetPrefix = "preset:"

// Registry resolves design references: file paths or named presets.
type Registry struct {
	presets map[string]func() (*design.Description, error)
}

func NewRegistry() *Registry {
	r := &Registry{presets: make(map[string]func() (*design.Description, error))}
	for _, name := range config.ListPresets() {
		r.Register(name, func() (*design.Description, error) { return config.LoadPreset(name) })
	}
	return r
}

// Register adds or replaces a named design.
func (r *Registry) Register(name string, fn func() (*design.Description, error)) {
	r.presets[name] = fn
}

func (r *Registry) ListPresets() []string {
	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Preset(name string) (*design.Description, error) {
	fn, ok := r.presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown preset %q", design.ErrNotFound, name)
	}
	return fn()
}

// Resolve loads ref, which is either "preset:<name>", a design file path,
// or a bare preset name when no such file exists. It also returns the
// source string recorded with runs.
func (r *Registry) Resolve(ref string) (*design.Description, string, error) {
	if name, ok := strings.CutPrefix(ref, PresetPrefix); ok {
		desc, err := r.Preset(name)
		return desc, ref, err
	}
	if _, err := os.Stat(ref); err != nil {
		if _, ok := r.presets[ref]; ok {
			desc, err := r.Preset(ref)
			return desc, PresetPrefix + ref, err
		}
	}
	desc, err := design.Load(ref)
	return desc, ref, err
}
