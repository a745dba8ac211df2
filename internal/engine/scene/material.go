package scene

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultMaterialName is assigned to new entities.
const DefaultMaterialName = "BaseWhite"

//go:embed materials.yaml
var builtinMaterials []byte

// Material is a flat-shaded surface description.
type Material struct {
	Name    string
	Diffuse Color
}

type materialFile struct {
	Materials map[string]struct {
		Diffuse [4]float32 `yaml:"diffuse"`
	} `yaml:"materials"`
}

// MaterialLibrary maps material names to materials.
type MaterialLibrary struct {
	materials map[string]Material
}

// NewMaterialLibrary creates a library containing only BaseWhite.
func NewMaterialLibrary() *MaterialLibrary {
	return &MaterialLibrary{
		materials: map[string]Material{
			DefaultMaterialName: {Name: DefaultMaterialName, Diffuse: Color{1, 1, 1, 1}},
		},
	}
}

// DefaultMaterials returns a library with the built-in materials.
func DefaultMaterials() *MaterialLibrary {
	lib := NewMaterialLibrary()
	if err := lib.Load(builtinMaterials); err != nil {
		panic(fmt.Sprintf("built-in materials: %v", err))
	}
	return lib
}

// LoadMaterials returns the built-in materials merged with the file at path.
// An empty path yields the built-ins.
func LoadMaterials(path string) (*MaterialLibrary, error) {
	lib := DefaultMaterials()
	if path == "" {
		return lib, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading materials: %w", err)
	}
	if err := lib.Load(data); err != nil {
		return nil, fmt.Errorf("loading materials from %s: %w", path, err)
	}
	return lib, nil
}

// Load merges YAML material definitions into the library.
func (l *MaterialLibrary) Load(data []byte) error {
	var f materialFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return err
	}
	for name, def := range f.Materials {
		if name == "" {
			return fmt.Errorf("material with empty name")
		}
		d := def.Diffuse
		l.materials[name] = Material{Name: name, Diffuse: Color{d[0], d[1], d[2], d[3]}}
	}
	return nil
}

// Get returns the named material.
func (l *MaterialLibrary) Get(name string) (Material, bool) {
	m, ok := l.materials[name]
	return m, ok
}

// Names returns the material names, sorted.
func (l *MaterialLibrary) Names() []string {
	names := make([]string, 0, len(l.materials))
	for name := range l.materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
