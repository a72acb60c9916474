package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"sort"

	"github.com/san-kum/shipsim/internal/craft"
	"github.com/san-kum/shipsim/internal/dynamo"
	"github.com/san-kum/shipsim/internal/parts"
	"gopkg.in/yaml.v3"
)

//go:embed salvage.yaml
var salvage []byte

// DefaultShipName is the ship list DefaultShip assembles.
const DefaultShipName = "default"

type file struct {
	Parts []Entry             `yaml:"parts"`
	Ships map[string][]string `yaml:"ships"`
}

// Catalog is a salvage inventory. Take removes what it hands out, so a
// catalog is not safe for concurrent use; the ships built from it are.
type Catalog struct {
	entries []Entry
	ships   map[string][]string
}

func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	seen := make(map[string]bool, len(f.Parts))
	for _, e := range f.Parts {
		if _, err := e.Kind(); err != nil {
			return nil, err
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("%w: duplicate catalog entry %q", dynamo.ErrInvalidPart, e.Name)
		}
		seen[e.Name] = true
	}

	if f.Ships == nil {
		f.Ships = map[string][]string{}
	}
	return &Catalog{entries: f.Parts, ships: f.Ships}, nil
}

func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Default returns a fresh copy of the built-in salvage field.
func Default() *Catalog {
	c, err := Parse(salvage)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

func (c *Catalog) Len() int { return len(c.entries) }

func (c *Catalog) Entries() []Entry { return slices.Clone(c.entries) }

// List groups the remaining part names by category, in catalog order.
func (c *Catalog) List() map[string][]string {
	out := make(map[string][]string)
	for _, e := range c.entries {
		out[e.Category] = append(out[e.Category], e.Name)
	}
	return out
}

func (c *Catalog) ShipNames() []string {
	names := make([]string, 0, len(c.ships))
	for name := range c.ships {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Catalog) index(category, name string) int {
	return slices.IndexFunc(c.entries, func(e Entry) bool {
		return e.Name == name && (category == "" || e.Category == category)
	})
}

// Get builds the named part without removing it. An empty category matches
// any.
func (c *Catalog) Get(category, name string) (parts.Part, error) {
	i := c.index(category, name)
	if i < 0 {
		return parts.Part{}, fmt.Errorf("%w: %q in category %q", dynamo.ErrUnknownPart, name, category)
	}
	return c.entries[i].Part()
}

// Take builds the named part and removes it from the inventory.
func (c *Catalog) Take(category, name string) (parts.Part, error) {
	p, err := c.Get(category, name)
	if err != nil {
		return parts.Part{}, err
	}
	c.entries = slices.Delete(c.entries, c.index(category, name), c.index(category, name)+1)
	return p, nil
}

// Build takes the named parts, in order, and assembles them. On failure the
// inventory is left unchanged.
func (c *Catalog) Build(names ...string) (*craft.Spaceship, error) {
	saved := slices.Clone(c.entries)

	ps := make([]parts.Part, 0, len(names))
	for _, name := range names {
		p, err := c.Take("", name)
		if err != nil {
			c.entries = saved
			return nil, err
		}
		ps = append(ps, p)
	}

	ship, err := craft.New(ps...)
	if err != nil {
		c.entries = saved
		return nil, err
	}
	return ship, nil
}

// Ship builds one of the catalog's named part lists.
func (c *Catalog) Ship(name string) (*craft.Spaceship, error) {
	names, ok := c.ships[name]
	if !ok {
		return nil, fmt.Errorf("unknown ship: %s", name)
	}
	return c.Build(names...)
}

func (c *Catalog) ShipParts(name string) ([]string, bool) {
	names, ok := c.ships[name]
	return slices.Clone(names), ok
}

// DefaultShip assembles the default ship from the built-in salvage field.
func DefaultShip() (*craft.Spaceship, error) {
	return Default().Ship(DefaultShipName)
}
