// Package lookup serves the naming tables that turn raw league data into
// canonical names: team keys, machine aliases and venue machine overrides.
package lookup

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"unicode"

	"gopkg.in/yaml.v3"
)

// VenueOverride curates the machine list of one venue.
type VenueOverride struct {
	Included []string `yaml:"included" json:"included"`
	Excluded []string `yaml:"excluded" json:"excluded"`
}

// Document is the on-disk layout of the lookup tables.
type Document struct {
	// Teams maps team keys to display names.
	Teams map[string]string `yaml:"teams"`
	// Machines lists canonical machine names.
	Machines []string `yaml:"machines"`
	// Aliases maps alternative spellings to canonical machine names.
	Aliases map[string]string `yaml:"machine_aliases"`
	// Venues holds machine overrides keyed by venue name.
	Venues map[string]VenueOverride `yaml:"venue_overrides"`
}

type index struct {
	teams     map[string]string
	canonical map[string]string // machine key -> canonical name
	aliases   map[string]string // alias as written -> canonical name
	venues    map[string]VenueOverride
}

// Tables answers naming lookups. Reads are safe while Replace swaps in a
// reloaded document.
type Tables struct {
	mu  sync.RWMutex
	idx index
}

// New builds Tables from doc.
func New(doc Document) *Tables {
	return &Tables{idx: build(doc)}
}

// Parse decodes YAML (or JSON) lookup tables.
func Parse(data []byte) (*Tables, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseTables, err)
	}
	return New(doc), nil
}

// Load reads lookup tables from path. An empty path yields the built-in
// machine aliases.
func Load(path string) (*Tables, error) {
	if strings.TrimSpace(path) == "" {
		return New(DefaultDocument()), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadTables, err)
	}
	return Parse(data)
}

func build(doc Document) index {
	idx := index{
		teams:     make(map[string]string, len(doc.Teams)),
		canonical: make(map[string]string),
		aliases:   make(map[string]string, len(doc.Aliases)),
		venues:    make(map[string]VenueOverride, len(doc.Venues)),
	}
	for k, v := range doc.Teams {
		idx.teams[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	for _, m := range doc.Machines {
		if k := machineKey(m); k != "" {
			idx.canonical[k] = strings.TrimSpace(m)
		}
	}
	// canonical targets first so an alias never shadows a real machine name
	for _, target := range doc.Aliases {
		if k := machineKey(target); k != "" {
			if _, ok := idx.canonical[k]; !ok {
				idx.canonical[k] = strings.TrimSpace(target)
			}
		}
	}
	for alias, target := range doc.Aliases {
		target = strings.TrimSpace(target)
		if c, ok := idx.canonical[machineKey(target)]; ok {
			target = c
		}
		idx.aliases[strings.TrimSpace(alias)] = target
		if k := machineKey(alias); k != "" {
			if _, ok := idx.canonical[k]; !ok {
				idx.canonical[k] = target
			}
		}
	}
	for venue, ov := range doc.Venues {
		idx.venues[strings.ToLower(strings.TrimSpace(venue))] = ov
	}
	return idx
}

// machineKey strips case, whitespace and punctuation: "AC/DC", "ACDC" and
// "acdc" share a key.
func machineKey(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Replace swaps the tables for those held by other.
func (t *Tables) Replace(other *Tables) {
	other.mu.RLock()
	idx := other.idx
	other.mu.RUnlock()

	t.mu.Lock()
	t.idx = idx
	t.mu.Unlock()
}

// TeamName resolves a team key, returning "" for unknown keys.
func (t *Tables) TeamName(key string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.idx.teams[strings.TrimSpace(key)]
}

// CanonicalMachine resolves a machine name or alias to its canonical name.
// Unknown names come back trimmed.
func (t *Tables) CanonicalMachine(name string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.canonicalLocked(name)
}

func (t *Tables) canonicalLocked(name string) string {
	if c, ok := t.idx.canonical[machineKey(name)]; ok {
		return c
	}
	return strings.TrimSpace(name)
}

// MachineVariations lists the spellings a machine may be stored under: case
// variants of the name, its canonical name and every alias of it.
func (t *Tables) MachineVariations(name string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	set := make(map[string]struct{})
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		set[s] = struct{}{}
		set[strings.ToLower(s)] = struct{}{}
		set[strings.ToUpper(s)] = struct{}{}
		set[capitalize(s)] = struct{}{}
	}
	add(name)
	canonical := t.canonicalLocked(name)
	add(canonical)
	key := machineKey(canonical)
	for alias, target := range t.idx.aliases {
		if machineKey(target) == key {
			add(alias)
		}
	}

	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	lower := []rune(strings.ToLower(s))
	lower[0] = unicode.ToUpper(lower[0])
	return string(lower)
}

// VenueOverrides returns the curated lists for venue, or empty lists.
func (t *Tables) VenueOverrides(venue string) VenueOverride {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ov, ok := t.idx.venues[strings.ToLower(strings.TrimSpace(venue))]
	if !ok {
		return VenueOverride{Included: []string{}, Excluded: []string{}}
	}
	return ov
}

// Apply removes the venue's excluded machines from machines and appends its
// included machines that are not already present. Names are compared by
// canonical machine, and included names are returned in the lower-case
// canonical form used by processed scores.
func (t *Tables) Apply(venue string, machines []string) []string {
	ov := t.VenueOverrides(venue)
	if len(ov.Included) == 0 && len(ov.Excluded) == 0 {
		return machines
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	excluded := make(map[string]struct{}, len(ov.Excluded))
	for _, m := range ov.Excluded {
		excluded[machineKey(t.canonicalLocked(m))] = struct{}{}
	}

	out := make([]string, 0, len(machines)+len(ov.Included))
	present := make(map[string]struct{}, len(machines))
	for _, m := range machines {
		k := machineKey(t.canonicalLocked(m))
		if _, drop := excluded[k]; drop {
			continue
		}
		present[k] = struct{}{}
		out = append(out, m)
	}
	for _, m := range ov.Included {
		canonical := t.canonicalLocked(m)
		k := machineKey(canonical)
		if _, ok := present[k]; ok {
			continue
		}
		present[k] = struct{}{}
		out = append(out, strings.ToLower(canonical))
	}
	return out
}
