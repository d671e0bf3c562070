package standard

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Registry is an immutable label -> standard lookup. Labels match exactly.
type Registry struct {
	ordered []FabricStandard
	byLabel map[string]FabricStandard
}

// NewRegistry validates the standards and builds a registry preserving their order.
func NewRegistry(standards []FabricStandard) (*Registry, error) {
	if len(standards) == 0 {
		return nil, ErrEmptyRegistry
	}

	reg := &Registry{
		ordered: make([]FabricStandard, 0, len(standards)),
		byLabel: make(map[string]FabricStandard, len(standards)),
	}
	for _, std := range standards {
		if strings.TrimSpace(std.Label) == "" {
			return nil, fmt.Errorf("%w: blank label", ErrInvalidStandard)
		}
		if std.Limit <= 0 || math.IsNaN(std.Limit) || math.IsInf(std.Limit, 0) {
			return nil, fmt.Errorf("%w: %q has limit %v", ErrInvalidStandard, std.Label, std.Limit)
		}
		if _, exists := reg.byLabel[std.Label]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLabel, std.Label)
		}
		reg.byLabel[std.Label] = std
		reg.ordered = append(reg.ordered, std)
	}
	return reg, nil
}

// Default returns a registry holding Defaults.
func Default() *Registry {
	reg, err := NewRegistry(Defaults)
	if err != nil {
		panic(fmt.Sprintf("default fabric standards: %v", err))
	}
	return reg
}

// Lookup returns the standard for label.
func (r *Registry) Lookup(label string) (FabricStandard, bool) {
	if r == nil {
		return FabricStandard{}, false
	}
	std, ok := r.byLabel[label]
	return std, ok
}

// Standards returns a copy of the standards in registration order.
func (r *Registry) Standards() []FabricStandard {
	if r == nil {
		return nil
	}
	out := make([]FabricStandard, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Labels returns the labels in registration order.
func (r *Registry) Labels() []string {
	if r == nil {
		return nil
	}
	labels := make([]string, 0, len(r.ordered))
	for _, std := range r.ordered {
		labels = append(labels, std.Label)
	}
	return labels
}

type registryFile struct {
	Standards []FabricStandard `yaml:"standards"`
}

// Parse builds a registry from a YAML document with a top-level standards list.
func Parse(data []byte) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse standards: %w", err)
	}
	return NewRegistry(file.Standards)
}

// LoadFile reads a YAML standards file.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read standards file: %w", err)
	}
	return Parse(data)
}
