// Package mission describes the scripted missions and the log markers that identify them.
package mission

import (
	"errors"
	"fmt"

	"github.com/Geun-Oh/uxlog/internal/validation"
)

var (
	// ErrInvalidDescriptor is returned when a descriptor does not have exactly one valid shape.
	ErrInvalidDescriptor = errors.New("mission: invalid descriptor")
	// ErrDuplicateMission is returned when two descriptors share an id.
	ErrDuplicateMission = errors.New("mission: duplicate id")
)

// Shape distinguishes how a mission's markers are structured.
type Shape int

const (
	ShapeSimple Shape = iota
	ShapeTwoStage
	ShapeAB
)

// String returns the identifier of a Shape.
func (s Shape) String() string {
	switch s {
	case ShapeTwoStage:
		return "two_stage"
	case ShapeAB:
		return "ab"
	default:
		return "simple"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Stage is a start/complete marker pair.
type Stage struct {
	Start    string `mapstructure:"start" yaml:"start" json:"start" validate:"required"`
	Complete string `mapstructure:"complete" yaml:"complete" json:"complete" validate:"required"`
}

// Descriptor identifies one mission in the logs.
// Additional makes it a two-stage mission; VariantA and VariantB make it an A/B mission.
type Descriptor struct {
	ID             string `mapstructure:"id" yaml:"id" json:"id" validate:"required"`
	Name           string `mapstructure:"name" yaml:"name" json:"name" validate:"required"`
	ScreenPrefix   string `mapstructure:"screen_prefix" yaml:"screen_prefix" json:"screenPrefix" validate:"required"`
	StartMarker    string `mapstructure:"start_marker" yaml:"start_marker,omitempty" json:"startMarker,omitempty"`
	CompleteMarker string `mapstructure:"complete_marker" yaml:"complete_marker,omitempty" json:"completeMarker,omitempty"`
	// AnswerScreen is the screen whose first button click decides first-try success.
	// Only simple missions use it.
	AnswerScreen string `mapstructure:"answer_screen" yaml:"answer_screen,omitempty" json:"answerScreen,omitempty"`

	Additional *Stage `mapstructure:"additional" yaml:"additional,omitempty" json:"additional,omitempty"`
	VariantA   *Stage `mapstructure:"variant_a" yaml:"variant_a,omitempty" json:"variantA,omitempty"`
	VariantB   *Stage `mapstructure:"variant_b" yaml:"variant_b,omitempty" json:"variantB,omitempty"`
}

// Shape returns the descriptor's shape. Call Validate first; an invalid
// descriptor reports the shape its fields suggest.
func (d *Descriptor) Shape() Shape {
	switch {
	case d.VariantA != nil || d.VariantB != nil:
		return ShapeAB
	case d.Additional != nil:
		return ShapeTwoStage
	default:
		return ShapeSimple
	}
}

// Basic returns the primary start/complete marker pair.
func (d *Descriptor) Basic() Stage {
	return Stage{Start: d.StartMarker, Complete: d.CompleteMarker}
}

func (d Descriptor) clone() Descriptor {
	for _, st := range []**Stage{&d.Additional, &d.VariantA, &d.VariantB} {
		if *st != nil {
			c := **st
			*st = &c
		}
	}
	return d
}

// Validate checks field rules and that exactly one shape is described.
func (d *Descriptor) Validate() error {
	if err := validation.Struct(d); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidDescriptor, d.ID, err)
	}

	hasVariant := d.VariantA != nil || d.VariantB != nil
	switch {
	case hasVariant && d.Additional != nil:
		return fmt.Errorf("%w %q: additional stage and A/B variants are mutually exclusive", ErrInvalidDescriptor, d.ID)
	case hasVariant && (d.VariantA == nil || d.VariantB == nil):
		return fmt.Errorf("%w %q: both variants are required", ErrInvalidDescriptor, d.ID)
	case hasVariant && d.AnswerScreen != "":
		return fmt.Errorf("%w %q: answer screen applies to simple missions only", ErrInvalidDescriptor, d.ID)
	case !hasVariant && (d.StartMarker == "" || d.CompleteMarker == ""):
		return fmt.Errorf("%w %q: start and complete markers are required", ErrInvalidDescriptor, d.ID)
	case d.Additional != nil && d.AnswerScreen != "":
		return fmt.Errorf("%w %q: answer screen applies to simple missions only", ErrInvalidDescriptor, d.ID)
	}
	return nil
}

// Registry is an ordered, read-only set of mission descriptors.
type Registry struct {
	missions []Descriptor
	index    map[string]int
}

// NewRegistry validates the descriptors and returns them as a registry in the given order.
func NewRegistry(ds ...Descriptor) (*Registry, error) {
	r := &Registry{
		missions: make([]Descriptor, 0, len(ds)),
		index:    make(map[string]int, len(ds)),
	}
	for i := range ds {
		d := ds[i]
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.index[d.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateMission, d.ID)
		}
		r.index[d.ID] = len(r.missions)
		r.missions = append(r.missions, d.clone())
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error.
func MustRegistry(ds ...Descriptor) *Registry {
	r, err := NewRegistry(ds...)
	if err != nil {
		panic(err)
	}
	return r
}

// All returns a copy of the descriptors in registry order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, len(r.missions))
	for i, d := range r.missions {
		out[i] = d.clone()
	}
	return out
}

// Get looks up a descriptor by id.
func (r *Registry) Get(id string) (Descriptor, bool) {
	i, ok := r.index[id]
	if !ok {
		return Descriptor{}, false
	}
	return r.missions[i].clone(), true
}

// IDs returns the mission ids in registry order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.missions))
	for i, d := range r.missions {
		ids[i] = d.ID
	}
	return ids
}

// Len returns the number of missions.
func (r *Registry) Len() int {
	return len(r.missions)
}

// Subset returns a registry holding only the given ids, in registry order.
// Unknown ids are an error.
func (r *Registry) Subset(ids ...string) (*Registry, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := r.index[id]; !ok {
			return nil, fmt.Errorf("mission: unknown id %q", id)
		}
		want[id] = true
	}
	var ds []Descriptor
	for _, d := range r.missions {
		if want[d.ID] {
			ds = append(ds, d)
		}
	}
	return NewRegistry(ds...)
}
