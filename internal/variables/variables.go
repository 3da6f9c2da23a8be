// Package variables manages named placeholders that are substituted into a
// document's string values before it is written out.
package variables

import (
	"strings"

	"github.com/cockroachdb/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/su2gui/su2cfg/pkg/document"
)

var (
	// ErrInvalidName is returned for a blank variable name.
	ErrInvalidName = errors.New("invalid variable name")

	// ErrVariableNotFound is returned when updating or removing an unknown variable.
	ErrVariableNotFound = errors.New("variable not found")

	// ErrInvalidAssignment is returned for a NAME=VALUE argument without "=".
	ErrInvalidAssignment = errors.New("invalid variable assignment")
)

// Variable is a named placeholder, e.g. __WIDTH__ = 0.055.
type Variable struct {
	Name        string `yaml:"name"`
	Value       string `yaml:"value"`
	Description string `yaml:"description,omitempty"`
}

// Set is an ordered collection of variables keyed by name. Substitution
// follows insertion order.
type Set struct {
	vars *orderedmap.OrderedMap[string, Variable]
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{vars: orderedmap.New[string, Variable]()}
}

// Add defines a variable. Redefining a name replaces its value and
// description but keeps its position.
func (s *Set) Add(name, value, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}

	s.vars.Set(name, Variable{Name: name, Value: value, Description: description})

	return nil
}

// Update replaces the value of an existing variable.
func (s *Set) Update(name, value string) error {
	v, ok := s.vars.Get(name)
	if !ok {
		return errors.Wrap(ErrVariableNotFound, name)
	}

	v.Value = value
	s.vars.Set(name, v)

	return nil
}

// Remove deletes a variable.
func (s *Set) Remove(name string) error {
	if _, ok := s.vars.Delete(name); !ok {
		return errors.Wrap(ErrVariableNotFound, name)
	}

	return nil
}

// Get returns the variable called name.
func (s *Set) Get(name string) (Variable, bool) {
	return s.vars.Get(name)
}

// Len returns the number of variables.
func (s *Set) Len() int {
	if s == nil || s.vars == nil {
		return 0
	}

	return s.vars.Len()
}

// Variables returns all variables in insertion order.
func (s *Set) Variables() []Variable {
	if s.Len() == 0 {
		return nil
	}

	out := make([]Variable, 0, s.vars.Len())
	for pair := s.vars.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}

	return out
}

// Merge adds every variable of o to s; o wins on conflicts.
func (s *Set) Merge(o *Set) {
	for _, v := range o.Variables() {
		s.vars.Set(v.Name, v)
	}
}

// ParseAssignments builds a Set from NAME=VALUE arguments.
func ParseAssignments(args []string) (*Set, error) {
	set := NewSet()

	for _, arg := range args {
		name, value, found := strings.Cut(arg, "=")
		if !found {
			return nil, errors.Wrapf(ErrInvalidAssignment, "%q: expected NAME=VALUE", arg)
		}

		if err := set.Add(name, strings.TrimSpace(value), ""); err != nil {
			return nil, errors.Wrapf(err, "%q", arg)
		}
	}

	return set, nil
}

// Substitute returns a copy of doc in which every occurrence of each
// variable name inside string values, including list elements at any
// depth, is replaced by the variable's value. Variables are applied one
// after another in set order. Non-string values are left alone.
func Substitute(doc *document.Document, set *Set) *document.Document {
	out := doc.Clone()
	if set.Len() == 0 {
		return out
	}

	vars := set.Variables()

	for _, f := range out.Fields() {
		if replaced, changed := substituteValue(f.Value, vars); changed {
			out.Set(f.Key, replaced)
		}
	}

	return out
}

func substituteValue(v document.Value, vars []Variable) (document.Value, bool) {
	if s, ok := v.Str(); ok {
		replaced := replaceAll(s, vars)

		return document.String(replaced), replaced != s
	}

	if !v.IsList() {
		return v, false
	}

	elems := v.Elems()
	out := make([]document.Value, len(elems))
	changed := false

	for i, e := range elems {
		var c bool

		out[i], c = substituteValue(e, vars)
		changed = changed || c
	}

	if !changed {
		return v, false
	}

	return document.List(out...), true
}

func replaceAll(s string, vars []Variable) string {
	for _, v := range vars {
		s = strings.ReplaceAll(s, v.Name, v.Value)
	}

	return s
}
