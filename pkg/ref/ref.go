// Package ref provides reference-only handles for values that live outside
// a synchronized state tree: datasets, the selections defined on them, and
// their individual components.
//
// A handle marks a slot in the tree without carrying the data behind it.
// The record encoder reduces every handle to a fixed opaque marker, and the
// patcher never writes the marker back, so handles stay local to their
// process; hosts move the actual payload over their own channels.
package ref

import (
	"fmt"

	"github.com/google/uuid"
)

// Dataset identifies a loaded dataset.
type Dataset struct {
	id    string
	Label string
}

// NewDataset creates a dataset handle with a fresh identity.
func NewDataset(label string) *Dataset {
	return &Dataset{id: uuid.NewString(), Label: label}
}

// NewDatasetWithID restores a handle under a known identity, for hosts that
// persist handle IDs across sessions.
func NewDatasetWithID(id, label string) (*Dataset, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid dataset id %q: %w", id, err)
	}
	return &Dataset{id: id, Label: label}, nil
}

// OpaqueID returns the handle identity.
func (d *Dataset) OpaqueID() string {
	return d.id
}

func (d *Dataset) String() string {
	return fmt.Sprintf("Dataset(%s, %q)", shortID(d.id), d.Label)
}

// Selection identifies a subset of a dataset, such as a lasso or range
// selection made in one view and highlighted in all others.
type Selection struct {
	id      string
	Label   string
	Dataset *Dataset
}

// NewSelection creates a selection handle on ds.
func NewSelection(ds *Dataset, label string) *Selection {
	return &Selection{id: uuid.NewString(), Label: label, Dataset: ds}
}

// OpaqueID returns the handle identity.
func (s *Selection) OpaqueID() string {
	return s.id
}

func (s *Selection) String() string {
	return fmt.Sprintf("Selection(%s, %q)", shortID(s.id), s.Label)
}

// Component identifies a single column of a dataset, such as an axis
// attribute choice.
type Component struct {
	id      string
	Name    string
	Dataset *Dataset
}

// NewComponent creates a component handle on ds.
func NewComponent(ds *Dataset, name string) *Component {
	return &Component{id: uuid.NewString(), Name: name, Dataset: ds}
}

// OpaqueID returns the handle identity.
func (c *Component) OpaqueID() string {
	return c.id
}

func (c *Component) String() string {
	return fmt.Sprintf("Component(%s, %q)", shortID(c.id), c.Name)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
