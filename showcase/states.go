package main

import (
	"errors"

	"github.com/go-drift/statesync/pkg/state"
)

var errBins = errors.New("bins must be at least 1")

// viewerState models a plot viewer: axis limits apply before bin count so a
// peer's patch never bins against stale limits.
type viewerState struct {
	state.Base
	Title  *state.Prop[string]
	XMin   *state.Prop[float64]
	XMax   *state.Prop[float64]
	Bins   *state.Prop[int]
	Data   *state.Prop[any]
	Cmap   *state.Prop[any]
	Layers *state.List
}

func newViewerState() *viewerState {
	s := &viewerState{}
	s.Title = state.NewProp(s, "title", "untitled")
	s.XMin = state.NewPropWithPriority(s, "x_min", 0.0, 1)
	s.XMax = state.NewPropWithPriority(s, "x_max", 1.0, 1)
	s.Bins = state.NewProp(s, "bins", 64)
	s.Bins.SetValidator(func(v int) error {
		if v < 1 {
			return errBins
		}
		return nil
	})
	s.Data = state.NewProp[any](s, "data", nil)
	s.Cmap = state.NewProp[any](s, "cmap", nil)
	s.Layers = state.NewList(s, "layers")
	return s
}

// layerState is one display layer inside a viewer.
type layerState struct {
	state.Base
	Color     *state.Prop[string]
	Alpha     *state.Prop[float64]
	Zorder    *state.Prop[int]
	Selection *state.Prop[any]
}

func newLayerState() *layerState {
	s := &layerState{}
	s.Color = state.NewProp(s, "color", "gray")
	s.Alpha = state.NewProp(s, "alpha", 1.0)
	s.Zorder = state.NewProp(s, "zorder", 0)
	s.Selection = state.NewProp[any](s, "selection", nil)
	return s
}
