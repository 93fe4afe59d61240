package graphstore

import "github.com/orneryd/graphstore/pkg/typecatalog"

// TimeRepresentation selects how a dynamic (time-indexed) column stores
// its values, per spec §4.E.
type TimeRepresentation int

const (
	// Timestamp stores a map[float64]value — a point-in-time value.
	Timestamp TimeRepresentation = iota
	// Interval stores a set of [low, high] intervals mapped to values.
	Interval
)

// SpatialIndex is the seam for the out-of-scope spatial index
// collaborator named in spec §1. The core never implements or depends on
// one; a caller who needs spatial queries supplies an implementation via
// WithSpatialIndexHook and the core calls OnNodeAdded and OnNodeRemoved as
// nodes enter and leave the graph. Attribute changes are not reported to
// the hook.
type SpatialIndex interface {
	OnNodeAdded(storeID int)
	OnNodeRemoved(storeID int)
}

// Config is the value struct every Graph is constructed from. It is never
// loaded from a file by the core itself (file/env loading is an outer
// concern — see cmd/graphstore-cli); callers build one with functional
// options, matching the teacher's GraphOption pattern.
type Config struct {
	NodeIDType         typecatalog.Type
	EdgeIDType         typecatalog.Type
	EdgeWeightType     typecatalog.Type
	EdgeWeightColumn   bool
	TimeRepresentation TimeRepresentation
	AutoLocking        bool
	EnableObservers    bool
	EnableIndexTime    bool
	SpatialIndex       SpatialIndex

	// initialObserverDiffTracking requests one diff-tracking observer be
	// created automatically at construction time, for callers who want
	// to start observing from the very first mutation instead of racing
	// to call NewObserver after New returns.
	initialObserverDiffTracking bool
}

// defaultConfig mirrors the teacher's pattern of a single zero-value-safe
// base that every functional option mutates.
func defaultConfig() Config {
	return Config{
		NodeIDType:         typecatalog.String,
		EdgeIDType:         typecatalog.String,
		EdgeWeightType:     typecatalog.Float64,
		EdgeWeightColumn:   true,
		TimeRepresentation: Timestamp,
		AutoLocking:        true,
		EnableObservers:    true,
		EnableIndexTime:    true,
	}
}

// GraphOption configures a Graph at construction time.
type GraphOption func(*Config)

// WithNodeIDType sets the static type enforced for node user ids.
func WithNodeIDType(t typecatalog.Type) GraphOption {
	return func(c *Config) { c.NodeIDType = t }
}

// WithEdgeIDType sets the static type enforced for edge user ids.
func WithEdgeIDType(t typecatalog.Type) GraphOption {
	return func(c *Config) { c.EdgeIDType = t }
}

// WithEdgeWeightType sets the static type of the weight column.
func WithEdgeWeightType(t typecatalog.Type) GraphOption {
	return func(c *Config) { c.EdgeWeightType = t }
}

// WithEdgeWeightColumn toggles whether a weight column exists at all.
func WithEdgeWeightColumn(enabled bool) GraphOption {
	return func(c *Config) { c.EdgeWeightColumn = enabled }
}

// WithTimeRepresentation selects TIMESTAMP or INTERVAL dynamic-attribute
// storage.
func WithTimeRepresentation(r TimeRepresentation) GraphOption {
	return func(c *Config) { c.TimeRepresentation = r }
}

// WithAutoLocking toggles automatic lock acquisition on every operation.
// Single-threaded callers may disable it for zero lock overhead.
func WithAutoLocking(enabled bool) GraphOption {
	return func(c *Config) { c.AutoLocking = enabled }
}

// WithObservers sets EnableObservers and, if trackDiffsFromStart is true,
// creates one diff-tracking observer immediately at construction
// (retrievable via Graph.Observers). Version counters and notification of
// registered observers run whether or not EnableObservers is set; the
// flag only gates the observer created at construction.
func WithObservers(trackDiffsFromStart bool) GraphOption {
	return func(c *Config) {
		c.EnableObservers = true
		c.initialObserverDiffTracking = trackDiffsFromStart
	}
}

// WithSpatialIndexHook wires an external spatial-index collaborator.
func WithSpatialIndexHook(idx SpatialIndex) GraphOption {
	return func(c *Config) { c.SpatialIndex = idx }
}

// WithIndexTime toggles maintenance of the time store's reverse index
// (which elements are active at time t).
func WithIndexTime(enabled bool) GraphOption {
	return func(c *Config) { c.EnableIndexTime = enabled }
}
