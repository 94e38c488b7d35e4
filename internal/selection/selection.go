// Package selection owns the set of selected map features, their
// aggregate bounds, and selection-change events.
package selection

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"

	"geoedit/internal/events"
	"geoedit/internal/geomath"
	"geoedit/internal/surface"
)

// SelectedFeature wraps a feature under selection. The feature payload
// stays owned by the map's data source; the selection holds a reference
// plus the provenance needed to route writes back.
type SelectedFeature struct {
	ID       string
	Feature  *geojson.Feature
	SourceID string
	LayerID  string
	Current  bool // true for at most one feature: the most recent selection
}

// EventType enumerates selection events. EventChange is synthetic: it
// fires after the specific event for every mutation, carrying the same
// payload with the type rewritten.
type EventType string

const (
	EventSelect   EventType = "select"
	EventDeselect EventType = "deselect"
	EventClear    EventType = "clear"
	EventChange   EventType = "change"
)

// Event is the payload for every selection event type.
type Event struct {
	Type     EventType
	Selected []SelectedFeature
	Bounds   *geomath.Bounds
}

// Options configures a Store.
type Options struct {
	SourceID string // highlight overlay source, defaults to "edit-selection"
	LayerID  string // defaults to SourceID
	Logger   zerolog.Logger
}

// Store owns the selection set. Mutations recompute bounds synchronously
// and refresh the highlight overlay before listeners are notified.
type Store struct {
	surf surface.Surface
	opts Options
	log  zerolog.Logger

	order   []string
	byID    map[string]SelectedFeature
	bounds  *geomath.Bounds
	emitter *events.Emitter[EventType, Event]
}

func NewStore(surf surface.Surface, opts Options) *Store {
	if opts.SourceID == "" {
		opts.SourceID = "edit-selection"
	}
	if opts.LayerID == "" {
		opts.LayerID = opts.SourceID
	}
	s := &Store{
		surf:    surf,
		opts:    opts,
		log:     opts.Logger.With().Str("component", "selection").Logger(),
		byID:    make(map[string]SelectedFeature),
		emitter: events.NewEmitter[EventType, Event](),
	}
	surf.AddSource(opts.SourceID, geojson.NewFeatureCollection())
	surf.AddLayer(surface.LayerSpec{
		ID:      opts.LayerID,
		Source:  opts.SourceID,
		Type:    surface.LayerLine,
		Visible: true,
	})
	return s
}

// On subscribes to one selection event type. Subscribe to EventChange
// for a single "selection state is now X" stream.
func (s *Store) On(t EventType, fn func(Event)) events.Disposer {
	return s.emitter.On(t, fn)
}

// Select inserts (or overwrites) the feature in the selection set. When
// setAsCurrent is true every other entry loses its current flag first.
// A feature without an id gets a generated fallback id.
func (s *Store) Select(f *geojson.Feature, sourceID, layerID string, setAsCurrent bool) SelectedFeature {
	id := FeatureID(f)
	if setAsCurrent {
		for k, v := range s.byID {
			if v.Current {
				v.Current = false
				s.byID[k] = v
			}
		}
	}
	sel := SelectedFeature{
		ID:       id,
		Feature:  f,
		SourceID: sourceID,
		LayerID:  layerID,
		Current:  setAsCurrent,
	}
	if _, ok := s.byID[id]; !ok {
		s.order = append(s.order, id)
	}
	s.byID[id] = sel
	s.refresh()
	s.log.Debug().Str("feature", id).Bool("current", setAsCurrent).Msg("select")
	s.emit(EventSelect)
	return sel
}

// Deselect removes a feature by id; false if it was not selected.
func (s *Store) Deselect(id string) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.refresh()
	s.emit(EventDeselect)
	return true
}

// Clear empties the selection. Clearing an already empty selection is a
// no-op and emits nothing.
func (s *Store) Clear() {
	if len(s.order) == 0 {
		return
	}
	s.order = nil
	s.byID = make(map[string]SelectedFeature)
	s.refresh()
	s.emit(EventClear)
}

// Selection returns the selected features in insertion order.
func (s *Store) Selection() []SelectedFeature {
	out := make([]SelectedFeature, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Get returns the selected feature with the given id.
func (s *Store) Get(id string) (SelectedFeature, bool) {
	v, ok := s.byID[id]
	return v, ok
}

// Bounds returns the combined bounds snapshot, nil iff the selection is
// empty.
func (s *Store) Bounds() *geomath.Bounds { return s.bounds }

// SourceID returns the id of the highlight overlay source.
func (s *Store) SourceID() string { return s.opts.SourceID }

// SetGeometry replaces the geometry of a selected feature (used when a
// transform commits) and recomputes bounds. Emits only the synthetic
// change event: the selection membership did not change.
func (s *Store) SetGeometry(id string, g orb.Geometry) bool {
	v, ok := s.byID[id]
	if !ok || v.Feature == nil {
		return false
	}
	v.Feature.Geometry = g
	s.refresh()
	s.emitter.Emit(EventChange, Event{Type: EventChange, Selected: s.Selection(), Bounds: s.bounds})
	return true
}

// refresh recomputes bounds and redraws the highlight overlay.
func (s *Store) refresh() {
	features := make([]*geojson.Feature, 0, len(s.order))
	for _, id := range s.order {
		features = append(features, s.byID[id].Feature)
	}
	s.bounds = geomath.ComputeBounds(features)

	fc := geojson.NewFeatureCollection()
	if s.bounds != nil {
		outline := geojson.NewFeature(geomath.BBoxPolygon(s.bounds.BBox))
		outline.ID = "selection-bounds"
		fc.Append(outline)
	}
	s.surf.UpdateSourceData(s.opts.SourceID, fc)
}

func (s *Store) emit(t EventType) {
	ev := Event{Type: t, Selected: s.Selection(), Bounds: s.bounds}
	s.emitter.Emit(t, ev)
	ev.Type = EventChange
	s.emitter.Emit(EventChange, ev)
}

// FeatureID returns the feature's own id as a string, or a generated
// fallback id when the feature carries none.
func FeatureID(f *geojson.Feature) string {
	if f != nil && f.ID != nil {
		if s, ok := f.ID.(string); ok && s != "" {
			return s
		}
		return fmt.Sprint(f.ID)
	}
	id := uuid.NewString()
	if f != nil {
		f.ID = id
	}
	return id
}
