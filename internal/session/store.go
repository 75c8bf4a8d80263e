package session

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"indesign-mcp/internal/domain"
)

// snapshotVersion tags exported session payloads.
const snapshotVersion = "2.0"

// DocumentInfo describes the active document. It is a free-form record:
// extra fields are tolerated and round-trip through export/import.
type DocumentInfo map[string]any

// PageInfo describes the active page. Same shape rules as DocumentInfo.
type PageInfo map[string]any

// CreatedItem describes the most recently created page object. The
// store stamps a creation timestamp on write.
type CreatedItem map[string]any

// Store is the process-wide record of the current layout context:
// page dimensions, active document and page, and the last created
// item. All getters return copies; callers can never mutate internal
// state through a returned value. A mutex guards all access because
// the hosting MCP runtime may serve tool calls concurrently.
type Store struct {
	mu          sync.Mutex
	cfg         Config
	validator   *Validator
	dims        *domain.PageDimensions
	doc         DocumentInfo
	page        PageInfo
	lastItem    CreatedItem
	createdAt   time.Time
	lastMod     *time.Time
	subscribers []subscriber
	nextSubID   int
}

// NewStore creates a Store with the given configuration.
func NewStore(cfg Config) *Store {
	return &Store{
		cfg:       cfg,
		validator: NewValidator(cfg),
		createdAt: time.Now().UTC(),
	}
}

// Config returns a copy of the active configuration.
func (s *Store) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// ─────────────────────────────────────────────────────────────
// Mutators — validate, commit, then emit
// ─────────────────────────────────────────────────────────────

// SetPageDimensions replaces the stored page dimensions. Dimensions
// must be finite, positive, and no larger than the configured maximum.
func (s *Store) SetPageDimensions(d domain.PageDimensions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if math.IsNaN(d.Width) || math.IsInf(d.Width, 0) || math.IsNaN(d.Height) || math.IsInf(d.Height, 0) {
		return fmt.Errorf("page dimensions must be finite numbers, got %vx%v", d.Width, d.Height)
	}
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("page dimensions must be positive, got %gx%g", d.Width, d.Height)
	}
	if d.Width > s.cfg.MaxDimension || d.Height > s.cfg.MaxDimension {
		return fmt.Errorf("page dimensions %gx%g exceed the maximum of %g mm", d.Width, d.Height, s.cfg.MaxDimension)
	}
	var old any
	if s.dims != nil {
		old = *s.dims
	}
	c := d
	s.dims = &c
	s.touch()
	s.emit(Event{Type: EventDimensionsChanged, Old: old, New: d})
	return nil
}

// PageDimensions returns a copy of the stored dimensions, or nil.
func (s *Store) PageDimensions() *domain.PageDimensions {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dims == nil {
		return nil
	}
	c := *s.dims
	return &c
}

// SetActiveDocument replaces the active document record. Pass nil to
// clear it.
func (s *Store) SetActiveDocument(info DocumentInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.doc
	s.doc = deepCopy(info)
	s.touch()
	s.emit(Event{Type: EventDocumentChanged, Old: recordOrNil(old), New: recordOrNil(deepCopy(info))})
	return nil
}

// ActiveDocument returns a copy of the active document record, or nil.
func (s *Store) ActiveDocument() DocumentInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return DocumentInfo(deepCopy(s.doc))
}

// SetActivePage replaces the active page record. Pass nil to clear it.
func (s *Store) SetActivePage(info PageInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.page
	s.page = deepCopy(info)
	s.touch()
	s.emit(Event{Type: EventPageChanged, Old: recordOrNil(old), New: recordOrNil(deepCopy(info))})
	return nil
}

// ActivePage returns a copy of the active page record, or nil.
func (s *Store) ActivePage() PageInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PageInfo(deepCopy(s.page))
}

// SetLastCreatedItem records the most recently created page object and
// stamps it with a creation timestamp.
func (s *Store) SetLastCreatedItem(info CreatedItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.lastItem
	item := deepCopy(info)
	if item != nil {
		item["createdAt"] = time.Now().UTC().Format(time.RFC3339Nano)
	}
	s.lastItem = item
	s.touch()
	s.emit(Event{Type: EventItemCreated, Old: recordOrNil(old), New: recordOrNil(deepCopy(item))})
	return nil
}

// LastCreatedItem returns a copy of the last created item, or nil.
func (s *Store) LastCreatedItem() CreatedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CreatedItem(deepCopy(s.lastItem))
}

// PageBounds derives the safe/absolute/center geometry for the current
// page, or nil when no dimensions are set.
func (s *Store) PageBounds() *domain.PageBounds {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dims == nil {
		return nil
	}
	b := s.validator.ComputeBounds(*s.dims, s.cfg.DefaultMargin)
	return &b
}

// ClearSession resets all fields except those named in preserve
// (pageDimensions, activeDocument, activePage, lastCreatedItem). The
// creation timestamp is re-stamped and lastModified is cleared.
func (s *Store) ClearSession(preserve []string) {
	keep := map[string]bool{}
	for _, name := range preserve {
		keep[name] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.dataLocked()
	if !keep["pageDimensions"] {
		s.dims = nil
	}
	if !keep["activeDocument"] {
		s.doc = nil
	}
	if !keep["activePage"] {
		s.page = nil
	}
	if !keep["lastCreatedItem"] {
		s.lastItem = nil
	}
	s.createdAt = time.Now().UTC()
	s.lastMod = nil
	s.emit(Event{Type: EventSessionCleared, Old: snapshot, Preserve: preserve})
}

// ─────────────────────────────────────────────────────────────
// Introspection and persistence
// ─────────────────────────────────────────────────────────────

// Summary is a single introspectable snapshot of the session for
// diagnostics.
type Summary struct {
	HasPageDimensions  bool                   `json:"hasPageDimensions"`
	HasActiveDocument  bool                   `json:"hasActiveDocument"`
	HasActivePage      bool                   `json:"hasActivePage"`
	HasLastCreatedItem bool                   `json:"hasLastCreatedItem"`
	PageDimensions     *domain.PageDimensions `json:"pageDimensions"`
	ActiveDocument     DocumentInfo           `json:"activeDocument"`
	ActivePage         PageInfo               `json:"activePage"`
	LastCreatedItem    CreatedItem            `json:"lastCreatedItem"`
	PageBounds         *domain.PageBounds     `json:"pageBounds"`
	CreatedAt          time.Time              `json:"createdAt"`
	LastModified       *time.Time             `json:"lastModified"`
	Config             Config                 `json:"config"`
}

// Summary returns a copy-safe snapshot of the whole session.
func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := Summary{
		HasPageDimensions:  s.dims != nil,
		HasActiveDocument:  s.doc != nil,
		HasActivePage:      s.page != nil,
		HasLastCreatedItem: s.lastItem != nil,
		ActiveDocument:     DocumentInfo(deepCopy(s.doc)),
		ActivePage:         PageInfo(deepCopy(s.page)),
		LastCreatedItem:    CreatedItem(deepCopy(s.lastItem)),
		CreatedAt:          s.createdAt,
		Config:             s.cfg,
	}
	if s.dims != nil {
		c := *s.dims
		sum.PageDimensions = &c
		b := s.validator.ComputeBounds(c, s.cfg.DefaultMargin)
		sum.PageBounds = &b
	}
	if s.lastMod != nil {
		t := *s.lastMod
		sum.LastModified = &t
	}
	return sum
}

// sessionData is the persisted session payload.
type sessionData struct {
	PageDimensions  *domain.PageDimensions `json:"pageDimensions"`
	ActiveDocument  DocumentInfo           `json:"activeDocument"`
	ActivePage      PageInfo               `json:"activePage"`
	LastCreatedItem CreatedItem            `json:"lastCreatedItem"`
	CreatedAt       time.Time              `json:"createdAt"`
	LastModified    *time.Time             `json:"lastModified"`
}

type snapshotEnvelope struct {
	SessionData *sessionData    `json:"sessionData"`
	Config      json.RawMessage `json:"config"`
	Version     string          `json:"version"`
}

// Export serializes the session, configuration, and version to JSON.
func (s *Store) Export() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := s.dataLocked()
	payload, err := json.Marshal(map[string]any{
		"sessionData": data,
		"config":      s.cfg,
		"version":     snapshotVersion,
	})
	if err != nil {
		return "", fmt.Errorf("export session: %w", err)
	}
	return string(payload), nil
}

// Import restores a session from an exported payload. It returns false
// without modifying state when the payload cannot be parsed or lacks
// the expected version/sessionData shape. Config fields present in the
// payload overwrite the current ones; the session data is replaced
// wholesale.
func (s *Store) Import(payload string) bool {
	var env snapshotEnvelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		log.Printf("session: import rejected: %v", err)
		return false
	}
	if env.Version == "" || env.SessionData == nil {
		log.Printf("session: import rejected: missing version or sessionData")
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(env.Config) > 0 {
		s.mergeConfigLocked(env.Config)
		s.validator = NewValidator(s.cfg)
	}
	d := env.SessionData
	s.dims = nil
	if d.PageDimensions != nil {
		c := *d.PageDimensions
		s.dims = &c
	}
	s.doc = deepCopy(d.ActiveDocument)
	s.page = deepCopy(d.ActivePage)
	s.lastItem = deepCopy(d.LastCreatedItem)
	s.createdAt = d.CreatedAt
	s.lastMod = nil
	if d.LastModified != nil {
		t := *d.LastModified
		s.lastMod = &t
	}
	s.emit(Event{Type: EventSessionImported, New: s.dataLocked()})
	return true
}

// mergeConfigLocked applies a partial config object, keeping current
// values for absent keys. Unknown keys are ignored.
func (s *Store) mergeConfigLocked(raw json.RawMessage) {
	var partial map[string]json.RawMessage
	if err := json.Unmarshal(raw, &partial); err != nil {
		return
	}
	setFloat := func(key string, dst *float64) {
		if v, ok := partial[key]; ok {
			var f float64
			if json.Unmarshal(v, &f) == nil {
				*dst = f
			}
		}
	}
	setFloat("defaultMargin", &s.cfg.DefaultMargin)
	setFloat("minMargin", &s.cfg.MinMargin)
	setFloat("minDimension", &s.cfg.MinDimension)
	setFloat("maxDimension", &s.cfg.MaxDimension)
	if v, ok := partial["precision"]; ok {
		var p int
		if json.Unmarshal(v, &p) == nil {
			s.cfg.Precision = p
		}
	}
}

// dataLocked builds the persisted payload from current state. Caller
// must hold the mutex.
func (s *Store) dataLocked() *sessionData {
	data := &sessionData{
		ActiveDocument:  DocumentInfo(deepCopy(s.doc)),
		ActivePage:      PageInfo(deepCopy(s.page)),
		LastCreatedItem: CreatedItem(deepCopy(s.lastItem)),
		CreatedAt:       s.createdAt,
	}
	if s.dims != nil {
		c := *s.dims
		data.PageDimensions = &c
	}
	if s.lastMod != nil {
		t := *s.lastMod
		data.LastModified = &t
	}
	return data
}

// touch stamps lastModified. Caller must hold the mutex.
func (s *Store) touch() {
	now := time.Now().UTC()
	s.lastMod = &now
}

// recordOrNil converts a nil map into a true nil interface so event
// consumers can compare against nil directly.
func recordOrNil(m map[string]any) any {
	if m == nil {
		return nil
	}
	return m
}

// deepCopy clones a free-form record so callers cannot mutate
// store-owned state through a returned reference.
func deepCopy(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopy(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}
