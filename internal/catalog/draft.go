package catalog

import (
	"errors"
	"sync"
	"time"

	"github.com/bobby0007/internal-CRM/pkg/models"
)

// ErrNoDraft is returned when edits arrive before a catalog was fetched.
var ErrNoDraft = errors.New("no template catalog fetched for this key")

// Key identifies one catalog: an application plus channel and mode.
type Key struct {
	AID               string `json:"aid"`
	Channel           string `json:"channel"`
	CommunicationMode string `json:"communicationMode"`
}

// Draft is the staged, in-memory copy of a catalog under edit. Edits never
// touch the upstream until an explicit save commits the whole snapshot.
type Draft struct {
	Key                 Key
	Catalog             models.TemplateCatalog
	DefaultTemplateCode string
	FetchedAt           time.Time
}

// DraftStore holds catalog drafts per key. The ephemeral in-memory copy is
// deliberate: fetch replaces the draft wholesale, nothing persists.
type DraftStore struct {
	mu     sync.Mutex
	drafts map[Key]*Draft
}

func NewDraftStore() *DraftStore {
	return &DraftStore{drafts: map[Key]*Draft{}}
}

// Put replaces the draft for a key with a freshly fetched catalog and
// returns its view.
func (s *DraftStore) Put(key Key, cat models.TemplateCatalog) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cat.LoadBalanceTemplates == nil {
		cat.LoadBalanceTemplates = map[string][]models.TemplateInfo{}
	}
	s.drafts[key] = &Draft{Key: key, Catalog: cat, FetchedAt: time.Now()}
	return BuildView(cat)
}

// View returns the current draft view for a key.
func (s *DraftStore) View(key Key) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[key]
	if !ok {
		return View{}, ErrNoDraft
	}
	return BuildView(draft.Catalog), nil
}

// Mutate applies fn to the draft under the store lock and returns the
// resulting view. The error from fn is passed through unchanged.
func (s *DraftStore) Mutate(key Key, fn func(*Draft) error) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[key]
	if !ok {
		return View{}, ErrNoDraft
	}
	if err := fn(draft); err != nil {
		return View{}, err
	}
	return BuildView(draft.Catalog), nil
}

// Snapshot copies the draft for a save commit. The catalog is deep-copied so
// the snapshot can be marshalled and re-stored outside the store lock while
// concurrent edits keep mutating the live draft.
func (s *DraftStore) Snapshot(key Key) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[key]
	if !ok {
		return Draft{}, ErrNoDraft
	}
	copied := *draft
	copied.Catalog.LoadBalanceTemplates = make(map[string][]models.TemplateInfo, len(draft.Catalog.LoadBalanceTemplates))
	for code, templates := range draft.Catalog.LoadBalanceTemplates {
		copied.Catalog.LoadBalanceTemplates[code] = append([]models.TemplateInfo(nil), templates...)
	}
	return copied, nil
}
