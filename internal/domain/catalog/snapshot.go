package catalog

import "github.com/JRocha1994/archi-track/internal/textnorm"

// Entry is an id/name pair of any kind, used for name matching.
type Entry struct {
	ID   string
	Name string
	// ParentID is the venture of a work, empty for other kinds.
	ParentID string
}

// Snapshot is an immutable, in-memory view of an owner's catalog. It resolves
// ids to display names and folded names back to ids.
type Snapshot struct {
	ventures    []Venture
	works       []Work
	disciplines []Discipline
	designers   []Designer

	names     map[Kind]map[string]string
	workIndex map[string]Work
	leads     map[string]int
}

// NewSnapshot builds a snapshot from entity lists. The slices are copied.
func NewSnapshot(ventures []Venture, works []Work, disciplines []Discipline, designers []Designer) *Snapshot {
	s := &Snapshot{
		ventures:    append([]Venture(nil), ventures...),
		works:       append([]Work(nil), works...),
		disciplines: append([]Discipline(nil), disciplines...),
		designers:   append([]Designer(nil), designers...),
		names: map[Kind]map[string]string{
			KindVenture:    {},
			KindWork:       {},
			KindDiscipline: {},
			KindDesigner:   {},
		},
		workIndex: map[string]Work{},
		leads:     map[string]int{},
	}
	for _, v := range s.ventures {
		s.names[KindVenture][v.ID] = v.Name
	}
	for _, w := range s.works {
		s.names[KindWork][w.ID] = w.Name
		s.workIndex[w.ID] = w
	}
	for _, d := range s.disciplines {
		s.names[KindDiscipline][d.ID] = d.Name
		s.leads[d.ID] = d.AverageAnalysisLeadDays
	}
	for _, d := range s.designers {
		s.names[KindDesigner][d.ID] = d.Name
	}
	return s
}

// Resolve returns the display name of an entity, or "" when the id is unknown.
func (s *Snapshot) Resolve(kind Kind, id string) string {
	if s == nil {
		return ""
	}
	return s.names[kind][id]
}

// Has reports whether the entity exists.
func (s *Snapshot) Has(kind Kind, id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.names[kind][id]
	return ok
}

// Work returns a work by id.
func (s *Snapshot) Work(id string) (Work, bool) {
	w, ok := s.workIndex[id]
	return w, ok
}

// LeadDays returns the current lead time of a discipline, DefaultLeadDays when
// the discipline is unknown.
func (s *Snapshot) LeadDays(disciplineID string) int {
	if s == nil {
		return DefaultLeadDays
	}
	if days, ok := s.leads[disciplineID]; ok {
		return days
	}
	return DefaultLeadDays
}

// Entries lists every entity of a kind as id/name pairs in catalog order.
func (s *Snapshot) Entries(kind Kind) []Entry {
	var entries []Entry
	switch kind {
	case KindVenture:
		for _, v := range s.ventures {
			entries = append(entries, Entry{ID: v.ID, Name: v.Name})
		}
	case KindWork:
		for _, w := range s.works {
			entries = append(entries, Entry{ID: w.ID, Name: w.Name, ParentID: w.VentureID})
		}
	case KindDiscipline:
		for _, d := range s.disciplines {
			entries = append(entries, Entry{ID: d.ID, Name: d.Name})
		}
	case KindDesigner:
		for _, d := range s.designers {
			entries = append(entries, Entry{ID: d.ID, Name: d.Name})
		}
	}
	return entries
}

// Lookup finds the single entity whose folded name equals the folded name
// given. For works a non-empty ventureID restricts the search to that venture.
// Ambiguous or missing names return false.
func (s *Snapshot) Lookup(kind Kind, name, ventureID string) (string, bool) {
	key := textnorm.Fold(name)
	if key == "" {
		return "", false
	}
	found := ""
	for _, e := range s.Entries(kind) {
		if kind == KindWork && ventureID != "" && e.ParentID != ventureID {
			continue
		}
		if textnorm.Fold(e.Name) != key {
			continue
		}
		if found != "" {
			return "", false
		}
		found = e.ID
	}
	return found, found != ""
}

// Ventures returns a copy of the ventures.
func (s *Snapshot) Ventures() []Venture { return append([]Venture(nil), s.ventures...) }

// Works returns a copy of the works.
func (s *Snapshot) Works() []Work { return append([]Work(nil), s.works...) }

// Disciplines returns a copy of the disciplines.
func (s *Snapshot) Disciplines() []Discipline { return append([]Discipline(nil), s.disciplines...) }

// Designers returns a copy of the designers.
func (s *Snapshot) Designers() []Designer { return append([]Designer(nil), s.designers...) }
