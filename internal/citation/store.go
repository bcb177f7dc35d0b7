package citation

// Entry pairs a source URL with its record for one style.
type Entry struct {
	URL    string `json:"url"`
	Record Record `json:"record"`
}

// Store holds at most one Record per (source, style). Sources are keyed by
// the URL string as given and iterate in first-insertion order. A Store is
// owned by one Generator and is not safe for concurrent use.
type Store struct {
	order   []string
	records map[string]map[Style]Record
}

func NewStore() *Store {
	return &Store{records: make(map[string]map[Style]Record)}
}

// Put stores rec, replacing any earlier record for the same pair.
func (s *Store) Put(source string, style Style, rec Record) {
	styles, ok := s.records[source]
	if !ok {
		styles = make(map[Style]Record)
		s.records[source] = styles
		s.order = append(s.order, source)
	}
	styles[style] = rec
}

func (s *Store) Get(source string, style Style) (Record, bool) {
	rec, ok := s.records[source][style]
	return rec, ok
}

// Sources returns every source in insertion order.
func (s *Store) Sources() []string {
	return append([]string(nil), s.order...)
}

// Len is the number of distinct sources.
func (s *Store) Len() int { return len(s.order) }

// Entries returns the records stored under style, in source order.
func (s *Store) Entries(style Style) []Entry {
	var out []Entry
	for _, src := range s.order {
		if rec, ok := s.records[src][style]; ok {
			out = append(out, Entry{URL: src, Record: rec})
		}
	}
	return out
}

// Clear empties the store and reports how many sources were removed.
func (s *Store) Clear() int {
	n := len(s.order)
	s.order = nil
	s.records = make(map[string]map[Style]Record)
	return n
}
