package domain

// KeyPrefix namespaces every key this service writes to the store.
const KeyPrefix = "toth:"

// Document is one stored lecture snippet. Documents are insert-only:
// they are never updated or deleted, a new snippet supersedes an old one
// simply by being more relevant to a query.
type Document struct {
	ID             string
	Content        string
	Embedding      []float32
	CreatedAt      string // lecture date, YYYY-MM-DD
	TimeOfRecord   string // HH:MM:SS
	TeacherName    string
	TeacherSubject string
	StudentYear    string
	StudentRoom    string
}

// Filters are optional exact-match constraints on document metadata.
// A zero-value field imposes no constraint at all.
type Filters struct {
	Room    string
	Year    string
	Subject string
}

// IsEmpty reports whether no constraint is set.
func (f Filters) IsEmpty() bool {
	return f.Room == "" && f.Year == "" && f.Subject == ""
}

// Matches reports whether every present filter exactly matches the document.
func (f Filters) Matches(d *Document) bool {
	if f.Room != "" && d.StudentRoom != f.Room {
		return false
	}
	if f.Year != "" && d.StudentYear != f.Year {
		return false
	}
	if f.Subject != "" && d.TeacherSubject != f.Subject {
		return false
	}
	return true
}

// ScoredCandidate pairs a document with its cosine similarity to the
// query vector. Candidates only live for the duration of one retrieval.
type ScoredCandidate struct {
	Similarity float64
	Document   Document
}

// DefaultTopK is the retrieval cutoff applied when the caller does not
// supply a usable k.
const DefaultTopK = 5
