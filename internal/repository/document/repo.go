package document

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/toth-cloud/toth/internal/domain"
)

const docKeyPrefix = domain.KeyPrefix + "doc:"

// Field names of the stored document hash.
const (
	fieldContent        = "content"
	fieldEmbedding      = "embedding"
	fieldCreatedAt      = "created_at"
	fieldTimeOfRecord   = "time_of_record"
	fieldTeacherName    = "teacher_name"
	fieldTeacherSubject = "teacher_subject"
	fieldStudentYear    = "student_year"
	fieldStudentRoom    = "student_room"
)

// store is the consumer interface for documents (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements document persistence over a hash store. Reads are a
// linear scan: the corpus is short lecture snippets, and an index
// structure is deliberately out of contract.
type Repo struct {
	store store
}

// New creates a document repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Insert stores one new document. Documents are insert-only; two
// identical inserts create two rows.
func (r *Repo) Insert(ctx context.Context, doc *domain.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	embJSON, err := json.Marshal(doc.Embedding)
	if err != nil {
		return fmt.Errorf("marshal embedding: %w", err)
	}

	fields := map[string]string{
		fieldContent:        doc.Content,
		fieldEmbedding:      string(embJSON),
		fieldCreatedAt:      doc.CreatedAt,
		fieldTimeOfRecord:   doc.TimeOfRecord,
		fieldTeacherName:    doc.TeacherName,
		fieldTeacherSubject: doc.TeacherSubject,
		fieldStudentYear:    doc.StudentYear,
		fieldStudentRoom:    doc.StudentRoom,
	}
	if err := r.store.HSet(ctx, docKeyPrefix+doc.ID, fields); err != nil {
		return fmt.Errorf("hset %s: %w", docKeyPrefix+doc.ID, err)
	}
	return nil
}

// FetchFiltered returns every document matching all present filters
// (conjunctive exact match; an absent filter is no constraint).
// The result order is deterministic: keys are sorted before hydration,
// so ranking ties downstream break the same way on every call.
func (r *Repo) FetchFiltered(ctx context.Context, filters domain.Filters) ([]domain.Document, error) {
	keys, err := r.store.Scan(ctx, docKeyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan documents: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	sort.Strings(keys)

	rows, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch documents: %w", err)
	}

	docs := make([]domain.Document, 0, len(rows))
	for i, row := range rows {
		if len(row) == 0 {
			continue // key expired between SCAN and HGETALL
		}
		doc := parseRow(keys[i][len(docKeyPrefix):], row)
		if !filters.Matches(&doc) {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// FetchBySubject returns up to limit documents for one subject, ordered
// by record creation time ascending. Used by quiz generation, where no
// query text exists to rank by.
func (r *Repo) FetchBySubject(ctx context.Context, subject string, limit int) ([]domain.Document, error) {
	docs, err := r.FetchFiltered(ctx, domain.Filters{Subject: subject})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].CreatedAt != docs[j].CreatedAt {
			return docs[i].CreatedAt < docs[j].CreatedAt
		}
		return docs[i].TimeOfRecord < docs[j].TimeOfRecord
	})

	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

// parseRow hydrates a document from hash fields. A corrupt embedding
// yields a document with a nil vector: the retrieval engine skips it,
// one bad row must never abort a whole query.
func parseRow(id string, row map[string]string) domain.Document {
	doc := domain.Document{
		ID:             id,
		Content:        row[fieldContent],
		CreatedAt:      row[fieldCreatedAt],
		TimeOfRecord:   row[fieldTimeOfRecord],
		TeacherName:    row[fieldTeacherName],
		TeacherSubject: row[fieldTeacherSubject],
		StudentYear:    row[fieldStudentYear],
		StudentRoom:    row[fieldStudentRoom],
	}

	if raw := row[fieldEmbedding]; raw != "" {
		var vec []float32
		if err := json.Unmarshal([]byte(raw), &vec); err == nil {
			doc.Embedding = vec
		}
	}
	return doc
}
