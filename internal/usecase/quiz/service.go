// Package quiz generates multiple-choice quizzes from one subject's
// lecture snippets, ordered by when they were recorded.
package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/toth-cloud/toth/internal/domain"
	"github.com/toth-cloud/toth/internal/logger"
)

// ItemCount is the number of questions a quiz must contain.
const ItemCount = 5

// Gate is the availability check consulted before any work.
type Gate interface {
	Check(ctx context.Context) error
}

// Repository fetches documents for one subject in record order.
type Repository interface {
	FetchBySubject(ctx context.Context, subject string, limit int) ([]domain.Document, error)
}

// Completer dispatches the quiz prompt to the generation provider.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Choices holds the four labeled options of one question.
type Choices struct {
	A string `json:"a"`
	B string `json:"b"`
	C string `json:"c"`
	D string `json:"d"`
}

// Item is one multiple-choice question.
type Item struct {
	Question string  `json:"question"`
	Choices  Choices `json:"choices"`
	Answer   string  `json:"answer"` // "a".."d"
}

// Quiz is the structured generation result.
type Quiz struct {
	Subject string `json:"subject"`
	Items   []Item `json:"items"`
}

const quizSystemInstruction = "You are a quiz generator for classroom review. You output only valid JSON."

const quizPromptTemplate = `Create exactly %d multiple-choice questions from the lecture context below.

Respond with a JSON array only, no prose. Each element must have this shape:
{"question": "...", "choices": {"a": "...", "b": "...", "c": "...", "d": "..."}, "answer": "a"}

- Every question must be answerable from the context alone.
- Each question has exactly four choices labeled a, b, c, d.
- "answer" is the label of the single correct choice.

Lecture context:
%s
`

// Service generates quizzes.
type Service struct {
	gate      Gate
	repo      Repository
	completer Completer
}

// New creates a quiz service.
func New(gate Gate, repo Repository, completer Completer) *Service {
	return &Service{gate: gate, repo: repo, completer: completer}
}

// Generate builds a quiz for one subject from up to limit documents,
// oldest first. No query text exists here: context order is record
// creation time, not similarity. A response that cannot be decoded as
// the expected items returns domain.ErrQuizParse so callers can tell
// "service answered oddly" apart from "service down".
func (s *Service) Generate(ctx context.Context, subject string, limit int) (Quiz, error) {
	if err := s.gate.Check(ctx); err != nil {
		return Quiz{}, err
	}
	if limit <= 0 {
		limit = domain.DefaultTopK
	}

	docs, err := s.repo.FetchBySubject(ctx, subject, limit)
	if err != nil {
		return Quiz{}, fmt.Errorf("fetch subject documents: %w", err)
	}
	if len(docs) == 0 {
		return Quiz{}, domain.ErrNoDocuments
	}

	prompt := fmt.Sprintf(quizPromptTemplate, ItemCount, contextFromDocs(docs))

	logger.FromContext(ctx).Info("quiz prompt assembled",
		zap.String("subject", subject),
		zap.Int("documents", len(docs)),
	)

	text, err := s.completer.Complete(ctx, quizSystemInstruction, prompt)
	if err != nil {
		return Quiz{}, fmt.Errorf("generate quiz: %w", err)
	}

	items, err := parseItems(text)
	if err != nil {
		return Quiz{}, err
	}
	return Quiz{Subject: subject, Items: items}, nil
}

func contextFromDocs(docs []domain.Document) string {
	blocks := make([]string, 0, len(docs))
	for _, doc := range docs {
		blocks = append(blocks, fmt.Sprintf(
			"Content: %s\nผู้สอน: %s (%s)\nเวลาที่สอน/บันทึก: %s %s",
			doc.Content,
			doc.TeacherName,
			domain.SubjectName(doc.TeacherSubject),
			doc.CreatedAt,
			doc.TimeOfRecord,
		))
	}
	return strings.Join(blocks, "\n\n")
}

// parseItems decodes the provider output, tolerating surrounding
// markdown code fences.
func parseItems(text string) ([]Item, error) {
	cleaned := StripCodeFence(text)

	var items []Item
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, fmt.Errorf("decode quiz items: %v: %w", err, domain.ErrQuizParse)
	}
	if len(items) != ItemCount {
		return nil, fmt.Errorf("expected %d quiz items, got %d: %w", ItemCount, len(items), domain.ErrQuizParse)
	}
	for i, item := range items {
		switch item.Answer {
		case "a", "b", "c", "d":
		default:
			return nil, fmt.Errorf("item %d: invalid answer label %q: %w", i, item.Answer, domain.ErrQuizParse)
		}
	}
	return items, nil
}

// StripCodeFence removes a surrounding markdown code fence, with or
// without a language tag, from provider output.
func StripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	// Drop a language tag like "json" on the opening fence line.
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		firstLine := strings.TrimSpace(trimmed[:idx])
		if firstLine != "" && !strings.ContainsAny(firstLine, "[{") {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
