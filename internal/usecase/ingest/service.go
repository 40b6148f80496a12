// Package ingest validates, embeds, and persists new lecture snippets.
package ingest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/toth-cloud/toth/internal/domain"
	"github.com/toth-cloud/toth/internal/logger"
)

// Gate is the availability check consulted before any work.
type Gate interface {
	Check(ctx context.Context) error
}

// Repository persists documents.
type Repository interface {
	Insert(ctx context.Context, doc *domain.Document) error
}

// Embedder vectorizes the canonical document text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// SettingReader reads the room_len / year_len validation settings.
type SettingReader interface {
	Status(ctx context.Context, label string) (string, error)
}

// Roster records teacher names so the roster endpoint reflects
// ingested data.
type Roster interface {
	AddTeacher(ctx context.Context, name string) error
}

// Input is one incoming lecture snippet.
type Input struct {
	Content        string
	TeacherName    string
	TeacherSubject string
	StudentYear    string
	StudentRoom    string
	TimeSummit     string // lecture event timestamp, several textual formats
	TimeOfRecord   string // HH:MM or HH:MM:SS
}

// Accepted lecture-event timestamp layouts, tried in order.
var summitLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Service is the ingestion path. Ingestion is deliberately not
// idempotent: two identical calls create two documents.
type Service struct {
	gate     Gate
	repo     Repository
	embed    Embedder
	settings SettingReader
	roster   Roster
}

// New creates an ingestion service.
func New(gate Gate, repo Repository, embed Embedder, settings SettingReader, roster Roster) *Service {
	return &Service{gate: gate, repo: repo, embed: embed, settings: settings, roster: roster}
}

// Ingest validates the input, builds the canonical descriptive text,
// embeds it, and inserts one new document. Malformed timestamps are
// validation errors, never a crash; gate and validation failures
// short-circuit with no side effects.
func (s *Service) Ingest(ctx context.Context, in Input) (domain.Document, error) {
	if err := s.gate.Check(ctx); err != nil {
		return domain.Document{}, err
	}

	summit, err := parseTimeSummit(in.TimeSummit)
	if err != nil {
		return domain.Document{}, err
	}
	record, err := parseTimeOfRecord(in.TimeOfRecord)
	if err != nil {
		return domain.Document{}, err
	}

	if err := s.checkConfiguredLength(ctx, "room_len", "student_room", in.StudentRoom); err != nil {
		return domain.Document{}, err
	}
	if err := s.checkConfiguredLength(ctx, "year_len", "student_year", in.StudentYear); err != nil {
		return domain.Document{}, err
	}

	canonical := canonicalText(in, summit, record)

	embResult, err := s.embed.Embed(ctx, canonical)
	if err != nil {
		return domain.Document{}, fmt.Errorf("embed document: %w", err)
	}

	doc := domain.Document{
		Content:        in.Content,
		Embedding:      embResult.Embedding,
		CreatedAt:      summit.Format("2006-01-02"),
		TimeOfRecord:   record.Format("15:04:05"),
		TeacherName:    in.TeacherName,
		TeacherSubject: in.TeacherSubject,
		StudentYear:    in.StudentYear,
		StudentRoom:    in.StudentRoom,
	}
	if err := s.repo.Insert(ctx, &doc); err != nil {
		return domain.Document{}, fmt.Errorf("insert document: %w", err)
	}

	// The document is already stored; a roster failure must not turn a
	// successful ingestion into an error.
	if err := s.roster.AddTeacher(ctx, in.TeacherName); err != nil {
		logger.FromContext(ctx).Warn("roster update failed",
			zap.String("teacher_name", in.TeacherName),
			zap.Error(err),
		)
	}
	return doc, nil
}

// canonicalText builds the single descriptive block that gets embedded.
// Keeping the template fixed keeps stored vectors comparable over time.
func canonicalText(in Input, summit, record time.Time) string {
	return fmt.Sprintf(
		"เนื้อหา: %s\nอาจารย์: %s (%s)\nวันที่สอน: %s\nเวลาที่บันทึก: %s\nชั้นปี: ปี %s, ห้อง %s",
		in.Content,
		in.TeacherName,
		domain.SubjectName(in.TeacherSubject),
		summit.Format("2006-01-02"),
		record.Format("15:04"),
		in.StudentYear,
		in.StudentRoom,
	)
}

func parseTimeSummit(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("time_summit is required: %w", domain.ErrValidation)
	}
	// Accept a bare trailing Z on non-RFC3339 inputs.
	candidate := strings.Replace(value, "Z", "+00:00", 1)
	for _, layout := range summitLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
		if t, err := time.Parse(layout, candidate); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time_summit %q: %w", value, domain.ErrValidation)
}

// parseTimeOfRecord accepts HH:MM or HH:MM:SS; missing seconds default to 0.
func parseTimeOfRecord(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("time_of_record is required: %w", domain.ErrValidation)
	}
	if t, err := time.Parse("15:04:05", value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("15:04", value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time_of_record %q: %w", value, domain.ErrValidation)
}

// checkConfiguredLength enforces the operator-set exact length for a
// classroom scoping field. An absent or non-numeric setting disables
// the check.
func (s *Service) checkConfiguredLength(ctx context.Context, label, field, value string) error {
	status, err := s.settings.Status(ctx, label)
	if err != nil {
		return fmt.Errorf("read %s setting: %w", label, err)
	}
	want, convErr := strconv.Atoi(strings.TrimSpace(status))
	if convErr != nil || want <= 0 {
		return nil
	}
	if len([]rune(value)) != want {
		return fmt.Errorf("%s must be %d characters: %w", field, want, domain.ErrValidation)
	}
	return nil
}
