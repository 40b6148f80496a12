package setting

import (
	"context"
	"errors"
	"fmt"

	"github.com/toth-cloud/toth/internal/db"
	"github.com/toth-cloud/toth/internal/domain"
)

const (
	settingKeyPrefix = domain.KeyPrefix + "setting:"
	teachersKey      = domain.KeyPrefix + "teachers"
)

// Content labels of the single-row settings this service reads.
const (
	LabelSystem  = "system"
	LabelRoomLen = "room_len"
	LabelYearLen = "year_len"
)

// store is the consumer interface for settings (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Repo reads operator-controlled settings and the teacher roster.
type Repo struct {
	store store
}

// New creates a settings repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Status returns the status string of the setting row with the given
// content label. A missing row is ("", nil): the interpretation of an
// absent setting belongs to the caller, not to storage.
func (r *Repo) Status(ctx context.Context, label string) (string, error) {
	data, err := r.store.Get(ctx, settingKeyPrefix+label)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("get setting %s: %w", label, err)
	}
	return string(data), nil
}

// AddTeacher registers a teacher in the roster. The roster is a set,
// so re-registering the same name is a no-op.
func (r *Repo) AddTeacher(ctx context.Context, name string) error {
	if err := r.store.SAdd(ctx, teachersKey, name); err != nil {
		return fmt.Errorf("register teacher: %w", err)
	}
	return nil
}

// Teachers returns the teacher roster.
func (r *Repo) Teachers(ctx context.Context) ([]string, error) {
	names, err := r.store.SMembers(ctx, teachersKey)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return names, nil
}
