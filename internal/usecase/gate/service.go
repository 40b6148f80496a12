// Package gate implements the process-wide availability check that every
// core operation consults before doing any work.
package gate

import (
	"context"
	"fmt"
	"strings"

	"github.com/toth-cloud/toth/internal/domain"
)

// SettingReader reads the status string of a single setting row.
type SettingReader interface {
	Status(ctx context.Context, label string) (string, error)
}

// Service reads the availability toggle. The status is never cached:
// every operation sees the toggle's value at call time.
type Service struct {
	settings SettingReader
}

// New creates an availability gate.
func New(settings SettingReader) *Service {
	return &Service{settings: settings}
}

// Check returns nil when the system is available. "off" maps to
// domain.ErrSystemOff, a missing row or any unrecognized status maps to
// domain.ErrSystemUnknown, and a store failure is wrapped and returned
// as-is — an unreadable toggle is never treated as available.
func (s *Service) Check(ctx context.Context) error {
	status, err := s.settings.Status(ctx, "system")
	if err != nil {
		return fmt.Errorf("read system setting: %w", err)
	}

	switch strings.ToLower(status) {
	case "on":
		return nil
	case "off":
		return domain.ErrSystemOff
	default:
		return domain.ErrSystemUnknown
	}
}
