package health

import (
	"context"
	"errors"
	"testing"
)

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockEmbeddingChecker struct {
	err error
}

func (m *mockEmbeddingChecker) HealthCheck(_ context.Context) error { return m.err }

func TestCheck(t *testing.T) {
	dbDown := errors.New("conn refused")
	embDown := errors.New("timeout")

	tests := []struct {
		name          string
		dbErr         error
		embErr        error
		wantStatus    Status
		wantDB        CheckResult
		wantEmbedding CheckResult
	}{
		{"all healthy", nil, nil, Healthy, CheckOK, CheckOK},
		{"database down", dbDown, nil, Degraded, CheckError, CheckOK},
		{"embedding down", nil, embDown, Degraded, CheckOK, CheckError},
		{"both down", dbDown, embDown, Degraded, CheckError, CheckError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(&mockDBPinger{err: tt.dbErr}, &mockEmbeddingChecker{err: tt.embErr})
			r := svc.Check(context.Background())

			if r.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", r.Status, tt.wantStatus)
			}
			if r.Checks["database"] != tt.wantDB {
				t.Errorf("database = %q, want %q", r.Checks["database"], tt.wantDB)
			}
			if r.Checks["embedding"] != tt.wantEmbedding {
				t.Errorf("embedding = %q, want %q", r.Checks["embedding"], tt.wantEmbedding)
			}
		})
	}
}

func TestCheck_NoEmbeddingChecker(t *testing.T) {
	svc := New(&mockDBPinger{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("status = %q, want %q", r.Status, Healthy)
	}
	if _, ok := r.Checks["embedding"]; ok {
		t.Error("embedding check should be absent when no checker is wired")
	}
}

func TestCheck_NoEmbeddingChecker_DBError(t *testing.T) {
	svc := New(&mockDBPinger{err: errors.New("fail")}, nil)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("status = %q, want %q", r.Status, Degraded)
	}
	if r.Checks["database"] != CheckError {
		t.Error("expected database error")
	}
}
