package setting

import (
	"context"
	"errors"
	"testing"

	"github.com/toth-cloud/toth/internal/db"
)

type mockStore struct {
	kv       map[string]string
	getErr   error
	members  []string
	smersErr error
	added    []string
	saddErr  error

	gotKeys []string
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	m.gotKeys = append(m.gotKeys, key)
	if m.getErr != nil {
		return nil, m.getErr
	}
	value, ok := m.kv[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return []byte(value), nil
}

func (m *mockStore) SAdd(_ context.Context, key string, members ...string) error {
	m.gotKeys = append(m.gotKeys, key)
	if m.saddErr != nil {
		return m.saddErr
	}
	m.added = append(m.added, members...)
	return nil
}

func (m *mockStore) SMembers(_ context.Context, key string) ([]string, error) {
	m.gotKeys = append(m.gotKeys, key)
	if m.smersErr != nil {
		return nil, m.smersErr
	}
	return m.members, nil
}

func TestStatus_ReturnsStoredValue(t *testing.T) {
	store := &mockStore{kv: map[string]string{"toth:setting:system": "on"}}
	repo := New(store)

	status, err := repo.Status(context.Background(), LabelSystem)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status != "on" {
		t.Errorf("status = %q, want on", status)
	}
	if len(store.gotKeys) != 1 || store.gotKeys[0] != "toth:setting:system" {
		t.Errorf("unexpected keys read: %v", store.gotKeys)
	}
}

func TestStatus_MissingRowIsEmptyNotError(t *testing.T) {
	repo := New(&mockStore{kv: map[string]string{}})

	status, err := repo.Status(context.Background(), LabelRoomLen)
	if err != nil {
		t.Fatalf("missing setting must not be an error, got %v", err)
	}
	if status != "" {
		t.Errorf("status = %q, want empty", status)
	}
}

func TestStatus_StoreErrorPropagates(t *testing.T) {
	storeErr := errors.New("connection refused")
	repo := New(&mockStore{getErr: storeErr})

	if _, err := repo.Status(context.Background(), LabelSystem); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestTeachers(t *testing.T) {
	store := &mockStore{members: []string{"ครูสมชาย", "ครูสมหญิง"}}
	repo := New(store)

	names, err := repo.Teachers(context.Background())
	if err != nil {
		t.Fatalf("Teachers failed: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 teachers, got %d", len(names))
	}
	if store.gotKeys[0] != "toth:teachers" {
		t.Errorf("read key %q, want toth:teachers", store.gotKeys[0])
	}
}

func TestAddTeacher(t *testing.T) {
	store := &mockStore{}
	repo := New(store)

	if err := repo.AddTeacher(context.Background(), "ครูสมชาย"); err != nil {
		t.Fatalf("AddTeacher failed: %v", err)
	}
	if len(store.added) != 1 || store.added[0] != "ครูสมชาย" {
		t.Errorf("added = %v, want the teacher name", store.added)
	}
	if store.gotKeys[0] != "toth:teachers" {
		t.Errorf("wrote key %q, want toth:teachers", store.gotKeys[0])
	}
}

func TestAddTeacher_StoreErrorPropagates(t *testing.T) {
	storeErr := errors.New("connection refused")
	repo := New(&mockStore{saddErr: storeErr})

	if err := repo.AddTeacher(context.Background(), "x"); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestTeachers_StoreErrorPropagates(t *testing.T) {
	storeErr := errors.New("connection refused")
	repo := New(&mockStore{smersErr: storeErr})

	if _, err := repo.Teachers(context.Background()); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}
