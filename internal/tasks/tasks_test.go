package tasks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/floodwatch/floodassist/internal/config"
	"github.com/floodwatch/floodassist/internal/database"
	"github.com/floodwatch/floodassist/internal/web"
)

type fakeStore struct {
	maintenanceErr   error
	maintenanceCalls int
}

func (f *fakeStore) Ping(context.Context) error { return nil }

func (f *fakeStore) ExecuteReadQuery(context.Context, string, int) (*database.QueryResult, error) {
	return &database.QueryResult{}, nil
}

func (f *fakeStore) DescribeTables(context.Context) ([]database.TableInfo, error) {
	return nil, nil
}

func (f *fakeStore) RunSQLMaintenance(context.Context) error {
	f.maintenanceCalls++
	return f.maintenanceErr
}

func testDeps(store database.Store) TaskDeps {
	return TaskDeps{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Store:    store,
		Sessions: web.NewSessionManager(),
		Config: &config.Config{
			Server: config.ServerConfig{SessionTTL: time.Hour},
		},
	}
}

func TestRegisterAllTasks(t *testing.T) {
	t.Parallel()

	registry := RegisterAllTasks(testDeps(&fakeStore{}))

	for _, name := range []string{"sql_maintenance", "session_cleanup"} {
		if _, ok := registry[name]; !ok {
			t.Errorf("registry missing task %q", name)
		}
	}
}

func TestSQLMaintenanceTask(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		store := &fakeStore{}
		task := newSQLMaintenanceTask(testDeps(store))

		if err := task(context.Background()); err != nil {
			t.Fatalf("task error = %v", err)
		}
		if store.maintenanceCalls != 1 {
			t.Errorf("RunSQLMaintenance called %d times, want 1", store.maintenanceCalls)
		}
	})

	t.Run("failure propagates", func(t *testing.T) {
		t.Parallel()
		store := &fakeStore{maintenanceErr: errors.New("locked")}
		task := newSQLMaintenanceTask(testDeps(store))

		if err := task(context.Background()); err == nil {
			t.Fatal("task swallowed the maintenance error")
		}
	})
}

func TestSessionCleanupTask(t *testing.T) {
	t.Parallel()

	deps := testDeps(&fakeStore{})
	stale := deps.Sessions.Create()
	_ = stale

	task := newSessionCleanupTask(deps)
	if err := task(context.Background()); err != nil {
		t.Fatalf("task error = %v", err)
	}

	// A freshly created session is within the TTL and must survive.
	if deps.Sessions.Len() != 1 {
		t.Errorf("live sessions = %d, want 1", deps.Sessions.Len())
	}
}
