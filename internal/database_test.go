package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iksnae/sentry-client/testutil"
)

func TestOpenDatabase(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "creates missing directories",
			setup: func(t *testing.T) string {
				return filepath.Join(testutil.CreateTempDir(t), "nested", "dir", "storage.db")
			},
			wantErr: false,
		},
		{
			name: "in memory",
			setup: func(t *testing.T) string {
				return ":memory:"
			},
			wantErr: false,
		},
		{
			name: "parent is a file",
			setup: func(t *testing.T) string {
				dir := testutil.CreateTempDir(t)
				blocker := testutil.WriteFile(t, dir, "blocker", []byte("x"))
				return filepath.Join(blocker, "storage.db")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbPath := tt.setup(t)
			db, err := OpenDatabase(dbPath)
			if (err != nil) != tt.wantErr {
				t.Errorf("OpenDatabase() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			defer db.Close()

			// schema must exist
			if _, err := db.Exec("INSERT INTO client_storage (key, value) VALUES ('k', 'v')"); err != nil {
				t.Errorf("client_storage table missing: %v", err)
			}
			if dbPath != ":memory:" {
				if _, err := os.Stat(dbPath); err != nil {
					t.Errorf("database file not created: %v", err)
				}
			}
		})
	}
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	for i := 0; i < 2; i++ {
		if err := EnsureSchema(db); err != nil {
			t.Fatalf("EnsureSchema() call %d error = %v", i+1, err)
		}
	}
}

func TestQueryClientStorage(t *testing.T) {
	db := testutil.CreateTestDB(t, "abc")
	testutil.InsertPair(t, db, "token_type", "bearer")

	tests := []struct {
		name     string
		pattern  string
		wantKeys []string
	}{
		{"all keys", "%", []string{"theme", "token", "token_type"}},
		{"prefix", "token%", []string{"token", "token_type"}},
		{"exact", "theme", []string{"theme"}},
		{"no match", "missing%", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, err := QueryClientStorage(db, tt.pattern)
			if err != nil {
				t.Fatalf("QueryClientStorage() error = %v", err)
			}
			if len(pairs) != len(tt.wantKeys) {
				t.Fatalf("QueryClientStorage() returned %d pairs, want %d", len(pairs), len(tt.wantKeys))
			}
			for i, key := range tt.wantKeys {
				if pairs[i].Key != key {
					t.Errorf("pairs[%d].Key = %q, want %q", i, pairs[i].Key, key)
				}
			}
		})
	}
}

func TestQueryClientStorage_NullValues(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	testutil.InsertPair(t, db, "token", "abc")
	if _, err := db.Exec("INSERT INTO client_storage (key, value) VALUES ('empty', NULL)"); err != nil {
		t.Fatal(err)
	}

	pairs, err := QueryClientStorage(db, "%")
	if err != nil {
		t.Fatalf("QueryClientStorage() error = %v", err)
	}
	if len(pairs) != 1 || pairs[0].Key != "token" {
		t.Errorf("NULL values should be skipped, got %+v", pairs)
	}
}
