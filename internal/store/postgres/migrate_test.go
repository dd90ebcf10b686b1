// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package postgres

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestEnsureSchema_RequiresURL(t *testing.T) {
	if _, err := New(nil).EnsureSchema(context.Background()); !errors.Is(err, ErrNoURL) {
		t.Errorf("err = %v, want ErrNoURL", err)
	}
}

func TestMigrations_Paired(t *testing.T) {
	names, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	if err != nil || len(names) == 0 {
		t.Fatalf("no up migrations: %v", err)
	}
	for _, up := range names {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		if _, err := fs.Stat(migrationsFS, down); err != nil {
			t.Errorf("%s has no down migration", up)
		}
	}
}
