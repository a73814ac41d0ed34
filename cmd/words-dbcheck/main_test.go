package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-while/go-words/internal/database"
)

func TestRun(t *testing.T) {
	cfg := database.DefaultDBConfig()
	cfg.DataDir = t.TempDir()
	db, err := database.OpenDatabase(cfg)
	require.NoError(t, err)
	defer db.Shutdown()

	_, err = db.InsertUser(context.Background(), "alice", "pw")
	require.NoError(t, err)

	var out bytes.Buffer
	code, err := run(context.Background(), db, &out, true)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "Users: 1")
	assert.Contains(t, out.String(), "Status: OK")
	assert.Contains(t, out.String(), "VACUUM done")
}

func TestPrintReport_Inconsistent(t *testing.T) {
	var out bytes.Buffer
	printReport(&out, &database.ConsistencyReport{
		ForeignKeyErrors:   []string{"words row 3 references missing catalogs"},
		HasInconsistencies: true,
	})
	assert.Contains(t, out.String(), "FOREIGN KEY: words row 3 references missing catalogs")
	assert.Contains(t, out.String(), "Status: INCONSISTENT")
}
