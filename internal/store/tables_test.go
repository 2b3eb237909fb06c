package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTable = TableDef{
	Name: "bronze_test",
	Columns: []Column{
		{Name: "id", Kind: Integer},
		{Name: "name", Kind: Text},
		{Name: "score", Kind: Real},
		{Name: "payload", Kind: Encoded},
	},
}

func TestReplaceTable(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	rows := []Row{
		{"id": int64(1), "name": "first", "score": 1.5, "payload": `{"a":1}`},
		{"id": int64(2), "name": "second", "score": 2.5, "payload": `[1,2]`},
	}
	require.NoError(t, db.ReplaceTable(ctx, testTable, rows))

	n, err := db.RowCount(ctx, testTable.Name)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var name, payload string
	require.NoError(t, db.QueryRow(`SELECT name, payload FROM bronze_test WHERE id = 2`).Scan(&name, &payload))
	assert.Equal(t, "second", name)
	assert.Equal(t, `[1,2]`, payload)
}

func TestReplaceTableIsIdempotent(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	rows := []Row{{"id": int64(1), "name": "only", "score": 0.0, "payload": nil}}
	require.NoError(t, db.ReplaceTable(ctx, testTable, rows))
	require.NoError(t, db.ReplaceTable(ctx, testTable, rows))

	n, err := db.RowCount(ctx, testTable.Name)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "table must hold exactly the new rows, never accumulate")
}

func TestReplaceTableEmptyInput(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.ReplaceTable(ctx, testTable, []Row{
		{"id": int64(1), "name": "gone", "score": 9.0},
	}))
	require.NoError(t, db.ReplaceTable(ctx, testTable, nil))

	// The table must exist but be empty
	n, err := db.RowCount(ctx, testTable.Name)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestReplaceTableMissingColumnsInsertNull(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.ReplaceTable(ctx, testTable, []Row{{"id": int64(7)}}))

	var name *string
	require.NoError(t, db.QueryRow(`SELECT name FROM bronze_test WHERE id = 7`).Scan(&name))
	assert.Nil(t, name)
}

func TestReplaceTableFailureKeepsPreviousState(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.ReplaceTable(ctx, testTable, []Row{
		{"id": int64(1), "name": "keep", "score": 1.0},
	}))

	// A value no driver can bind aborts the transaction mid-insert
	err := db.ReplaceTable(ctx, testTable, []Row{
		{"id": int64(2), "name": "partial", "score": 2.0},
		{"id": int64(3), "name": make(chan int), "score": 3.0},
	})
	require.Error(t, err)

	var name string
	require.NoError(t, db.QueryRow(`SELECT name FROM bronze_test WHERE id = 1`).Scan(&name))
	assert.Equal(t, "keep", name, "failed replace must leave the previous table intact")

	n, err := db.RowCount(ctx, testTable.Name)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestReplaceTableNoColumns(t *testing.T) {
	db := NewTestDB(t)
	err := db.ReplaceTable(context.Background(), TableDef{Name: "empty"}, nil)
	assert.Error(t, err)
}
