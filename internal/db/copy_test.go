package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFrom_EmptyRows(t *testing.T) {
	n, err := CopyFrom(context.TODO(), nil, "staff", []string{"id", "full_name"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestCopyFrom_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"staff"}, []string{"id", "full_name"}).WillReturnResult(2)

	rows := [][]any{{"s1", "Mehmet Öz"}, {"s2", "Tulga Topkaç"}}
	n, err := CopyFrom(context.Background(), mock, "staff", []string{"id", "full_name"}, rows)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_SchemaQualified(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"roster", "staff"}, []string{"id"}).WillReturnResult(1)

	n, err := CopyFrom(context.Background(), mock, "roster.staff", []string{"id"}, [][]any{{"s1"}})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"staff"}, []string{"id"}).WillReturnError(fmt.Errorf("permission denied"))

	_, err = CopyFrom(context.Background(), mock, "staff", []string{"id"}, [][]any{{"s1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO staff")
	assert.NoError(t, mock.ExpectationsWereMet())
}
