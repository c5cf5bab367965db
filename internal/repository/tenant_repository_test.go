package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestTenantRepositoryFindByDomain(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTenantRepository(db)
	rows := sqlmock.NewRows([]string{"id", "schema_name", "school_id", "created_at"}).
		AddRow(3, "northside", 7, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("JOIN domains d ON d.tenant_id = t.id")).
		WithArgs("northside.example.com").
		WillReturnRows(rows)

	tenant, err := repo.FindByDomain(context.Background(), "northside.example.com")
	require.NoError(t, err)
	require.Equal(t, int64(3), tenant.ID)
	require.Equal(t, "northside", tenant.SchemaName)
	require.Equal(t, int64(7), tenant.SchoolID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantRepositoryFindByDomainNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTenantRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("JOIN domains d ON d.tenant_id = t.id")).
		WithArgs("unknown.example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByDomain(context.Background(), "unknown.example.com")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
