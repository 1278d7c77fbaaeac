package postgres

import (
	"context"
	"database/sql/driver"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/notification-api/internal/model"
	"github.com/jwalitptl/notification-api/internal/repository"
	apperrors "github.com/jwalitptl/notification-api/pkg/errors"
)

func newMockRepo(t *testing.T) (repository.TemplateReader, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")
	return NewTemplateRepository(NewBaseRepository(db)), mock
}

var joinedColumns = []string{
	"id", "tenant_id", "slug", "kind", "channel", "subject", "status",
	"current_version", "created_at", "updated_at",
	"id", "template_id", "version", "content", "published_at", "published_by",
	"created_at",
}

func publishedRow(tmplID uuid.UUID, tenantID int64, slug, content string, version int) []driverValueRow {
	now := time.Now()
	return []driverValueRow{{
		tmplID, tenantID, slug, "renderable", "email", "Subject line", "active",
		version, now, now,
		uuid.New(), tmplID, version, content, now, nil, now,
	}}
}

type driverValueRow []interface{}

func addRows(rows *sqlmock.Rows, data []driverValueRow) *sqlmock.Rows {
	for _, r := range data {
		values := make([]interface{}, len(r))
		copy(values, r)
		rows.AddRow(toDriverValues(values)...)
	}
	return rows
}

func toDriverValues(values []interface{}) []driver.Value {
	out := make([]driver.Value, len(values))
	for i, v := range values {
		if id, ok := v.(uuid.UUID); ok {
			out[i] = id.String()
			continue
		}
		out[i] = v
	}
	return out
}

func TestFetchPublished(t *testing.T) {
	repo, mock := newMockRepo(t)
	tmplID := uuid.New()

	rows := addRows(sqlmock.NewRows(joinedColumns),
		publishedRow(tmplID, 7, "invoice-status", "Invoice {{invoice.number}}", 4))

	mock.ExpectQuery("SELECT(.|\n)+FROM templates t(.|\n)+JOIN template_versions v").
		WithArgs(int64(7), "invoice-status", string(model.StatusActive)).
		WillReturnRows(rows)

	tmpl, ver, err := repo.FetchPublished(context.Background(), 7, "invoice-status")
	require.NoError(t, err)
	assert.Equal(t, "invoice-status", tmpl.Slug)
	assert.Equal(t, model.KindRenderable, tmpl.Kind)
	assert.Equal(t, 4, ver.Version)
	assert.Equal(t, "Invoice {{invoice.number}}", ver.Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchPublishedNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT(.|\n)+FROM templates t").
		WithArgs(int64(7), "missing", string(model.StatusActive)).
		WillReturnRows(sqlmock.NewRows(joinedColumns))

	_, _, err := repo.FetchPublished(context.Background(), 7, "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsTemplateNotFound(err))
	assert.False(t, apperrors.IsRetryable(err))
}

func TestFetchPublishedStoreFailureIsRetryable(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT(.|\n)+FROM templates t").
		WithArgs(int64(7), "invoice-status", string(model.StatusActive)).
		WillReturnError(fmt.Errorf("connection reset"))

	_, _, err := repo.FetchPublished(context.Background(), 7, "invoice-status")
	require.Error(t, err)
	assert.True(t, apperrors.IsRetryable(err))
}

func TestFetchDraftMissingRowIsDraftNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	tmplID := uuid.New()
	now := time.Now()

	templateCols := []string{
		"id", "tenant_id", "slug", "kind", "channel", "subject", "status",
		"current_version", "created_at", "updated_at",
	}
	mock.ExpectQuery("SELECT(.|\n)+FROM templates(.|\n)+WHERE tenant_id").
		WithArgs(int64(7), "invoice-status", string(model.StatusActive)).
		WillReturnRows(sqlmock.NewRows(templateCols).AddRow(
			tmplID.String(), 7, "invoice-status", "renderable", "email",
			"Subject", "active", 4, now, now,
		))

	versionCols := []string{
		"id", "template_id", "version", "content", "published_at",
		"published_by", "created_at",
	}
	mock.ExpectQuery("SELECT(.|\n)+FROM template_versions v").
		WithArgs(tmplID.String(), model.DraftVersion).
		WillReturnRows(sqlmock.NewRows(versionCols))

	_, _, err := repo.FetchDraft(context.Background(), 7, "invoice-status")
	require.Error(t, err)
	assert.True(t, apperrors.IsDraftNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchMappingAbsenceIsNotAnError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mappingCols := []string{"id", "tenant_id", "category_code", "template_id", "created_at"}
	mock.ExpectQuery("SELECT(.|\n)+FROM category_mappings").
		WithArgs(int64(7), "invoice-overdue").
		WillReturnRows(sqlmock.NewRows(mappingCols))

	mapping, err := repo.FetchMapping(context.Background(), 7, "invoice-overdue")
	require.NoError(t, err)
	assert.Nil(t, mapping)
}

func TestFetchPublishedPartials(t *testing.T) {
	repo, mock := newMockRepo(t)
	headerID := uuid.New()
	footerID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows(joinedColumns).
		AddRow(footerID.String(), 7, "footer", "partial", "", "", "active", 1, now, now,
			uuid.New().String(), footerID.String(), 1, "Footer", now, nil, now).
		AddRow(headerID.String(), 7, "header", "partial", "", "", "active", 2, now, now,
			uuid.New().String(), headerID.String(), 2, "Header", now, nil, now)

	mock.ExpectQuery("SELECT(.|\n)+FROM templates t(.|\n)+kind IN").
		WithArgs(int64(7), string(model.StatusActive), string(model.KindPartial), string(model.KindLayout)).
		WillReturnRows(rows)

	templates, versions, err := repo.FetchPublishedPartials(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, templates, 2)
	require.Len(t, versions, 2)
	assert.Equal(t, "footer", templates[0].Slug)
	assert.Equal(t, "Header", versions[1].Content)
}
