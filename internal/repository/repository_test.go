package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"screams/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestScreamRepository_AdjustLikeCount(t *testing.T) {
	tests := []struct {
		name         string
		mockBehavior func(mock sqlmock.Sqlmock)
		expectedCode string
	}{
		{
			name: "Success",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE "screams" SET "like_count"=CASE WHEN like_count + $1 < 0 THEN 0 ELSE like_count + $2 END WHERE id = $3`)).
					WithArgs(1, 1, "s1").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "Scream Gone",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE "screams" SET "like_count"`)).
					WithArgs(1, 1, "s1").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectCommit()
			},
			expectedCode: models.CodeNotFound,
		},
		{
			name: "Store Down",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE "screams" SET "like_count"`)).
					WillReturnError(errors.New("connection refused"))
				mock.ExpectRollback()
			},
			expectedCode: models.CodeStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewScreamRepository(db)
			tt.mockBehavior(mock)

			err := repo.AdjustLikeCount(context.Background(), "s1", 1)
			if tt.expectedCode == "" {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.expectedCode, models.CodeOf(err))
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestScreamRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewScreamRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "screams" WHERE id = $1 ORDER BY "screams"."id" LIMIT $2`)).
		WithArgs("missing", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	scream, err := repo.GetByID(context.Background(), "missing")
	assert.Nil(t, scream)
	assert.True(t, models.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLikeRepository_FindByHandleAndScream(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLikeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "likes" WHERE user_handle = $1 AND scream_id = $2 LIMIT $3`)).
		WithArgs("bob", "s1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "scream_id", "user_handle"}).AddRow("l1", "s1", "bob"))

	like, err := repo.FindByHandleAndScream(context.Background(), "bob", "s1")
	require.NoError(t, err)
	assert.Equal(t, "l1", like.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ListIDsByScream(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id" FROM "comments" WHERE scream_id = $1`)).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("c1").AddRow("c2"))

	ids, err := repo.ListIDsByScream(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateImage_UnknownUser(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "image_url"=$1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateImage(context.Background(), "ghost", "new.png")
	assert.True(t, models.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
