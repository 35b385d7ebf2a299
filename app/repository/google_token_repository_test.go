package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGoogleTokenUpsert(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewGoogleTokenRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `google_tokens` .*ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Upsert("user-1", "ciphertext"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGoogleTokenGet(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewGoogleTokenRepository(gdb)

	rows := sqlmock.NewRows([]string{"user_id", "refresh_token"}).
		AddRow("user-1", "ciphertext")
	mock.ExpectQuery("SELECT \\* FROM `google_tokens` WHERE user_id = \\?").
		WillReturnRows(rows)

	token, err := repo.Get("user-1")
	require.NoError(t, err)
	assert.Equal(t, "ciphertext", token.RefreshToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGoogleTokenGetMissing(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewGoogleTokenRepository(gdb)

	mock.ExpectQuery("SELECT \\* FROM `google_tokens` WHERE user_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "refresh_token"}))

	_, err := repo.Get("user-1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGoogleTokenDelete(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewGoogleTokenRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `google_tokens` WHERE user_id = \\?").
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	deleted, err := repo.Delete("user-1")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestGoogleTokenDeleteMissing(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewGoogleTokenRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `google_tokens` WHERE user_id = \\?").
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	deleted, err := repo.Delete("user-1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestGoogleTokenExists(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewGoogleTokenRepository(gdb)

	rows := sqlmock.NewRows([]string{"user_id"}).AddRow("user-1")
	mock.ExpectQuery("SELECT `user_id` FROM `google_tokens` WHERE user_id = \\?").
		WillReturnRows(rows)

	exists, err := repo.Exists("user-1")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery("SELECT `user_id` FROM `google_tokens` WHERE user_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	exists, err = repo.Exists("user-1")
	require.NoError(t, err)
	assert.False(t, exists)
}
