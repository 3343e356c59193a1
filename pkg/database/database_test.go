package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestStringArrayScan(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  StringArray
	}{
		{name: "json", value: `["user","admin"]`, want: StringArray{"user", "admin"}},
		{name: "json bytes", value: []byte(`["user"]`), want: StringArray{"user"}},
		{name: "postgres literal", value: `{user,"admin"}`, want: StringArray{"user", "admin"}},
		{name: "empty literal", value: "{}", want: StringArray{}},
		{name: "bare value", value: "user", want: StringArray{"user"}},
		{name: "empty", value: "", want: StringArray{}},
		{name: "null", value: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got StringArray
			require.NoError(t, got.Scan(tt.value))
			assert.Equal(t, tt.want, got)
		})
	}

	var got StringArray
	assert.Error(t, got.Scan(42))
}

func TestStringArrayValue(t *testing.T) {
	v, err := StringArray{"user", "admin"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["user","admin"]`, v)

	v, err = StringArray(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.True(t, StringArray{"user", "admin"}.Contains("admin"))
	assert.False(t, StringArray{"user"}.Contains("admin"))
}

type sample struct {
	ID    uint        `gorm:"primaryKey"`
	Email string      `gorm:"uniqueIndex"`
	Roles StringArray `gorm:"type:text"`
}

func TestSqliteRoundTrip(t *testing.T) {
	db, err := New(&Config{
		Driver:       "sqlite",
		FilePath:     fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
	require.NoError(t, AutoMigrate(db, &sample{}))

	require.NoError(t, db.Create(&sample{Email: "a@example.com", Roles: StringArray{"user"}}).Error)

	var got sample
	require.NoError(t, db.First(&got, "email = ?", "a@example.com").Error)
	assert.Equal(t, StringArray{"user"}, got.Roles)

	err = db.Create(&sample{Email: "a@example.com"}).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint "idx"`)))
	assert.True(t, IsUniqueViolation(errors.New("Error 1062: Duplicate entry 'x' for key 'email'")))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(&Config{Driver: "oracle"})
	assert.Error(t, err)
}

func TestWithForeignKeys(t *testing.T) {
	assert.Equal(t, "app.db?_foreign_keys=on", withForeignKeys("app.db"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on", withForeignKeys("file:x?mode=memory"))
	assert.Equal(t, "app.db?_foreign_keys=off", withForeignKeys("app.db?_foreign_keys=off"))
}
