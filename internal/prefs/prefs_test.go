package prefs

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resumeKit/internal/config"
	"resumeKit/internal/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestStores(t *testing.T) {
	backends := map[string]func(t *testing.T) Store{
		"memory": func(*testing.T) Store { return NewMemory() },
		"gorm":   func(t *testing.T) Store { return NewGorm(newTestDB(t)) },
	}
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			keys := UserKeys(3)

			_, ok, err := s.Get(ctx, keys.Theme)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set(ctx, keys.Theme, []byte(`"modern-professional"`)))
			require.NoError(t, s.Set(ctx, keys.Theme, []byte(`"tech-focused"`)))
			require.NoError(t, s.Set(ctx, keys.Overrides, []byte(`{}`)))

			got, ok, err := s.Get(ctx, keys.Theme)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.JSONEq(t, `"tech-focused"`, string(got))

			require.NoError(t, s.Delete(ctx, keys.Theme, keys.Overrides, keys.Customization))
			_, ok, err = s.Get(ctx, keys.Overrides)
			require.NoError(t, err)
			assert.False(t, ok)
			require.NoError(t, s.Delete(ctx))
		})
	}
}

type recordingLog struct {
	lines []string
}

func (l *recordingLog) Printf(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestGormMissingKeyIsQuiet(t *testing.T) {
	db := newTestDB(t)
	rec := &recordingLog{}
	db = db.Session(&gorm.Session{Logger: logger.New(rec, logger.Config{LogLevel: logger.Error})})

	_, ok, err := NewGorm(db).Get(context.Background(), UserKeys(9).Customization)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, rec.lines)
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	value := []byte(`{"a":1}`)
	require.NoError(t, m.Set(ctx, "k", value))
	value[2] = 'b'

	got, _, _ := m.Get(ctx, "k")
	assert.Equal(t, `{"a":1}`, string(got))
}

func TestUserKeysAreDistinctPerUser(t *testing.T) {
	a, b := UserKeys(1), UserKeys(2)
	assert.NotEqual(t, a.Theme, b.Theme)
	assert.NotEqual(t, a.Customization, a.Overrides)
	assert.True(t, strings.HasPrefix(a.Customization, "user:1:"))
}

func TestOpen(t *testing.T) {
	db := newTestDB(t)
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer rdb.Close()

	s, err := Open(config.PrefsConfig{Backend: config.PrefsBackendGorm}, db, rdb)
	require.NoError(t, err)
	assert.IsType(t, &Gorm{}, s)

	s, err = Open(config.PrefsConfig{Backend: config.PrefsBackendRedis}, db, rdb)
	require.NoError(t, err)
	assert.IsType(t, &Redis{}, s)

	_, err = Open(config.PrefsConfig{Backend: config.PrefsBackendRedis}, db, nil)
	assert.Error(t, err)
	_, err = Open(config.PrefsConfig{Backend: "etcd"}, db, rdb)
	assert.Error(t, err)
}
