package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

type testServices struct {
	db        *gorm.DB
	mediaRoot string
	auth      *AuthService
	images    *ImageService
	users     *UserService
	recipes   *RecipeService
}

// newTestServices wires the services over a fresh SQLite database and a
// temporary media directory.
func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db := testhelpers.SetupSQLiteDB(t)
	root := t.TempDir()
	store, err := storage.NewLocalStorage(root, "/media/", zap.NewNop())
	require.NoError(t, err)

	logger := zap.NewNop()
	auth := NewAuthService(db, nil, "test-secret", time.Hour, logger)
	images := NewImageService(store, logger)
	conn := NewConnectionService(db, logger)
	return &testServices{
		db:        db,
		mediaRoot: root,
		auth:      auth,
		images:    images,
		users:     NewUserService(db, auth, images, conn, logger),
		recipes:   NewRecipeService(db, images, conn, logger),
	}
}

func ptr[T any](v T) *T {
	return &v
}
