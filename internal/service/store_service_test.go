package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ichi1107/bento-order-system/internal/model"
	"github.com/ichi1107/bento-order-system/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newStoreService(db *gorm.DB) StoreService {
	return NewStoreService(
		repository.NewStoreRepository(db),
		repository.NewUserRepository(db),
		repository.NewRoleRepository(db),
		repository.NewTransactionManager(db),
	)
}

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := newStoreService(db)
	ctx := context.Background()

	store := createStore(t, db, "bento-ya")
	staff := createStaff(t, db, "owner", store.ID)

	opening := "09:30"
	updated, err := svc.UpdateProfile(ctx, staff, UpdateStoreRequest{OpeningTime: &opening})
	require.NoError(t, err)
	assert.Equal(t, "09:30", updated.OpeningTime)
	assert.Equal(t, "bento-ya", updated.Name)

	profile, err := svc.GetProfile(ctx, staff)
	require.NoError(t, err)
	assert.Equal(t, "09:30", profile.OpeningTime)
}

func TestProfile_NoStore(t *testing.T) {
	db := newTestDB(t)
	svc := newStoreService(db)

	orphan := &model.User{Role: model.AccountTypeStore}
	_, err := svc.GetProfile(context.Background(), orphan)
	assert.ErrorIs(t, err, ErrNoStore)
}

func TestUploadImage_RejectsNonImages(t *testing.T) {
	db := newTestDB(t)
	svc := newStoreService(db)
	ctx := context.Background()

	store := createStore(t, db, "bento-ya")
	staff := createStaff(t, db, "owner", store.ID)

	_, err := svc.UploadImage(ctx, staff, "menu.pdf", "application/pdf", strings.NewReader("%PDF"))
	assert.ErrorIs(t, err, ErrInvalidFileType)
}

func TestUploadImage_StoresFileAndReplaces(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("UPLOAD_DIR", dir)

	db := newTestDB(t)
	svc := newStoreService(db)
	ctx := context.Background()

	store := createStore(t, db, "bento-ya")
	staff := createStaff(t, db, "owner", store.ID)

	updated, err := svc.UploadImage(ctx, staff, "front.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(updated.ImageURL, "/static/uploads/stores/"))
	assert.True(t, strings.HasSuffix(updated.ImageURL, ".png"))

	first := filepath.Join(dir, filepath.Base(updated.ImageURL))
	_, err = os.Stat(first)
	require.NoError(t, err)

	// A second upload replaces the file on disk.
	replaced, err := svc.UploadImage(ctx, staff, "new.jpg", "image/jpeg", strings.NewReader("jpg-bytes"))
	require.NoError(t, err)
	assert.NotEqual(t, updated.ImageURL, replaced.ImageURL)
	_, err = os.Stat(first)
	assert.True(t, os.IsNotExist(err))

	cleared, err := svc.DeleteImage(ctx, staff)
	require.NoError(t, err)
	assert.Empty(t, cleared.ImageURL)
}

func TestAssignRole_And_ListStaff(t *testing.T) {
	db := newTestDB(t)
	svc := newStoreService(db)
	ctx := context.Background()

	store := createStore(t, db, "bento-ya")
	owner := createStaff(t, db, "owner", store.ID)
	worker := createStaff(t, db, "worker", store.ID)

	member, err := svc.AssignRole(ctx, owner, worker.ID, model.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, model.RoleStaff, member.RoleName)

	// Reassignment replaces, never stacks.
	member, err = svc.AssignRole(ctx, owner, worker.ID, model.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, member.RoleName)

	var count int64
	require.NoError(t, db.Model(&model.UserRole{}).Where("user_id = ?", worker.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	members, err := svc.ListStaff(ctx, owner)
	require.NoError(t, err)
	require.Len(t, members, 2)
	for _, m := range members {
		if m.ID == worker.ID {
			assert.Equal(t, model.RoleManager, m.RoleName)
		}
	}
}

func TestAssignRole_OtherStoreUserLooksAbsent(t *testing.T) {
	db := newTestDB(t)
	svc := newStoreService(db)
	ctx := context.Background()

	storeA := createStore(t, db, "store-a")
	storeB := createStore(t, db, "store-b")
	ownerA := createStaff(t, db, "owner-a", storeA.ID)
	workerB := createStaff(t, db, "worker-b", storeB.ID)

	_, err := svc.AssignRole(ctx, ownerA, workerB.ID, model.RoleStaff)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.AssignRole(ctx, ownerA, ownerA.ID, "admin")
	assert.ErrorIs(t, err, ErrRoleNotFound)
}
