package service

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ichi1107/bento-order-system/internal/model"
	"github.com/ichi1107/bento-order-system/internal/repository"

	"github.com/google/uuid"
)

// DTOs
type UpdateStoreRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Phone       *string `json:"phone" binding:"omitempty,max=20"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
	OpeningTime *string `json:"opening_time" binding:"omitempty,datetime=15:04"`
	ClosingTime *string `json:"closing_time" binding:"omitempty,datetime=15:04"`
	Description *string `json:"description"`
}

type AssignRoleRequest struct {
	UserID   uuid.UUID `json:"user_id" binding:"required"`
	RoleName string    `json:"role_name" binding:"required,oneof=owner manager staff"`
}

// StaffMember is a staff listing row with the member's assigned role.
type StaffMember struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	IsActive bool      `json:"is_active"`
	RoleName string    `json:"role_name,omitempty"`
}

// StoreService defines the business logic for store profile and staff
// management. All operations require the caller to belong to a store.
type StoreService interface {
	GetProfile(ctx context.Context, staff *model.User) (*model.Store, error)
	UpdateProfile(ctx context.Context, staff *model.User, req UpdateStoreRequest) (*model.Store, error)
	UploadImage(ctx context.Context, staff *model.User, filename, contentType string, file io.Reader) (*model.Store, error)
	DeleteImage(ctx context.Context, staff *model.User) (*model.Store, error)

	ListStaff(ctx context.Context, staff *model.User) ([]StaffMember, error)
	ListRoles(ctx context.Context) ([]model.Role, error)
	AssignRole(ctx context.Context, staff *model.User, targetUserID uuid.UUID, roleName string) (*StaffMember, error)
}

type storeService struct {
	storeRepo repository.StoreRepository
	userRepo  repository.UserRepository
	roleRepo  repository.RoleRepository
	txManager repository.TransactionManager
}

func NewStoreService(storeRepo repository.StoreRepository, userRepo repository.UserRepository, roleRepo repository.RoleRepository, txManager repository.TransactionManager) StoreService {
	return &storeService{storeRepo: storeRepo, userRepo: userRepo, roleRepo: roleRepo, txManager: txManager}
}

func uploadDir() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return filepath.Join("static", "uploads", "stores")
}

func (s *storeService) storeOf(ctx context.Context, staff *model.User) (*model.Store, error) {
	if staff.StoreID == nil {
		return nil, ErrNoStore
	}
	store, err := s.storeRepo.GetByID(ctx, *staff.StoreID)
	if err != nil {
		return nil, ErrStoreNotFound
	}
	return store, nil
}

func (s *storeService) GetProfile(ctx context.Context, staff *model.User) (*model.Store, error) {
	return s.storeOf(ctx, staff)
}

func (s *storeService) UpdateProfile(ctx context.Context, staff *model.User, req UpdateStoreRequest) (*model.Store, error) {
	store, err := s.storeOf(ctx, staff)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		store.Name = *req.Name
	}
	if req.Phone != nil {
		store.Phone = *req.Phone
	}
	if req.Address != nil {
		store.Address = *req.Address
	}
	if req.OpeningTime != nil {
		store.OpeningTime = *req.OpeningTime
	}
	if req.ClosingTime != nil {
		store.ClosingTime = *req.ClosingTime
	}
	if req.Description != nil {
		store.Description = *req.Description
	}

	if err := s.storeRepo.Update(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *storeService) UploadImage(ctx context.Context, staff *model.User, filename, contentType string, file io.Reader) (*model.Store, error) {
	store, err := s.storeOf(ctx, staff)
	if err != nil {
		return nil, err
	}

	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrInvalidFileType
	}

	dir := uploadDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	ext := filepath.Ext(filename)
	name := uuid.NewString() + ext
	path := filepath.Join(dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		return nil, err
	}

	oldURL := store.ImageURL
	store.ImageURL = "/static/uploads/stores/" + name
	if err := s.storeRepo.Update(ctx, store); err != nil {
		os.Remove(path)
		return nil, err
	}

	s.removeImageFile(oldURL)
	return store, nil
}

func (s *storeService) DeleteImage(ctx context.Context, staff *model.User) (*model.Store, error) {
	store, err := s.storeOf(ctx, staff)
	if err != nil {
		return nil, err
	}

	oldURL := store.ImageURL
	store.ImageURL = ""
	if err := s.storeRepo.Update(ctx, store); err != nil {
		return nil, err
	}

	s.removeImageFile(oldURL)
	return store, nil
}

// removeImageFile deletes a previously uploaded file. Failures are logged and
// swallowed; the database already points elsewhere.
func (s *storeService) removeImageFile(imageURL string) {
	const prefix = "/static/uploads/stores/"
	if !strings.HasPrefix(imageURL, prefix) {
		return
	}
	path := filepath.Join(uploadDir(), filepath.Base(imageURL))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to remove store image %s: %v", path, err)
	}
}

func (s *storeService) ListStaff(ctx context.Context, staff *model.User) ([]StaffMember, error) {
	if staff.StoreID == nil {
		return nil, ErrNoStore
	}

	users, err := s.userRepo.ListByStore(ctx, *staff.StoreID)
	if err != nil {
		return nil, err
	}

	members := make([]StaffMember, 0, len(users))
	for i := range users {
		member := StaffMember{
			ID:       users[i].ID,
			Username: users[i].Username,
			Email:    users[i].Email,
			FullName: users[i].FullName,
			IsActive: users[i].IsActive,
		}
		if len(users[i].UserRoles) > 0 {
			member.RoleName = users[i].UserRoles[0].Role.Name
		}
		members = append(members, member)
	}
	return members, nil
}

func (s *storeService) ListRoles(ctx context.Context) ([]model.Role, error) {
	return s.roleRepo.List(ctx)
}

func (s *storeService) AssignRole(ctx context.Context, staff *model.User, targetUserID uuid.UUID, roleName string) (*StaffMember, error) {
	if staff.StoreID == nil {
		return nil, ErrNoStore
	}

	target, err := s.userRepo.GetByID(ctx, targetUserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	// Members of other stores are indistinguishable from absent users.
	if target.StoreID == nil || *target.StoreID != *staff.StoreID {
		return nil, ErrUserNotFound
	}

	role, err := s.roleRepo.GetByName(ctx, roleName)
	if err != nil {
		return nil, ErrRoleNotFound
	}

	if err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.roleRepo.Assign(txCtx, target.ID, role.ID)
	}); err != nil {
		return nil, err
	}

	return &StaffMember{
		ID:       target.ID,
		Username: target.Username,
		Email:    target.Email,
		FullName: target.FullName,
		IsActive: target.IsActive,
		RoleName: role.Name,
	}, nil
}
