package handler

import (
	"errors"
	"net/http"

	"github.com/ichi1107/bento-order-system/internal/middleware"
	"github.com/ichi1107/bento-order-system/internal/model"
	"github.com/ichi1107/bento-order-system/internal/service"
	"github.com/ichi1107/bento-order-system/pkg/response"

	"github.com/gin-gonic/gin"
)

type StoreHandler struct {
	storeService service.StoreService
}

func NewStoreHandler(storeService service.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *StoreHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/api/store/profile")
	{
		profile.GET("", middleware.RequireStoreRole(model.RoleOwner, model.RoleManager, model.RoleStaff), h.GetProfile)
		profile.PUT("", middleware.RequireStoreRole(model.RoleOwner), h.UpdateProfile)
		profile.POST("/image", middleware.RequireStoreRole(model.RoleOwner), h.UploadImage)
		profile.DELETE("/image", middleware.RequireStoreRole(model.RoleOwner), h.DeleteImage)
	}

	staff := router.Group("/api/store/staff", middleware.RequireStoreRole(model.RoleOwner))
	{
		staff.GET("", h.ListStaff)
		staff.POST("/roles", h.AssignRole)
	}

	router.GET("/api/store/roles", middleware.RequireStoreRole(model.RoleOwner), h.ListRoles)
}

// GetProfile handles GET /api/store/profile
// @Summary      Get the store profile
// @Tags         store
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.Store}
// @Failure      404  {object}  response.Response
// @Router       /api/store/profile [get]
func (h *StoreHandler) GetProfile(c *gin.Context) {
	store, err := h.storeService.GetProfile(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, store))
}

// UpdateProfile handles PUT /api/store/profile
// @Summary      Update the store profile
// @Tags         store
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.UpdateStoreRequest  true  "Fields to update"
// @Success      200      {object}  response.Response{data=model.Store}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/store/profile [put]
func (h *StoreHandler) UpdateProfile(c *gin.Context) {
	var req service.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	store, err := h.storeService.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, store))
}

// UploadImage handles POST /api/store/profile/image
// @Summary      Upload a store image
// @Description  Accepts a multipart image upload and replaces the current image
// @Tags         store
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Image file"
// @Success      200   {object}  response.Response{data=model.Store}
// @Failure      400   {object}  response.Response
// @Router       /api/store/profile/image [post]
func (h *StoreHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Image file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Could not read uploaded file"))
		return
	}
	defer file.Close()

	store, err := h.storeService.UploadImage(c.Request.Context(), middleware.CurrentUser(c),
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, store))
}

// DeleteImage handles DELETE /api/store/profile/image
// @Summary      Remove the store image
// @Tags         store
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.Store}
// @Failure      404  {object}  response.Response
// @Router       /api/store/profile/image [delete]
func (h *StoreHandler) DeleteImage(c *gin.Context) {
	store, err := h.storeService.DeleteImage(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, store))
}

// ListStaff handles GET /api/store/staff
// @Summary      List store staff
// @Tags         store-staff
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.StaffMember}
// @Failure      400  {object}  response.Response
// @Router       /api/store/staff [get]
func (h *StoreHandler) ListStaff(c *gin.Context) {
	members, err := h.storeService.ListStaff(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, members))
}

// ListRoles handles GET /api/store/roles
// @Summary      List assignable roles
// @Tags         store-staff
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.Role}
// @Router       /api/store/roles [get]
func (h *StoreHandler) ListRoles(c *gin.Context) {
	roles, err := h.storeService.ListRoles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, roles))
}

// AssignRole handles POST /api/store/staff/roles
// @Summary      Assign a role to a staff member
// @Description  Replaces any existing assignment; one role per user
// @Tags         store-staff
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.AssignRoleRequest  true  "User and Role"
// @Success      200      {object}  response.Response{data=service.StaffMember}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/store/staff/roles [post]
func (h *StoreHandler) AssignRole(c *gin.Context) {
	var req service.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	member, err := h.storeService.AssignRole(c.Request.Context(), middleware.CurrentUser(c), req.UserID, req.RoleName)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	// The member may be mid-session; drop their cached role immediately.
	middleware.ClearRoleCache(&req.UserID)

	c.JSON(http.StatusOK, response.Success(http.StatusOK, member))
}

func respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStoreNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrRoleNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	case errors.Is(err, service.ErrNoStore), errors.Is(err, service.ErrInvalidFileType):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
	}
}
