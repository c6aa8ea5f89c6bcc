package handler

import (
	"net/http"

	"github.com/MarioTomas0209/system-order/internal/middleware"
	"github.com/MarioTomas0209/system-order/internal/service"
	"github.com/MarioTomas0209/system-order/pkg/pagination"
	"github.com/MarioTomas0209/system-order/pkg/response"

	"github.com/gin-gonic/gin"
)

type BranchHandler struct {
	branchService service.BranchService
}

func NewBranchHandler(branchService service.BranchService) *BranchHandler {
	return &BranchHandler{branchService: branchService}
}

func (h *BranchHandler) RegisterRoutes(router *gin.RouterGroup) {
	branches := router.Group("/api/branches", middleware.RequireAuth())
	{
		branches.GET("", h.ListBranches)
		branches.GET("/active", h.ListActiveBranches)
		branches.POST("", h.CreateBranch)
		branches.GET("/:id", h.GetBranch)
		branches.PUT("/:id", h.UpdateBranch)
		branches.DELETE("/:id", h.DeleteBranch)
	}
}

// ListBranches returns all branches for the management screen
// @Summary      List branches
// @Tags         branches
// @Security     BearerAuth
// @Produce      json
// @Param        page   query  int  false  "Page number (default 1)"
// @Param        limit  query  int  false  "Items per page"
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /api/branches [get]
func (h *BranchHandler) ListBranches(c *gin.Context) {
	params := pagination.Parse(c)

	branches, total, err := h.branchService.ListBranches(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"branches": branches,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// ListActiveBranches returns only branches selectable when creating an order
// @Summary      List active branches
// @Description  Inactive branches are hidden here but stay visible in branch management
// @Tags         branches
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.BranchResponse}
// @Failure      500  {object}  response.Response
// @Router       /api/branches/active [get]
func (h *BranchHandler) ListActiveBranches(c *gin.Context) {
	branches, err := h.branchService.ListActiveBranches(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, branches))
}

// CreateBranch creates a new branch
// @Summary      Create branch
// @Tags         branches
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateBranchRequest  true  "Create Branch Payload"
// @Success      201      {object}  response.Response{data=service.BranchResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/branches [post]
func (h *BranchHandler) CreateBranch(c *gin.Context) {
	var req service.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	branch, err := h.branchService.CreateBranch(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, branch))
}

// GetBranch fetches a single branch
// @Summary      Get branch
// @Tags         branches
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Branch ID"
// @Success      200  {object}  response.Response{data=service.BranchResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/branches/{id} [get]
func (h *BranchHandler) GetBranch(c *gin.Context) {
	branch, err := h.branchService.GetBranch(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, branch))
}

// UpdateBranch updates a branch's details and active flag
// @Summary      Update branch
// @Tags         branches
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Branch ID"
// @Param        payload  body      service.UpdateBranchRequest  true  "Update Branch Payload"
// @Success      200      {object}  response.Response{data=service.BranchResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/branches/{id} [put]
func (h *BranchHandler) UpdateBranch(c *gin.Context) {
	var req service.UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	branch, err := h.branchService.UpdateBranch(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, branch))
}

// DeleteBranch removes a branch with no orders attached
// @Summary      Delete branch
// @Description  Refused while orders still reference the branch
// @Tags         branches
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Branch ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/branches/{id} [delete]
func (h *BranchHandler) DeleteBranch(c *gin.Context) {
	if err := h.branchService.DeleteBranch(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Branch deleted successfully"))
}
