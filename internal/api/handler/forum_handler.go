package handler

import (
	"github.com/gin-gonic/gin"

	"oragh/backend/internal/dto"
	"oragh/backend/internal/service"
	"oragh/backend/pkg/response"
)

// ForumHandler serves directories, posts and comments. Visibility is decided per
// object by the service from the caller's principal.
type ForumHandler struct {
	forumSvc service.ForumService
}

func NewForumHandler(forumSvc service.ForumService) *ForumHandler {
	return &ForumHandler{forumSvc: forumSvc}
}

// ── Directories ──

// Tree
// GET /api/v1/forum/directories/tree
func (h *ForumHandler) Tree(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	tree, err := h.forumSvc.Tree(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, tree)
}

// ListDirectories
// GET /api/v1/forum/directories
func (h *ForumHandler) ListDirectories(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.DirectoryListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	list, err := h.forumSvc.ListDirectories(c.Request.Context(), p, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, list)
}

// GetDirectory
// GET /api/v1/forum/directories/:id
func (h *ForumHandler) GetDirectory(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	dir, err := h.forumSvc.GetDirectory(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, dir)
}

// CreateDirectory
// POST /api/v1/forum/directories
func (h *ForumHandler) CreateDirectory(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.CreateDirectoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	dir, err := h.forumSvc.CreateDirectory(c.Request.Context(), p, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, dir)
}

// UpdateDirectory
// PUT /api/v1/forum/directories/:id
func (h *ForumHandler) UpdateDirectory(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.UpdateDirectoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	dir, err := h.forumSvc.UpdateDirectory(c.Request.Context(), p, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, dir)
}

// MoveDirectory reparents a directory; a null parent_id moves it to the root.
// POST /api/v1/forum/directories/:id/move
func (h *ForumHandler) MoveDirectory(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.MoveDirectoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	dir, err := h.forumSvc.MoveDirectory(c.Request.Context(), p, c.Param("id"), req.ParentID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, dir)
}

// DeleteDirectory
// DELETE /api/v1/forum/directories/:id
func (h *ForumHandler) DeleteDirectory(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	if err := h.forumSvc.DeleteDirectory(c.Request.Context(), p, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	response.OKWithMessage(c, "Directory deleted", nil)
}

// ── Posts ──

// ListPosts
// GET /api/v1/forum/posts?directory=
func (h *ForumHandler) ListPosts(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.PostListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	list, total, err := h.forumSvc.ListPosts(c.Request.Context(), p, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// CreatePost
// POST /api/v1/forum/posts
func (h *ForumHandler) CreatePost(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	post, err := h.forumSvc.CreatePost(c.Request.Context(), p, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, post)
}

// GetPost
// GET /api/v1/forum/posts/:id
func (h *ForumHandler) GetPost(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	post, err := h.forumSvc.GetPost(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, post)
}

// UpdatePost
// PUT /api/v1/forum/posts/:id
func (h *ForumHandler) UpdatePost(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	post, err := h.forumSvc.UpdatePost(c.Request.Context(), p, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, post)
}

// DeletePost
// DELETE /api/v1/forum/posts/:id
func (h *ForumHandler) DeletePost(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	if err := h.forumSvc.DeletePost(c.Request.Context(), p, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	response.OKWithMessage(c, "Post deleted", nil)
}

// MovePost
// POST /api/v1/forum/posts/:id/move
func (h *ForumHandler) MovePost(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.MovePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	post, err := h.forumSvc.MovePost(c.Request.Context(), p, c.Param("id"), req.DirectoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, post)
}

// ── Comments ──

// ListComments
// GET /api/v1/forum/posts/:id/comments
func (h *ForumHandler) ListComments(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.CommentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	list, total, err := h.forumSvc.ListComments(c.Request.Context(), p, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// CreateComment
// POST /api/v1/forum/posts/:id/comments
func (h *ForumHandler) CreateComment(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	comment, err := h.forumSvc.CreateComment(c.Request.Context(), p, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, comment)
}

// GetComment
// GET /api/v1/forum/comments/:id
func (h *ForumHandler) GetComment(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	comment, err := h.forumSvc.GetComment(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, comment)
}

// UpdateComment
// PUT /api/v1/forum/comments/:id
func (h *ForumHandler) UpdateComment(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	comment, err := h.forumSvc.UpdateComment(c.Request.Context(), p, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, comment)
}

// DeleteComment
// DELETE /api/v1/forum/comments/:id
func (h *ForumHandler) DeleteComment(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	if err := h.forumSvc.DeleteComment(c.Request.Context(), p, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	response.OKWithMessage(c, "Comment deleted", nil)
}

// Stats
// GET /api/v1/forum/stats
func (h *ForumHandler) Stats(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	stats, err := h.forumSvc.Stats(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, stats)
}
