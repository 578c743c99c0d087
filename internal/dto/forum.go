package dto

// ── Directories ──

// CreateDirectoryRequest POST /forum/directories
type CreateDirectoryRequest struct {
	Name         string  `json:"name"          binding:"required,max=200"`
	Description  string  `json:"description"`
	ParentID     *string `json:"parent_id"`
	AccessLevel  string  `json:"access_level"  binding:"omitempty,oneof=all board"`
	DisplayOrder int     `json:"display_order"`
}

// UpdateDirectoryRequest PUT /forum/directories/:id
type UpdateDirectoryRequest struct {
	Name         *string `json:"name"          binding:"omitempty,max=200"`
	Description  *string `json:"description"`
	AccessLevel  *string `json:"access_level"  binding:"omitempty,oneof=all board"`
	DisplayOrder *int    `json:"display_order"`
}

// MoveDirectoryRequest POST /forum/directories/:id/move. A nil parent moves to the root.
type MoveDirectoryRequest struct {
	ParentID *string `json:"parent_id"`
}

// DirectoryListRequest GET /forum/directories
type DirectoryListRequest struct {
	ParentID string `form:"parent"`
	Search   string `form:"search"`
}

// DirectoryResponse directory view; Children is filled by the tree endpoint.
type DirectoryResponse struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	ParentID     *string             `json:"parent_id"`
	AccessLevel  string              `json:"access_level"`
	DisplayOrder int                 `json:"display_order"`
	AuthorID     *string             `json:"author_id,omitempty"`
	PostsCount   int64               `json:"posts_count"`
	Children     []DirectoryResponse `json:"children,omitempty"`
	CreatedAt    string              `json:"created_at"`
	UpdatedAt    string              `json:"updated_at"`
}

// ── Posts ──

// CreatePostRequest POST /forum/posts
type CreatePostRequest struct {
	Title       string `json:"title"        binding:"required,max=200"`
	Content     string `json:"content"      binding:"required"`
	DirectoryID string `json:"directory_id" binding:"required"`
}

// UpdatePostRequest PUT /forum/posts/:id. Pin and lock are manager only.
type UpdatePostRequest struct {
	Title    *string `json:"title"     binding:"omitempty,max=200"`
	Content  *string `json:"content"`
	IsPinned *bool   `json:"is_pinned"`
	IsLocked *bool   `json:"is_locked"`
}

// PostListRequest GET /forum/posts
type PostListRequest struct {
	PaginationRequest
	DirectoryID string `form:"directory" binding:"required"`
	Search      string `form:"search"`
}

// MovePostRequest POST /forum/posts/:id/move
type MovePostRequest struct {
	DirectoryID string `json:"directory_id" binding:"required"`
}

// PostResponse post view.
type PostResponse struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	DirectoryID   string     `json:"directory_id"`
	Author        *UserBrief `json:"author,omitempty"`
	IsPinned      bool       `json:"is_pinned"`
	IsLocked      bool       `json:"is_locked"`
	CommentsCount int64      `json:"comments_count"`
	CreatedAt     string     `json:"created_at"`
	UpdatedAt     string     `json:"updated_at"`
}

// ── Comments ──

// CommentRequest POST /forum/posts/:id/comments and PUT /forum/comments/:id
type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CommentListRequest GET /forum/posts/:id/comments
type CommentListRequest struct {
	PaginationRequest
}

// CommentResponse comment view. CanEdit is resolved for the caller.
type CommentResponse struct {
	ID        string     `json:"id"`
	PostID    string     `json:"post_id"`
	Content   string     `json:"content"`
	Author    *UserBrief `json:"author,omitempty"`
	IsEdited  bool       `json:"is_edited"`
	CanEdit   bool       `json:"can_edit"`
	CreatedAt string     `json:"created_at"`
	UpdatedAt string     `json:"updated_at"`
}

// ── Stats ──

// ForumStatsResponse counts of what the caller can see.
type ForumStatsResponse struct {
	DirectoriesCount int   `json:"directories_count"`
	PostsCount       int64 `json:"posts_count"`
	CommentsCount    int64 `json:"comments_count"`
}
