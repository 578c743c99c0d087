package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"oragh/backend/internal/access"
	"oragh/backend/internal/dto"
	"oragh/backend/internal/model"
	"oragh/backend/internal/repository"
)

// ForumService directories, posts and comments with hierarchical access: a
// board level directory hides its whole subtree from callers without board
// rights.
type ForumService interface {
	Tree(ctx context.Context, p access.Principal) ([]dto.DirectoryResponse, error)
	ListDirectories(ctx context.Context, p access.Principal, req *dto.DirectoryListRequest) ([]dto.DirectoryResponse, error)
	GetDirectory(ctx context.Context, p access.Principal, id string) (*dto.DirectoryResponse, error)
	CreateDirectory(ctx context.Context, p access.Principal, req *dto.CreateDirectoryRequest) (*dto.DirectoryResponse, error)
	UpdateDirectory(ctx context.Context, p access.Principal, id string, req *dto.UpdateDirectoryRequest) (*dto.DirectoryResponse, error)
	MoveDirectory(ctx context.Context, p access.Principal, id string, parentID *string) (*dto.DirectoryResponse, error)
	DeleteDirectory(ctx context.Context, p access.Principal, id string) error

	ListPosts(ctx context.Context, p access.Principal, req *dto.PostListRequest) ([]dto.PostResponse, int64, error)
	CreatePost(ctx context.Context, p access.Principal, req *dto.CreatePostRequest) (*dto.PostResponse, error)
	GetPost(ctx context.Context, p access.Principal, id string) (*dto.PostResponse, error)
	UpdatePost(ctx context.Context, p access.Principal, id string, req *dto.UpdatePostRequest) (*dto.PostResponse, error)
	DeletePost(ctx context.Context, p access.Principal, id string) error
	MovePost(ctx context.Context, p access.Principal, id, directoryID string) (*dto.PostResponse, error)

	ListComments(ctx context.Context, p access.Principal, postID string, req *dto.CommentListRequest) ([]dto.CommentResponse, int64, error)
	CreateComment(ctx context.Context, p access.Principal, postID string, req *dto.CommentRequest) (*dto.CommentResponse, error)
	GetComment(ctx context.Context, p access.Principal, id string) (*dto.CommentResponse, error)
	UpdateComment(ctx context.Context, p access.Principal, id string, req *dto.CommentRequest) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, p access.Principal, id string) error

	// Stats counts the directories, posts and comments the caller can see.
	Stats(ctx context.Context, p access.Principal) (*dto.ForumStatsResponse, error)
}

type forumService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewForumService creates a ForumService.
func NewForumService(repo *repository.Repository, logger *zap.Logger) ForumService {
	return &forumService{repo: repo, logger: logger, now: time.Now}
}

// forest is every directory loaded at once, with the access graph.
type forest struct {
	dirs  []model.Directory
	byID  map[string]*model.Directory
	nodes map[string]access.Node
}

func (s *forumService) loadForest(ctx context.Context) (*forest, error) {
	dirs, err := s.repo.Directory.ListAll(ctx)
	if err != nil {
		s.logger.Error("load directories failed", zap.Error(err))
		return nil, err
	}
	f := &forest{
		dirs:  dirs,
		byID:  make(map[string]*model.Directory, len(dirs)),
		nodes: make(map[string]access.Node, len(dirs)),
	}
	for i := range dirs {
		d := &dirs[i]
		f.byID[d.DirectoryID] = d
		f.nodes[d.DirectoryID] = access.Node{ID: d.DirectoryID, ParentID: d.ParentID, AccessLevel: d.AccessLevel}
	}
	return f, nil
}

// accessible resolves id and checks p may see it.
func (f *forest) accessible(p access.Principal, id string) (*model.Directory, error) {
	d, ok := f.byID[id]
	if !ok {
		return nil, ErrDirectoryNotFound
	}
	if !access.CanAccessDirectory(p, id, f.nodes) {
		return nil, ErrDirectoryAccessDenied
	}
	return d, nil
}

func (s *forumService) counts(ctx context.Context, dirs []*model.Directory) (map[string]int64, error) {
	ids := make([]string, 0, len(dirs))
	for _, d := range dirs {
		ids = append(ids, d.DirectoryID)
	}
	counts, err := s.repo.Post.CountByDirectories(ctx, ids)
	if err != nil {
		s.logger.Error("count posts failed", zap.Error(err))
		return nil, err
	}
	return counts, nil
}

func toDirectoryResponse(d *model.Directory, posts int64) dto.DirectoryResponse {
	return dto.DirectoryResponse{
		ID:           d.DirectoryID,
		Name:         d.Name,
		Description:  d.Description,
		ParentID:     d.ParentID,
		AccessLevel:  d.AccessLevel,
		DisplayOrder: d.DisplayOrder,
		AuthorID:     d.AuthorID,
		PostsCount:   posts,
		CreatedAt:    formatTime(d.CreatedAt),
		UpdatedAt:    formatTime(d.UpdatedAt),
	}
}

func toPostResponse(p *model.Post) dto.PostResponse {
	return dto.PostResponse{
		ID:          p.PostID,
		Title:       p.Title,
		Content:     p.Content,
		DirectoryID: p.DirectoryID,
		Author:      toUserBrief(p.Author),
		IsPinned:    p.IsPinned,
		IsLocked:    p.IsLocked,
		CreatedAt:   formatTime(p.CreatedAt),
		UpdatedAt:   formatTime(p.UpdatedAt),
	}
}

// ════════════════════════════════════════
// Directories
// ════════════════════════════════════════

func (s *forumService) Tree(ctx context.Context, p access.Principal) ([]dto.DirectoryResponse, error) {
	f, err := s.loadForest(ctx)
	if err != nil {
		return nil, err
	}

	children := make(map[string][]*model.Directory)
	var roots, visible []*model.Directory
	for i := range f.dirs {
		d := &f.dirs[i]
		if !access.CanAccessDirectory(p, d.DirectoryID, f.nodes) {
			continue
		}
		visible = append(visible, d)
		if d.ParentID == nil {
			roots = append(roots, d)
		} else {
			children[*d.ParentID] = append(children[*d.ParentID], d)
		}
	}
	counts, err := s.counts(ctx, visible)
	if err != nil {
		return nil, err
	}

	var build func(list []*model.Directory, depth int) []dto.DirectoryResponse
	build = func(list []*model.Directory, depth int) []dto.DirectoryResponse {
		out := make([]dto.DirectoryResponse, 0, len(list))
		for _, d := range list {
			resp := toDirectoryResponse(d, counts[d.DirectoryID])
			if depth < len(f.dirs) {
				resp.Children = build(children[d.DirectoryID], depth+1)
			}
			out = append(out, resp)
		}
		return out
	}
	return build(roots, 0), nil
}

func (s *forumService) ListDirectories(ctx context.Context, p access.Principal, req *dto.DirectoryListRequest) ([]dto.DirectoryResponse, error) {
	f, err := s.loadForest(ctx)
	if err != nil {
		return nil, err
	}
	if req.ParentID != "" {
		if _, err := f.accessible(p, req.ParentID); err != nil {
			return nil, err
		}
	}

	search := strings.ToLower(strings.TrimSpace(req.Search))
	var matched []*model.Directory
	for i := range f.dirs {
		d := &f.dirs[i]
		if req.ParentID != "" && (d.ParentID == nil || *d.ParentID != req.ParentID) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(d.Name), search) {
			continue
		}
		if !access.CanAccessDirectory(p, d.DirectoryID, f.nodes) {
			continue
		}
		matched = append(matched, d)
	}

	counts, err := s.counts(ctx, matched)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DirectoryResponse, 0, len(matched))
	for _, d := range matched {
		out = append(out, toDirectoryResponse(d, counts[d.DirectoryID]))
	}
	return out, nil
}

func (s *forumService) GetDirectory(ctx context.Context, p access.Principal, id string) (*dto.DirectoryResponse, error) {
	f, err := s.loadForest(ctx)
	if err != nil {
		return nil, err
	}
	d, err := f.accessible(p, id)
	if err != nil {
		return nil, err
	}
	posts, err := s.repo.Post.CountByDirectory(ctx, id)
	if err != nil {
		s.logger.Error("count posts failed", zap.Error(err))
		return nil, err
	}
	resp := toDirectoryResponse(d, posts)
	return &resp, nil
}

func (s *forumService) CreateDirectory(ctx context.Context, p access.Principal, req *dto.CreateDirectoryRequest) (*dto.DirectoryResponse, error) {
	if !p.CanModerate() {
		return nil, ErrForumManageRequired
	}
	if req.ParentID != nil && *req.ParentID != "" {
		f, err := s.loadForest(ctx)
		if err != nil {
			return nil, err
		}
		if _, err := f.accessible(p, *req.ParentID); err != nil {
			return nil, err
		}
	} else {
		req.ParentID = nil
	}

	level := req.AccessLevel
	if level == "" {
		level = model.AccessAll
	}
	dir := &model.Directory{
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		ParentID:     req.ParentID,
		AccessLevel:  level,
		DisplayOrder: req.DisplayOrder,
	}
	if p.UserID != "" {
		author := p.UserID
		dir.AuthorID = &author
	}
	if err := s.repo.Directory.Create(ctx, dir); err != nil {
		s.logger.Error("create directory failed", zap.Error(err))
		return nil, err
	}
	resp := toDirectoryResponse(dir, 0)
	return &resp, nil
}

func (s *forumService) UpdateDirectory(ctx context.Context, p access.Principal, id string, req *dto.UpdateDirectoryRequest) (*dto.DirectoryResponse, error) {
	if !p.CanModerate() {
		return nil, ErrForumManageRequired
	}
	if !validID(id) {
		return nil, ErrDirectoryNotFound
	}
	dir, err := s.repo.Directory.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrDirectoryNotFound
		}
		s.logger.Error("load directory failed", zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		dir.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		dir.Description = *req.Description
	}
	if req.AccessLevel != nil {
		dir.AccessLevel = *req.AccessLevel
	}
	if req.DisplayOrder != nil {
		dir.DisplayOrder = *req.DisplayOrder
	}
	if err := s.repo.Directory.Update(ctx, dir); err != nil {
		s.logger.Error("update directory failed", zap.Error(err))
		return nil, err
	}

	posts, err := s.repo.Post.CountByDirectory(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toDirectoryResponse(dir, posts)
	return &resp, nil
}

func (s *forumService) MoveDirectory(ctx context.Context, p access.Principal, id string, parentID *string) (*dto.DirectoryResponse, error) {
	if !p.CanModerate() {
		return nil, ErrForumManageRequired
	}
	f, err := s.loadForest(ctx)
	if err != nil {
		return nil, err
	}
	dir, ok := f.byID[id]
	if !ok {
		return nil, ErrDirectoryNotFound
	}

	if parentID != nil && *parentID == "" {
		parentID = nil
	}
	if parentID != nil {
		if _, err := f.accessible(p, *parentID); err != nil {
			return nil, err
		}
		if access.IsDescendant(*parentID, id, f.nodes) {
			return nil, ErrDirectoryCycle
		}
	}

	dir.ParentID = parentID
	if err := s.repo.Directory.Update(ctx, dir); err != nil {
		s.logger.Error("move directory failed", zap.Error(err))
		return nil, err
	}
	s.logger.Info("directory moved", zap.String("directory_id", id))

	posts, err := s.repo.Post.CountByDirectory(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toDirectoryResponse(dir, posts)
	return &resp, nil
}

func (s *forumService) DeleteDirectory(ctx context.Context, p access.Principal, id string) error {
	if !p.CanModerate() {
		return ErrForumManageRequired
	}
	if !validID(id) {
		return ErrDirectoryNotFound
	}
	if _, err := s.repo.Directory.GetByID(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrDirectoryNotFound
		}
		s.logger.Error("load directory failed", zap.Error(err))
		return err
	}

	subdirs, err := s.repo.Directory.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	posts, err := s.repo.Post.CountByDirectory(ctx, id)
	if err != nil {
		return err
	}
	if subdirs > 0 || posts > 0 {
		return ErrDirectoryNotEmpty
	}

	if err := s.repo.Directory.Delete(ctx, id); err != nil {
		s.logger.Error("delete directory failed", zap.Error(err))
		return err
	}
	return nil
}

// ════════════════════════════════════════
// Posts
// ════════════════════════════════════════

func (s *forumService) ListPosts(ctx context.Context, p access.Principal, req *dto.PostListRequest) ([]dto.PostResponse, int64, error) {
	f, err := s.loadForest(ctx)
	if err != nil {
		return nil, 0, err
	}
	if _, err := f.accessible(p, req.DirectoryID); err != nil {
		return nil, 0, err
	}

	posts, total, err := s.repo.Post.List(ctx, repository.PostFilter{
		DirectoryID: req.DirectoryID,
		Search:      req.Search,
		Offset:      req.GetOffset(),
		Limit:       req.GetPageSize(),
	})
	if err != nil {
		s.logger.Error("list posts failed", zap.Error(err))
		return nil, 0, err
	}
	ids := make([]string, 0, len(posts))
	for i := range posts {
		ids = append(ids, posts[i].PostID)
	}
	comments, err := s.repo.Comment.CountByPosts(ctx, ids)
	if err != nil {
		s.logger.Error("count comments failed", zap.Error(err))
		return nil, 0, err
	}
	out := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		resp := toPostResponse(&posts[i])
		resp.CommentsCount = comments[posts[i].PostID]
		out = append(out, resp)
	}
	return out, total, nil
}

func (s *forumService) CreatePost(ctx context.Context, p access.Principal, req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	f, err := s.loadForest(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := f.accessible(p, req.DirectoryID); err != nil {
		return nil, err
	}

	post := &model.Post{
		Title:       strings.TrimSpace(req.Title),
		Content:     req.Content,
		DirectoryID: req.DirectoryID,
	}
	if p.UserID != "" {
		author := p.UserID
		post.AuthorID = &author
	}
	if err := s.repo.Post.Create(ctx, post); err != nil {
		s.logger.Error("create post failed", zap.Error(err))
		return nil, err
	}
	resp := toPostResponse(post)
	return &resp, nil
}

// loadPost fetches a post and checks access to its directory.
func (s *forumService) loadPost(ctx context.Context, p access.Principal, id string) (*model.Post, error) {
	post, _, err := s.loadPostWithForest(ctx, p, id)
	return post, err
}

func (s *forumService) loadPostWithForest(ctx context.Context, p access.Principal, id string) (*model.Post, *forest, error) {
	if !validID(id) {
		return nil, nil, ErrPostNotFound
	}
	post, err := s.repo.Post.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil, ErrPostNotFound
		}
		s.logger.Error("load post failed", zap.Error(err))
		return nil, nil, err
	}
	f, err := s.loadForest(ctx)
	if err != nil {
		return nil, nil, err
	}
	if _, err := f.accessible(p, post.DirectoryID); err != nil {
		return nil, nil, err
	}
	return post, f, nil
}

// postResponse renders a single post with its comment count.
func (s *forumService) postResponse(ctx context.Context, post *model.Post) (*dto.PostResponse, error) {
	counts, err := s.repo.Comment.CountByPosts(ctx, []string{post.PostID})
	if err != nil {
		s.logger.Error("count comments failed", zap.String("post_id", post.PostID), zap.Error(err))
		return nil, err
	}
	resp := toPostResponse(post)
	resp.CommentsCount = counts[post.PostID]
	return &resp, nil
}

func isAuthor(p access.Principal, post *model.Post) bool {
	return post.AuthorID != nil && *post.AuthorID == p.UserID
}

func (s *forumService) GetPost(ctx context.Context, p access.Principal, id string) (*dto.PostResponse, error) {
	post, err := s.loadPost(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return s.postResponse(ctx, post)
}

func (s *forumService) UpdatePost(ctx context.Context, p access.Principal, id string, req *dto.UpdatePostRequest) (*dto.PostResponse, error) {
	post, err := s.loadPost(ctx, p, id)
	if err != nil {
		return nil, err
	}

	manager := p.CanModerate()
	if !manager {
		if !isAuthor(p, post) {
			return nil, ErrNotPostAuthor
		}
		if post.IsLocked {
			return nil, ErrPostLocked
		}
		if req.IsPinned != nil || req.IsLocked != nil {
			return nil, ErrForumManageRequired
		}
	}

	if req.Title != nil {
		post.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.IsPinned != nil {
		post.IsPinned = *req.IsPinned
	}
	if req.IsLocked != nil {
		post.IsLocked = *req.IsLocked
	}
	if err := s.repo.Post.Update(ctx, post); err != nil {
		s.logger.Error("update post failed", zap.Error(err))
		return nil, err
	}
	return s.postResponse(ctx, post)
}

func (s *forumService) DeletePost(ctx context.Context, p access.Principal, id string) error {
	post, err := s.loadPost(ctx, p, id)
	if err != nil {
		return err
	}
	if !p.CanModerate() && !isAuthor(p, post) {
		return ErrNotPostAuthor
	}
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Comment.DeleteByPost(ctx, id); err != nil {
			return err
		}
		return tx.Post.Delete(ctx, id)
	})
	if err != nil {
		s.logger.Error("delete post failed", zap.Error(err))
		return err
	}
	return nil
}

// MovePost puts a post into another directory the caller can access. Authors
// may move their own unlocked posts.
func (s *forumService) MovePost(ctx context.Context, p access.Principal, id, directoryID string) (*dto.PostResponse, error) {
	post, f, err := s.loadPostWithForest(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if !p.CanModerate() {
		if !isAuthor(p, post) {
			return nil, ErrNotPostAuthor
		}
		if post.IsLocked {
			return nil, ErrPostLocked
		}
	}
	if _, err := f.accessible(p, directoryID); err != nil {
		return nil, err
	}

	post.DirectoryID = directoryID
	if err := s.repo.Post.Update(ctx, post); err != nil {
		s.logger.Error("move post failed", zap.String("post_id", id), zap.Error(err))
		return nil, err
	}
	s.logger.Info("post moved", zap.String("post_id", id), zap.String("directory_id", directoryID))
	return s.postResponse(ctx, post)
}

// ════════════════════════════════════════
// Comments
// ════════════════════════════════════════

func canEditComment(p access.Principal, c *model.Comment) bool {
	return p.CanModerate() || (c.AuthorID != nil && *c.AuthorID == p.UserID)
}

func toCommentResponse(p access.Principal, c *model.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:        c.CommentID,
		PostID:    c.PostID,
		Content:   c.Content,
		Author:    toUserBrief(c.Author),
		IsEdited:  c.IsEdited,
		CanEdit:   canEditComment(p, c),
		CreatedAt: formatTime(c.CreatedAt),
		UpdatedAt: formatTime(c.UpdatedAt),
	}
}

// loadComment fetches a comment and its post, checking access to the post.
func (s *forumService) loadComment(ctx context.Context, p access.Principal, id string) (*model.Comment, *model.Post, error) {
	if !validID(id) {
		return nil, nil, ErrCommentNotFound
	}
	comment, err := s.repo.Comment.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil, ErrCommentNotFound
		}
		s.logger.Error("load comment failed", zap.Error(err))
		return nil, nil, err
	}
	post, err := s.loadPost(ctx, p, comment.PostID)
	if err != nil {
		return nil, nil, err
	}
	return comment, post, nil
}

func (s *forumService) ListComments(ctx context.Context, p access.Principal, postID string, req *dto.CommentListRequest) ([]dto.CommentResponse, int64, error) {
	if _, err := s.loadPost(ctx, p, postID); err != nil {
		return nil, 0, err
	}
	comments, total, err := s.repo.Comment.ListByPost(ctx, postID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list comments failed", zap.String("post_id", postID), zap.Error(err))
		return nil, 0, err
	}
	out := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, toCommentResponse(p, &comments[i]))
	}
	return out, total, nil
}

// CreateComment adds a comment and bumps the post's updated_at. Locked posts
// take no new comments, not even from moderators.
func (s *forumService) CreateComment(ctx context.Context, p access.Principal, postID string, req *dto.CommentRequest) (*dto.CommentResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrCommentEmpty.WithField("content", "Must not be empty")
	}
	post, err := s.loadPost(ctx, p, postID)
	if err != nil {
		return nil, err
	}
	if post.IsLocked {
		return nil, ErrCommentsLocked
	}

	comment := &model.Comment{PostID: postID, Content: content}
	if p.UserID != "" {
		author := p.UserID
		comment.AuthorID = &author
	}
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Comment.Create(ctx, comment); err != nil {
			return err
		}
		return tx.Post.Touch(ctx, postID, s.now().UTC())
	})
	if err != nil {
		s.logger.Error("create comment failed", zap.String("post_id", postID), zap.Error(err))
		return nil, err
	}
	created, err := s.repo.Comment.GetByID(ctx, comment.CommentID)
	if err != nil {
		return nil, err
	}
	resp := toCommentResponse(p, created)
	return &resp, nil
}

func (s *forumService) GetComment(ctx context.Context, p access.Principal, id string) (*dto.CommentResponse, error) {
	comment, _, err := s.loadComment(ctx, p, id)
	if err != nil {
		return nil, err
	}
	resp := toCommentResponse(p, comment)
	return &resp, nil
}

func (s *forumService) UpdateComment(ctx context.Context, p access.Principal, id string, req *dto.CommentRequest) (*dto.CommentResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrCommentEmpty.WithField("content", "Must not be empty")
	}
	comment, post, err := s.loadComment(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if !canEditComment(p, comment) {
		return nil, ErrNotCommentAuthor
	}
	if post.IsLocked {
		return nil, ErrCommentsLocked
	}

	comment.Content = content
	comment.IsEdited = true
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Comment.Update(ctx, comment); err != nil {
			return err
		}
		return tx.Post.Touch(ctx, post.PostID, s.now().UTC())
	})
	if err != nil {
		s.logger.Error("update comment failed", zap.String("comment_id", id), zap.Error(err))
		return nil, err
	}
	resp := toCommentResponse(p, comment)
	return &resp, nil
}

func (s *forumService) DeleteComment(ctx context.Context, p access.Principal, id string) error {
	comment, _, err := s.loadComment(ctx, p, id)
	if err != nil {
		return err
	}
	if !canEditComment(p, comment) {
		return ErrNotCommentAuthor
	}
	if err := s.repo.Comment.Delete(ctx, id); err != nil {
		s.logger.Error("delete comment failed", zap.String("comment_id", id), zap.Error(err))
		return err
	}
	return nil
}

// ════════════════════════════════════════
// Stats
// ════════════════════════════════════════

func (s *forumService) Stats(ctx context.Context, p access.Principal) (*dto.ForumStatsResponse, error) {
	f, err := s.loadForest(ctx)
	if err != nil {
		return nil, err
	}
	var visible []*model.Directory
	for i := range f.dirs {
		if access.CanAccessDirectory(p, f.dirs[i].DirectoryID, f.nodes) {
			visible = append(visible, &f.dirs[i])
		}
	}
	counts, err := s.counts(ctx, visible)
	if err != nil {
		return nil, err
	}

	stats := &dto.ForumStatsResponse{DirectoriesCount: len(visible)}
	ids := make([]string, 0, len(visible))
	for _, d := range visible {
		stats.PostsCount += counts[d.DirectoryID]
		ids = append(ids, d.DirectoryID)
	}
	stats.CommentsCount, err = s.repo.Comment.CountInDirectories(ctx, ids)
	if err != nil {
		s.logger.Error("count comments failed", zap.Error(err))
		return nil, err
	}
	return stats, nil
}
