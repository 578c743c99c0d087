package model

import "gorm.io/gorm"

// Directory access levels.
const (
	AccessAll   = "all"
	AccessBoard = "board"
)

// Directory is a forum folder. A board level directory hides itself and all
// of its descendants from non board members.
type Directory struct {
	DirectoryID  string  `gorm:"type:uuid;primaryKey"                    json:"directory_id"`
	Name         string  `gorm:"type:varchar(200);not null"              json:"name"`
	Description  string  `gorm:"type:text;not null;default:''"           json:"description"`
	ParentID     *string `gorm:"type:uuid;index"                         json:"parent_id,omitempty"`
	AccessLevel  string  `gorm:"type:varchar(10);not null;default:'all'" json:"access_level"`
	DisplayOrder int     `gorm:"not null;default:0"                      json:"display_order"`
	AuthorID     *string `gorm:"type:uuid"                               json:"author_id,omitempty"`
	BaseModel

	Author *User `gorm:"foreignKey:AuthorID;references:UserID" json:"author,omitempty"`
}

func (Directory) TableName() string { return "forum_directories" }

func (d *Directory) BeforeCreate(*gorm.DB) error {
	ensureID(&d.DirectoryID)
	return nil
}

// Post is a forum thread inside a directory.
type Post struct {
	PostID      string  `gorm:"type:uuid;primaryKey"       json:"post_id"`
	Title       string  `gorm:"type:varchar(200);not null" json:"title"`
	Content     string  `gorm:"type:text;not null"         json:"content"`
	DirectoryID string  `gorm:"type:uuid;not null;index"   json:"directory_id"`
	AuthorID    *string `gorm:"type:uuid"                  json:"author_id,omitempty"`
	IsPinned    bool    `gorm:"not null;default:false"     json:"is_pinned"`
	IsLocked    bool    `gorm:"not null;default:false"     json:"is_locked"`
	BaseModel

	Author *User `gorm:"foreignKey:AuthorID;references:UserID" json:"author,omitempty"`
}

func (Post) TableName() string { return "forum_posts" }

func (p *Post) BeforeCreate(*gorm.DB) error {
	ensureID(&p.PostID)
	return nil
}

// Comment is a reply under a post. IsEdited is set on the first edit.
type Comment struct {
	CommentID string  `gorm:"type:uuid;primaryKey"     json:"comment_id"`
	PostID    string  `gorm:"type:uuid;not null;index" json:"post_id"`
	AuthorID  *string `gorm:"type:uuid;index"          json:"author_id,omitempty"`
	Content   string  `gorm:"type:text;not null"       json:"content"`
	IsEdited  bool    `gorm:"not null;default:false"   json:"is_edited"`
	BaseModel

	Author *User `gorm:"foreignKey:AuthorID;references:UserID" json:"author,omitempty"`
}

func (Comment) TableName() string { return "forum_comments" }

func (c *Comment) BeforeCreate(*gorm.DB) error {
	ensureID(&c.CommentID)
	return nil
}
