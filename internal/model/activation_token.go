package model

import (
	"time"

	"gorm.io/gorm"
)

// ActivationToken gates admin approval of a registration. One per account,
// consumed at most once.
type ActivationToken struct {
	TokenID     string     `gorm:"type:uuid;primaryKey"      json:"-"`
	Token       string     `gorm:"type:uuid;not null;unique" json:"token"`
	UserID      string     `gorm:"type:uuid;not null;unique" json:"user_id"`
	IsUsed      bool       `gorm:"not null;default:false"    json:"is_used"`
	ActivatedAt *time.Time `                                 json:"activated_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null"                  json:"created_at"`

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

func (ActivationToken) TableName() string { return "activation_tokens" }

func (t *ActivationToken) BeforeCreate(*gorm.DB) error {
	ensureID(&t.TokenID)
	ensureID(&t.Token)
	return nil
}

// IsExpired reports whether the token is older than ttl at now.
func (t *ActivationToken) IsExpired(now time.Time, ttl time.Duration) bool {
	return now.After(t.CreatedAt.Add(ttl))
}
