package model

import (
	"time"

	"gorm.io/gorm"
)

// User is an account. Registration creates it disabled; it can only log in
// once an administrator activates it.
type User struct {
	UserID       string      `gorm:"type:uuid;primaryKey"                json:"user_id"`
	Username     string      `gorm:"type:varchar(150);not null;unique"   json:"username"`
	Email        string      `gorm:"type:varchar(254);not null"          json:"email"`
	FirstName    string      `gorm:"type:varchar(150);not null"          json:"first_name"`
	LastName     string      `gorm:"type:varchar(150);not null"          json:"last_name"`
	PasswordHash string      `gorm:"type:varchar(255);not null"          json:"-"`
	IsActive     bool        `gorm:"not null;default:false"              json:"is_active"`
	IsStaff      bool        `gorm:"not null;default:false"              json:"is_staff"`
	IsSuperuser  bool        `gorm:"not null;default:false"              json:"is_superuser"`
	Groups       StringArray `gorm:"not null"                           json:"groups"`
	LastLogin    *time.Time  `                                           json:"last_login,omitempty"`
	BaseModel

	Musician *Musician `gorm:"foreignKey:UserID;references:UserID" json:"musician,omitempty"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.UserID)
	if u.Groups == nil {
		u.Groups = StringArray{}
	}
	return nil
}

// FullName returns "First Last", falling back to the username.
func (u *User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}
