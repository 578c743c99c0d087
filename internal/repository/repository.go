package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every data access interface.
type Repository struct {
	db *gorm.DB

	User            UserRepository
	Musician        MusicianRepository
	Season          SeasonRepository
	Roster          RosterRepository
	Event           EventRepository
	Attendance      AttendanceRepository
	ActivationToken ActivationTokenRepository
	Directory       DirectoryRepository
	Post            PostRepository
	Comment         CommentRepository
	Concert         ConcertRepository
}

// NewRepository builds the aggregate over db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:              db,
		User:            NewUserRepo(db),
		Musician:        NewMusicianRepo(db),
		Season:          NewSeasonRepo(db),
		Roster:          NewRosterRepo(db),
		Event:           NewEventRepo(db),
		Attendance:      NewAttendanceRepo(db),
		ActivationToken: NewActivationTokenRepo(db),
		Directory:       NewDirectoryRepo(db),
		Post:            NewPostRepo(db),
		Comment:         NewCommentRepo(db),
		Concert:         NewConcertRepo(db),
	}
}

// WithTx returns an aggregate bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction runs fn inside one database transaction. fn must only use the
// repository it is given.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
