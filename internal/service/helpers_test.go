package service

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"oragh/backend/internal/access"
	"oragh/backend/internal/model"
	"oragh/backend/internal/repository"
	"oragh/backend/internal/testutil"
)

// ── test setup ──

func setupRepo(t *testing.T) (*repository.Repository, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	return repository.NewRepository(db), db
}

// fakeNotifier records every notification it is asked to send.
type fakeNotifier struct {
	mu         sync.Mutex
	registered []string
	activated  []string
	rejected   []string
	tokens     []string
}

func (n *fakeNotifier) RegistrationReceived(_ context.Context, user *model.User, _ string, token string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.registered = append(n.registered, user.Username)
	n.tokens = append(n.tokens, token)
}

func (n *fakeNotifier) AccountActivated(_ context.Context, user *model.User) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.activated = append(n.activated, user.Username)
}

func (n *fakeNotifier) AccountRejected(_ context.Context, user *model.User) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rejected = append(n.rejected, user.Username)
}

var (
	musicianPrincipal = access.Principal{UserID: "u-musician", Groups: []string{access.GroupMusician}}
	boardPrincipal    = access.Principal{UserID: "u-board", Groups: []string{access.GroupBoard}}
)

func countRows(t *testing.T, db *gorm.DB, m interface{}, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(m).Where(where, args...).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func ptr[T any](v T) *T { return &v }

var nop = zap.NewNop()
