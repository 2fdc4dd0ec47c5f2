package likes

import (
	"context"
	"fmt"
	"testing"

	"github.com/cjnation/cjnation-backend/pkg/db/models"
	"github.com/cjnation/cjnation-backend/pkg/enums"
	pkgerrors "github.com/cjnation/cjnation-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Post{}, &models.Like{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return conn
}

func seedPost(t *testing.T, db *gorm.DB) *models.Post {
	t.Helper()
	post := &models.Post{
		ID:         uuid.New(),
		Title:      "Lagos Tech Week",
		Body:       "<p>coverage</p>",
		Slug:       "lagos-tech-week",
		Status:     enums.PostStatusPublished,
		CategoryID: uuid.New(),
		AuthorID:   uuid.New(),
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return post
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{DB: gormTxRunner{db: db}, Repo: NewRepository(db)})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s got %s", code, typed.Code())
	}
}

func likeCount(t *testing.T, db *gorm.DB, postID uuid.UUID) int {
	t.Helper()
	var post models.Post
	if err := db.First(&post, "id = ?", postID).Error; err != nil {
		t.Fatalf("load post: %v", err)
	}
	return post.LikeCount
}

func TestLikeBumpsCounterOnce(t *testing.T) {
	db := newTestDB(t)
	post := seedPost(t, db)
	svc := newTestService(t, db)
	user := uuid.New()

	dto, err := svc.Like(context.Background(), user, post.ID)
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if dto.PostID != post.ID || dto.UserID != user {
		t.Fatalf("unexpected like %+v", dto)
	}
	if got := likeCount(t, db, post.ID); got != 1 {
		t.Fatalf("like_count = %d", got)
	}
}

func TestDuplicateLikeConflictsWithoutDoubleCount(t *testing.T) {
	db := newTestDB(t)
	post := seedPost(t, db)
	svc := newTestService(t, db)
	user := uuid.New()

	if _, err := svc.Like(context.Background(), user, post.ID); err != nil {
		t.Fatalf("first like: %v", err)
	}
	_, err := svc.Like(context.Background(), user, post.ID)
	assertCode(t, err, pkgerrors.CodeConflict)

	if got := likeCount(t, db, post.ID); got != 1 {
		t.Fatalf("duplicate attempt changed like_count to %d", got)
	}
	var rows int64
	if err := db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&rows).Error; err != nil {
		t.Fatalf("count likes: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 like row, got %d", rows)
	}
}

func TestUnlikeDecrementsCounter(t *testing.T) {
	db := newTestDB(t)
	post := seedPost(t, db)
	svc := newTestService(t, db)
	user := uuid.New()

	if _, err := svc.Like(context.Background(), user, post.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	if err := svc.Unlike(context.Background(), user, post.ID); err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if got := likeCount(t, db, post.ID); got != 0 {
		t.Fatalf("like_count = %d", got)
	}
}

func TestUnlikeWithoutLikeIsNotFound(t *testing.T) {
	db := newTestDB(t)
	post := seedPost(t, db)
	svc := newTestService(t, db)

	err := svc.Unlike(context.Background(), uuid.New(), post.ID)
	assertCode(t, err, pkgerrors.CodeNotFound)
	if got := likeCount(t, db, post.ID); got != 0 {
		t.Fatalf("like_count = %d", got)
	}
}

func TestLikeMissingPostIsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.Like(context.Background(), uuid.New(), uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestListByPostReturnsLikes(t *testing.T) {
	db := newTestDB(t)
	post := seedPost(t, db)
	svc := newTestService(t, db)

	for i := 0; i < 3; i++ {
		if _, err := svc.Like(context.Background(), uuid.New(), post.ID); err != nil {
			t.Fatalf("like: %v", err)
		}
	}
	rows, err := svc.ListByPost(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 likes, got %d", len(rows))
	}
}
