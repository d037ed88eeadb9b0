package repositories

import (
	"context"
	"strings"

	"github.com/anonto42/nano-midea/social-api/internal/models"
	"gorm.io/gorm"
)

// likeEscaper makes LIKE wildcards in a search term match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// PostFilter narrows a post listing. Zero values do not filter.
type PostFilter struct {
	// Search matches title or content, case-insensitively.
	Search string
	// AuthorIDs restricts the listing to these authors when non-nil.
	AuthorIDs []uint
	// FollowedBy restricts the listing to authors the given user follows.
	FollowedBy uint
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	ListPosts(ctx context.Context, filter PostFilter, offset, limit int) ([]models.Post, int64, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id uint) error
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost inserts post; CreatedAt is kept when already set.
func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// GetPostByID retrieves a post by ID
func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &post, nil
}

// ListPosts returns one page of posts, most recent first, and the total
// number of posts matching filter.
func (r *PostgresPostRepository) ListPosts(ctx context.Context, filter PostFilter, offset, limit int) ([]models.Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Post{})
	if filter.AuthorIDs != nil {
		if len(filter.AuthorIDs) == 0 {
			return []models.Post{}, 0, nil
		}
		query = query.Where("author_id IN ?", filter.AuthorIDs)
	}
	if filter.FollowedBy != 0 {
		followees := r.db.Model(&models.Follow{}).Select("followee_id").Where("follower_id = ?", filter.FollowedBy)
		query = query.Where("author_id IN (?)", followees)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		query = query.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(content) LIKE ? ESCAPE '\'`, like, like)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	posts := []models.Post{}
	err := query.Scopes(paginate(offset, limit)).
		Order("created_at DESC").
		Order("id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// UpdatePost writes title, content and updated_at. The author column is never written.
func (r *PostgresPostRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	res := r.db.WithContext(ctx).Model(post).
		Select("title", "content", "updated_at").
		Updates(post)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePost deletes a post; its comments and likes are removed by cascade.
func (r *PostgresPostRepository) DeletePost(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
