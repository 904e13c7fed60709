// Package store holds the data access functions used by the page handlers.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"estatehub/internal/models"
)

const (
	// FeaturedLimit is the number of listings shown on the home page.
	FeaturedLimit = 6
	// SearchLimit caps a single search result page.
	SearchLimit = 48
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrUnknownPolicy  = errors.New("unknown moderation policy")
	ErrDuplicateEmail = errors.New("email already registered")
)

// ModerationPolicy selects which listings a query may return.
type ModerationPolicy int

const (
	// ModeratedOnly returns approved, non-rejected listings.
	ModeratedOnly ModerationPolicy = iota + 1
	// AllListings returns every listing regardless of moderation state.
	AllListings
)

func (p ModerationPolicy) String() string {
	switch p {
	case ModeratedOnly:
		return "moderated"
	case AllListings:
		return "all"
	}
	return fmt.Sprintf("ModerationPolicy(%d)", int(p))
}

// Store wraps the shared database handle.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB { return s.db }

func ownerProjection(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "image")
}

func imagesBySortOrder(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC, id ASC")
}

func published(db *gorm.DB) *gorm.DB {
	return db.Where("properties.moderated = ? AND properties.rejected = ?", true, false)
}

// FeaturedProperties returns the newest listings for the given policy with
// their images and a reduced owner.
func (s *Store) FeaturedProperties(ctx context.Context, policy ModerationPolicy) ([]models.Property, error) {
	q := s.db.WithContext(ctx).Model(&models.Property{})
	switch policy {
	case ModeratedOnly:
		q = q.Scopes(published)
	case AllListings:
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownPolicy, policy)
	}

	var properties []models.Property
	err := q.
		Preload("Images", imagesBySortOrder).
		Preload("Owner", ownerProjection).
		Order("properties.created_at DESC").
		Limit(FeaturedLimit).
		Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load featured properties: %w", err)
	}
	return properties, nil
}

// PropertyByID loads a listing with its images, owner and complex.
func (s *Store) PropertyByID(ctx context.Context, id uint) (*models.Property, error) {
	var p models.Property
	err := s.db.WithContext(ctx).
		Preload("Images", imagesBySortOrder).
		Preload("Owner", ownerProjection).
		Preload("Complex").
		First(&p, id).Error
	if err != nil {
		return nil, notFound(err, "property", id)
	}
	return &p, nil
}

// ComplexByID loads a complex and its published listings.
func (s *Store) ComplexByID(ctx context.Context, id uint) (*models.Complex, error) {
	var c models.Complex
	err := s.db.WithContext(ctx).
		Preload("Properties", func(db *gorm.DB) *gorm.DB {
			return published(db).Order("properties.created_at DESC")
		}).
		Preload("Properties.Images", imagesBySortOrder).
		First(&c, id).Error
	if err != nil {
		return nil, notFound(err, "complex", id)
	}
	return &c, nil
}

// Complexes lists every complex by name.
func (s *Store) Complexes(ctx context.Context) ([]models.Complex, error) {
	var complexes []models.Complex
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&complexes).Error; err != nil {
		return nil, fmt.Errorf("failed to load complexes: %w", err)
	}
	return complexes, nil
}

// OwnerProperties returns every listing of an owner, pending ones included.
func (s *Store) OwnerProperties(ctx context.Context, ownerID uint) ([]models.Property, error) {
	var properties []models.Property
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Preload("Images", imagesBySortOrder).
		Order("created_at DESC").
		Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load properties of owner %d: %w", ownerID, err)
	}
	return properties, nil
}

// AddImage appends an image to a listing after its current last image.
func (s *Store) AddImage(ctx context.Context, propertyID uint, url, key string) (*models.Image, error) {
	db := s.db.WithContext(ctx)

	var exists int64
	if err := db.Model(&models.Property{}).Where("id = ?", propertyID).Count(&exists).Error; err != nil {
		return nil, fmt.Errorf("failed to look up property %d: %w", propertyID, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: property %d", ErrNotFound, propertyID)
	}

	var next int
	err := db.Model(&models.Image{}).
		Where("property_id = ?", propertyID).
		Select("COALESCE(MAX(sort_order) + 1, 0)").
		Scan(&next).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute image order: %w", err)
	}

	img := &models.Image{PropertyID: propertyID, URL: url, Key: key, SortOrder: next}
	if err := db.Create(img).Error; err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}
	return img, nil
}

// Favorites returns the listings a user saved, most recently saved first.
func (s *Store) Favorites(ctx context.Context, userID uint) ([]models.Property, error) {
	var properties []models.Property
	err := s.db.WithContext(ctx).
		Joins("JOIN favorites ON favorites.property_id = properties.id").
		Where("favorites.user_id = ?", userID).
		Preload("Images", imagesBySortOrder).
		Order("favorites.created_at DESC, favorites.id DESC").
		Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites of user %d: %w", userID, err)
	}
	return properties, nil
}

// IsFavorite reports whether the user saved the listing.
func (s *Store) IsFavorite(ctx context.Context, userID, propertyID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to look up favorite: %w", err)
	}
	return n > 0, nil
}

// AddFavorite saves a listing for a user. Saving twice is a no-op.
func (s *Store) AddFavorite(ctx context.Context, userID, propertyID uint) error {
	db := s.db.WithContext(ctx)

	var exists int64
	if err := db.Model(&models.Property{}).Where("id = ?", propertyID).Count(&exists).Error; err != nil {
		return fmt.Errorf("failed to look up property %d: %w", propertyID, err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: property %d", ErrNotFound, propertyID)
	}

	fav := models.Favorite{UserID: userID, PropertyID: propertyID}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "property_id"}},
		DoNothing: true,
	}).Create(&fav).Error
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite deletes a saved listing. Removing a missing favorite is not
// an error.
func (s *Store) RemoveFavorite(ctx context.Context, userID, propertyID uint) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Delete(&models.Favorite{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// UserByEmail finds an account by its login email.
func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&u).Error
	if err != nil {
		return nil, notFound(err, "user", email)
	}
	return &u, nil
}

// UserByID finds an account by id.
func (s *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err, "user", id)
	}
	return &u, nil
}

// CreateUser inserts a new account. The email is stored lower-cased.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	u.Email = normalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", ErrDuplicateEmail, u.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func notFound(err error, kind string, key interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %v", ErrNotFound, kind, key)
	}
	return fmt.Errorf("failed to load %s %v: %w", kind, key, err)
}
