package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gnbaba/TindaWise/internal/domain/model"
	repo "github.com/gnbaba/TindaWise/internal/repository"

	"gorm.io/gorm"
)

type userRecord struct {
	ID           string `gorm:"type:varchar(64);primaryKey"`
	Name         string `gorm:"type:varchar(255);not null"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time
}

func (userRecord) TableName() string { return "users" }

// AutoMigrateUsersはユーザーテーブルを作る
func AutoMigrateUsers(db *gorm.DB) error {
	return db.AutoMigrate(&userRecord{})
}

type UserGormRepository struct {
	db *gorm.DB
}

// DI
func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

func (r *UserGormRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	var rec userRecord
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, repo.ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}

	return model.User{
		ID:           rec.ID,
		Name:         rec.Name,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		CreatedAt:    rec.CreatedAt,
	}, nil
}

func (r *UserGormRepository) Create(ctx context.Context, u model.User) error {
	rec := userRecord{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
	err := r.db.WithContext(ctx).Create(&rec).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repo.ErrDuplicateKey
	}
	return err
}
