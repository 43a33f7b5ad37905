package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gnbaba/TindaWise/internal/domain/model"
	repo "github.com/gnbaba/TindaWise/internal/repository"
)

// ユーザーもファイルに置ける（DBなし運用）。件数は店のスタッフ数程度。
type UserFileRepository struct {
	mu   sync.Mutex
	path string
}

func NewUserFileRepository(path string) *UserFileRepository {
	return &UserFileRepository{path: path}
}

func (r *UserFileRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.read()
	if err != nil {
		return model.User{}, err
	}

	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return model.User{}, repo.ErrNotFound
}

func (r *UserFileRepository) Create(ctx context.Context, u model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.read()
	if err != nil {
		return err
	}

	for _, existing := range users {
		if strings.EqualFold(existing.Email, u.Email) {
			return repo.ErrDuplicateKey
		}
	}

	users = append(users, u)
	return r.write(users)
}

// ファイル上はPasswordHashも保存する必要があるので別表現を使う
type userFileRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r *UserFileRepository) read() ([]model.User, error) {
	raw, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return []model.User{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}

	var recs []userFileRecord
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]model.User, 0, len(recs))
	for _, rec := range recs {
		users = append(users, model.User{
			ID:           rec.ID,
			Name:         rec.Name,
			Email:        rec.Email,
			PasswordHash: rec.PasswordHash,
			CreatedAt:    rec.CreatedAt,
		})
	}
	return users, nil
}

func (r *UserFileRepository) write(users []model.User) error {
	recs := make([]userFileRecord, 0, len(users))
	for _, u := range users {
		recs = append(recs, userFileRecord{
			ID:           u.ID,
			Name:         u.Name,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			CreatedAt:    u.CreatedAt,
		})
	}

	raw, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".users-*.json")
	if err != nil {
		return fmt.Errorf("create temp users: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write users: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close users: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace users: %w", err)
	}
	return nil
}
