package usecase

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/gnbaba/TindaWise/internal/domain/model"
	"github.com/gnbaba/TindaWise/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// 平文パスワードからハッシュへ
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// ハッシュと平文の照合
type PasswordVerifier interface {
	Verify(hash string, plain string) error
}

// アクセストークンの発行だけを約束
type TokenIssuer interface {
	Issue(userID string, email string, now time.Time) (token string, expiresAt time.Time, err error)
}

// UUID等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// bcryptハッシュ化
type BcryptPasswordHasher struct {
	cost int
}

func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	return &BcryptPasswordHasher{cost: cost}
}

func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type BcryptPasswordVerifier struct{}

func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

func (v *BcryptPasswordVerifier) Verify(hash string, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

// AuthUsecaseはレジ画面に入るまでの登録・ログイン。
type AuthUsecase struct {
	users    repository.UserRepository
	hasher   PasswordHasher
	verifier PasswordVerifier
	issuer   TokenIssuer
	idGen    IDGenerator
	clock    Clock
}

// DI
func NewAuthUsecase(
	users repository.UserRepository,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	issuer TokenIssuer,
	idGen IDGenerator,
	clock Clock,
) *AuthUsecase {
	return &AuthUsecase{
		users:    users,
		hasher:   hasher,
		verifier: verifier,
		issuer:   issuer,
		idGen:    idGen,
		clock:    clock,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if name == "" {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "name required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid email format")
	}
	// パスワード最低文字数（MVP: 8）
	if len(in.Password) < 8 {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "password too short")
	}

	// email重複チェック
	if _, err := u.users.FindByEmail(ctx, email); err == nil {
		return model.User{}, NewHTTPError(http.StatusConflict, "email already used")
	} else if err != repository.ErrNotFound {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "hash error")
	}

	user := model.User{
		ID:           u.idGen.NewID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    u.clock.Now(),
	}
	if err := u.users.Create(ctx, user); err != nil {
		if err == repository.ErrDuplicateKey {
			return model.User{}, NewHTTPError(http.StatusConflict, "email already used")
		}
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}

	return user, nil
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      model.User `json:"user"`
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return LoginOutput{}, NewHTTPError(http.StatusBadRequest, "email and password required")
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err == repository.ErrNotFound {
		// 存在しないemailか間違ったパスワードかは区別させない
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}

	if err := u.verifier.Verify(user.PasswordHash, in.Password); err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, expiresAt, err := u.issuer.Issue(user.ID, user.Email, u.clock.Now())
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "token error")
	}

	return LoginOutput{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
