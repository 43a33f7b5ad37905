package main

import (
	"context"
	"time"

	"github.com/gnbaba/TindaWise/internal/config"
	"github.com/gnbaba/TindaWise/internal/handler"
	"github.com/gnbaba/TindaWise/internal/infra/db"
	infraRepo "github.com/gnbaba/TindaWise/internal/infra/repository"
	"github.com/gnbaba/TindaWise/internal/repository"
	"github.com/gnbaba/TindaWise/internal/server"
	"github.com/gnbaba/TindaWise/internal/store"
	"github.com/gnbaba/TindaWise/internal/usecase"
	"github.com/gnbaba/TindaWise/pkg/logger"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(userID string, email string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	// .envは無くてもよい（本番は実環境変数）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger.Init(cfg.GoEnv)

	// 永続化の選択：DATABASE_URLがあればPostgres、なければJSONファイル
	var snapshots repository.SnapshotRepository
	var users repository.UserRepository

	if cfg.DatabaseURL != "" {
		gormDB, err := db.Connect()
		if err != nil {
			logger.Fatal().Err(err).Msg("db connect failed")
		}
		if err := infraRepo.AutoMigrate(gormDB); err != nil {
			logger.Fatal().Err(err).Msg("db migrate failed")
		}
		if err := infraRepo.AutoMigrateUsers(gormDB); err != nil {
			logger.Fatal().Err(err).Msg("db migrate failed")
		}
		snapshots = infraRepo.NewSnapshotGormRepository(gormDB)
		users = infraRepo.NewUserGormRepository(gormDB)
		logger.Info().Msg("using postgres snapshot store")
	} else {
		snapshots = infraRepo.NewSnapshotFileRepository(cfg.DataFile)
		users = infraRepo.NewUserFileRepository(cfg.UsersFile)
		logger.Info().Str("path", cfg.DataFile).Msg("using file snapshot store")
	}

	// 起動時に前回のスナップショットを読む。初回は空。
	snap, err := snapshots.Load(context.Background())
	if err != nil {
		logger.Fatal().Err(err).Msg("snapshot load failed")
	}

	idGen := &uuidGenerator{}
	clock := &realClock{}

	catalog := store.NewCatalog(snap.Products)
	ledger := store.NewLedger(snap.Sales, idGen)

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := usecase.NewBcryptPasswordHasher(12)
	verifier := usecase.NewBcryptPasswordVerifier()

	//JWT issuer
	issuer := &jwtIssuer{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: 12 * time.Hour,
	}

	//Usecase生成
	catalogUC := usecase.NewCatalogUsecase(catalog, ledger, snapshots, clock)
	checkoutUC := usecase.NewCheckoutUsecase(catalog, ledger, snapshots, clock)
	reportUC := usecase.NewReportUsecase(catalog, ledger, clock)
	authUC := usecase.NewAuthUsecase(users, hasher, verifier, issuer, idGen, clock)

	//Handler生成
	authH := handler.NewAuthHandler(authUC)
	invH := handler.NewInventoryHandler(catalogUC)
	checkoutH := handler.NewCheckoutHandler(checkoutUC)
	reportH := handler.NewReportHandler(reportUC)

	//Server起動
	e := server.New(cfg, authH, invH, checkoutH, reportH)

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Int("products", len(snap.Products)).Int("sales", len(snap.Sales)).Msg("tindawise api started")
	if err := server.Start(e, addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
