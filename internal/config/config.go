package config

import "github.com/kelseyhightower/envconfig"

// Configはアプリ全体の設定。環境変数から読む。
type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	// DATABASE_URLがあればPostgres、なければJSONファイルに保存する
	DatabaseURL string `envconfig:"DATABASE_URL"`
	DataFile    string `envconfig:"DATA_FILE" default:"data/tindawise.json"`
	UsersFile   string `envconfig:"USERS_FILE" default:"data/tindawise_users.json"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	GoEnv string `envconfig:"GO_ENV" default:"development"`
}

// Loadは環境変数から設定を組み立てる
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
