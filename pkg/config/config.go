package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Storage       StorageConfig
	Upload        UploadConfig
	Pricing       PricingConfig
	PDF           PDFConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PDFLEX_APP_ENV" required:"true"`
	Port         string `envconfig:"PDFLEX_APP_PORT" default:"8000"`
	LogLevel     string `envconfig:"PDFLEX_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"PDFLEX_LOG_FORMAT"`
	LogWarnStack bool   `envconfig:"PDFLEX_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"PDFLEX_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN        string `envconfig:"PDFLEX_DB_DSN"`
	SQLitePath string `envconfig:"PDFLEX_DB_SQLITE_PATH" default:"pdflex.db"`

	LegacyHost     string `envconfig:"PDFLEX_DB_HOST"`
	LegacyPort     int    `envconfig:"PDFLEX_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PDFLEX_DB_USER"`
	LegacyPassword string `envconfig:"PDFLEX_DB_PASSWORD"`
	LegacyName     string `envconfig:"PDFLEX_DB_NAME"`
	LegacySSLMode  string `envconfig:"PDFLEX_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PDFLEX_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PDFLEX_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PDFLEX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PDFLEX_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	UseSQLite bool `ignored:"true"`
}

// RedisConfig is optional; when neither URL nor address is set the auth rate
// limiter is disabled.
type RedisConfig struct {
	URL          string        `envconfig:"PDFLEX_REDIS_URL"`
	Address      string        `envconfig:"PDFLEX_REDIS_ADDR"`
	Password     string        `envconfig:"PDFLEX_REDIS_PASSWORD"`
	DB           int           `envconfig:"PDFLEX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PDFLEX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PDFLEX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PDFLEX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PDFLEX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PDFLEX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"PDFLEX_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PDFLEX_JWT_ISSUER" default:"pdflex"`
	ExpirationMinutes int    `envconfig:"PDFLEX_JWT_EXPIRE_MIN" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PDFLEX_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PDFLEX_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PDFLEX_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PDFLEX_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PDFLEX_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"PDFLEX_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"PDFLEX_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"PDFLEX_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"PDFLEX_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"PDFLEX_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"PDFLEX_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PDFLEX_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PDFLEX_AUTO_MIGRATE" default:"false"`
}

type StorageConfig struct {
	Driver   string `envconfig:"PDFLEX_STORAGE_DRIVER" default:"local"`
	LocalDir string `envconfig:"PDFLEX_STORAGE_LOCAL_DIR" default:"uploads"`

	S3Bucket       string `envconfig:"PDFLEX_S3_BUCKET"`
	S3Region       string `envconfig:"PDFLEX_S3_REGION" default:"eu-central-1"`
	S3Endpoint     string `envconfig:"PDFLEX_S3_ENDPOINT"`
	S3AccessKey    string `envconfig:"PDFLEX_S3_ACCESS_KEY"`
	S3SecretKey    string `envconfig:"PDFLEX_S3_SECRET_KEY"`
	S3Prefix       string `envconfig:"PDFLEX_S3_PREFIX" default:"documents"`
	S3UsePathStyle bool   `envconfig:"PDFLEX_S3_USE_PATH_STYLE" default:"false"`
}

func (s StorageConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(s.Driver)) {
	case StorageDriverLocal:
		if strings.TrimSpace(s.LocalDir) == "" {
			return fmt.Errorf("%s is required for the local storage driver", EnvStorageLocalDir)
		}
		return nil
	case StorageDriverS3:
		if s.S3Bucket == "" {
			return fmt.Errorf("%s is required for the s3 storage driver", EnvS3Bucket)
		}
		return nil
	default:
		return fmt.Errorf("unsupported storage driver %q", s.Driver)
	}
}

type UploadConfig struct {
	MaxUploadMB int `envconfig:"PDFLEX_MAX_UPLOAD_MB" default:"50"`
}

// MaxBytes returns the configured upload ceiling in bytes.
func (u UploadConfig) MaxBytes() int64 {
	if u.MaxUploadMB <= 0 {
		return 50 << 20
	}
	return int64(u.MaxUploadMB) << 20
}

// PricingConfig carries the catalog and charity policy. Map values use the
// envconfig "key:value,key:value" syntax.
type PricingConfig struct {
	PricesCents      map[string]int64  `envconfig:"PDFLEX_PRICES_CENTS" default:"convert_docx:100,protect:30,ocr_text:20,text_counter:20"`
	CharityPercents  map[string]string `envconfig:"PDFLEX_CHARITY_PERCENTS" default:"one_time:0.15,premium:0.20,pro:0.25"`
	FreeMonthlyLimit int               `envconfig:"PDFLEX_FREE_MONTHLY_LIMIT" default:"20"`
	DefaultCharityID int64             `envconfig:"PDFLEX_DEFAULT_CHARITY_ID" default:"1"`
}

type PDFConfig struct {
	PdftotextBin string        `envconfig:"PDFLEX_PDFTOTEXT_BIN" default:"pdftotext"`
	PdftoppmBin  string        `envconfig:"PDFLEX_PDFTOPPM_BIN" default:"pdftoppm"`
	TesseractBin string        `envconfig:"PDFLEX_TESSERACT_BIN" default:"tesseract"`
	OfficeBin    string        `envconfig:"PDFLEX_SOFFICE_BIN" default:"soffice"`
	OCRLanguage  string        `envconfig:"PDFLEX_OCR_LANG" default:"eng"`
	OCRDPI       int           `envconfig:"PDFLEX_OCR_DPI" default:"200"`
	Timeout      time.Duration `envconfig:"PDFLEX_PDF_TOOL_TIMEOUT" default:"2m"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	db.UseSQLite = useSQLite
	if useSQLite || db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
