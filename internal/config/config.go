package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Service   *svcConfig
	Simulator *simulatorConfig
	Artifacts *artifactsConfig
	Document  *documentConfig
}

type svcConfig struct {
	Address        string        `envconfig:"AUTO_ASPEN_ADDRESS" default:":8000"`
	LogLevel       string        `envconfig:"AUTO_ASPEN_LOG_LEVEL" default:"info"`
	AllowedOrigins []string      `envconfig:"AUTO_ASPEN_ALLOWED_ORIGINS" default:"*"`
	RequestTimeout time.Duration `envconfig:"AUTO_ASPEN_REQUEST_TIMEOUT" default:"10m"`
}

type simulatorConfig struct {
	ModelPath string        `envconfig:"ASPEN_APWZ_FILE_PATH" default:"./models/RE-Expander.apwz"`
	ProgIDs   []string      `envconfig:"AUTO_ASPEN_PROG_IDS" default:"Apwn.Document,Apwn.Document.40.0,Apwn.Document.39.0,Apwn.Document.38.0"`
	Visible   bool          `envconfig:"AUTO_ASPEN_VISIBLE" default:"false"`
	Timeout   time.Duration `envconfig:"AUTO_ASPEN_SIMULATION_TIMEOUT" default:"5m"`
	// Time to wait for exclusive access to the simulator.
	AcquireTimeout time.Duration `envconfig:"AUTO_ASPEN_SIMULATOR_ACQUIRE_TIMEOUT" default:"2m"`
	FeedStream     string        `envconfig:"AUTO_ASPEN_FEED_STREAM" default:"FEED"`
	ExpanderBlock  string        `envconfig:"AUTO_ASPEN_EXPANDER_BLOCK" default:"EXPANDER"`

	BreakerMaxFailures  uint32        `envconfig:"AUTO_ASPEN_BREAKER_MAX_FAILURES" default:"3"`
	BreakerResetTimeout time.Duration `envconfig:"AUTO_ASPEN_BREAKER_RESET_TIMEOUT" default:"1m"`
}

type artifactsConfig struct {
	// Store is "local" or "minio".
	Store     string `envconfig:"AUTO_ASPEN_ARTIFACT_STORE" default:"local"`
	Dir       string `envconfig:"AUTO_ASPEN_ARTIFACT_DIR" default:"./static"`
	URLPrefix string `envconfig:"AUTO_ASPEN_ARTIFACT_URL_PREFIX" default:"/static"`

	MinioEndpoint  string        `envconfig:"AUTO_ASPEN_MINIO_ENDPOINT" default:""`
	MinioAccessKey string        `envconfig:"AUTO_ASPEN_MINIO_ACCESS_KEY" default:""`
	MinioSecretKey string        `envconfig:"AUTO_ASPEN_MINIO_SECRET_KEY" default:""`
	MinioBucket    string        `envconfig:"AUTO_ASPEN_MINIO_BUCKET" default:"auto-aspen"`
	MinioUseSSL    bool          `envconfig:"AUTO_ASPEN_MINIO_USE_SSL" default:"false"`
	MinioURLExpiry time.Duration `envconfig:"AUTO_ASPEN_MINIO_URL_EXPIRY" default:"24h"`
}

type documentConfig struct {
	// Empty disables Word report generation.
	TemplatePath string `envconfig:"AUTO_ASPEN_TEMPLATE_PATH" default:"./models/RE_template.docx"`
	ConvertPDF   bool   `envconfig:"AUTO_ASPEN_CONVERT_PDF" default:"false"`
	SofficePath  string `envconfig:"AUTO_ASPEN_SOFFICE" default:"soffice"`
	Workbook     bool   `envconfig:"AUTO_ASPEN_WORKBOOK" default:"true"`
}

// New reads the configuration from the environment.
func New() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
