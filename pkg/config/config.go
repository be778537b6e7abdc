package config

import (
	"time"
)

type DB struct {
	Url string `envconfig:"URL" default:"sqlite://txnimport.db"`
}

type Jwt struct {
	Secret string        `envconfig:"SECRET" required:"true"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"24h"`
}

type Auth struct {
	Jwt *Jwt `envconfig:"JWT"`
}

type Redis struct {
	URL          string        `envconfig:"URL" default:"redis://localhost:6379/0"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

// Prediction configures the language model used to classify rows
// of formats without a category column.
type Prediction struct {
	Enabled    bool          `envconfig:"ENABLED" default:"false"`
	URL        string        `envconfig:"URL" default:"http://localhost:11434/api/generate"`
	Model      string        `envconfig:"MODEL" default:"llama3"`
	Timeout    time.Duration `envconfig:"TIMEOUT" default:"10s"`
	MaxRetries uint64        `envconfig:"MAX_RETRIES" default:"2"`
}

type PredictionCache struct {
	Driver string        `envconfig:"DRIVER" default:"memory"`
	TTL    time.Duration `envconfig:"TTL" default:"24h"`
	Prefix string        `envconfig:"PREFIX" default:"txn:predict:"`
}

type Import struct {
	MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
	// BankConfigs lists extra YAML bank layouts registered next to the built-in formats.
	BankConfigs []string `envconfig:"BANK_CONFIGS"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[txnimport]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type App struct {
	Env             string           `envconfig:"APP_ENV" default:"development"`
	Server          *Server          `envconfig:"SERVER"`
	Log             *Log             `envconfig:"LOG"`
	DB              *DB              `envconfig:"DATABASE"`
	Auth            *Auth            `envconfig:"AUTH"`
	Redis           *Redis           `envconfig:"REDIS"`
	RateLimit       *RateLimit       `envconfig:"RATE_LIMIT"`
	Prediction      *Prediction      `envconfig:"PREDICTION"`
	PredictionCache *PredictionCache `envconfig:"PREDICTION_CACHE"`
	Import          *Import          `envconfig:"IMPORT"`
}
