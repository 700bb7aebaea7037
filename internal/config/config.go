// Package config assembles the service configuration from defaults, an
// optional JSON file, environment variables (and a .env file) and command
// line flags, in increasing order of priority.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	RunAddr             string        `env:"SERVER_ADDRESS" json:"server_address" validate:"hostname_port"`
	GRPCAddr            string        `env:"GRPC_ADDRESS" json:"grpc_address" validate:"omitempty,hostname_port"`
	LogLevel            string        `env:"LOG_LEVEL" json:"log_level" validate:"loglevel"`
	DBFileName          string        `env:"FILE_STORAGE_PATH" json:"file_storage_path" validate:"filepath"`
	DatabaseDSN         string        `env:"DATABASE_DSN" json:"database_dsn"`
	DBConnectionTimeout time.Duration `env:"DB_CONNECTION_TIMEOUT" json:"-"`
	MigrationsDir       string        `env:"MIGRATIONS_DIR" json:"migrations_dir"`
	AllowedOrigins      []string      `env:"ALLOWED_ORIGINS" envSeparator:"," json:"allowed_origins" validate:"dive,url"`
	TrustedSubnet       string        `env:"TRUSTED_SUBNET" json:"trusted_subnet" validate:"omitempty,cidr"`
	ShutdownTimeout     time.Duration `env:"SHUTDOWN_TIMEOUT" json:"-"`
	ConfigFile          string        `env:"CONFIG" json:"-"`
}

var defaultConfig = Config{
	RunAddr:             ":8080",
	LogLevel:            "info",
	DBConnectionTimeout: 10 * time.Second,
	MigrationsDir:       "cmd/slidr/migrations",
	AllowedOrigins: []string{
		"http://localhost:5173",
		"http://localhost:5174",
		"http://127.0.0.1:5173",
		"http://127.0.0.1:5174",
	},
	ShutdownTimeout: 10 * time.Second,
}

type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
}

func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

func validateFilePath(fieldLevel validator.FieldLevel) bool {
	path := fieldLevel.Field().String()
	if path == "" {
		return true
	}
	_, err := os.Stat(path)

	return err == nil || os.IsNotExist(err)
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	value := fieldLevel.Field().String()

	allowedLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}

	return allowedLogLevels[value]
}

func (c *Config) validate() error {
	validate := validator.New()

	err := validate.RegisterValidation("loglevel", validateLogLevel)
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("filepath", validateFilePath)
	if err != nil {
		return err
	}

	return validate.Struct(c)
}

// overlay copies every non-zero field of src over dst.
func overlay(dst *Config, src Config) {
	if src.RunAddr != "" {
		dst.RunAddr = src.RunAddr
	}
	if src.GRPCAddr != "" {
		dst.GRPCAddr = src.GRPCAddr
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.DBFileName != "" {
		dst.DBFileName = src.DBFileName
	}
	if src.DatabaseDSN != "" {
		dst.DatabaseDSN = src.DatabaseDSN
	}
	if src.DBConnectionTimeout != 0 {
		dst.DBConnectionTimeout = src.DBConnectionTimeout
	}
	if src.MigrationsDir != "" {
		dst.MigrationsDir = src.MigrationsDir
	}
	if len(src.AllowedOrigins) > 0 {
		dst.AllowedOrigins = src.AllowedOrigins
	}
	if src.TrustedSubnet != "" {
		dst.TrustedSubnet = src.TrustedSubnet
	}
	if src.ShutdownTimeout != 0 {
		dst.ShutdownTimeout = src.ShutdownTimeout
	}
	if src.ConfigFile != "" {
		dst.ConfigFile = src.ConfigFile
	}
}

func loadJSON(fileName string, values *Config) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return fmt.Errorf("in internal/config/config.go/loadJSON(): error while `os.ReadFile()` calling: %w", err)
	}

	var fromJSON Config
	if err := json.Unmarshal(data, &fromJSON); err != nil {
		return fmt.Errorf("in internal/config/config.go/loadJSON(): error while `json.Unmarshal()` calling: %w", err)
	}
	overlay(values, fromJSON)

	return nil
}

type originsFlag struct {
	values *[]string
}

func (f originsFlag) String() string {
	if f.values == nil {
		return ""
	}
	return strings.Join(*f.values, ",")
}

func (f originsFlag) Set(value string) error {
	*f.values = strings.Split(value, ",")
	return nil
}

func parseFlags(args []string) (Config, error) {
	var fromFlags Config
	flagSet := flag.NewFlagSet(args[0], flag.ContinueOnError)
	flagSet.StringVar(&fromFlags.RunAddr, "a", "", "address and port to run the HTTP server")
	flagSet.StringVar(&fromFlags.GRPCAddr, "g", "", "address and port to run the gRPC server, disabled when empty")
	flagSet.StringVar(&fromFlags.LogLevel, "l", "", "logger level")
	flagSet.StringVar(&fromFlags.DBFileName, "f", "", "JSON file name with database")
	flagSet.StringVar(&fromFlags.DatabaseDSN, "d", "", "a string with the database connection details")
	flagSet.StringVar(&fromFlags.MigrationsDir, "m", "", "directory with goose migrations")
	flagSet.StringVar(&fromFlags.TrustedSubnet, "t", "", "CIDR allowed to read internal stats")
	flagSet.StringVar(&fromFlags.ConfigFile, "c", "", "JSON configuration file")
	flagSet.Var(originsFlag{values: &fromFlags.AllowedOrigins}, "o", "comma separated list of CORS origins")
	if err := flagSet.Parse(args[1:]); err != nil {
		return Config{}, err
	}

	return fromFlags, nil
}

// New builds the configuration. Priority: flags > environment > JSON file > defaults.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{
		disableFlagsParsing: false,
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	err := godotenv.Load()
	if err != nil {
		log.Printf("Unable to load .env file: %v", err)
	}

	var fromFlags Config
	if !options.disableFlagsParsing {
		fromFlags, err = parseFlags(os.Args)
		if err != nil {
			return nil, err
		}
	}

	var fromEnv Config
	if err := env.Parse(&fromEnv); err != nil {
		return nil, err
	}

	values := defaultConfig

	configFile := fromEnv.ConfigFile
	if fromFlags.ConfigFile != "" {
		configFile = fromFlags.ConfigFile
	}
	if configFile != "" {
		if err := loadJSON(configFile, &values); err != nil {
			return nil, err
		}
	}

	overlay(&values, fromEnv)
	overlay(&values, fromFlags)

	if err := values.validate(); err != nil {
		return nil, err
	}

	return &values, nil
}
