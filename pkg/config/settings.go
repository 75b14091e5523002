package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/apimachinery/pkg/util/sets"
)

// Setting keys, also used as flag names. Each is readable from the
// environment as MONITOR_<KEY> with dashes replaced by underscores.
const (
	KeyOutput       = "output"
	KeyMetricsAddr  = "metrics-addr"
	KeyAMQPURL      = "amqp-url"
	KeyAMQPQueue    = "amqp-queue"
	KeyRedisAddr    = "redis-addr"
	KeyRedisChannel = "redis-channel"
	KeyVerbose      = "verbose"
)

const envPrefix = "MONITOR"

var outputFormats = sets.New("text", "json", "yaml", "csv")

// Settings holds process options that are not part of a profile
type Settings struct {
	OutputFormat string
	MetricsAddr  string // empty disables the status server

	AMQPURL   string
	AMQPQueue string

	RedisAddr    string
	RedisChannel string

	Verbose bool
}

// RegisterFlags adds the settings flags to fs
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP(KeyOutput, "o", "text", "Report format: text, json, yaml, csv")
	fs.String(KeyMetricsAddr, "", "Serve /metrics, /healthz and /report/latest on this address (disabled if empty)")
	fs.String(KeyAMQPURL, "", "Publish reports to this AMQP broker (disabled if empty)")
	fs.String(KeyAMQPQueue, "health_reports", "AMQP queue receiving reports")
	fs.String(KeyRedisAddr, "", "Publish reports to this Redis server (disabled if empty)")
	fs.String(KeyRedisChannel, "health-reports", "Redis pub/sub channel receiving reports")
	fs.BoolP(KeyVerbose, "v", false, "Enable verbose logging")
}

// NewViper returns a viper instance reading MONITOR_* variables and bound to fs
func NewViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}
	return v, nil
}

// LoadSettings reads settings from v
func LoadSettings(v *viper.Viper) Settings {
	return Settings{
		OutputFormat: strings.ToLower(v.GetString(KeyOutput)),
		MetricsAddr:  v.GetString(KeyMetricsAddr),
		AMQPURL:      v.GetString(KeyAMQPURL),
		AMQPQueue:    v.GetString(KeyAMQPQueue),
		RedisAddr:    v.GetString(KeyRedisAddr),
		RedisChannel: v.GetString(KeyRedisChannel),
		Verbose:      v.GetBool(KeyVerbose),
	}
}

// Validate checks if the settings are usable
func (s Settings) Validate() error {
	var errs []error
	if !outputFormats.Has(s.OutputFormat) {
		errs = append(errs, fmt.Errorf("output must be one of %s, got %q",
			strings.Join(sets.List(outputFormats), ", "), s.OutputFormat))
	}
	if s.AMQPURL != "" && s.AMQPQueue == "" {
		errs = append(errs, fmt.Errorf("amqp-queue must be set when amqp-url is set"))
	}
	if s.RedisAddr != "" && s.RedisChannel == "" {
		errs = append(errs, fmt.Errorf("redis-channel must be set when redis-addr is set"))
	}
	return utilerrors.NewAggregate(errs)
}
