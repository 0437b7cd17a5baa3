package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Behyna/paygw/pkg/duitku"
	"github.com/Behyna/paygw/pkg/lock"
	"github.com/Behyna/paygw/pkg/mailer"
	"github.com/Behyna/paygw/pkg/mq"
	"github.com/Behyna/paygw/pkg/mysql"
	"github.com/Behyna/paygw/pkg/platform"
	"github.com/spf13/viper"
)

const envPrefix = "PAYGW"

type Config struct {
	API      API             `mapstructure:"api"`
	Database mysql.Config    `mapstructure:"database"`
	RabbitMQ mq.Config       `mapstructure:"rabbitmq"`
	Duitku   duitku.Config   `mapstructure:"duitku"`
	Checkout Checkout        `mapstructure:"checkout"`
	Platform platform.Config `mapstructure:"platform"`
	Mailer   mailer.Config   `mapstructure:"mailer"`
	Sweeper  Sweeper         `mapstructure:"sweeper"`
	Delivery Delivery        `mapstructure:"delivery"`
}

type API struct {
	Port string `mapstructure:"port"`
	// PublicBaseURL is how the processor and buyers' browsers reach this service.
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type Checkout struct {
	FailureURL string      `mapstructure:"failure_url"`
	Currencies []string    `mapstructure:"currencies"`
	Lock       lock.Config `mapstructure:"lock"`
}

type Sweeper struct {
	Interval    time.Duration `mapstructure:"interval"`
	BatchSize   int           `mapstructure:"batch_size"`
	Concurrency int           `mapstructure:"concurrency"`
}

type Delivery struct {
	Queue          string        `mapstructure:"queue"`
	MaxElapsedTime time.Duration `mapstructure:"max_elapsed_time"`
}

func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile reads ./config/config.yml, or path when given, with PAYGW_*
// environment variables taking precedence.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Duitku.Validate(); err != nil {
		return err
	}

	if c.API.PublicBaseURL == "" {
		return fmt.Errorf("api.public_base_url is required")
	}

	return nil
}

// SupportsCurrency reports whether the processor accepts payments in currency.
func (c Checkout) SupportsCurrency(currency string) bool {
	for _, supported := range c.Currencies {
		if strings.EqualFold(supported, currency) {
			return true
		}
	}
	return false
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", ":8080")
	v.SetDefault("duitku.environment", duitku.EnvironmentSandbox)
	v.SetDefault("duitku.timeout", 10*time.Second)
	v.SetDefault("duitku.expiry_minutes", 1440)
	v.SetDefault("checkout.currencies", []string{"IDR"})
	v.SetDefault("checkout.lock.ttl", 30*time.Second)
	v.SetDefault("platform.timeout", 10*time.Second)
	v.SetDefault("sweeper.interval", time.Minute)
	v.SetDefault("sweeper.batch_size", 200)
	v.SetDefault("sweeper.concurrency", 4)
	v.SetDefault("delivery.queue", "paygw.deliver")
	v.SetDefault("delivery.max_elapsed_time", 30*time.Second)
	v.SetDefault("rabbitmq.prefetch", 1)
	v.SetDefault("rabbitmq.max_attempts", mq.DefaultMaxAttempts)
	v.SetDefault("rabbitmq.retry_delay", mq.DefaultRetryDelay)
}
