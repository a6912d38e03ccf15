package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/gomailer"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/gosms"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/notify"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/utils"
)

type EmailConfig struct {
	Provider string                  `yaml:"provider"`
	From     string                  `yaml:"from"`
	SMTP     gomailer.SMTPMailer     `yaml:"smtp"`
	SendGrid gomailer.SendGridMailer `yaml:"sendgrid"`
}

type SMSConfig struct {
	Provider string             `yaml:"provider"`
	Twilio   gosms.TwilioSender `yaml:"twilio"`
}

type RetryConfig struct {
	MaxRetries  int     `yaml:"max_retries"`
	BaseDelayMs int     `yaml:"base_delay_ms"`
	Factor      float64 `yaml:"factor"`
	MaxDelayMs  int     `yaml:"max_delay_ms"`
}

type KafkaConfig struct {
	EventsTopic string `yaml:"events_topic"`
	RetryTopic  string `yaml:"retry_topic"`
	GroupID     string `yaml:"group_id"`
	Prefetch    int    `yaml:"prefetch"`
}

type Config struct {
	Email EmailConfig `yaml:"email"`
	SMS   SMSConfig   `yaml:"sms"`
	Retry RetryConfig `yaml:"retry"`
	Kafka KafkaConfig `yaml:"kafka"`
}

func defaults() Config {
	return Config{
		Email: EmailConfig{Provider: "smtp", From: "no-reply@hirestream.io"},
		SMS:   SMSConfig{Provider: "twilio"},
		Retry: RetryConfig{
			MaxRetries:  notify.DefaultMaxRetries,
			BaseDelayMs: 1000,
			Factor:      2,
			MaxDelayMs:  int(time.Hour / time.Millisecond),
		},
		Kafka: KafkaConfig{
			EventsTopic: "pipeline.events",
			RetryTopic:  "notifications.retry",
			GroupID:     "notifier",
			Prefetch:    10,
		},
	}
}

// LoadConfig reads a yaml config file over built-in defaults. A missing file
// is not an error; secrets come from the environment either way.
func LoadConfig(path string) (*Config, error) {
	cfg := defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) Backoff() *notify.ExponentialBackoff {
	return &notify.ExponentialBackoff{
		BaseDelay: time.Duration(c.Retry.BaseDelayMs) * time.Millisecond,
		Factor:    c.Retry.Factor,
		MaxDelay:  time.Duration(c.Retry.MaxDelayMs) * time.Millisecond,
	}
}

// BuildMailer picks the configured email provider, pulling credentials from
// the environment.
func (c *Config) BuildMailer() (gomailer.Mailer, error) {
	switch c.Email.Provider {
	case "sendgrid":
		sg := c.Email.SendGrid
		sg.APIKey = utils.GetEnvDefault("SENDGRID_API_KEY", sg.APIKey)
		return &sg, nil
	case "smtp", "":
		smtp := c.Email.SMTP
		smtp.Username = utils.GetEnvDefault("SMTP_USERNAME", smtp.Username)
		smtp.Password = utils.GetEnvDefault("SMTP_PASSWORD", smtp.Password)
		return &smtp, nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", c.Email.Provider)
	}
}

// BuildSender picks the configured sms provider.
func (c *Config) BuildSender() (gosms.Sender, error) {
	switch c.SMS.Provider {
	case "twilio", "":
		tw := c.SMS.Twilio
		tw.Username = utils.GetEnvDefault("TWILIO_ACCOUNT_SID", tw.Username)
		tw.Password = utils.GetEnvDefault("TWILIO_AUTH_TOKEN", tw.Password)
		return &tw, nil
	default:
		return nil, fmt.Errorf("unknown sms provider %q", c.SMS.Provider)
	}
}
