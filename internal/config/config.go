package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultQueueWorkers  = 10
	DefaultRsaKeySize    = 2048
	DefaultKeyWorkFactor = 15
)

type Configuration struct {
	// Name of the instance.
	Name  string
	Https bool
	// Domain is the hostname of this instance; objects and actors whose IRI host equals it are local.
	Domain string
	Port   uint16
	// DbUrl is the path to the SQLite database file.
	DbUrl            string
	MigrationsFolder string
	// QueueWorkers is the number of goroutines consuming delivery messages.
	QueueWorkers int
	// UserKEK is the key-encryption key sealing local actors' private keys at rest. It travels with every
	// queued delivery message so consumers can unseal the sender's key.
	UserKEK string
	// KeyWorkFactor is the scrypt work factor (log2) used when sealing private keys.
	KeyWorkFactor int
	// AutoAcceptFollows makes the instance answer Follow activities targeting local actors with an Accept.
	AutoAcceptFollows bool
	// RsaKeySize specifies the size of the RSA keys generated for local actors.
	RsaKeySize int
	// IdSalt, when set, fixes the salt mixed into generated IDs so several processes sharing one database
	// produce the same tail base.
	IdSalt string
	Debug  bool
	// Url is the instance's url, derived from Domain and Https.
	Url *url.URL
}

// ReadConfig loads the configuration from gofederate.yaml, searched in the working directory and
// /etc/gofederate, or from the file given by path. Environment variables prefixed with GOFEDERATE_
// override file values.
func ReadConfig(path string) (Configuration, error) {
	v := viper.New()
	v.SetDefault("name", "gofederate")
	v.SetDefault("https", true)
	v.SetDefault("port", 8080)
	v.SetDefault("db_url", "gofederate.db")
	v.SetDefault("migrations_folder", "migrations")
	v.SetDefault("queue_workers", DefaultQueueWorkers)
	v.SetDefault("key_work_factor", DefaultKeyWorkFactor)
	v.SetDefault("auto_accept_follows", true)
	v.SetDefault("rsa_key_size", DefaultRsaKeySize)

	v.SetEnvPrefix("gofederate")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("gofederate")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/gofederate")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Configuration{}, fmt.Errorf("reading configuration: %w", err)
		}
	}

	cfg := Configuration{
		Name:              v.GetString("name"),
		Https:             v.GetBool("https"),
		Domain:            v.GetString("domain"),
		Port:              v.GetUint16("port"),
		DbUrl:             v.GetString("db_url"),
		MigrationsFolder:  v.GetString("migrations_folder"),
		QueueWorkers:      v.GetInt("queue_workers"),
		UserKEK:           v.GetString("user_kek"),
		KeyWorkFactor:     v.GetInt("key_work_factor"),
		AutoAcceptFollows: v.GetBool("auto_accept_follows"),
		RsaKeySize:        v.GetInt("rsa_key_size"),
		IdSalt:            v.GetString("id_salt"),
		Debug:             v.GetBool("debug"),
	}
	return cfg, cfg.Finish()
}

// Finish validates the configuration and derives Url.
func (c *Configuration) Finish() error {
	if c.Domain == "" {
		return errors.New("domain is required")
	}
	if c.UserKEK == "" {
		return errors.New("user_kek is required")
	}

	scheme := "https"
	if !c.Https {
		scheme = "http"
	}
	c.Url = &url.URL{
		Scheme: scheme,
		Host:   c.Domain,
	}
	return nil
}
