package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/stellar/go/amount"
	"github.com/stellar/go/network"
	"github.com/stellar/go/txnbuild"
	"gopkg.in/yaml.v3"

	"redvalid/internal/protocol/attestation"
)

// Environment variables read by Load.
const (
	EnvHome           = "REDVALID_HOME"
	EnvHorizonURL     = "REDVALID_HORIZON_URL"
	EnvPassphrase     = "REDVALID_NETWORK_PASSPHRASE"
	EnvFriendbotURL   = "REDVALID_FRIENDBOT_URL"
	EnvIdentitySource = "REDVALID_IDENTITY_SOURCE"
	// EnvSecret holds the service seed when the identity source is "env".
	EnvSecret = "STELLAR_SECRET"
)

// Identity sources.
const (
	SourceEnv      = "env"
	SourceKeystore = "keystore"
	SourceKeyring  = "keyring"
)

const configFilename = "config.yaml"

// Config holds runtime wiring options for building the app.
type Config struct {
	Home        string            `yaml:"-"`
	Network     NetworkConfig     `yaml:"network"`
	Service     ServiceConfig     `yaml:"service"`
	Transaction TransactionConfig `yaml:"transaction"`
	Store       StoreConfig       `yaml:"store"`
	Log         LogConfig         `yaml:"log"`
}

// NetworkConfig selects the Horizon server and network.
type NetworkConfig struct {
	HorizonURL   string        `yaml:"horizon_url"`
	Passphrase   string        `yaml:"passphrase"`
	FriendbotURL string        `yaml:"friendbot_url"`
	Timeout      time.Duration `yaml:"timeout"`
}

// ServiceConfig says where the service seed lives.
type ServiceConfig struct {
	IdentitySource string `yaml:"identity_source"`
	KeyringService string `yaml:"keyring_service"`
}

// TransactionConfig tunes prepared transactions.
type TransactionConfig struct {
	BaseFee       int64         `yaml:"base_fee"`
	Amount        string        `yaml:"amount"`
	SigningWindow time.Duration `yaml:"signing_window"`
}

// StoreConfig locates the attestation database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LogConfig mirrors log.Options.
type LogConfig struct {
	Verbose       bool   `yaml:"verbose"`
	JSON          bool   `yaml:"json"`
	DebugDir      string `yaml:"debug_dir"`
	RetentionDays int    `yaml:"retention_days"`
}

// DefaultConfig returns a testnet configuration rooted at home.
func DefaultConfig(home string) *Config {
	return &Config{
		Home: home,
		Network: NetworkConfig{
			HorizonURL:   "https://horizon-testnet.stellar.org",
			Passphrase:   network.TestNetworkPassphrase,
			FriendbotURL: "https://friendbot.stellar.org",
			Timeout:      30 * time.Second,
		},
		Service: ServiceConfig{
			IdentitySource: SourceKeystore,
			KeyringService: "redvalid",
		},
		Transaction: TransactionConfig{
			BaseFee: txnbuild.MinBaseFee,
			Amount:  attestation.DefaultAmount,
		},
		Store: StoreConfig{Path: filepath.Join(home, "attestations.db")},
		Log:   LogConfig{RetentionDays: 14},
	}
}

// DefaultHome returns $REDVALID_HOME, falling back to ~/.redvalid.
func DefaultHome() string {
	if h := os.Getenv(EnvHome); h != "" {
		return h
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".redvalid")
	}
	return filepath.Join(dir, ".redvalid")
}

// Load reads config.yaml from home and applies environment overrides.
// A missing file yields the defaults. An empty home uses DefaultHome.
func Load(home string) (*Config, error) {
	if home == "" {
		home = DefaultHome()
	}
	cfg := DefaultConfig(home)

	path := filepath.Join(home, configFilename)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", configFilename, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", configFilename, err)
		}
	}

	cfg.applyEnv()
	if cfg.Store.Path != "" && !filepath.IsAbs(cfg.Store.Path) {
		cfg.Store.Path = filepath.Join(home, cfg.Store.Path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	override := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	override(&c.Network.HorizonURL, EnvHorizonURL)
	override(&c.Network.Passphrase, EnvPassphrase)
	override(&c.Network.FriendbotURL, EnvFriendbotURL)
	override(&c.Service.IdentitySource, EnvIdentitySource)
}

// Validate rejects configurations that cannot produce valid transactions.
func (c *Config) Validate() error {
	if c.Network.HorizonURL == "" {
		return errors.New("network.horizon_url is required")
	}
	if c.Network.Passphrase == "" {
		return errors.New("network.passphrase is required")
	}
	switch c.Service.IdentitySource {
	case SourceEnv, SourceKeystore, SourceKeyring:
	default:
		return fmt.Errorf("invalid identity_source %q: must be %q, %q or %q",
			c.Service.IdentitySource, SourceEnv, SourceKeystore, SourceKeyring)
	}
	if c.Transaction.BaseFee < txnbuild.MinBaseFee {
		return fmt.Errorf("transaction.base_fee %d is below the network minimum %d",
			c.Transaction.BaseFee, txnbuild.MinBaseFee)
	}
	stroops, err := amount.ParseInt64(c.Transaction.Amount)
	if err != nil || stroops <= 0 {
		return fmt.Errorf("transaction.amount %q must be a positive XLM amount", c.Transaction.Amount)
	}
	if c.Transaction.SigningWindow < 0 {
		return errors.New("transaction.signing_window must not be negative")
	}
	if c.Store.Path == "" {
		return errors.New("store.path is required")
	}
	return nil
}

// LogDir returns the debug log directory, relative paths resolved under Home.
func (c *Config) LogDir() string {
	if c.Log.DebugDir == "" || filepath.IsAbs(c.Log.DebugDir) {
		return c.Log.DebugDir
	}
	return filepath.Join(c.Home, c.Log.DebugDir)
}
