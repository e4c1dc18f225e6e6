package issuer

import (
	"github.com/whisperfish/zkgroup/application"
	"github.com/whisperfish/zkgroup/utils"
)

// A Config contains configuration values
// which are read at initialization time from
// a TOML format configuration file.
type Config struct {
	*application.CommonConfig
	// KeystorePath is the leveldb directory holding the server params
	// and the redeemed receipt serials.
	KeystorePath string `toml:"keystore"`
	// PublicParamsPath is where init writes the public params that
	// clients load.
	PublicParamsPath string `toml:"public_params"`
	// Policies contains the issuer's credential policies.
	Policies *Policies `toml:"policies"`
}

// Policies bounds the attributes the issuer certifies and accepts.
type Policies struct {
	// AuthIssueDays is how many days ahead of today auth credentials
	// may be issued for.
	AuthIssueDays uint32 `toml:"auth_issue_days"`
	// AuthClockSkewDays is how far a presented redemption day may be from
	// today.
	AuthClockSkewDays uint32 `toml:"auth_clock_skew_days"`
	// ReceiptValidityDays is how long a receipt credential stays valid.
	ReceiptValidityDays uint64 `toml:"receipt_validity_days"`
	// ReceiptLevels lists the levels the issuer certifies. An empty list
	// accepts any level.
	ReceiptLevels []uint64 `toml:"receipt_levels,omitempty"`
}

var _ application.AppConfig = (*Config)(nil)

// DefaultPolicies returns the policies written by init.
func DefaultPolicies() *Policies {
	return &Policies{
		AuthIssueDays:       7,
		AuthClockSkewDays:   1,
		ReceiptValidityDays: 30,
	}
}

// NewConfig initializes a new issuer configuration at the given file
// path, with the given config encoding, logger configuration and
// policies.
func NewConfig(file, encoding, keystore, publicParams string,
	logConfig *application.LoggerConfig, policies *Policies) *Config {
	return &Config{
		CommonConfig:     application.NewCommonConfig(file, encoding, logConfig),
		KeystorePath:     keystore,
		PublicParamsPath: publicParams,
		Policies:         policies,
	}
}

// Load initializes an issuer's configuration from the given file
// using the given encoding. Relative paths are resolved against the
// directory of file.
func (conf *Config) Load(file, encoding string) error {
	conf.CommonConfig = application.NewCommonConfig(file, encoding, nil)
	if err := conf.GetLoader().Decode(conf); err != nil {
		return err
	}
	if conf.Policies == nil {
		conf.Policies = DefaultPolicies()
	}
	conf.KeystorePath = utils.ResolvePath(conf.KeystorePath, file)
	conf.PublicParamsPath = utils.ResolvePath(conf.PublicParamsPath, file)
	conf.ResolveLoggerPath()
	return nil
}

// Save writes an issuer's configuration.
func (conf *Config) Save() error {
	return conf.GetLoader().Encode(conf)
}
