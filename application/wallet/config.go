package wallet

import (
	"github.com/whisperfish/zkgroup"
	"github.com/whisperfish/zkgroup/application"
	"github.com/whisperfish/zkgroup/utils"
)

// Config contains the wallet's configuration: where its keystore lives
// and the path to the issuer's public params, along with the params
// parsed from that file.
type Config struct {
	*application.CommonConfig

	KeystorePath     string `toml:"keystore"`
	PublicParamsPath string `toml:"server_public_params"`

	ServerPublicParams *zkgroup.ServerPublicParams `toml:"-"`
}

var _ application.AppConfig = (*Config)(nil)

// NewConfig initializes a new wallet configuration at the given file path.
func NewConfig(file, encoding, keystore, publicParams string) *Config {
	return &Config{
		CommonConfig:     application.NewCommonConfig(file, encoding, nil),
		KeystorePath:     keystore,
		PublicParamsPath: publicParams,
	}
}

// Load initializes a wallet's configuration from the given file
// using the given encoding.
// It reads the issuer's public params file and parses the params.
func (conf *Config) Load(file, encoding string) error {
	conf.CommonConfig = application.NewCommonConfig(file, encoding, nil)
	if err := conf.GetLoader().Decode(conf); err != nil {
		return err
	}
	params, err := application.LoadServerPublicParams(conf.PublicParamsPath, file)
	if err != nil {
		return err
	}
	conf.ServerPublicParams = params
	conf.KeystorePath = utils.ResolvePath(conf.KeystorePath, file)
	conf.ResolveLoggerPath()
	return nil
}

// Save writes a wallet's configuration.
func (conf *Config) Save() error {
	return conf.GetLoader().Encode(conf)
}
