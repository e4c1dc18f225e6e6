package application

import (
	"os"

	"github.com/pkg/errors"
	"github.com/whisperfish/zkgroup"
	"github.com/whisperfish/zkgroup/utils"
)

// AppConfig provides an abstraction of the
// underlying encoding format for the configs.
type AppConfig interface {
	Load(file, encoding string) error
	Save() error
	GetPath() string
}

// CommonConfig is the generic type used to specify the configuration of
// any kind of zkgroup application-level executable (e.g. issuer or
// wallet). It contains some common configuration values including the
// file path, logger configuration, and config loader.
type CommonConfig struct {
	Path     string        `toml:"-"`
	Logger   *LoggerConfig `toml:"logger"`
	Encoding string        `toml:"-"`
	loader   ConfigLoader
}

// NewCommonConfig initializes an application's config file path,
// its loader for the given encoding, and the logger configuration.
// Note: This constructor must be called in each Load() method
// implementation of an AppConfig.
func NewCommonConfig(file, encoding string, logger *LoggerConfig) *CommonConfig {
	return &CommonConfig{
		Path:     file,
		Logger:   logger,
		Encoding: encoding,
		loader:   newConfigLoader(encoding),
	}
}

// GetLoader returns the config's loader.
func (conf *CommonConfig) GetLoader() ConfigLoader {
	return conf.loader
}

// GetPath returns the config's file path.
func (conf *CommonConfig) GetPath() string {
	return conf.Path
}

// ResolveLoggerPath makes the logger's output path relative to the
// config file.
func (conf *CommonConfig) ResolveLoggerPath() {
	if conf.Logger != nil && conf.Logger.Path != "" {
		conf.Logger.Path = utils.ResolvePath(conf.Logger.Path, conf.Path)
	}
}

// LoadServerPublicParams loads the issuer's hex-encoded public parameters
// at the given path, relative to the config file.
func LoadServerPublicParams(path, file string) (*zkgroup.ServerPublicParams, error) {
	raw, err := ReadArtifactFile(utils.ResolvePath(path, file))
	if err != nil {
		return nil, errors.Wrap(err, "Cannot read server public params")
	}
	params, err := zkgroup.NewServerPublicParams(raw)
	if err != nil {
		return nil, errors.Wrap(err, "Cannot parse server public params")
	}
	return params, nil
}

// SaveServerPublicParams writes params hex-encoded to path.
func SaveServerPublicParams(path string, params *zkgroup.ServerPublicParams) error {
	return utils.WriteFile(path, []byte(EncodeArtifact(params)+"\n"), 0644)
}

// ReadArtifactFile reads one hex-encoded artifact from file.
func ReadArtifactFile(file string) ([]byte, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return DecodeArtifact(string(b))
}
