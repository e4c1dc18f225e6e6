package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/whisperfish/zkgroup/application"
	"github.com/whisperfish/zkgroup/application/issuer"
	"github.com/whisperfish/zkgroup/storage/keystore"
	"github.com/whisperfish/zkgroup/storage/kv/leveldbkv"
)

const configMissingUsage = `Couldn't load the issuer's config-file.

To create a valid config, first, run
  zkgroupserver init
and then
  zkgroupserver keygen
to generate the server params and publish the public params.`

func loadConfig(cmd *cobra.Command) (*issuer.Config, error) {
	conf := &issuer.Config{}
	if err := conf.Load(cmd.Flag("config").Value.String(), "toml"); err != nil {
		return nil, errors.Wrap(err, configMissingUsage)
	}
	return conf, nil
}

// withIssuer opens the issuer described by the config flag, runs f and
// closes the keystore.
func withIssuer(cmd *cobra.Command, f func(is *issuer.Issuer, conf *issuer.Config) error) error {
	conf, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := application.NewLogger(conf.Logger)
	defer logger.Sync()

	db, err := leveldbkv.OpenDB(conf.KeystorePath)
	if err != nil {
		return err
	}
	store := keystore.New(db)
	defer store.Close()

	is, err := issuer.New(store, conf.Policies, logger)
	if err != nil {
		logger.Error("Cannot load server params", "error", err)
		return err
	}
	return f(is, conf)
}
