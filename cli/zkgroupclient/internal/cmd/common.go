package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/whisperfish/zkgroup/application"
	"github.com/whisperfish/zkgroup/application/wallet"
	"github.com/whisperfish/zkgroup/storage/keystore"
	"github.com/whisperfish/zkgroup/storage/kv/leveldbkv"
)

const configMissingUsage = `Couldn't load the wallet's config-file.

To create a valid config, first, run
  zkgroupserver init && zkgroupserver keygen
if you haven't done this already. This will store the server's public
params (by default in server.pub). Then, run
  zkgroupclient init --server-params path/to/server.pub
this creates a toml file which references these params.`

// withWallet opens the wallet described by the config flag, runs f and
// closes the keystore.
func withWallet(cmd *cobra.Command, f func(w *wallet.Wallet) error) error {
	conf := &wallet.Config{}
	if err := conf.Load(cmd.Flag("config").Value.String(), "toml"); err != nil {
		return errors.Wrap(err, configMissingUsage)
	}
	logger := application.NewLogger(conf.Logger)
	defer logger.Sync()

	db, err := leveldbkv.OpenDB(conf.KeystorePath)
	if err != nil {
		return err
	}
	store := keystore.New(db)
	defer store.Close()
	return f(wallet.New(conf.ServerPublicParams, store, logger))
}
