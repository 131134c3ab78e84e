package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cn-pmlabs/gosai/driver/kvstore"
	"github.com/cn-pmlabs/gosai/driver/rpc"
	"github.com/cn-pmlabs/gosai/lib/config"
	"github.com/cn-pmlabs/gosai/lib/log"
	odbc "github.com/cn-pmlabs/gosai/lib/ovsdb_client"
	"github.com/cn-pmlabs/gosai/lib/rpcclient"
	"github.com/cn-pmlabs/gosai/sai"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "saictl",
	Short:         "Drive a switch under test through the SAI harness",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "YAML configuration file")
	pf.StringP("metadata", "m", "", "SAI metadata JSON file")
	pf.String("constants", "", "JSON file of extra symbolic constants")
	pf.String("driver", "", "driver backend: rpc or kvstore")
	pf.String("rpc-addr", "", "rpc driver address host:port")
	pf.String("rpc-style", "", "rpc wire style: whole or attribute")
	pf.String("kvstore-addr", "", "SAI_STATE ovsdb address, or mem")
	pf.Duration("timeout", time.Minute, "overall command timeout")

	viper.BindPFlag("metadata", pf.Lookup("metadata"))
	viper.BindPFlag("constants", pf.Lookup("constants"))
	viper.BindPFlag("driver.type", pf.Lookup("driver"))
	viper.BindPFlag("driver.rpc.addr", pf.Lookup("rpc-addr"))
	viper.BindPFlag("driver.rpc.style", pf.Lookup("rpc-style"))
	viper.BindPFlag("driver.kvstore.addr", pf.Lookup("kvstore-addr"))
	viper.BindPFlag("timeout", pf.Lookup("timeout"))
}

// loadCatalog reads the metadata and the optional constants file.
func loadCatalog(cfg *config.Config) (*sai.Catalog, error) {
	catalog, err := sai.LoadCatalogFile(cfg.Metadata)
	if err != nil {
		return nil, err
	}
	if cfg.Constants != "" {
		constants, err := sai.LoadConstantsFile(cfg.Constants)
		if err != nil {
			return nil, err
		}
		catalog = catalog.WithConstants(constants)
	}
	return catalog, nil
}

// openStore connects the configured driver backend.
func openStore(ctx context.Context, cfg *config.Config, catalog *sai.Catalog) (sai.ObjectStore, error) {
	switch cfg.Driver.Type {
	case config.DriverRPC:
		rc := cfg.Driver.RPC
		retries := rc.Retries
		if retries == 0 {
			retries = rpcclient.NoRetry
		}
		client, err := rpcclient.Dial(ctx, rc.Addr, rpcclient.Options{
			DialTimeout: rc.DialTimeout,
			CallTimeout: rc.CallTimeout,
			MaxRetries:  retries,
		})
		if err != nil {
			return nil, err
		}
		style := sai.StylePerAttribute
		if rc.Style == config.StyleWhole {
			style = sai.StyleWhole
		}
		store, err := rpc.Open(catalog, client, style)
		if err != nil {
			client.Close()
			return nil, err
		}
		return store, nil
	case config.DriverKVStore:
		kc := cfg.Driver.KVStore
		if kc.Addr == config.MemAddr {
			return kvstore.New(kvstore.NewMemTable(), catalog), nil
		}
		table, err := kvstore.NewOvsdbTable(ctx, odbc.Config{Db: kc.Db, Addr: kc.Addr})
		if err != nil {
			return nil, err
		}
		return kvstore.New(table, catalog), nil
	}
	return nil, fmt.Errorf("unknown driver %q", cfg.Driver.Type)
}

// openSai loads the configuration and binds the harness to the driver.
func openSai(ctx context.Context) (*sai.Sai, error) {
	cfg, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return nil, err
	}
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}
	store, err := openStore(ctx, cfg, catalog)
	if err != nil {
		return nil, err
	}
	log.Info("%s driver %s ready, %d object types\n", log.ModuleSAI, cfg.Driver.Type, len(catalog.ObjectTypes()))
	return sai.New(store, catalog), nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), viper.GetDuration("timeout"))
}
