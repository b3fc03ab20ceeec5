package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/syndtr/goleveldb/leveldb"
	"shelf/config"
	"shelf/iso2709"
	"shelf/log"
	"shelf/store"
)

// LoadConfig reads the config file from the home directory and applies its
// logging settings. An uninitialized home directory yields the defaults.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	homeDir := GetHomeDir(cmd)
	exists, err := config.HomeDirExists(homeDir)
	if err != nil {
		return nil, err
	}
	if !exists {
		cfg := config.DefaultConfig
		return &cfg, nil
	}
	cfg, err := config.ReadConfigFile(homeDir)
	if err != nil {
		return nil, errors.Wrap(err, "error reading config")
	}
	if cfg.LogLevel != "" {
		lvl, err := log.NewLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		log.SetLevel(lvl)
	}
	if err := log.SetFormat(log.Format(cfg.LogFormat)); err != nil {
		return nil, err
	}
	return cfg, nil
}

// AddDecodeFlags registers the flags that override the [decode] section.
func AddDecodeFlags(cmd *cobra.Command) {
	cmd.Flags().Bool(FlagForgiving, false, "Recover from malformed records where possible.")
	cmd.Flags().String(FlagEncoding, "", "External encoding of the input, e.g. MARC-8 or UTF-8.")
	cmd.Flags().Bool(FlagReplace, false, "Replace undecodable bytes instead of failing.")
}

// DecodeOptions builds decode options from cfg, applying any decode flags
// set on cmd.
func DecodeOptions(cmd *cobra.Command, cfg *config.Config) (iso2709.DecodeOptions, error) {
	dc := cfg.Decode
	flags := cmd.Flags()
	if flags.Changed(FlagForgiving) {
		dc.Forgiving, _ = flags.GetBool(FlagForgiving)
	}
	if flags.Changed(FlagEncoding) {
		dc.ExternalEncoding, _ = flags.GetString(FlagEncoding)
	}
	if flags.Changed(FlagReplace) {
		if replace, _ := flags.GetBool(FlagReplace); replace {
			dc.Invalid = "replace"
		} else {
			dc.Invalid = "raise"
		}
	}
	return dc.DecodeOptions()
}

// OpenStore opens the catalog database in an initialized home directory.
func OpenStore(cmd *cobra.Command) (*leveldb.DB, error) {
	homeDir := GetHomeDir(cmd)
	if err := config.EnsureHomeDir(homeDir); err != nil {
		return nil, errors.Wrap(err, "error ensuring home directory")
	}
	db, err := store.Open(config.ExpandDBPath(homeDir))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open store")
	}
	return db, nil
}
