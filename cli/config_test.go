package cli

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"shelf/charset"
	"shelf/config"
	"shelf/log"
	"shelf/testutil/testfs"
)

func newTestCmd(t *testing.T, home string, args ...string) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String(FlagHome, home, "")
	AddDecodeFlags(cmd)
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestDecodeOptions_Flags(t *testing.T) {
	cfg := config.DefaultConfig

	opts, err := DecodeOptions(newTestCmd(t, ""), &cfg)
	require.NoError(t, err)
	require.False(t, opts.Forgiving)
	require.Equal(t, "", opts.Charset.External)
	require.Equal(t, charset.Raise, opts.Charset.Invalid)

	opts, err = DecodeOptions(newTestCmd(t, "", "--forgiving", "--encoding", "MARC-8", "--replace"), &cfg)
	require.NoError(t, err)
	require.True(t, opts.Forgiving)
	require.Equal(t, "MARC-8", opts.Charset.External)
	require.Equal(t, charset.Replace, opts.Charset.Invalid)
	require.False(t, cfg.Decode.Forgiving)
}

func TestLoadConfig(t *testing.T) {
	dir, done := testfs.NewTempDir(t)
	defer done()
	defer log.SetLevel(log.GetLevel())

	home := filepath.Join(dir, "home")
	cfg, err := LoadConfig(newTestCmd(t, home))
	require.NoError(t, err)
	require.Equal(t, config.DefaultConfig.Decode.Invalid, cfg.Decode.Invalid)

	_, err = OpenStore(newTestCmd(t, home))
	require.Error(t, err)

	require.NoError(t, config.InitHomeDir(home))
	cfg, err = LoadConfig(newTestCmd(t, home))
	require.NoError(t, err)
	require.Equal(t, config.DefaultConfig.Import.Workers, cfg.Import.Workers)
	require.Equal(t, log.LevelInfo, log.GetLevel())

	db, err := OpenStore(newTestCmd(t, home))
	require.NoError(t, err)
	require.NoError(t, db.Close())
}
