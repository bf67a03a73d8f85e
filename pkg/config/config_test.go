package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLegacyConfigPath(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := filepath.Join("plugins", "SomethingNeedDoing")
	viper.Set(keyPluginConfigDir, dir)
	assert.Equal(t, filepath.Join(dir, LegacyConfigFileName), LegacyConfigPath())

	viper.Set(keyLegacyFile, "Backup.json")
	assert.Equal(t, filepath.Join(dir, "Backup.json"), LegacyConfigPath())
}

func TestEnvironmentOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.SetEnvPrefix("SND")
	viper.AutomaticEnv()
	t.Setenv("SND_MACRO_STORE", "/tmp/macros.json")
	t.Setenv("SND_PLUGIN_CONFIG_DIR", "/tmp/plugin")

	assert.Equal(t, "/tmp/macros.json", MacroStorePath())
	assert.Equal(t, "/tmp/plugin", GetPluginConfigDirectory())
}

func TestSetMacroStorePathWritesConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	configFile := filepath.Join(t.TempDir(), "snd.yaml")
	viper.SetConfigFile(configFile)

	assert.NoError(t, SetMacroStorePath("/data/macros.toml"))

	viper.Reset()
	viper.SetConfigFile(configFile)
	assert.NoError(t, viper.ReadInConfig())
	assert.Equal(t, "/data/macros.toml", MacroStorePath())
}
