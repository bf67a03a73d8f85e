package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// LegacyConfigFileName is the file the old plugin saved its macros to.
	LegacyConfigFileName = "SomethingNeedDoing.json"

	keyPluginConfigDir = "plugin_config_dir"
	keyLegacyFile      = "legacy_config_file"
	keyMacroStore      = "macro_store"
)

func NewConfig() error {
	// A missing .env file is fine.
	_ = godotenv.Load()

	configPath, err := xdg.ConfigFile("snd/snd.yaml")
	if err != nil {
		return err
	}

	viper.SetConfigFile(configPath)
	viper.SetEnvPrefix("SND")
	viper.AutomaticEnv()

	viper.SetDefault(keyPluginConfigDir, filepath.Join(xdg.ConfigHome, "XIVLauncher", "pluginConfigs", "SomethingNeedDoing"))
	viper.SetDefault(keyLegacyFile, LegacyConfigFileName)
	viper.SetDefault(keyMacroStore, filepath.Join(xdg.DataHome, "snd", "macros.yaml"))

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if the config file doesn't exist
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return fmt.Errorf("unable to read config file: %v", err)
		}
	}
	return nil
}

// GetPluginConfigDirectory is the directory the legacy plugin kept its
// configuration in.
func GetPluginConfigDirectory() string {
	return viper.GetString(keyPluginConfigDir)
}

// LegacyConfigPath is the well-known location of the legacy macro config.
func LegacyConfigPath() string {
	name := viper.GetString(keyLegacyFile)
	if name == "" {
		name = LegacyConfigFileName
	}
	return filepath.Join(GetPluginConfigDirectory(), name)
}

// MacroStorePath is where migrated macros are saved.
func MacroStorePath() string {
	return viper.GetString(keyMacroStore)
}

func writeConfig() error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		return fmt.Errorf("no config file set")
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.OpenFile(configFile, os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return err
		}
		f.Close()
	} else if err == nil {
		if err := os.Chmod(configFile, 0600); err != nil {
			return err
		}
	}

	return viper.WriteConfig()
}

func SetPluginConfigDirectory(dir string) error {
	viper.Set(keyPluginConfigDir, dir)
	return writeConfig()
}

func SetMacroStorePath(path string) error {
	viper.Set(keyMacroStore, path)
	return writeConfig()
}

// ConfigFile is the settings file snd reads and writes.
func ConfigFile() string {
	return viper.ConfigFileUsed()
}

func StateFile() (string, error) {
	return xdg.StateFile("snd/state.yaml")
}
