package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nerdneilsfield/go-transpreview/pkg/providers"
	"github.com/nerdneilsfield/go-transpreview/pkg/providers/factory"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	// ConfigName 配置文件名（不含扩展名）
	ConfigName = ".transpreview"
	// EnvPrefix 环境变量前缀，例如 TRANSPREVIEW_API_KEY
	EnvPrefix = "TRANSPREVIEW"
)

// Settings 保存宿主设置
//
// 每次翻译前都应重新加载，设置可能在两次调用之间被修改。
type Settings struct {
	Translator string `mapstructure:"translator"` // 后端标识
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"` // 可选，覆盖后端默认地址
	Model      string `mapstructure:"model"`    // 可选，覆盖后端默认模型
	Debug      bool   `mapstructure:"debug"`
}

// TranslationConfig 构建本次调用使用的翻译配置
func (s Settings) TranslationConfig() providers.Config {
	return providers.Config{
		APIKey:  s.APIKey,
		BaseURL: s.BaseURL,
		Model:   s.Model,
	}
}

// Keys 可通过 config set 修改的配置项
func Keys() []string {
	keys := []string{"translator", "api_key", "base_url", "model", "debug"}
	sort.Strings(keys)
	return keys
}

// setDefaults 设置默认值
//
// 每个键都需要一个默认值，否则 AutomaticEnv 在 Unmarshal 时不会生效。
func setDefaults(v *viper.Viper) {
	v.SetDefault("translator", factory.DefaultBackend)
	v.SetDefault("api_key", "")
	v.SetDefault("base_url", "")
	v.SetDefault("model", "")
	v.SetDefault("debug", false)
}

// newViper 创建带搜索路径和环境变量绑定的 viper 实例
func newViper(configPath string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v, nil
}

// Load 从文件和环境变量加载设置，找不到配置文件时使用默认值
func Load(configPath string) (*Settings, error) {
	v, err := newViper(configPath)
	if err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(configPath != "" && os.IsNotExist(err)) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if settings.Translator == "" {
		settings.Translator = factory.DefaultBackend
	}
	return &settings, nil
}

// DefaultPath 默认配置文件路径
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigName+".yaml"), nil
}

// Set 修改配置文件中的单个键并写回
func Set(configPath, key, value string) error {
	key = strings.ToLower(key)
	if !isKnownKey(key) {
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	if key == "translator" {
		if _, ok := factory.Lookup(value); !ok {
			return &providers.UnknownBackendError{Backend: value}
		}
		value = strings.ToLower(value)
	}

	var typed any = value
	if key == "debug" {
		b, err := cast.ToBoolE(value)
		if err != nil {
			return fmt.Errorf("invalid value %q for debug (use true or false): %w", value, err)
		}
		typed = b
	}

	if configPath == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		configPath = p
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.Set(key, typed)

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := v.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func isKnownKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}
