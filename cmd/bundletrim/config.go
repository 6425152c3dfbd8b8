package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yacobolo/bundletrim"
)

var k = koanf.New(".")

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	// Resolve config file path from flag
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = ".bundletrim.yaml"
	}

	// Load config file and env vars
	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// 3. CLI flags, only those set explicitly so flag defaults never shadow
	// the config file
	flags := cmd.Flags()
	provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(flags, f)
	})
	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// 2. Environment variables (BUNDLETRIM_* prefix)
	if err := k.Load(env.Provider("BUNDLETRIM_", ".", envKey), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// envKey maps an environment variable to a config key. A double underscore
// separates sections, a single one stands for a dash:
//
//	BUNDLETRIM_REWRITE__STRICT       -> rewrite.strict
//	BUNDLETRIM_SOURCE_MAP__ENABLED   -> source-map.enabled
//	BUNDLETRIM_VERBOSE               -> verbose
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, "BUNDLETRIM_"))
	parts := strings.Split(key, "__")
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(p, "_", "-")
	}
	return strings.Join(parts, ".")
}

// buildConfig constructs the library's Config struct from koanf state.
func buildConfig() (bundletrim.Config, error) {
	config := bundletrim.DefaultConfig()
	config.Whitelist = getStringsWithFallback("whitelist", "whitelist")
	config.Blacklist = getStringsWithFallback("blacklist", "blacklist")
	config.TrimOptions.Whitelist = getStringsWithFallback("trim-whitelist", "trim.whitelist")
	config.SourceMap = bundletrim.SourceMapConfig{
		Enabled: getBoolWithFallback("source-maps", "source-map.enabled", false),
		Inline:  getBoolWithFallback("inline-map", "source-map.inline", false),
	}

	if k.Exists("extra-sources") {
		if err := k.Unmarshal("extra-sources", &config.ExtraSources); err != nil {
			return config, fmt.Errorf("reading extra-sources: %w", err)
		}
	}
	// --source adds glob sources on top of the configured ones
	for _, glob := range k.Strings("source") {
		config.ExtraSources = append(config.ExtraSources, bundletrim.SourceConfig{Glob: glob})
	}

	return config, nil
}

// logLevel resolves the logger level from the verbose and quiet switches.
func logLevel() string {
	switch {
	case getBoolWithFallback("quiet", "quiet", false):
		return bundletrim.LogNone
	case getBoolWithFallback("verbose", "verbose", false):
		return bundletrim.LogDebug
	default:
		return bundletrim.LogNormal
	}
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getStringsWithFallback checks the flag key first, then the config file key.
func getStringsWithFallback(flagKey, configKey string) []string {
	if v := k.Strings(flagKey); len(v) > 0 {
		return v
	}
	if v := k.Strings(configKey); len(v) > 0 {
		return v
	}
	return []string{}
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}
