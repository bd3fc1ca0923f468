package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads base.yaml, merges <env>.yaml over it and substitutes
// ${VAR} placeholders from secrets.env or the process environment.
// configDir defaults to "config". A missing <env>.yaml or secrets.env is
// not an error.
func LoadConfig(env string, configDir string) (map[string]interface{}, error) {
	if configDir == "" {
		configDir = "config"
	}

	merged, err := loadYAMLFile(filepath.Join(configDir, "base.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load base.yaml: %w", err)
	}

	if env != "" && env != "base" {
		overlay, err := loadYAMLFile(filepath.Join(configDir, env+".yaml"))
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to load %s.yaml: %w", env, err)
		default:
			mergeInto(merged, overlay)
		}
	}

	secrets, err := loadEnvFile(filepath.Join(configDir, "secrets.env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load secrets.env: %w", err)
	}

	resolve := func(key string) string {
		if value, ok := secrets[key]; ok {
			return value
		}
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		return "${" + key + "}"
	}
	return substitute(merged, resolve).(map[string]interface{}), nil
}

func loadYAMLFile(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	return config, nil
}

// loadEnvFile parses KEY=VALUE lines. Blank lines and # comments are skipped
// and surrounding quotes are dropped from values.
func loadEnvFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	env := map[string]string{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
			value = value[1 : len(value)-1]
		}
		env[strings.TrimSpace(key)] = value
	}
	return env, scanner.Err()
}

// mergeInto overlays src onto dst. Nested maps merge key by key, any other
// value in src replaces the one in dst.
func mergeInto(dst, src map[string]interface{}) {
	for k, v := range src {
		srcMap, srcIsMap := v.(map[string]interface{})
		dstMap, dstIsMap := dst[k].(map[string]interface{})
		if srcIsMap && dstIsMap {
			mergeInto(dstMap, srcMap)
			continue
		}
		dst[k] = v
	}
}

// substitute expands ${VAR} in every string reachable from v.
func substitute(v interface{}, resolve func(string) string) interface{} {
	switch val := v.(type) {
	case string:
		if !strings.Contains(val, "${") {
			return val
		}
		return os.Expand(val, resolve)
	case map[string]interface{}:
		for k, item := range val {
			val[k] = substitute(item, resolve)
		}
		return val
	case []interface{}:
		for i, item := range val {
			val[i] = substitute(item, resolve)
		}
		return val
	default:
		return v
	}
}

// Decode loads the merged configuration and decodes it into out, which must
// be a pointer to a struct carrying yaml tags. Fields absent from the files
// keep their current value.
func Decode(env string, configDir string, out interface{}) error {
	merged, err := LoadConfig(env, configDir)
	if err != nil {
		return err
	}

	var node yaml.Node
	if err := node.Encode(merged); err != nil {
		return fmt.Errorf("failed to re-encode merged config: %w", err)
	}
	if err := node.Decode(out); err != nil {
		return fmt.Errorf("failed to decode merged config: %w", err)
	}
	return nil
}

// GetEnv returns the environment value or defaultValue when unset.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetConfigEnv returns CONFIG_ENV, defaulting to local.
func GetConfigEnv() string {
	return GetEnv("CONFIG_ENV", "local")
}
