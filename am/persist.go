package am

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dmarsters/slapstick-enhancer/errors"
)

// backupCount is how many rotated copies Set keeps (.back1 newest)
const backupCount = 3

// createBackup rotates path.back1..back3 and copies path to .back1.
// A missing path is not an error.
func createBackup(path string) error {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}

	oldest := fmt.Sprintf("%s.back%d", path, backupCount)
	if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to delete old backup %s", oldest)
	}
	for i := backupCount - 1; i >= 1; i-- {
		from := fmt.Sprintf("%s.back%d", path, i)
		if _, err := os.Stat(from); err != nil {
			continue
		}
		if err := os.Rename(from, fmt.Sprintf("%s.back%d", path, i+1)); err != nil {
			return errors.Wrapf(err, "failed to rotate %s", from)
		}
	}

	if err := os.WriteFile(path+".back1", content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}

// Set writes key = value into the user config file (~/.slapstick/am.toml),
// keeping rotated backups, and returns the file path. The value is parsed
// according to the key's default type; list values are comma separated.
// The cached configuration is reset so the next Load sees the change.
func Set(key, value string) (string, error) {
	dir := UserDir()
	if dir == "" {
		return "", errors.New("could not determine home directory")
	}
	path := filepath.Join(dir, ConfigFileName)
	if err := SetInFile(path, key, value); err != nil {
		return "", err
	}
	Reset()
	return path, nil
}

// SetInFile writes key = value into the TOML file at path.
func SetInFile(path, key, value string) error {
	typed, err := parseValue(key, value)
	if err != nil {
		return err
	}

	config := map[string]interface{}{}
	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, &config); err != nil {
			return errors.Mark(errors.Wrapf(err, "failed to parse %s", path), errors.ErrConfiguration)
		}
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to read %s", path)
	}

	setNested(config, strings.Split(key, "."), typed)

	data, err := toml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPermissions); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	if err := createBackup(path); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}
	if err := os.WriteFile(path, data, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

func setNested(m map[string]interface{}, path []string, value interface{}) {
	for _, k := range path[:len(path)-1] {
		next, ok := m[k].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			m[k] = next
		}
		m = next
	}
	m[path[len(path)-1]] = value
}

// parseValue converts a command-line string to the type of key's default.
func parseValue(key, value string) (interface{}, error) {
	if !isKnownKey(key) {
		return nil, unknownKey(key)
	}

	invalid := func(kind string) error {
		return errors.Mark(errors.Newf("%s: %q is not a valid %s", key, value, kind), errors.ErrValidation)
	}

	switch defaultValue(key).(type) {
	case bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, invalid("boolean")
		}
		return b, nil
	case int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, invalid("integer")
		}
		return int64(n), nil
	case float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, invalid("number")
		}
		return f, nil
	case []string:
		out := []string{}
		for _, s := range strings.Split(value, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out, nil
	default:
		return value, nil
	}
}
