// Package config loads stockkeep settings from an optional INI file.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/ini.v1"
)

// DefaultPath is read when no --config flag is given. It may be absent.
const DefaultPath = "stockkeep.ini"

type Storage struct {
	Dir          string `ini:"dir" validate:"required"`
	UsersFile    string `ini:"users_file" validate:"required"`
	ProductsFile string `ini:"products_file" validate:"required,nefield=UsersFile"`
}

type Security struct {
	PasswordHash string `ini:"password_hash" validate:"oneof=sha256 bcrypt"`
}

// Log configures the process log. With no file, records go to stderr.
type Log struct {
	File  string `ini:"file"`
	Level string `ini:"level" validate:"omitempty,oneof=debug info warn warning error"`
}

// EffectiveLevel resolves an empty level: info when logging to a file,
// error otherwise so the interactive console stays quiet.
func (l Log) EffectiveLevel() string {
	switch {
	case l.Level != "":
		return l.Level
	case l.File != "":
		return "info"
	default:
		return "error"
	}
}

type Config struct {
	Storage  Storage
	Security Security
	Log      Log
}

func Default() Config {
	return Config{
		Storage: Storage{
			Dir:          ".",
			UsersFile:    "users.json",
			ProductsFile: "products.json",
		},
		Security: Security{PasswordHash: "sha256"},
	}
}

// Load reads path over the defaults. A missing file leaves the defaults untouched.
func Load(path string) (Config, error) {
	c := Default()

	f, err := ini.LooseLoad(path)
	if err != nil {
		return c, fmt.Errorf("reading %s: %w", path, err)
	}

	sections := map[string]interface{}{
		"storage":  &c.Storage,
		"security": &c.Security,
		"log":      &c.Log,
	}
	for name, target := range sections {
		if err := f.Section(name).MapTo(target); err != nil {
			return c, fmt.Errorf("section [%s] in %s: %w", name, path, err)
		}
	}

	if err := validator.New().Struct(c); err != nil {
		return c, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return c, nil
}
