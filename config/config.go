package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type UserConfig struct { // one inventory per user
	Name      string `json:"name"`
	Identity  string `json:"identity"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type Config struct {
	Bind       string           `json:"bind"`
	LogInfo    logger.LogConfig `json:"log_info"`
	PublicURL  string           `json:"public_url"`
	WebdavRoot string           `json:"webdav_root"`
	AuthScheme string           `json:"auth_scheme"`
	Realm      string           `json:"realm"`
	Users      []UserConfig     `json:"users"`
}

func Parse(f string) (*Config, error) {
	raw, err := os.ReadFile(f)
	if err != nil {
		return nil, fmt.Errorf("read file:%w", err)
	}
	c := &Config{
		Bind:       ":8002",
		WebdavRoot: "./inventory",
		AuthScheme: "digest",
		Realm:      "cbdav inventory",
	}
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("decode json failed, err:%w", err)
	}
	return c, nil
}
