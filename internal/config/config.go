package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env string `yaml:"env"`

	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`

	Source struct {
		MsgDB      string `yaml:"msg_db"`      // merged MSG database
		MicroMsgDB string `yaml:"micromsg_db"` // contact/chatroom database
	} `yaml:"source"`

	Target struct {
		URI       string        `yaml:"uri"`
		Database  string        `yaml:"database"`
		OpTimeout time.Duration `yaml:"op_timeout"`
	} `yaml:"target"`

	Sync struct {
		Interval     time.Duration `yaml:"interval"`
		Cron         string        `yaml:"cron,omitempty"` // overrides interval when set
		BatchSize    int           `yaml:"batch_size"`
		NameCacheTTL time.Duration `yaml:"name_cache_ttl"`
	} `yaml:"sync"`

	Decrypt struct {
		Enabled    bool   `yaml:"enabled"`
		Dir        string `yaml:"dir"`     // raw encrypted archive directory
		KeyEnv     string `yaml:"key_env"` // env var holding the decryption key
		DecryptCmd string `yaml:"decrypt_cmd"`
		MergeCmd   string `yaml:"merge_cmd"`
	} `yaml:"decrypt"`
}

// Load supports comma-separated config files: "-c common.yml,wx-sync.yml"
func Load(pathList string) (*Config, error) {
	if strings.TrimSpace(pathList) == "" {
		return nil, errors.New("config path required (e.g. -c ./config.yml)")
	}

	var c Config
	paths := strings.Split(pathList, ",")
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	// defaults
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":2112"
	}
	if c.Source.MsgDB == "" {
		c.Source.MsgDB = "./decrypted/MSG.db"
	}
	if c.Source.MicroMsgDB == "" {
		c.Source.MicroMsgDB = "./decrypted/MicroMsg.db"
	}
	if c.Target.URI == "" {
		c.Target.URI = "mongodb://localhost:27017"
	}
	if c.Target.Database == "" {
		c.Target.Database = "wechat_msg"
	}
	if c.Target.OpTimeout == 0 {
		c.Target.OpTimeout = 30 * time.Second
	}
	if c.Sync.Interval == 0 {
		c.Sync.Interval = 5 * time.Minute
	}
	if c.Sync.BatchSize <= 0 {
		c.Sync.BatchSize = 1000
	}
	if c.Sync.NameCacheTTL == 0 {
		c.Sync.NameCacheTTL = 5 * time.Minute
	}
	if c.Decrypt.KeyEnv == "" {
		c.Decrypt.KeyEnv = "WX_DB_KEY"
	}
	return &c, nil
}
