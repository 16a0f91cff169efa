package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/wippyai/salience-go/codec"
	"github.com/wippyai/salience-go/engine"
	"github.com/wippyai/salience-go/markup"
	"github.com/wippyai/salience-go/option"
	"github.com/wippyai/salience-go/session"
)

// fileConfig is the TOML configuration file.
//
//	[engine]
//	module = "/opt/salience/salience.wasm"
//	mounts = { "/opt/salience/data" = "/data" }
//
//	[session]
//	license = "/data/license.v5"
//	data = "/data"
//	mode = "shortform"
//
//	[[configuration]]
//	id = "support"
//	user_dir = "/data/support"
//
//	[[option]]
//	name = "EntityThreshold"
//	value = 70
//	scope = "support"
type fileConfig struct {
	Engine         engineSection          `toml:"engine"`
	Session        sessionSection         `toml:"session"`
	Markup         markupSection          `toml:"markup"`
	Configurations []configurationSection `toml:"configuration"`
	Options        []optionSection        `toml:"option"`
}

type engineSection struct {
	Mounts           map[string]string `toml:"mounts"`
	Module           string            `toml:"module"`
	MemoryLimitPages uint32            `toml:"memory_limit_pages"`
}

type sessionSection struct {
	License  string `toml:"license"`
	Data     string `toml:"data"`
	User     string `toml:"user"`
	Log      string `toml:"log"`
	Mode     string `toml:"mode"`
	Encoding string `toml:"encoding"`
}

type markupSection struct {
	Color    *bool    `toml:"color"`
	Negative *float32 `toml:"negative"`
	Positive *float32 `toml:"positive"`
	Prefix   string   `toml:"prefix"`
}

type configurationSection struct {
	ID      string `toml:"id"`
	UserDir string `toml:"user_dir"`
}

type optionSection struct {
	Value any    `toml:"value"`
	Name  string `toml:"name"`
	Scope string `toml:"scope"`
	Flag  int    `toml:"flag"`
}

func loadConfig(path string) (*fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return &cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return &cfg, nil
}

func (c *fileConfig) engineConfig() *engine.Config {
	return &engine.Config{
		MemoryLimitPages: c.Engine.MemoryLimitPages,
		Mounts:           c.Engine.Mounts,
	}
}

func (c *fileConfig) sessionConfig() (session.Config, error) {
	mode, err := session.ParseMode(c.Session.Mode)
	if err != nil {
		return session.Config{}, err
	}
	enc, err := codec.ParseEncoding(c.Session.Encoding)
	if err != nil {
		return session.Config{}, err
	}
	settings, _, err := c.settings()
	if err != nil {
		return session.Config{}, err
	}
	return session.Config{
		LicensePath:   c.Session.License,
		DataDirectory: c.Session.Data,
		UserDirectory: c.Session.User,
		LogPath:       c.Session.Log,
		Mode:          mode,
		Encoding:      enc,
		Options:       settings,
	}, nil
}

// scopedSetting is an option bound to a configuration id.
type scopedSetting struct {
	option.Setting
	scope string
}

// settings resolves the [[option]] entries against the catalogue. Options
// without a scope are applied at open; scoped ones once their
// configuration exists.
func (c *fileConfig) settings() ([]option.Setting, []scopedSetting, error) {
	var global []option.Setting
	var scoped []scopedSetting
	for i, o := range c.Options {
		def, ok := option.ByName(o.Name)
		if !ok {
			return nil, nil, fmt.Errorf("option %d: unknown option %q", i+1, o.Name)
		}
		v, err := option.Coerce(def.Kind, o.Value, o.Flag)
		if err != nil {
			return nil, nil, fmt.Errorf("option %s: %w", def.Name, err)
		}
		st := option.Setting{ID: def.ID, Value: v}
		if o.Scope == "" {
			global = append(global, st)
		} else {
			scoped = append(scoped, scopedSetting{Setting: st, scope: o.Scope})
		}
	}
	return global, scoped, nil
}

func (c *fileConfig) sentimentOptions() markup.SentimentOptions {
	opts := markup.DefaultSentimentOptions()
	opts.Prefix = c.Markup.Prefix
	if c.Markup.Negative != nil {
		opts.Thresholds.Negative = *c.Markup.Negative
	}
	if c.Markup.Positive != nil {
		opts.Thresholds.Positive = *c.Markup.Positive
	}
	return opts
}
