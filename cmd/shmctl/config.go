// Copyright 2016 Aleksandr Demakin. All rights reserved.

package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type fileConfig struct {
	Object   string `toml:"object"`
	Global   bool   `toml:"global"`
	Perm     string `toml:"perm"`
	LogLevel string `toml:"log_level"`
}

type config struct {
	Object   string
	Global   bool
	Perm     os.FileMode
	LogLevel zerolog.Level
}

func defaultConfig() config {
	return config{
		Perm:     0666,
		LogLevel: zerolog.InfoLevel,
	}
}

// loadConfig applies values defined in the toml file at path to cfg.
func loadConfig(path string, cfg config) (config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, errors.Wrap(err, "load config")
	}
	if meta.IsDefined("object") {
		cfg.Object = strings.TrimSpace(raw.Object)
	}
	if meta.IsDefined("global") {
		cfg.Global = raw.Global
	}
	if meta.IsDefined("perm") {
		perm, err := parsePerm(raw.Perm)
		if err != nil {
			return config{}, err
		}
		cfg.Perm = perm
	}
	if meta.IsDefined("log_level") {
		level, err := zerolog.ParseLevel(strings.TrimSpace(raw.LogLevel))
		if err != nil {
			return config{}, errors.Wrap(err, "parse log_level")
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

// parsePerm parses octal permission bits like "0640".
func parsePerm(value string) (os.FileMode, error) {
	perm, err := strconv.ParseUint(strings.TrimSpace(value), 8, 32)
	if err != nil {
		return 0, errors.Wrap(err, "parse perm")
	}
	if perm == 0 || perm&^uint64(os.ModePerm) != 0 {
		return 0, errors.Errorf("invalid perm %q", value)
	}
	return os.FileMode(perm), nil
}
