/*
 * Copyright © 2025 Luandevpro, All rights reserved.
 */

package driver

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Options carries the backend settings a driver needs to connect.
// Fields a given driver does not use are ignored by it.
type Options struct {
	// Type names the registered driver, for example "postgres" or "dynamodb".
	Type string `yaml:"type"`

	// DSN is the SQL connection string.
	DSN string `yaml:"dsn,omitempty"`

	// Table is the backing table name for single-table backends.
	Table string `yaml:"table,omitempty"`

	Region    string `yaml:"region,omitempty"`
	AccessKey string `yaml:"accessKey,omitempty"`
	SecretKey string `yaml:"secretKey,omitempty"`

	// AutoSchemaCreate makes Connect create missing tables for every
	// registered entity before returning.
	AutoSchemaCreate bool `yaml:"autoSchemaCreate,omitempty"`
}

// LoadOptions reads driver options from a YAML file.
func LoadOptions(path string) (*Options, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read options file: %w", err)
	}
	var opts Options
	if err := yaml.Unmarshal(raw, &opts); err != nil {
		return nil, fmt.Errorf("failed to parse options file: %w", err)
	}
	if opts.Type == "" {
		return nil, fmt.Errorf("options file %s has no driver type", path)
	}
	return &opts, nil
}

// OptionsFromEnv builds driver options from the environment. A .env file
// in the working directory is loaded first when present.
func OptionsFromEnv() (*Options, error) {
	_ = godotenv.Load()

	opts := &Options{
		Type:      os.Getenv("TYPEORM_DRIVER"),
		DSN:       os.Getenv("TYPEORM_DSN"),
		Table:     os.Getenv("TYPEORM_TABLE"),
		Region:    os.Getenv("AWS_REGION"),
		AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
	}
	switch os.Getenv("TYPEORM_AUTO_SCHEMA") {
	case "1", "true", "yes":
		opts.AutoSchemaCreate = true
	}
	if opts.Type == "" {
		return nil, fmt.Errorf("TYPEORM_DRIVER is not set")
	}
	return opts, nil
}
