package config

import "time"

// File represents the structure of the xlcache.yaml configuration file.
type File struct {
	Namespace  string        `yaml:"namespace"`
	Store      StoreDTO      `yaml:"store"`
	Translator TranslatorDTO `yaml:"translator"`
	Pipeline   PipelineDTO   `yaml:"pipeline"`
}

// StoreDTO represents the store section.
type StoreDTO struct {
	Backend string   `yaml:"backend"`
	Path    string   `yaml:"path"`
	Redis   RedisDTO `yaml:"redis"`
}

// RedisDTO represents the store.redis section.
type RedisDTO struct {
	Addr     string        `yaml:"addr"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   *string       `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

// TranslatorDTO represents the translator section.
type TranslatorDTO struct {
	Command []string          `yaml:"command"`
	Dir     string            `yaml:"dir"`
	Env     map[string]string `yaml:"env"`
	EnvFile string            `yaml:"env_file"`
}

// PipelineDTO represents the pipeline section.
type PipelineDTO struct {
	Buffer   int    `yaml:"buffer"`
	Spool    string `yaml:"spool"`
	SpoolDir string `yaml:"spool_dir"`
	Strict   bool   `yaml:"strict"`
}
