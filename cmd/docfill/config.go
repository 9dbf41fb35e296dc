package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"gopkg.in/yaml.v3"
)

type ModelConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Name    string `yaml:"name"`
}

type Config struct {
	Model          ModelConfig `yaml:"model"`
	TimeoutSeconds int         `yaml:"timeout_seconds"`
}

func loadConfig(path string) (*Config, error) {
	conf := &Config{}
	if path == "" {
		return conf, nil
	}
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(file, conf); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return conf, nil
}

func (c *Config) timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// chatModel builds the optional model tier. No api key means local-only
// mode, which is fully supported.
func (c *Config) chatModel(ctx context.Context) (*openai.ChatModel, error) {
	if c.Model.APIKey == "" {
		return nil, nil
	}
	name := c.Model.Name
	if name == "" {
		name = "gpt-4o"
	}
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  c.Model.APIKey,
		BaseURL: c.Model.BaseURL,
		Model:   name,
	})
	if err != nil {
		return nil, fmt.Errorf("init chat model: %w", err)
	}
	return chatModel, nil
}
