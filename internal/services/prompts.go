package services

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var promptSpecYAML []byte

type promptProfile struct {
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	System      string  `yaml:"system"`
}

type promptSpec struct {
	Chat    promptProfile `yaml:"chat"`
	Insight promptProfile `yaml:"insight"`
}

func loadPromptSpec() (*promptSpec, error) {
	var spec promptSpec
	if err := yaml.Unmarshal(promptSpecYAML, &spec); err != nil {
		return nil, fmt.Errorf("parse prompts.yaml: %w", err)
	}
	if strings.TrimSpace(spec.Chat.System) == "" {
		return nil, fmt.Errorf("prompts.yaml: chat.system is empty")
	}
	if strings.TrimSpace(spec.Insight.System) == "" {
		return nil, fmt.Errorf("prompts.yaml: insight.system is empty")
	}
	return &spec, nil
}
