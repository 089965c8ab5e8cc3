// internal/results/configuration.go
package results

import (
	"github.com/mitchellh/mapstructure"
)

// runConfiguration is the subset of the opaque harness configuration the
// report knows how to label.
type runConfiguration struct {
	LLM struct {
		ModelName string `mapstructure:"model_name"`
		Provider  string `mapstructure:"provider"`
	} `mapstructure:"llm"`
}

func decodeConfiguration(raw map[string]any) runConfiguration {
	var cfg runConfiguration
	if len(raw) == 0 {
		return cfg
	}
	// Unknown keys and mismatched shapes are ignored; a partial decode is
	// still usable for labels.
	_ = mapstructure.WeakDecode(raw, &cfg)
	return cfg
}

// ModelName returns configuration.llm.model_name, or "" when absent.
func (m RunMetadata) ModelName() string {
	return decodeConfiguration(m.Configuration).LLM.ModelName
}

// Provider returns configuration.llm.provider, or "" when absent.
func (m RunMetadata) Provider() string {
	return decodeConfiguration(m.Configuration).LLM.Provider
}
