package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Topics maps a provider category key to its human-readable report label.
type Topics map[string]string

// topicsFile is the YAML config structure
// topics:
//   auto: 汽车新闻
//   ai: 科技新闻
type topicsFile struct {
	Topics map[string]string `yaml:"topics"`
}

// DefaultTopics are the categories tracked when no topics file is present.
func DefaultTopics() Topics {
	return Topics{
		"auto":     "汽车新闻",
		"ai":       "科技新闻",
		"military": "军事新闻",
	}
}

// LoadTopics reads the topic table from a YAML file. A missing file is not
// an error; the built-in defaults are used instead.
func LoadTopics(path string) (Topics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultTopics(), nil
		}
		return nil, err
	}

	var f topicsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if len(f.Topics) == 0 {
		return DefaultTopics(), nil
	}
	return Topics(f.Topics), nil
}
