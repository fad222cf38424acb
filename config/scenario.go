package config

import (
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/alfred/core/resolver"
)

// ScenarioEnvPrefix selects the variables overriding a scenario file,
// e.g. ALFRED_STORAGE__BATTERIES=4.
const ScenarioEnvPrefix = "ALFRED_"

// LoadScenario reads a van setup used by `alfred eval`. Values are not
// validated here; the resolver rejects invalid selections.
func LoadScenario(path string) (resolver.Selection, error) {
	k, err := load(path, ScenarioEnvPrefix)
	if err != nil {
		return resolver.Selection{}, err
	}
	var sel resolver.Selection
	if err := k.UnmarshalWithConf("", &sel, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return resolver.Selection{}, err
	}
	return sel, nil
}
