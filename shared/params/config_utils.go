package params

import (
	"os"

	"github.com/mohae/deepcopy"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

var chainConfig = DefaultConfig()

var ioConfig = &IoConfig{
	ReadWritePermissions:        0600,
	ReadWriteExecutePermissions: 0700,
}

// ChainParams retrieves the active chain config.
func ChainParams() *ChainConfig {
	return chainConfig
}

// OverrideChainConfig by replacing the config. The preferred pattern is to
// call ChainParams(), change the specific parameters, and then call
// OverrideChainConfig(c). Any subsequent calls to params.ChainParams() will
// return this new configuration.
func OverrideChainConfig(c *ChainConfig) {
	chainConfig = c
}

// IoParams returns the shared io parameters.
func IoParams() *IoConfig {
	return ioConfig
}

// Copy returns a copy of the config object.
func (c *ChainConfig) Copy() *ChainConfig {
	config, ok := deepcopy.Copy(*c).(ChainConfig)
	if !ok {
		config = *c
	}
	return &config
}

// LoadChainConfigFile reads yaml profile from path. Fields missing in the file
// are taken from base.
func LoadChainConfigFile(path string, base *ChainConfig) (*ChainConfig, error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read chain config file")
	}

	if base == nil {
		base = DefaultConfig()
	}

	conf := base.Copy()
	if err := yaml.UnmarshalStrict(yamlFile, conf); err != nil {
		return nil, errors.Wrapf(err, "failed to parse chain config file %s", path)
	}

	if conf.CheckpointInterval <= 0 {
		return nil, errors.Errorf("bad CHECKPOINT_INTERVAL %d in %s", conf.CheckpointInterval, path)
	}

	if conf.LedgerCeiling < 0 {
		return nil, errors.Errorf("bad LEDGER_CEILING %d in %s", conf.LedgerCeiling, path)
	}

	return conf, nil
}
