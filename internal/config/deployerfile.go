package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/trebuchet-org/treb-deployer/internal/domain/config"
)

// DeployerFileName is the optional project configuration file
const DeployerFileName = "deployer.toml"

// LoadDeployerFile reads deployer.toml from projectRoot.
// Returns nil, nil when the file does not exist.
func LoadDeployerFile(projectRoot string) (*config.DeployerFile, error) {
	path := filepath.Join(projectRoot, DeployerFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	var file config.DeployerFile
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", DeployerFileName, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in %s: %v", DeployerFileName, undecoded)
	}

	for name, network := range file.Networks {
		if network.URL == "" && network.URLEnv == "" {
			return nil, fmt.Errorf("%s: network '%s' needs url or url_env", DeployerFileName, name)
		}
	}

	return &file, nil
}
