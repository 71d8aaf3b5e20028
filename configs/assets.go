package configs

import (
	_ "embed"
)

//go:embed config.yaml
var ConfigFile string

//go:embed style.yaml
var StyleFile []byte
