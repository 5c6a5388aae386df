package config

import "go.uber.org/fx"

// Module provides configuration loading to fx graphs.
var Module = fx.Provide(Load)
