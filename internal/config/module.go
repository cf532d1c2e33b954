package config

import "go.uber.org/fx"

// Module loads the process configuration once per graph.
var Module = fx.Provide(Load)
