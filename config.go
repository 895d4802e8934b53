package litter

import "github.com/rs/zerolog"

// Config holds package-wide defaults applied to new worlds
var Config config = config{
	logger: zerolog.Nop(),
}

type config struct {
	logger zerolog.Logger
}

// SetLogger configures the logger new worlds start with
func (c *config) SetLogger(logger zerolog.Logger) {
	c.logger = logger
}
