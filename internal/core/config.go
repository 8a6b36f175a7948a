package core

import "github.com/mikey-austin/media_federation/pkg/mf"

// Config is runtime configuration for the use-case service.
type Config struct {
	Locale   string
	Aliases  map[string]string
	Defaults Defaults
}

// Defaults defines default selector and view values.
type Defaults struct {
	Server string
	Filter mf.Filter
	Sort   mf.Sort
}
