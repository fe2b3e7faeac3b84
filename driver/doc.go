/*
Package driver defines the storage backend contract and the registry of
named driver implementations.

A Driver turns metadata-described entities into rows of a concrete
backend. Repositories hand it Row values keyed by column name; the
driver is responsible for the wire format, the session lifecycle, and
schema creation. Implementations live in subpackages and register
themselves by name from init:

	import (
		"github.com/luandevpro/typeorm/driver"
		_ "github.com/luandevpro/typeorm/driver/postgres"
	)

	drv, err := driver.New("postgres")

Options carries everything a backend needs to connect. It can be built
in code, loaded from a YAML file with LoadOptions, or assembled from
the environment with OptionsFromEnv.
*/
package driver
