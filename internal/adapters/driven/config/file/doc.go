// Package file stores capsql configuration in config.toml.
//
// The file has two tables:
//
//	[storage]
//	backend = "sqlite"        # sqlite, filesystem or memory
//	data_dir = "/path"        # default ~/.capsql/data
//	name = "sqliteStore"      # store instance name
//	store_name = "databases"  # collection holding snapshots
//
//	[log]
//	verbose = false
//
// Keys that are not set are left out of the file and take their defaults.
package file
