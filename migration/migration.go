// Package migration holds every schema migrator. The "auto" migrator
// creates the full current schema on an empty database; the numbered
// ones upgrade an existing deployment one step at a time.
package migration

import "context"

type Migrator func(ctx context.Context) error

var Migrators = map[string]Migrator{
	"auto": AutoMigrate,
	"0001": migrate0001,
}
