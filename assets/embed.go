// assets/embed.go
//
// Files compiled into the binary.
//   - sql/*.sql: ledger schema migrations, applied in lexical order.

package assets

import "embed"

//go:embed sql/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations holding the scripts.
const MigrationsDir = "sql"
