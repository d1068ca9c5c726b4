package db

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"modernc.org/sqlite"
)

// unicodeLower is registered on every modernc connection. SQLite's builtin
// LOWER folds ASCII only, while filter patterns are lowered with
// strings.ToLower.
const unicodeLower = "go_lower"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(unicodeLower, 1, goLower)
}

func goLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return nil, fmt.Errorf("%s: unsupported argument type %T", unicodeLower, v)
	}
}
