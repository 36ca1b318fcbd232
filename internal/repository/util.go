package repository

import "strings"

// placeholders returns a comma separated list of n "?" markers for
// use inside IN (...) clauses.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// idArgs converts ids into a []interface{} for ExecContext/QueryContext.
func idArgs(ids []uint64) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
