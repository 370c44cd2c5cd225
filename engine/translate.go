package engine

import "regexp"

// strftimeToDateFormat maps each of spec.md §6's six fixed STRFTIME format
// literals to the MySQL DATE_FORMAT equivalent go-mysql-server understands.
// query.Synthesize always emits one of exactly these six literals (see
// query.temporalConverters), so this table only needs to cover those six;
// anything else passes through unrecognized and is left alone.
var strftimeToDateFormat = map[string]string{
	"'%Y'":                "'%Y'",
	"'%Y-%m'":             "'%Y-%m'",
	"'%Y-%m-%D'":          "'%Y-%m-%d'",
	"'%Y-%m-%DT%H'":       "'%Y-%m-%dT%H'",
	"'%Y-%m-%DT%H:%M'":    "'%Y-%m-%dT%H:%i'",
	"'%Y-%m-%DT%H:%M:%S'": "'%Y-%m-%dT%H:%i:%S'",
}

var strftimeCall = regexp.MustCompile(`STRFTIME\((\'[^']*\'), ([^()]+)\)`)

// translateTemporal rewrites every literal STRFTIME(...) call query.Synthesize
// produced into go-mysql-server's native DATE_FORMAT(...) call. This happens
// at the engine boundary rather than in package query: query's output is the
// literal SQLite-dialect text spec.md §6 and its scenario tests mandate, and
// go-mysql-server speaks MySQL dialect, which has no native STRFTIME.
func translateTemporal(sqlText string) string {
	return strftimeCall.ReplaceAllStringFunc(sqlText, func(call string) string {
		m := strftimeCall.FindStringSubmatch(call)
		format, field := m[1], m[2]
		mysqlFormat, ok := strftimeToDateFormat[format]
		if !ok {
			return call
		}
		return "DATE_FORMAT(" + field + ", " + mysqlFormat + ")"
	})
}
