package metadata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tordrt/dbtomodel/internal/schema"
)

// rowString reads a text value; nil and missing keys read as ""
func rowString(row schema.Row, key string) string {
	switch v := row[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// rowNullString reads a nullable text value
func rowNullString(row schema.Row, key string) *string {
	if row[key] == nil {
		return nil
	}
	s := rowString(row, key)
	return &s
}

// rowInt reads an integer value of any driver width
func rowInt(row schema.Row, key string) int {
	switch v := row[key].(type) {
	case int:
		return v
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	case uint64:
		return int(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case string, []byte:
		n, err := strconv.Atoi(strings.TrimSpace(rowString(row, key)))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// rowBool reads a flag reported as a boolean, an integer, or a YES/NO string.
// Absent values read as false.
func rowBool(row schema.Row, key string) bool {
	switch v := row[key].(type) {
	case nil:
		return false
	case bool:
		return v
	case string, []byte:
		switch strings.ToUpper(strings.TrimSpace(rowString(row, key))) {
		case "YES", "Y", "TRUE", "T", "1":
			return true
		}
		return false
	default:
		return rowInt(row, key) != 0
	}
}
