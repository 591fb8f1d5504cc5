package translate

import "github.com/tordrt/dbtomodel/internal/schema"

// Blueprint column methods
const (
	TinyInteger   = "tinyInteger"
	SmallInteger  = "smallInteger"
	MediumInteger = "mediumInteger"
	Integer       = "integer"
	BigInteger    = "bigInteger"
	Char          = "char"
	String        = "string"
	Text          = "text"
	MediumText    = "mediumText"
	LongText      = "longText"
	Decimal       = "decimal"
	Float         = "float"
	Double        = "double"
	Date          = "date"
	DateTime      = "dateTime"
	Timestamp     = "timestamp"
	Time          = "time"
	Boolean       = "boolean"
	Binary        = "binary"
	JSON          = "json"
	JSONB         = "jsonb"
	UUID          = "uuid"
	Year          = "year"
	Enum          = "enum"

	Timestamps  = "timestamps"
	SoftDeletes = "softDeletes"
)

// increments maps an integer width to its auto-incrementing primary key shorthand
var increments = map[string]string{
	TinyInteger:   "tinyIncrements",
	SmallInteger:  "smallIncrements",
	MediumInteger: "mediumIncrements",
	Integer:       "increments",
	BigInteger:    "bigIncrements",
}

// commonTypes are spelled the same way by every dialect
var commonTypes = map[string]string{
	"smallint":  SmallInteger,
	"int":       Integer,
	"integer":   Integer,
	"bigint":    BigInteger,
	"char":      Char,
	"character": Char,
	"varchar":   String,
	"text":      Text,
	"decimal":   Decimal,
	"numeric":   Decimal,
	"real":      Float,
	"float":     Float,
	"double":    Double,
	"date":      Date,
	"datetime":  DateTime,
	"timestamp": Timestamp,
	"time":      Time,
	"boolean":   Boolean,
	"bool":      Boolean,
	"binary":    Binary,
	"varbinary": Binary,
	"blob":      Binary,
	"json":      JSON,
}

var dialectTypes = map[schema.Dialect]map[string]string{
	schema.MySQL: {
		"tinyint":    TinyInteger,
		"mediumint":  MediumInteger,
		"tinytext":   Text,
		"mediumtext": MediumText,
		"longtext":   LongText,
		"tinyblob":   Binary,
		"mediumblob": Binary,
		"longblob":   Binary,
		"bit":        Boolean,
		"year":       Year,
		"enum":       Enum,
		"set":        String,
	},
	schema.Postgres: {
		"int2":                        SmallInteger,
		"int4":                        Integer,
		"int8":                        BigInteger,
		"smallserial":                 SmallInteger,
		"serial":                      Integer,
		"bigserial":                   BigInteger,
		"serial2":                     SmallInteger,
		"serial4":                     Integer,
		"serial8":                     BigInteger,
		"character varying":           String,
		"bpchar":                      Char,
		"float4":                      Float,
		"float8":                      Double,
		"double precision":            Double,
		"money":                       Decimal,
		"timestamptz":                 Timestamp,
		"timestamp with time zone":    Timestamp,
		"timestamp without time zone": Timestamp,
		"timetz":                      Time,
		"time with time zone":         Time,
		"time without time zone":      Time,
		"bytea":                       Binary,
		"jsonb":                       JSONB,
		"uuid":                        UUID,
		"bit":                         Boolean,
	},
	schema.SQLite: {
		"tinyint":           TinyInteger,
		"mediumint":         MediumInteger,
		"int2":              SmallInteger,
		"int8":              BigInteger,
		"big int":           BigInteger,
		"nchar":             Char,
		"nvarchar":          String,
		"varying character": String,
		"native character":  Char,
		"clob":              Text,
		"double precision":  Double,
		"tinytext":          Text,
		"mediumtext":        MediumText,
		"longtext":          LongText,
	},
	schema.SQLServer: {
		"tinyint":          TinyInteger,
		"nchar":            Char,
		"nvarchar":         String,
		"ntext":            Text,
		"money":            Decimal,
		"smallmoney":       Decimal,
		"float":            Double,
		"datetime2":        DateTime,
		"smalldatetime":    DateTime,
		"datetimeoffset":   DateTime,
		"bit":              Boolean,
		"image":            Binary,
		"uniqueidentifier": UUID,
	},
}

// typeTable merges the common spellings with a dialect's own
func typeTable(dialect schema.Dialect) map[string]string {
	table := make(map[string]string, len(commonTypes)+len(dialectTypes[dialect]))
	for raw, method := range commonTypes {
		table[raw] = method
	}
	for raw, method := range dialectTypes[dialect] {
		table[raw] = method
	}
	return table
}
