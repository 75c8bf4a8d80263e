package domain

// MergeDriver represents the type of database engine used as a data
// merge source.
type MergeDriver string

const (
	MergeDriverMySQL    MergeDriver = "mysql"
	MergeDriverPostgres MergeDriver = "postgres"
	MergeDriverMongoDB  MergeDriver = "mongodb"
	MergeDriverSQLite   MergeDriver = "sqlite"
)

// MergeConnection holds the metadata for connecting to an external
// database used as an InDesign data merge source. The password is
// supplied separately by the caller (typically from an environment
// variable) and never stored.
type MergeConnection struct {
	Name     string      `json:"name"`
	Driver   MergeDriver `json:"driver"`
	Host     string      `json:"host"`     // hostname or file path (sqlite)
	Port     int         `json:"port"`     // 0 for sqlite
	Database string      `json:"database"` // db name, or collection db for mongodb
	Username string      `json:"username"`
	SSLMode  string      `json:"sslMode"`
}
