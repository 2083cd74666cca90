package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// HTTP Headers
	HeaderContentType = "Content-Type"
	HeaderXRequestID  = "X-Request-ID"
	HeaderUserAgent   = "User-Agent"

	// Content Types
	ContentTypeJSON = "application/json"

	// Context keys
	ContextKeyRequestID = "request_id"

	// Snapshot drivers
	SnapshotDriverNone     = "none"
	SnapshotDriverRedis    = "redis"
	SnapshotDriverDatabase = "database"

	// Database drivers
	DatabaseDriverSQLite = "sqlite"
	DatabaseDriverMySQL  = "mysql"
)

// Table names
const (
	TableLinkSnapshots = "templink_snapshots"
)
