package countrysync

import "time"

// Exit codes. Every pipeline failure shares ExitFailure; the sync job is
// all-or-nothing from the operator's point of view.
const (
	ExitSuccess    = 0 // Sync completed and committed
	ExitFailure    = 1 // Any pipeline failure (config, fetch, schema, write, read, commit)
	ExitUsageError = 2 // CLI usage error (unknown flag, invalid value)
	ExitPanic      = 3 // Internal panic (unexpected crash)
)

const (
	// DefaultConfigFile is the configuration file name used when --config is not given.
	// Relative paths are resolved against the executable's directory.
	DefaultConfigFile = "db_config.json"

	// DefaultWSDL is the published service description of the country directory.
	DefaultWSDL = "http://webservices.oorsprong.org/websamples.countryinfo/CountryInfoService.wso?WSDL"

	// ServiceNamespace is the XML namespace of the CountryInfoService operations.
	ServiceNamespace = "http://www.oorsprong.org/websamples.countryinfo"

	// DefaultPort is the PostgreSQL port used when the configuration omits it.
	DefaultPort = 5432

	// DefaultSSLMode is the sslmode used when the configuration omits it.
	DefaultSSLMode = "prefer"

	// DefaultTimeout bounds the entire sync run, remote call and database work included.
	DefaultTimeout = 3 * time.Minute

	// DefaultConnectTimeout bounds a single database connection attempt.
	DefaultConnectTimeout = 10 * time.Second

	// TableName is the destination table.
	TableName = "country_names"

	// MaxISOCodeLength and MaxNameLength mirror the VARCHAR bounds of TableName.
	MaxISOCodeLength = 3
	MaxNameLength    = 255

	// ReportLimit is the number of rows printed by the verification report.
	ReportLimit = 10

	// AppNamePrefix prefixes the application_name reported to PostgreSQL.
	AppNamePrefix = "countrysync"
)
