package countrysync

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// CountryRecord is one entry of the country directory as stored in TableName.
// ISOCode uniquely identifies a record; re-ingesting a code overwrites Name.
type CountryRecord struct {
	ISOCode string
	Name    string
}

// String renders the record as the tuple printed by the verification report,
// e.g. ('US', 'United States').
func (r CountryRecord) String() string {
	return "(" + quoteTupleField(r.ISOCode) + ", " + quoteTupleField(r.Name) + ")"
}

var singleQuoteEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// quoteTupleField wraps s in single quotes, switching to double quotes when
// s contains a single quote but no double quote (Cote d'Ivoire).
func quoteTupleField(s string) string {
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		return `"` + strings.ReplaceAll(s, `\`, `\\`) + `"`
	}
	return "'" + singleQuoteEscaper.Replace(s) + "'"
}

// NormalizeName replaces every "&" with the literal word "and".
// No other character is touched.
func NormalizeName(name string) string {
	return strings.ReplaceAll(name, "&", "and")
}

// NewCountryRecord builds a normalized record from a raw directory entry.
func NewCountryRecord(isoCode, name string) CountryRecord {
	return CountryRecord{ISOCode: isoCode, Name: NormalizeName(name)}
}

// ValidateRecords checks the upsert input constraint: every record must have
// a non-empty code and name. An empty slice is valid.
func ValidateRecords(records []CountryRecord) error {
	var errs []error
	for i, r := range records {
		if r.ISOCode == "" {
			errs = append(errs, fmt.Errorf("record %d: empty ISO code", i))
		}
		if r.Name == "" {
			errs = append(errs, fmt.Errorf("record %d (%s): empty name", i, r.ISOCode))
		}
	}
	return errors.Join(errs...)
}

// ConnectionConfig represents resolved PostgreSQL connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AppName is reported to the server as application_name.
	AppName        string
	ConnectTimeout time.Duration
}

// SyncConfig contains everything a sync run needs.
type SyncConfig struct {
	// Connection holds the destination database parameters.
	Connection ConnectionConfig

	// WSDL is the service description URL used to locate the SOAP endpoint.
	WSDL string

	// Timeout bounds the whole run.
	Timeout time.Duration

	// Verbose enables detailed logging.
	Verbose bool
}

// Validate checks that the SyncConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *SyncConfig) Validate() error {
	var errs []error

	if c.Connection.Host == "" {
		errs = append(errs, fmt.Errorf("host is required: %w", ErrConfigMalformed))
	}
	if c.Connection.Username == "" {
		errs = append(errs, fmt.Errorf("user is required: %w", ErrConfigMalformed))
	}
	if c.Connection.Database == "" {
		errs = append(errs, fmt.Errorf("db is required: %w", ErrConfigMalformed))
	}
	if c.Connection.Port <= 0 || c.Connection.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d is out of range: %w", c.Connection.Port, ErrConfigMalformed))
	}
	if c.WSDL == "" {
		errs = append(errs, fmt.Errorf("wsdl is required: %w", ErrConfigMalformed))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrConfigMalformed))
	}

	return errors.Join(errs...)
}
