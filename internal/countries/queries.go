package countries

// SQL statements for the country_names table.
// Unquoted identifiers fold to lower case, so ISOCODE and Name are stored
// as isocode and name.

const (
	// queryCreateTable is idempotent and safe to run on every sync.
	queryCreateTable = `
		CREATE TABLE IF NOT EXISTS country_names (
			ISOCODE VARCHAR(3) PRIMARY KEY,
			Name VARCHAR(255)
		)
	`

	// queryUpsertCountry overwrites name unconditionally on a key conflict.
	// Parameters: $1 iso code, $2 name
	queryUpsertCountry = `
		INSERT INTO country_names (ISOCODE, Name)
		VALUES ($1, $2)
		ON CONFLICT (ISOCODE) DO UPDATE SET Name = EXCLUDED.Name
	`

	// queryReportSample returns the first rows ordered by name under the
	// database's default collation (C and musl locales sort non-ASCII names
	// after Z).
	// Parameter $1: row limit
	queryReportSample = `
		SELECT ISOCODE, Name
		FROM country_names
		ORDER BY Name ASC
		LIMIT $1
	`
)
