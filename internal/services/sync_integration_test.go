package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/countrysync/internal/db"
	"github.com/vvka-141/countrysync/internal/logging"
	"github.com/vvka-141/countrysync/internal/soap"
	testhelpers "github.com/vvka-141/countrysync/internal/testing"
	"github.com/vvka-141/countrysync/pkg/countrysync"
)

const testWSDL = `<?xml version="1.0" encoding="UTF-8"?>
<definitions xmlns="http://schemas.xmlsoap.org/wsdl/" xmlns:soap="http://schemas.xmlsoap.org/wsdl/soap/">
  <portType name="CountryInfoServiceSoapType">
    <operation name="ListOfCountryNamesByCode"/>
  </portType>
  <service name="CountryInfoService">
    <port name="CountryInfoServiceSoap">
      <soap:address location="%s/service"/>
    </port>
  </service>
</definitions>`

const testCountries = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <m:ListOfCountryNamesByCodeResponse xmlns:m="http://www.oorsprong.org/websamples.countryinfo">
      <m:ListOfCountryNamesByCodeResult>
        <m:tCountryCodeAndName><m:sISOCode>US</m:sISOCode><m:sName>United States</m:sName></m:tCountryCodeAndName>
        <m:tCountryCodeAndName><m:sISOCode>FR</m:sISOCode><m:sName>France &amp; Monaco</m:sName></m:tCountryCodeAndName>
      </m:ListOfCountryNamesByCodeResult>
    </m:ListOfCountryNamesByCodeResponse>
  </soap:Body>
</soap:Envelope>`

func startCountryService(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/wsdl":
			fmt.Fprintf(w, testWSDL, "http://"+r.Host)
		case "/service":
			io.WriteString(w, testCountries)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/wsdl"
}

func soapFetchers(wsdlURL string) (countrysync.CountryFetcher, error) {
	return soap.NewClient(wsdlURL), nil
}

func TestSyncService_Run_Integration(t *testing.T) {
	connString := testhelpers.RequireDatabase(t)
	pool := testhelpers.GetTestPool(t, connString)
	testhelpers.DropCountryTable(t, pool)

	cfg := countrysync.SyncConfig{
		Connection: testhelpers.ConnectionConfig(t, connString),
		WSDL:       startCountryService(t),
		Timeout:    countrysync.DefaultTimeout,
	}

	want := "('FR', 'France and Monaco')\n('US', 'United States')\n"

	for run := 1; run <= 2; run++ {
		var out bytes.Buffer
		svc := NewSyncService(soapFetchers, db.NewConnector, logging.NewNullLogger(), &out)

		require.NoError(t, svc.Run(context.Background(), cfg), "run %d", run)
		assert.Equal(t, want, out.String(), "run %d", run)
		assert.Equal(t, 2, testhelpers.CountRows(t, pool), "run %d", run)
	}
}

func TestSyncService_Run_Integration_EmptyDirectory(t *testing.T) {
	connString := testhelpers.RequireDatabase(t)
	pool := testhelpers.GetTestPool(t, connString)
	testhelpers.DropCountryTable(t, pool)

	var out bytes.Buffer
	svc := NewSyncService(fetcherFactoryFor(&mockFetcher{}), db.NewConnector, logging.NewNullLogger(), &out)

	cfg := countrysync.SyncConfig{
		Connection: testhelpers.ConnectionConfig(t, connString),
		WSDL:       countrysync.DefaultWSDL,
	}
	require.NoError(t, svc.Run(context.Background(), cfg))

	assert.Empty(t, out.String())
	assert.Zero(t, testhelpers.CountRows(t, pool), "table must exist and be empty")
}

func TestSyncService_Run_Integration_WriteFailureRollsBack(t *testing.T) {
	connString := testhelpers.RequireDatabase(t)
	pool := testhelpers.GetTestPool(t, connString)
	testhelpers.DropCountryTable(t, pool)

	fetcher := &mockFetcher{records: []countrysync.CountryRecord{
		{ISOCode: "US", Name: "United States"},
		{ISOCode: "TOOLONG", Name: "Nowhere"},
	}}

	var out bytes.Buffer
	svc := NewSyncService(fetcherFactoryFor(fetcher), db.NewConnector, logging.NewNullLogger(), &out)

	cfg := countrysync.SyncConfig{
		Connection: testhelpers.ConnectionConfig(t, connString),
		WSDL:       countrysync.DefaultWSDL,
	}
	err := svc.Run(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, countrysync.ErrWrite)
	assert.Empty(t, out.String())

	var exists bool
	require.NoError(t, pool.QueryRow(context.Background(),
		"SELECT to_regclass('country_names') IS NOT NULL").Scan(&exists))
	assert.False(t, exists, "table creation must be rolled back with the failed upsert")
}

func TestSyncService_Run_Integration_CommitFailureKeepsContents(t *testing.T) {
	connString := testhelpers.RequireDatabase(t)
	pool := testhelpers.GetTestPool(t, connString)
	testhelpers.DropCountryTable(t, pool)
	ctx := context.Background()

	// A deferred constraint trigger only fires at COMMIT, after the upsert
	// and the report have succeeded.
	setup := []string{
		`CREATE TABLE country_names (ISOCODE VARCHAR(3) PRIMARY KEY, Name VARCHAR(255))`,
		`INSERT INTO country_names (ISOCODE, Name) VALUES ('US', 'Old Name')`,
		`CREATE OR REPLACE FUNCTION reject_marker_code() RETURNS trigger LANGUAGE plpgsql AS $$
		BEGIN
			IF NEW.isocode = 'ZZ' THEN
				RAISE EXCEPTION 'marker code ZZ rejected';
			END IF;
			RETURN NEW;
		END
		$$`,
		`CREATE CONSTRAINT TRIGGER reject_marker_code
			AFTER INSERT OR UPDATE ON country_names
			DEFERRABLE INITIALLY DEFERRED
			FOR EACH ROW EXECUTE FUNCTION reject_marker_code()`,
	}
	for _, stmt := range setup {
		_, err := pool.Exec(ctx, stmt)
		require.NoError(t, err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, "DROP FUNCTION IF EXISTS reject_marker_code() CASCADE")
	})

	fetcher := &mockFetcher{records: []countrysync.CountryRecord{
		{ISOCode: "US", Name: "United States"},
		{ISOCode: "ZZ", Name: "Marker"},
	}}

	var out bytes.Buffer
	svc := NewSyncService(fetcherFactoryFor(fetcher), db.NewConnector, logging.NewNullLogger(), &out)

	cfg := countrysync.SyncConfig{
		Connection: testhelpers.ConnectionConfig(t, connString),
		WSDL:       countrysync.DefaultWSDL,
	}
	err := svc.Run(ctx, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, countrysync.ErrCommit)
	assert.Equal(t, "commit", countrysync.StageOf(err))

	assert.Equal(t, 1, testhelpers.CountRows(t, pool))
	var name string
	require.NoError(t, pool.QueryRow(ctx, "SELECT Name FROM country_names WHERE ISOCODE = 'US'").Scan(&name))
	assert.Equal(t, "Old Name", name, "failed commit must leave the stored name untouched")
}
