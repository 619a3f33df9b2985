package db

import (
	"net/url"
	"strings"
	"testing"

	"github.com/vvka-141/countrysync/pkg/countrysync"
)

// FuzzBuildConnectionString checks that credentials and database names
// survive URI encoding and that MaskPassword never leaks the password field.
func FuzzBuildConnectionString(f *testing.F) {
	f.Add("localhost", 5432, "countries", "sync", "secret", "countrysync-1")
	f.Add("db.internal", 5433, "reference data", "us@r", "p@ss:w/rd?#", "")
	f.Add("localhost", 65535, "", "", "", "app")
	f.Add("127.0.0.1", 1, "a/b%c", "user", "%zz", "x y")

	f.Fuzz(func(t *testing.T, host string, port int, database, username, password, appName string) {
		if host == "" || strings.ContainsAny(host, "/?#@[]:% \t\r\n\\") || port <= 0 || port > 65535 {
			return
		}
		for _, r := range host {
			if r < 0x21 || r > 0x7e {
				return
			}
		}

		config := &countrysync.ConnectionConfig{
			Host:     host,
			Port:     port,
			Database: database,
			Username: username,
			Password: password,
			AppName:  appName,
		}

		u, err := url.Parse(BuildConnectionString(config))
		if err != nil {
			t.Fatalf("built connection string does not parse: %v", err)
		}
		if u.Path != "/"+database {
			t.Errorf("database %q round-tripped as %q", database, strings.TrimPrefix(u.Path, "/"))
		}
		if username != "" {
			if got := u.User.Username(); got != username {
				t.Errorf("username %q round-tripped as %q", username, got)
			}
			if got, _ := u.User.Password(); got != password {
				t.Errorf("password %q round-tripped as %q", password, got)
			}
		}

		masked, err := url.Parse(MaskPassword(config))
		if err != nil {
			t.Fatalf("masked connection string does not parse: %v", err)
		}
		if username != "" && password != "" {
			if got, _ := masked.User.Password(); got != "xxxxx" {
				t.Errorf("masked password = %q, want xxxxx", got)
			}
		}
	})
}
