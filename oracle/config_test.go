package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConnectionStringKeyValue(t *testing.T) {
	tests := []struct {
		name    string
		connStr string
		want    Parameters
	}{
		{
			name:    "full key value form",
			connStr: "host=db1 port=1522 service=ORCLPDB user=scott password=tiger schema=hr fetch_size=500",
			want: Parameters{
				Host: "db1", Port: 1522, ServiceName: "ORCLPDB",
				User: "scott", Password: "tiger", Schema: "hr", FetchSize: 500,
			},
		},
		{
			name:    "defaults",
			connStr: "service=XEPDB1 user=app password=secret",
			want: Parameters{
				Host: "localhost", Port: DefaultPort, ServiceName: "XEPDB1",
				User: "app", Password: "secret", FetchSize: DefaultFetchSize,
			},
		},
		{
			name:    "aliases and quoted values",
			connStr: "host=db2 username=app password='p w d' service_name=SVC wallet_location=/etc/wallet",
			want: Parameters{
				Host: "db2", Port: DefaultPort, ServiceName: "SVC",
				User: "app", Password: "p w d", Wallet: "/etc/wallet", FetchSize: DefaultFetchSize,
			},
		},
		{
			name:    "sid and tns",
			connStr: "host=db3 sid=ORCL tns=PRODDB user=u password=p",
			want: Parameters{
				Host: "db3", Port: DefaultPort, SID: "ORCL", TNSName: "PRODDB",
				User: "u", Password: "p", FetchSize: DefaultFetchSize,
			},
		},
		{
			name:    "unknown keys are ignored",
			connStr: "host=db4 user=u password=p sslmode=disable application_name=x",
			want: Parameters{
				Host: "db4", Port: DefaultPort, User: "u", Password: "p",
				FetchSize: DefaultFetchSize,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseConnectionString(tt.connStr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseConnectionStringEasyConnect(t *testing.T) {
	tests := []struct {
		name    string
		connStr string
		want    Parameters
	}{
		{
			name:    "host port service",
			connStr: "//db1:1522/ORCLPDB",
			want:    Parameters{Host: "db1", Port: 1522, ServiceName: "ORCLPDB", FetchSize: DefaultFetchSize},
		},
		{
			name:    "host only",
			connStr: "//db1",
			want:    Parameters{Host: "db1", Port: DefaultPort, FetchSize: DefaultFetchSize},
		},
		{
			name:    "host and service without port",
			connStr: "//db1/SVC",
			want:    Parameters{Host: "db1", Port: DefaultPort, ServiceName: "SVC", FetchSize: DefaultFetchSize},
		},
		{
			name:    "trailing key value pairs",
			connStr: "//db1:1521/SVC user=scott password=tiger schema=hr",
			want: Parameters{
				Host: "db1", Port: 1521, ServiceName: "SVC",
				User: "scott", Password: "tiger", Schema: "hr", FetchSize: DefaultFetchSize,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseConnectionString(tt.connStr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseConnectionStringErrors(t *testing.T) {
	_, err := ParseConnectionString("host=db1 port=abc")
	assert.Error(t, err)

	_, err = ParseConnectionString("//db1:notaport/SVC")
	assert.Error(t, err)
}

func TestParseKeyValueString(t *testing.T) {
	kv := ParseKeyValueString("a=1  b = 2 c='three four' broken d=4")
	assert.Equal(t, map[string]string{"a": "1", "b": "2", "c": "three four", "d": "4"}, kv)
}

func TestBuildConnectString(t *testing.T) {
	t.Run("tns alias wins", func(t *testing.T) {
		p := Parameters{TNSName: "PRODDB", Host: "db1", Port: 1521, ServiceName: "SVC"}
		assert.Equal(t, "PRODDB", p.BuildConnectString())
	})
	t.Run("sid uses the full descriptor", func(t *testing.T) {
		p := Parameters{Host: "db1", Port: 1521, SID: "ORCL"}
		assert.Equal(t,
			"(DESCRIPTION=(ADDRESS=(PROTOCOL=TCP)(HOST=db1)(PORT=1521))(CONNECT_DATA=(SID=ORCL)))",
			p.BuildConnectString())
	})
	t.Run("easyconnect otherwise", func(t *testing.T) {
		p := Parameters{Host: "db1", Port: 1521, ServiceName: "SVC"}
		assert.Equal(t, "//db1:1521/SVC", p.BuildConnectString())
	})
}

// Re-parsing a built connect string keeps host, port and service consistent.
func TestConnectStringRoundTrip(t *testing.T) {
	p := Parameters{Host: "db1", Port: 1522, ServiceName: "ORCLPDB", User: "scott", FetchSize: DefaultFetchSize}

	reparsed, err := ParseConnectionString(p.BuildConnectString())
	require.NoError(t, err)
	assert.Equal(t, p.Host, reparsed.Host)
	assert.Equal(t, p.Port, reparsed.Port)
	assert.Equal(t, p.ServiceName, reparsed.ServiceName)
}

func TestDSNCarriesPrefetchAndWallet(t *testing.T) {
	p := Parameters{
		Host: "db1", Port: 1521, ServiceName: "SVC",
		User: "scott", Password: "tiger", FetchSize: 500, Wallet: "/etc/wallet",
	}
	dsn := p.DSN()
	assert.Contains(t, dsn, "db1")
	assert.Contains(t, dsn, "PREFETCH_ROWS=500")
	assert.Contains(t, dsn, "wallet")
}
