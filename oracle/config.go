package oracle

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	go_ora "github.com/sijms/go-ora/v2"
)

const (
	DefaultPort      = 1521
	DefaultFetchSize = 10000
)

// Parameters is the immutable description of how to reach one Oracle
// database. Exactly one of ServiceName, SID and TNSName should be set; when
// none is, the connect descriptor degenerates to host+port and the open will
// fail server-side.
type Parameters struct {
	Host        string
	Port        int
	ServiceName string
	SID         string
	TNSName     string
	User        string
	Password    string
	Wallet      string
	Schema      string
	ReadOnly    bool
	FetchSize   int
}

// ParseConnectionString understands the key-value form
// ("host=H port=P service=S user=U password=W …") and EasyConnect
// ("//host[:port][/service] [key=val …]"). Unknown keys are ignored.
func ParseConnectionString(connStr string) (Parameters, error) {
	if strings.HasPrefix(connStr, "//") {
		return parseEasyConnect(connStr)
	}

	kv := ParseKeyValueString(connStr)
	get := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := kv[k]; ok {
				return v
			}
		}
		return ""
	}

	params := Parameters{
		Host:        get("host"),
		ServiceName: get("service", "service_name"),
		SID:         get("sid"),
		TNSName:     get("tns"),
		User:        get("user", "username"),
		Password:    get("password"),
		Schema:      get("schema"),
		Wallet:      get("wallet", "wallet_location"),
		Port:        DefaultPort,
		FetchSize:   DefaultFetchSize,
	}
	if params.Host == "" {
		params.Host = "localhost"
	}
	if p := get("port"); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return Parameters{}, fmt.Errorf("invalid port %q: %w", p, err)
		}
		params.Port = port
	}
	if fs := get("fetch_size"); fs != "" {
		n, err := strconv.Atoi(fs)
		if err != nil {
			return Parameters{}, fmt.Errorf("invalid fetch_size %q: %w", fs, err)
		}
		params.FetchSize = n
	}
	return params, nil
}

func parseEasyConnect(connStr string) (Parameters, error) {
	params := Parameters{Host: "localhost", Port: DefaultPort, FetchSize: DefaultFetchSize}

	ecPart := connStr
	kvPart := ""
	if idx := strings.IndexByte(connStr, ' '); idx >= 0 {
		ecPart = connStr[:idx]
		kvPart = connStr[idx+1:]
	}

	ec := strings.TrimPrefix(ecPart, "//")
	if slash := strings.IndexByte(ec, '/'); slash >= 0 {
		params.ServiceName = ec[slash+1:]
		ec = ec[:slash]
	}
	if colon := strings.IndexByte(ec, ':'); colon >= 0 {
		port, err := strconv.Atoi(ec[colon+1:])
		if err != nil {
			return Parameters{}, fmt.Errorf("invalid port in connect descriptor %q: %w", ecPart, err)
		}
		params.Port = port
		ec = ec[:colon]
	}
	if ec != "" {
		params.Host = ec
	}

	if kvPart != "" {
		kv := ParseKeyValueString(kvPart)
		get := func(keys ...string) string {
			for _, k := range keys {
				if v, ok := kv[k]; ok {
					return v
				}
			}
			return ""
		}
		params.User = get("user", "username")
		params.Password = get("password")
		params.Schema = get("schema")
		params.Wallet = get("wallet", "wallet_location")
		if fs := get("fetch_size"); fs != "" {
			n, err := strconv.Atoi(fs)
			if err != nil {
				return Parameters{}, fmt.Errorf("invalid fetch_size %q: %w", fs, err)
			}
			params.FetchSize = n
		}
	}
	return params, nil
}

// ParseKeyValueString splits "key=value key2='quoted value'" pairs.
// Malformed fragments are skipped rather than rejected.
func ParseKeyValueString(s string) map[string]string {
	result := map[string]string{}
	pos := 0
	n := len(s)
	for pos < n {
		for pos < n && unicode.IsSpace(rune(s[pos])) {
			pos++
		}
		if pos >= n {
			break
		}

		keyStart := pos
		for pos < n && s[pos] != '=' && !unicode.IsSpace(rune(s[pos])) {
			pos++
		}
		key := s[keyStart:pos]
		if key == "" {
			pos++
			continue
		}

		for pos < n && unicode.IsSpace(rune(s[pos])) {
			pos++
		}
		if pos >= n || s[pos] != '=' {
			continue
		}
		pos++
		for pos < n && unicode.IsSpace(rune(s[pos])) {
			pos++
		}

		var value string
		if pos < n && s[pos] == '\'' {
			pos++
			valStart := pos
			for pos < n && s[pos] != '\'' {
				pos++
			}
			value = s[valStart:pos]
			if pos < n {
				pos++
			}
		} else {
			valStart := pos
			for pos < n && !unicode.IsSpace(rune(s[pos])) {
				pos++
			}
			value = s[valStart:pos]
		}
		result[key] = value
	}
	return result
}

// BuildConnectString renders the Oracle connect descriptor: the TNS alias
// verbatim when set, the full DESCRIPTION form for SID connections, and
// EasyConnect otherwise.
func (p Parameters) BuildConnectString() string {
	if p.TNSName != "" {
		return p.TNSName
	}
	if p.SID != "" {
		return fmt.Sprintf(
			"(DESCRIPTION=(ADDRESS=(PROTOCOL=TCP)(HOST=%s)(PORT=%d))(CONNECT_DATA=(SID=%s)))",
			p.Host, p.Port, p.SID)
	}
	return fmt.Sprintf("//%s:%d/%s", p.Host, p.Port, p.ServiceName)
}

// DSN renders the go-ora connection URL for these parameters. The fetch size
// rides along as the driver's prefetch row count.
func (p Parameters) DSN() string {
	options := map[string]string{}
	if p.FetchSize > 0 {
		options["PREFETCH_ROWS"] = strconv.Itoa(p.FetchSize)
	}
	if p.Wallet != "" {
		options["wallet"] = p.Wallet
		options["SSL"] = "true"
	}
	if p.SID != "" {
		options["SID"] = p.SID
	}
	if p.TNSName != "" {
		return go_ora.BuildJDBC(p.User, p.Password, p.TNSName, options)
	}
	return go_ora.BuildUrl(p.Host, p.Port, p.ServiceName, p.User, p.Password, options)
}

// EffectiveSchema is the schema lookups default to: the configured schema,
// else the connect user, upper-cased the way Oracle stores identifiers.
func (p Parameters) EffectiveSchema() string {
	if p.Schema != "" {
		return strings.ToUpper(p.Schema)
	}
	return strings.ToUpper(p.User)
}
