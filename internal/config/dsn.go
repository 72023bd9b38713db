package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/go-sql-driver/mysql"
)

// defaultPorts are used when DBConfig.Port is zero.
var defaultPorts = map[string]int{
	"postgres":   5432,
	"mssql":      1433,
	"mysql":      3306,
	"clickhouse": 9000,
}

// ConnString returns the driver connection string for kind. A non-empty DSN
// is returned unchanged.
func (d DBConfig) ConnString(kind string) (string, error) {
	if d.DSN != "" {
		return d.DSN, nil
	}

	port := d.Port
	if port == 0 {
		port = defaultPorts[kind]
	}
	hostPort := net.JoinHostPort(d.Host, strconv.Itoa(port))

	switch kind {
	case "postgres":
		u := url.URL{Scheme: "postgresql", Host: hostPort, Path: "/" + d.Name}
		u.User = userinfo(d.User, d.Password)
		return u.String(), nil

	case "mssql":
		u := url.URL{Scheme: "sqlserver", Host: hostPort}
		u.User = userinfo(d.User, d.Password)
		if d.Name != "" {
			u.RawQuery = url.Values{"database": {d.Name}}.Encode()
		}
		return u.String(), nil

	case "mysql":
		mc := mysql.NewConfig()
		mc.User = d.User
		mc.Passwd = d.Password
		mc.Net = "tcp"
		mc.Addr = hostPort
		mc.DBName = d.Name
		mc.ParseTime = true
		return mc.FormatDSN(), nil

	case "clickhouse":
		u := url.URL{Scheme: "clickhouse", Host: hostPort, Path: "/" + d.Name}
		u.User = userinfo(d.User, d.Password)
		return u.String(), nil

	case "sqlite":
		if d.Name == "" {
			return "", fmt.Errorf("sqlite: database file name is empty")
		}
		return d.Name, nil
	}
	return "", fmt.Errorf("no connection string format for storage kind %q", kind)
}

// Redacted is ConnString with the password masked, for logs.
func (d DBConfig) Redacted(kind string) string {
	masked := d
	if masked.Password != "" {
		masked.Password = "xxxxx"
	}
	if masked.DSN != "" {
		if u, err := url.Parse(masked.DSN); err == nil && u.User != nil {
			if _, ok := u.User.Password(); ok {
				u.User = url.UserPassword(u.User.Username(), "xxxxx")
			}
			return u.String()
		}
		return "<dsn>"
	}
	s, err := masked.ConnString(kind)
	if err != nil {
		return "<invalid>"
	}
	return s
}

func userinfo(user, password string) *url.Userinfo {
	switch {
	case user == "":
		return nil
	case password == "":
		return url.User(user)
	default:
		return url.UserPassword(user, password)
	}
}
