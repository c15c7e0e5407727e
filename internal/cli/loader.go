package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/flowmatic/sqlconnect/config"
	"github.com/flowmatic/sqlconnect/connector"
	"github.com/flowmatic/sqlconnect/dialect"
)

// ConnFlags overrides credential fields from the command line. Flag
// values take precedence over the credentials file.
type ConnFlags struct {
	Driver   string
	Username string
	Password string
	Database string
	Host     string
	Port     int
	URL      string
}

// Register adds the connection override flags to a flag set.
func (f *ConnFlags) Register(fs *pflag.FlagSet) {
	fs.StringVar(&f.Driver, "driver", "", "declared driver, e.g. postgresql+pq")
	fs.StringVar(&f.Username, "username", "", "user name used to authenticate")
	fs.StringVar(&f.Password, "password", "", "password used to authenticate")
	fs.StringVar(&f.Database, "database", "", "database name (file path for sqlite)")
	fs.StringVar(&f.Host, "host", "", "database host")
	fs.IntVar(&f.Port, "port", 0, "database port")
	fs.StringVar(&f.URL, "url", "", "complete data source name")
}

// Credentials resolves the effective credential block from the
// credentials file (when --config is set) and the override flags.
func (o *RootOptions) Credentials(flags ConnFlags) (config.Credentials, error) {
	var creds config.Credentials
	if o.ConfigPath != "" {
		loaded, err := config.LoadFile(o.ConfigPath)
		if err != nil {
			return config.Credentials{}, err
		}
		creds = loaded
	}

	if flags.Driver != "" {
		creds.Driver = dialect.Driver(flags.Driver)
	}
	if flags.Username != "" {
		creds.Username = flags.Username
	}
	if flags.Password != "" {
		creds.Password = flags.Password
	}
	if flags.Database != "" {
		creds.Database = flags.Database
	}
	if flags.Host != "" {
		creds.Host = flags.Host
	}
	if flags.Port != 0 {
		creds.Port = flags.Port
	}
	if flags.URL != "" {
		creds.URL = flags.URL
	}

	if err := creds.Validate(); err != nil {
		return config.Credentials{}, err
	}
	return creds, nil
}

// parseParams converts repeated key=value pairs into statement args.
func parseParams(pairs []string) (connector.Args, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	args := connector.Args{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid param %q: want key=value", pair)
		}
		args[key] = value
	}
	return args, nil
}
