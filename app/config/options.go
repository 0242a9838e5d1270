package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidOption = errors.New("invalid option")

// Option describes a single connection option the adapter understands.
// Every value arrives as text (from flags, env or a config file) and is
// checked by an optional validator before being converted.
type Option struct {
	Name        string
	Description string
	Shorthand   string
	Default     string
	validator   func(value string) error
}

// Validate checks the raw value. Options without a validator accept anything.
func (o Option) Validate(value string) error {
	if o.validator == nil {
		return nil
	}

	if err := o.validator(value); err != nil {
		return fmt.Errorf("invalid value of field `%s`: %w", o.Name, err)
	}

	return nil
}

const (
	OptionHost               = "host"
	OptionPort               = "port"
	OptionDatabase           = "database"
	OptionUser               = "user"
	OptionPassword           = "password"
	OptionConnectTimeout     = "connect_timeout"
	OptionSendReceiveTimeout = "send_receive_timeout"
	OptionSecure             = "secure"
	OptionVerify             = "verify"
)

// Options lists every recognized connection option in display order.
var Options = []Option{
	{
		Name: OptionHost,
		Description: "Specifies the host name of the machine on which the server is running. " +
			"If the value begins with a slash, it is used as the directory for the Unix-domain socket.",
		Default: "localhost",
	},
	{
		Name: OptionPort,
		Description: "Port number to connect to at the server host, " +
			"or socket file name extension for Unix-domain connections.",
		Shorthand: "p",
		Default:   "9000",
	},
	{
		Name:        OptionDatabase,
		Description: "The database name to use when connecting with the ClickHouse server.",
		Shorthand:   "d",
		Default:     "default",
	},
	{
		Name:        OptionUser,
		Description: "ClickHouse user name to connect as.",
		Shorthand:   "u",
	},
	{
		Name:        OptionPassword,
		Description: "Password to be used if the server demands password authentication.",
	},
	{
		Name:        OptionConnectTimeout,
		Description: "Maximum time to wait while connecting, in seconds.",
		Default:     "10",
		validator:   positiveIntValidator,
	},
	{
		Name:        OptionSendReceiveTimeout,
		Description: "Timeout for sending and receiving data, in seconds.",
		Default:     "300",
		validator:   positiveIntValidator,
	},
	{
		Name:        OptionSecure,
		Description: "Establish a secure (TLS) connection.",
		Shorthand:   "s",
		Default:     "False",
		validator:   boolValidator,
	},
	{
		Name: OptionVerify,
		Description: "Specifies whether a certificate is required and whether it will be " +
			"validated after connection.",
		Default:   "True",
		validator: boolValidator,
	},
}

// LookupOption returns the option with the given name.
func LookupOption(name string) (Option, bool) {
	for _, opt := range Options {
		if opt.Name == name {
			return opt, true
		}
	}

	return Option{}, false
}

// positiveIntValidator accepts a whole number of seconds, at least 1.
func positiveIntValidator(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("cannot convert %q to an int: %w", s, ErrInvalidOption)
	}

	if n < 1 {
		return fmt.Errorf("%d is less than 1: %w", n, ErrInvalidOption)
	}

	return nil
}

func boolValidator(s string) error {
	if _, err := parseBool(s); err != nil {
		return err
	}

	return nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("%q is not a valid boolean value: %w", s, ErrInvalidOption)
	}
}

// ConnectionOptions is a validated and typed set of connection options.
type ConnectionOptions struct {
	Host               string
	Port               string
	Database           string
	User               string
	Password           string
	ConnectTimeout     time.Duration
	SendReceiveTimeout time.Duration
	Secure             bool
	Verify             bool
}

// UsesUnixSocket reports whether Host names a Unix-domain socket directory.
func (o *ConnectionOptions) UsesUnixSocket() bool {
	return strings.HasPrefix(o.Host, "/")
}

// DefaultConnectionOptions returns options with every default applied.
func DefaultConnectionOptions() *ConnectionOptions {
	opts, err := ParseConnectionOptions(nil)
	if err != nil {
		panic(fmt.Sprintf("defaults must be valid: %v", err))
	}

	return opts
}

// ParseConnectionOptions validates raw option values and converts them.
// Missing options take their defaults; keys that are not connection
// options are ignored.
func ParseConnectionOptions(raw map[string]string) (*ConnectionOptions, error) {
	values := make(map[string]string, len(Options))

	for _, opt := range Options {
		value, ok := raw[opt.Name]
		if !ok || strings.TrimSpace(value) == "" {
			value = opt.Default
		}

		if value == "" {
			values[opt.Name] = ""
			continue
		}

		if err := opt.Validate(value); err != nil {
			return nil, err
		}

		values[opt.Name] = strings.TrimSpace(value)
	}

	connectTimeout, _ := strconv.Atoi(values[OptionConnectTimeout])
	sendReceiveTimeout, _ := strconv.Atoi(values[OptionSendReceiveTimeout])
	secure, _ := parseBool(values[OptionSecure])
	verify, _ := parseBool(values[OptionVerify])

	return &ConnectionOptions{
		Host:               values[OptionHost],
		Port:               values[OptionPort],
		Database:           values[OptionDatabase],
		User:               values[OptionUser],
		Password:           raw[OptionPassword],
		ConnectTimeout:     time.Duration(connectTimeout) * time.Second,
		SendReceiveTimeout: time.Duration(sendReceiveTimeout) * time.Second,
		Secure:             secure,
		Verify:             verify,
	}, nil
}
