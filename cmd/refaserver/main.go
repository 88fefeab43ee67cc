/*
Refaserver starts a refa server and begins listening for new connections.

Usage:

	refaserver [flags]
	refaserver [flags] -l [[ADDRESS]:PORT]

Once started, the refa server will listen for HTTP requests and respond to
them using REST protocol. By default, it will listen on localhost:8080. This can
be changed with the --listen/-l flag (or config file or environment var). The
flag argument must be either a full address with port, such as
"192.168.0.2:6001", or just the port preceeded by a colon, such as ":6001".

Settings are taken from, in increasing order of priority: the config file,
environment variables, and flags.

If a JWT token secret is not given, one will be automatically generated at
random. As a consequence, in this mode of operation all tokens are rendered
invalid as soon as the server shuts down. This is suitable for testing, but a
secret must be given if running in production.

The flags are:

	-v, --version
		Give the current version of the refa server and then exit.

	-c, --config FILE
		Load settings from the given TOML file. Defaults to "refaserver.toml"
		in the current working directory; it is not an error for that file to
		be missing.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment variable
		REFA_LISTEN_ADDRESS, and if that is not given, will default to
		localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less than
		32 bytes in the secret, it will be repeated until it is. The maximum
		size is 64 bytes. If not given, will default to the value of environment
		variable REFA_TOKEN_SECRET. If no secret is specified or an empty
		secret is given, a random secret will be automatically generated.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the following:
		inmem, sqlite. inmem has no further params. sqlite needs the path to the
		data directory such as sqlite:path/to/db_dir. If not given, will default
		to the value of environment variable REFA_DATABASE. If no DB driver
		is specified, an in-memory database is used.
*/
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/dekarrin/refa/internal/version"
	"github.com/dekarrin/refa/server"
	"github.com/dekarrin/refa/server/dao"
	"github.com/dekarrin/refa/server/serr"
	"github.com/spf13/pflag"
)

const (
	EnvListen = "REFA_LISTEN_ADDRESS"
	EnvSecret = "REFA_TOKEN_SECRET"
	EnvDB     = "REFA_DATABASE"
)

const defaultConfigFile = "refaserver.toml"

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of the refa server and then exit.")
	flagConfig  = pflag.StringP("config", "c", defaultConfigFile, "Load settings from the given TOML file.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB      = pflag.String("db", "", "Use the given DB connection string.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (refa v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	// the default config file may be absent, but one named explicitly may not
	fileCfg := server.FileConfig{}
	if _, err := os.Stat(*flagConfig); err == nil || pflag.Lookup("config").Changed {
		fileCfg, err = server.LoadFileConfig(*flagConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not load config: %s\n", err)
			os.Exit(1)
		}
	}

	cfg, err := fileCfg.Config()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config file: %s\n", err)
		os.Exit(1)
	}

	addr, port, err := listenAddress(setting(fileCfg.Listen, EnvListen, "listen", *flagListen))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err)
		os.Exit(1)
	}

	if dbConnStr := setting(fileCfg.DB, EnvDB, "db", *flagDB); dbConnStr != "" {
		cfg.DB, err = server.ParseDBConnString(dbConnStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Not a valid DB string: %s\nDo -h for help.\n", err)
			os.Exit(1)
		}
	}

	cfg.TokenSecret, err = tokenSecret(setting(fileCfg.Secret, EnvSecret, "secret", *flagSecret))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err)
		os.Exit(1)
	}

	rs, err := server.New(cfg)
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err.Error())
	}
	log.Printf("DEBUG Server initialized with %s DB", cfg.FillDefaults().DB.Type)

	// immediately create the admin user so we have someone we can log in as.
	_, err = rs.CreateUser(context.Background(), "admin", "password", "", dao.Admin)
	if err != nil && !errors.Is(err, serr.ErrAlreadyExists) {
		log.Printf("ERROR could not create initial admin user: %v", err)
		os.Exit(2)
	}
	if err == nil {
		log.Printf("INFO  Added initial admin user with password 'password'...")
	}

	log.Printf("INFO  Starting refa server %s...", version.ServerCurrent)
	rs.ServeForever(addr, port)
}

// setting gives the value of a setting from the flag with the given name if
// it was set, else from the environment variable, else from the config file.
func setting(fromFile, envVar, flagName, flagVal string) string {
	if pflag.Lookup(flagName).Changed {
		return flagVal
	}
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return fromFile
}

// listenAddress splits an ADDRESS:PORT or :PORT string. An empty string gives
// the server defaults.
func listenAddress(s string) (addr string, port int, err error) {
	if s == "" {
		return "", 0, nil
	}

	bindParts := strings.SplitN(s, ":", 2)
	if len(bindParts) != 2 {
		return "", 0, fmt.Errorf("listen address is not in ADDRESS:PORT or :PORT format")
	}

	port, err = strconv.Atoi(bindParts[1])
	if err != nil {
		return "", 0, fmt.Errorf("%q is not a valid port number", bindParts[1])
	}

	return bindParts[0], port, nil
}

// tokenSecret gives the bytes of secret repeated until they reach the minimum
// size, or a random secret if none is given.
func tokenSecret(secret string) ([]byte, error) {
	if secret == "" {
		// use all 64 possible bytes if doing a generated secret
		tokSecret := make([]byte, server.MaxSecretSize)
		if _, err := rand.Read(tokSecret); err != nil {
			return nil, fmt.Errorf("could not generate token secret: %w", err)
		}

		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
		return tokSecret, nil
	}

	tokSecret := []byte(secret)
	for len(tokSecret) < server.MinSecretSize {
		tokSecret = append(tokSecret, tokSecret...)
	}

	if len(tokSecret) > server.MaxSecretSize {
		// keys would be chopped at 64, so rather than the user thinking
		// they have more security by giving a longer key, refuse to start.
		return nil, fmt.Errorf("token secret is %d bytes, but it must be <= %d bytes", len(tokSecret), server.MaxSecretSize)
	}

	return tokSecret, nil
}
