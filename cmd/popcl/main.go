// Copyright (C) 2020  Lukas Dietrich <lukas@lukasdietrich.com>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lukasdietrich/popcl/internal/log"
)

const usageText = `Usage:
  popcl <server> [-p <port>] [-T [-c <certfile>] [-C <certaddr>]] -a <auth_file> -o <out_dir>

  Retrieve all messages of a pop3 maildrop into a folder.

Version:
  %s

Options:
%s
`

var (
	// Version is set at compile-time.
	Version string

	errServerMissing   = errors.New("exactly one server is required")
	errCertsWithoutTLS = errors.New("-c and -C can only be used together with -T")
)

func init() {
	viper.SetDefault("log.level", "warn")
	viper.SetDefault("log.pretty", false)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := newFlagSet()

	configFilename, err := parseArgs(flags, args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printUsage(stdout, flags)
			return 0
		}

		return fail(stderr, flags, err)
	}

	if err := setupConfig(configFilename); err != nil {
		return fail(stderr, flags, err)
	}

	if err := setupLogger(stderr); err != nil {
		return fail(stderr, flags, err)
	}

	printConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, cleanup, err := newFetchCommand()
	if err != nil {
		return fail(stderr, flags, err)
	}

	defer cleanup()

	if err := cmd.run(ctx, stdout); err != nil {
		return fail(stderr, flags, err)
	}

	return 0
}

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("popcl", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)

	flags.IntP("port", "p", 0, "Port of the server (default 110, or 995 with --tls)")
	flags.BoolP("tls", "T", false, "Use an encrypted connection (pop3s)")
	flags.StringP("certfile", "c", "", "File with trusted certificates")
	flags.StringP("certaddr", "C", "", "Folder with trusted certificates")
	flags.StringP("auth", "a", "", "File with the username and password")
	flags.StringP("out", "o", "", "Output folder for retrieved messages")
	flags.String("config", "", "Path to a configuration file")
	flags.String("journal", "", "Sqlite file to record runs and retrieved messages")
	flags.String("metrics", "", "Textfile to export metrics of the run to")
	flags.Duration("timeout", 0, "Timeout of every network operation (default 5m)")
	flags.String("proxy", "", "Address of a SOCKS5 proxy")
	flags.String("lang", "", "Language of the summary: cs or en (default cs)")
	flags.String("log-level", "", "Log level: trace, debug, info, warn or error (default warn)")

	return flags
}

var flagKeys = map[string]string{
	"port":      "connection.port",
	"tls":       "connection.tls",
	"certfile":  "tls.cafile",
	"certaddr":  "tls.cadir",
	"auth":      "auth.filename",
	"out":       "storage.messages.foldername",
	"journal":   "journal.filename",
	"metrics":   "metrics.filename",
	"timeout":   "connection.timeout",
	"proxy":     "connection.proxy",
	"lang":      "output.language",
	"log-level": "log.level",
}

// parseArgs parses the command line and binds the changed flags to their configuration keys.
// The name of the configuration file is returned.
func parseArgs(flags *pflag.FlagSet, args []string) (string, error) {
	if err := flags.Parse(args); err != nil {
		return "", err
	}

	if flags.NArg() != 1 {
		return "", errServerMissing
	}

	if !flags.Changed("tls") && (flags.Changed("certfile") || flags.Changed("certaddr")) {
		return "", errCertsWithoutTLS
	}

	for name, key := range flagKeys {
		if flag := flags.Lookup(name); flag.Changed {
			if err := viper.BindPFlag(key, flag); err != nil {
				return "", err
			}
		}
	}

	viper.Set("connection.host", flags.Arg(0))

	configFilename, _ := flags.GetString("config")
	return configFilename, nil
}

func printUsage(w io.Writer, flags *pflag.FlagSet) {
	fmt.Fprintf(w, usageText, Version, flags.FlagUsages())
}

func fail(stderr io.Writer, flags *pflag.FlagSet, err error) int {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	printUsage(stderr, flags)

	return 1
}

func setupConfig(filename string) error {
	viper.SetTypeByDefaultValue(true)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.SetEnvPrefix("POPCL")

	if filename == "" {
		return nil
	}

	viper.SetConfigFile(filename)

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("could not load configuration: %w", err)
	}

	return nil
}

func setupLogger(w io.Writer) error {
	level := viper.GetString("log.level")

	if err := log.Setup(w, level, viper.GetBool("log.pretty")); err != nil {
		return fmt.Errorf("unknown log level %q: %w", level, err)
	}

	return nil
}

func printConfig() {
	keys := viper.AllKeys()
	sort.Strings(keys)

	for _, key := range keys {
		if strings.HasPrefix(key, "auth.") {
			continue
		}

		v, _ := json.Marshal(viper.Get(key))
		log.Debug().
			RawJSON(key, v).
			Msg("configuration")
	}
}
