package main

import (
	"fmt"
	"os"
	"strconv"

	flag "github.com/spf13/pflag"

	"github.com/mailtool/cli/pkgs/config"
	"github.com/mailtool/cli/pkgs/email"
)

const version = "1.0.0"

// The process always exits 0; failures are reported through the JSON
// result or a short error line, and connections are closed on every
// path.
func main() {
	var (
		configPath string
		verbose    bool
	)
	flag.StringVar(&configPath, "config", "config.json", "Path to the JSON configuration file")
	flag.BoolVarP(&verbose, "verbose", "v", false, "Verbose (debug) logging")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		fmt.Printf("mailtool v%s\n", version)
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}

	logger := config.NewLogger(verbose)
	client := email.NewClient(cfg, logger)
	defer client.Close()

	cmd, cmdArgs := args[0], args[1:]
	switch cmd {
	case "read":
		folder := "INBOX"
		limit := 10
		if len(cmdArgs) > 0 {
			folder = cmdArgs[0]
		}
		if len(cmdArgs) > 1 {
			n, err := strconv.Atoi(cmdArgs[1])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: limit must be an integer: %s\n", cmdArgs[1])
				return
			}
			limit = n
		}
		printJSON(client.Read(folder, limit))

	case "send":
		if len(cmdArgs) < 3 {
			fmt.Fprintln(os.Stderr, "Error: send requires a recipient, a subject and a body")
			return
		}
		printJSON(client.Send(cmdArgs[0], cmdArgs[1], cmdArgs[2]))

	case "get":
		if len(cmdArgs) < 1 {
			fmt.Fprintln(os.Stderr, "Error: get requires an email id")
			return
		}
		printJSON(client.Get(cmdArgs[0]))

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `mailtool v%s - IMAP/SMTP mailbox CLI

Usage:
  mailtool [global options] <command> [arguments]

Commands:
  read [folder] [limit]       List recent messages (default: INBOX, 10)
  send <to> <subject> <body>  Send a plain-text email
  get <email_id>              Fetch one message's full content

Global Options:
  --config <path>    JSON configuration file (default: config.json)
  -v, --verbose      Verbose output
  --version          Show version information

Configuration (JSON):
  required: email, password, imap_server, smtp_server
  optional: imap_port (993), smtp_port (587), retry_count (3), retry_delay (2)

Examples:
  mailtool read
  mailtool read Archive 5
  mailtool send user@example.com "Hello" "Hi!"
  mailtool get 12345
`, version)
}
