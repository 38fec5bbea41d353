// Command pomade publishes a list of assets to an asset service instance.
//
// Settings come from a JSON config file (-c) and can be overridden by flags.
// The password can be provided via:
//   - -pass flag (least secure, visible in process list)
//   - the config file
//   - POMADE_PASSWORD environment variable (recommended)
//   - stdin prompt (if a username is set and nothing else supplied a password)
//
// Usage:
//
//	pomade -c config.json -assets assets.json
//
// Example config.json:
//
//	{
//	  "subdomain": "my-subdomain",
//	  "username": "myusername",
//	  "clientId": "XX",
//	  "assets": [
//	    {"target": "XX~username", "type": "text", "value": "jakebellacera"}
//	  ]
//	}
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/jasontconnell/conf"
	"github.com/smnsjas/go-pomade/asset"
	pomadelog "github.com/smnsjas/go-pomade/internal/log"
	"github.com/smnsjas/go-pomade/publisher"
	"golang.org/x/term"
)

// Exit codes.
const (
	exitOK         = 0
	exitUsage      = 1
	exitValidation = 2
	exitResponse   = 3
	exitFailure    = 4
)

// fileConfig is the layout of the -c config file.
type fileConfig struct {
	publisher.Config
	Assets []asset.Asset `json:"assets"`
}

func main() {
	os.Exit(run())
}

func run() int {
	configFile := flag.String("c", "", "JSON config file")
	assetsFile := flag.String("assets", "", "JSON file with the asset list (overrides config assets)")
	subdomain := flag.String("subdomain", "", "Instance subdomain")
	username := flag.String("user", "", "Username for NTLM authentication")
	password := flag.String("pass", "", "Password (use POMADE_PASSWORD env var instead)")
	clientID := flag.String("client", "", "Client ID")
	host := flag.String("host", "", "Service host (default: "+publisher.DefaultHost+")")
	pathname := flag.String("path", "", "Asset collection path (default: "+publisher.DefaultPathname+")")
	port := flag.Int("port", 0, "HTTP port (default: 80)")
	timeFormat := flag.String("time-format", "", "strftime layout for entry timestamps")
	loginDomain := flag.String("login-domain", "", "NTLM login domain")
	skipAuth := flag.Bool("skip-auth", false, "Skip the credential probe")
	timeout := flag.Duration("timeout", publisher.DefaultTimeout, "Per-request timeout")
	validateOnly := flag.Bool("validate", false, "Only validate the assets, do not publish")
	logLevel := flag.String("loglevel", "", "Log level: debug, info, warn, error (empty = no logging)")
	logFile := flag.String("logfile", "", "Write logs to this file (rotated at 10MB) instead of stderr")
	flag.Parse()

	var fc fileConfig
	if *configFile != "" {
		if err := conf.LoadConfig(*configFile, &fc); err != nil {
			fmt.Fprintf(os.Stderr, "Error: couldn't load config: %v\n", err)
			return exitUsage
		}
	}

	cfg := fc.Config
	setString(&cfg.Subdomain, *subdomain)
	setString(&cfg.Username, *username)
	setString(&cfg.Password, *password)
	setString(&cfg.ClientID, *clientID)
	setString(&cfg.Host, *host)
	setString(&cfg.Pathname, *pathname)
	setString(&cfg.TimeFormat, *timeFormat)
	setString(&cfg.LoginDomain, *loginDomain)
	if *port != 0 {
		cfg.Port = *port
	}
	cfg.SkipAuthentication = cfg.SkipAuthentication || *skipAuth
	cfg.Timeout = *timeout

	if cfg.Username != "" && cfg.Password == "" {
		cfg.Password = getPassword()
	}

	assets := fc.Assets
	if *assetsFile != "" {
		var err error
		assets, err = loadAssets(*assetsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: couldn't load assets: %v\n", err)
			return exitValidation
		}
	}
	if len(assets) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no assets given (use -assets or the config file's \"assets\")")
		flag.Usage()
		return exitUsage
	}

	logger, closeLog, err := newLogger(*logLevel, *logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *validateOnly {
		// Validation never talks to the service itself.
		cfg.SkipAuthentication = true
	}

	p, err := publisher.New(ctx, cfg, publisher.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, publisher.ErrAuthentication) {
			return exitResponse
		}
		return exitUsage
	}
	defer p.Close()

	if *validateOnly {
		if _, err := p.Validate(ctx, assets); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid: %v\n", err)
			return exitValidation
		}
		fmt.Printf("%d assets valid\n", len(assets))
		return exitOK
	}

	start := time.Now()
	res, err := p.Publish(ctx, assets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var rerr *publisher.ResponseError
		switch {
		case asset.IsValidationError(err):
			return exitValidation
		case errors.As(err, &rerr):
			if rerr.Posted > 0 {
				fmt.Fprintf(os.Stderr, "%d assets were already published under record %s\n", rerr.Posted, rerr.RecordID)
			}
			return exitResponse
		default:
			return exitFailure
		}
	}
	logger.Info("done", "record_id", res.RecordID, "elapsed", time.Since(start))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFailure
	}
	return exitOK
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// loadAssets reads a JSON array of assets. Each object must carry exactly
// target, type and value.
func loadAssets(path string) ([]asset.Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var assets []asset.Asset
	if err := json.NewDecoder(f).Decode(&assets); err != nil {
		return nil, err
	}
	return assets, nil
}

// newLogger builds the CLI logger. An empty level disables logging.
func newLogger(level, file string) (*slog.Logger, func(), error) {
	noop := func() {}
	if level == "" {
		return slog.New(slog.DiscardHandler), noop, nil
	}

	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, noop, fmt.Errorf("invalid log level %q, valid values: debug, info, warn, error", level)
	}

	var w io.Writer = os.Stderr
	closeFn := noop
	if file != "" {
		rf, err := pomadelog.NewRotatingFile(file, 10*1024*1024, 3)
		if err != nil {
			return nil, noop, err
		}
		w = rf
		closeFn = func() { _ = rf.Close() }
	}

	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	return slog.New(pomadelog.NewRedactingHandler(h)), closeFn, nil
}

// getPassword returns the password from the environment or prompts for it.
func getPassword() string {
	if envPass := os.Getenv("POMADE_PASSWORD"); envPass != "" {
		return envPass
	}

	fmt.Fprint(os.Stderr, "Password: ")

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		passBytes, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return ""
		}
		return string(passBytes)
	}

	// Not a terminal (piped input): read line
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}
