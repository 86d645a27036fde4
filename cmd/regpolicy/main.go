package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"regpolicy/config"
	"regpolicy/hyperscan"
	"regpolicy/logging"
	"regpolicy/normalize"
	"regpolicy/policy"
	"regpolicy/reputation"
	"regpolicy/rules"
)

// Exit codes: 0 allow/flag, 1 deny, 2 invalid input or startup failure.
const (
	exitAdmitted = 0
	exitDenied   = 1
	exitError    = 2
)

// Dependency injection composition root
func main() {
	os.Exit(run())
}

func run() int {
	logLevel := flag.String("loglevel", "error", "sets log level. Can be one of: debug, info, warn, error, fatal, panic.")
	configPath := flag.String("config", "regpolicy.yaml", "path to the engine's YAML config file")
	requestPath := flag.String("request", "", "path to the registration request JSON; reads stdin when empty")
	flag.Parse()

	loglevel, _ := zerolog.ParseLevel(*logLevel)
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).Level(loglevel).With().Timestamp().Logger()

	c, err := config.Load(&config.FileSystemImpl{}, *configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Error while loading config")
		return exitError
	}

	var mref policy.MultiRegexEngineFactory
	if c.Matcher == "hyperscan" {
		mref = hyperscan.NewMultiRegexEngineFactory()
	} else {
		mref = hyperscan.NewGoMultiRegexEngineFactory()
	}

	var store policy.ReputationStore
	if c.Reputation.Backend == "redis" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     c.Reputation.Redis.Addr,
			Password: c.Reputation.Redis.Password,
			DB:       c.Reputation.Redis.DB,
		})
		defer rdb.Close()
		store = reputation.NewRedisStore(rdb, time.Duration(c.Reputation.Window))
	} else {
		store = reputation.NewMemoryStore(time.Duration(c.Reputation.Window), time.Duration(c.Reputation.SweepInterval))
	}

	rr, err := rules.NewRules(logger, c.Rules, mref, c.FailModePolicy())
	if err != nil {
		logger.Error().Err(err).Msg("Error while loading rules")
		return exitError
	}

	resLog := logging.NewZerologResultsLogger(logger)
	engine := policy.NewEngine(logger, rr, store, resLog, c.Reputation.KeyScheme(), time.Duration(c.Reputation.StoreTimeout))

	raw, err := readRequest(*requestPath)
	if err != nil {
		logger.Error().Err(err).Msg("Error while reading registration request")
		return exitError
	}

	input, err := normalize.ParseRequest(raw)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitError
	}

	decision := engine.Evaluate(context.Background(), input)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(decision); err != nil {
		logger.Error().Err(err).Msg("Error while writing decision")
		return exitError
	}

	if decision.Verdict == policy.Deny {
		return exitDenied
	}
	return exitAdmitted
}

func readRequest(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
