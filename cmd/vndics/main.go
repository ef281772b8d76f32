package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/darkclainer/vndic/pkg/autofill"
	"github.com/darkclainer/vndic/pkg/notes"
	"github.com/darkclainer/vndic/pkg/querier"
)

const (
	codeErrorArgs = iota + 1
	codeInternalError
)

func exitf(code int, format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(code)
}

type Config struct {
	ZapConfig string
	Host      string

	Remote  querier.Config
	Storage notes.Config
	Fill    autofill.Config
}

func (c *Config) ZapConf() (*zap.Config, error) {
	if c.ZapConfig == "" {
		defaultConf := zap.NewDevelopmentConfig()
		return &defaultConf, nil
	}
	var zapConf zap.Config
	if err := json.Unmarshal([]byte(c.ZapConfig), &zapConf); err != nil {
		return nil, err
	}
	return &zapConf, nil
}

func getConfig() (*Config, *zap.Config, error) {
	pflag.StringP("config", "c", "config.yaml", "path to local config")
	pflag.Parse()

	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return nil, nil, err
	}
	viper.SetEnvPrefix("VNDIC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.SetDefault("host", "localhost:8080")
	viper.SetDefault("remote.urltemplate", querier.DefaultURLTemplate)
	viper.SetDefault("remote.timeout", "10s")
	viper.SetDefault("storage.path", "vndic.data")
	for _, key := range []string{
		"zapconfig",
		"remote.urltemplate",
		"remote.baseurl",
		"remote.timeout",
		"storage.path",
		"storage.inmemory",
		"fill.overwrite",
	} {
		if err := viper.BindEnv(key); err != nil {
			return nil, nil, err
		}
	}

	configPath := viper.GetString("config")
	viper.SetConfigFile(configPath)
	if err := viper.ReadInConfig(); err == nil {
		fmt.Printf("Using config file: %s\n", configPath)
	}

	var conf Config
	if err := viper.Unmarshal(&conf); err != nil {
		return nil, nil, fmt.Errorf("error while unmarshaling config: %w", err)
	}
	zapConf, err := conf.ZapConf()
	if err != nil {
		return nil, nil, err
	}
	return &conf, zapConf, nil
}

const shutdownTimeout = 5 * time.Second

// serve runs server until a signal arrives on stop. Notes storage is closed
// before it returns, so badger keeps the latest writes.
func serve(logger *zap.Logger, server *Server, stop <-chan os.Signal) error {
	closed := make(chan error, 1)
	go func() {
		sig := <-stop
		logger.Info("Shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		closed <- server.Close(ctx)
	}()

	logger.Info("Listening started", zap.String("address", "http://"+server.Addr))
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		if closeErr := server.Close(context.Background()); closeErr != nil {
			logger.Error("Close after failed start", zap.Error(closeErr))
		}
		return err
	}
	return <-closed
}

func main() {
	conf, zapConf, err := getConfig()
	if err != nil {
		exitf(codeErrorArgs, "Failure while parsing arguments: %s\n", err)
	}
	logger, err := zapConf.Build()
	if err != nil {
		exitf(codeErrorArgs, "Failure while instantiating logger: %s\n", err)
	}
	defer logger.Sync() //nolint:errcheck

	server, err := New(logger, conf)
	if err != nil {
		exitf(codeInternalError, "Can not initialize server: %s\n", err)
	}
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	if err := serve(logger, server, stop); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(codeInternalError)
	}
	logger.Info("Closed")
}
