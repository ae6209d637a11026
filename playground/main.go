package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"syscall"

	"github.com/a-peyrard/component"
	"github.com/rs/zerolog"
)

type (
	Greeter interface {
		Greet(name string) string
	}

	politeGreeter struct {
		prefix string
	}

	AppConfig struct {
		Name string
		Port int
	}

	Database struct {
		url string
	}

	// Service mixes every kind of annotation served by the playground registry.
	Service struct {
		greeter Greeter `context:""`
		home    string  `env:"HOME,default=/nowhere"`
		name    string  `config:"AppConfig.Name"`
		port    int     `config:"Port"`
	}

	// Reporter can't be constructed, its database is never supplied.
	Reporter struct {
		db *Database
	}
)

func (g *politeGreeter) Greet(name string) string {
	return g.prefix + " " + name
}

func NewReporter(db *Database) *Reporter {
	return &Reporter{db: db}
}

func main() {
	settings, err := component.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid settings: %v\n", err)
		os.Exit(1)
	}
	opts, err := settings.Options(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid settings: %v\n", err)
		os.Exit(1)
	}
	logger, _ := settings.Logger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	greeters := component.NewContextStrategy(&politeGreeter{prefix: "Hello"})
	registry := component.NewRegistry().
		MustRegister(greeters).
		MustRegister(&component.EnvStrategy{}).
		MustRegister(component.NewConfigStrategy(&AppConfig{Name: "playground", Port: 8080}))
	constructor := component.NewFactoryConstructor().MustRegister(NewReporter)

	cache := component.New(registry, constructor, opts...)
	//goland:noinspection GoUnhandledErrorResult
	defer cache.Close()

	available, err := cache.Preload(ctx, component.TypeOf[Service](), component.TypeOf[Reporter]())
	if err != nil {
		logger.Fatal().Err(err).Msg("preload failed")
	}
	logger.Info().Int("available", len(available)).Msgf("\n\nhere is what we have in store after preload:\n%s", cache.Describe())

	service, found := component.Get[*Service](cache)
	if !found {
		logger.Fatal().Msg("service should be available")
	}
	greet(logger, service)

	greeters.Supply(&politeGreeter{prefix: "Howdy"})
	if err := cache.ReinjectAll(); err != nil {
		logger.Error().Err(err).Msg("re-injection failed")
	}
	greet(logger, service)

	if _, found := cache.GetOrCreate(reflect.TypeOf(&Reporter{})); !found {
		logger.Info().Msg("reporter is still unavailable, as expected")
	}

	logger.Info().Msg("bye.")
}

func greet(logger zerolog.Logger, service *Service) {
	logger.Info().
		Str("home", service.home).
		Str("name", service.name).
		Int("port", service.port).
		Msg(service.greeter.Greet("playground"))
}
