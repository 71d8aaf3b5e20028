package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"
	flag "github.com/spf13/pflag"

	"github.com/willie68/go_vtrender/configs"
	"github.com/willie68/go_vtrender/internal"
	"github.com/willie68/go_vtrender/internal/api"
	"github.com/willie68/go_vtrender/internal/config"
	"github.com/willie68/go_vtrender/internal/logging"
	"github.com/willie68/go_vtrender/internal/prefetch"
	"github.com/willie68/go_vtrender/internal/shttp"
	"github.com/willie68/go_vtrender/pkg/fileutils"
)

var (
	log         *logging.Logger
	configFile  string
	showVersion bool
	initConfig  bool
	pfZoom      int
	pfProviders string
	port        int
	tileSize    int
)

func init() {
	flag.BoolVarP(&initConfig, "init", "i", false, "init config, writes out a default config.")
	flag.BoolVarP(&showVersion, "version", "v", false, "showing the version")
	flag.StringVarP(&configFile, "config", "c", "config.yaml", "this is the path and filename to the config file")
	flag.IntVarP(&port, "port", "p", 0, "overwrite the port (8580) of the config")
	flag.IntVarP(&tileSize, "tilesize", "t", 0, "overwrite the tile size (512) of the config")
	flag.IntVarP(&pfZoom, "zoom", "z", 0, "max zoom for prefetch rendering")
	flag.StringVarP(&pfProviders, "system", "s", "", "prefetch providers, if empty no prefetch rendering will be done, csv if more than one needed.")
	flag.Usage = func() {
		fmt.Printf("Usage of %s:\n", os.Args[0])
		fmt.Println("more on https://github.com/willie68/go_vtrender")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("examples:")
		fmt.Println("write the default config, add your vector tile providers and run")
		fmt.Printf("%s -i > config.yaml\n", os.Args[0])
		fmt.Printf("%s -c config.yaml\n", os.Args[0])
		fmt.Println("render all tiles of a provider up to zoom 4 before serving, e.g. to check the style against the data")
		fmt.Printf("%s -c config.yaml -s <your provider> -z 4\n", os.Args[0])
	}
}

func main() {
	flag.Parse()
	if showVersion {
		fmt.Println(config.NewVersion().String())
		os.Exit(0)
	}
	if initConfig {
		fmt.Println(configs.ConfigFile)
		os.Exit(0)
	}
	if !fileutils.FileExists(configFile) {
		fmt.Fprint(os.Stderr, "no config given or dosn't exists.\r\n\r\n")
		flag.Usage()
		os.Exit(1)
	}
	err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	config.SetParameter(config.WithPort(port), config.WithTileSize(tileSize))
	js := config.JSON()
	if js == "" {
		panic("error on marshal config to json")
	}
	fmt.Printf("Config:\n%s\n", js)

	inj := do.New()
	internal.Init(inj)
	log = logging.New().WithName("main")
	log.Info("starting vector tile render service")

	if pfProviders != "" {
		if _, err := prefetch.Prefetch(inj, pfProviders, pfZoom); err != nil {
			log.Errorf("prefetch failed: %v", err)
		}
	}

	router, err := api.APIRoutes(inj)
	if err != nil {
		log.Fatalf("could not create api routes: %v", err)
	}
	healthRouter := api.HealthRoutes(inj)

	sh := do.MustInvoke[*shttp.SHttp](inj)
	if err := sh.StartServers(router, healthRouter); err != nil {
		log.Fatalf("could not start servers: %v", err)
	}

	log.Info("waiting for clients")
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	sh.ShutdownServers()
	log.Info("server finished")

	internal.Stop(inj)
	os.Exit(0)
}
