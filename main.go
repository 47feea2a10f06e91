package main

import (
	"flag"

	"github.com/golang/glog"
	"github.com/prebid/prebid-vast/config"
	"github.com/prebid/prebid-vast/router"
	"github.com/prebid/prebid-vast/server"
	"github.com/spf13/viper"
)

// Version and Rev are set at build time using:
//
//	go build -ldflags "-X main.Version=`git describe --tags` -X main.Rev=`git rev-parse --short HEAD`"
var (
	Version string
	Rev     string
)

func main() {
	flag.Parse() // required for glog flags and testing package flags

	cfg, err := loadConfig()
	if err != nil {
		glog.Exitf("Configuration could not be loaded or did not pass validation: %v", err)
	}

	err = serve(Version, Rev, cfg)
	if err != nil {
		glog.Exitf("prebid-vast failed: %v", err)
	}
}

const configFileName = "vast"

func loadConfig() (*config.Configuration, error) {
	v := viper.New()
	config.SetupViper(v, configFileName)
	return config.New(v)
}

func serve(version, revision string, cfg *config.Configuration) error {
	r, err := router.New(cfg)
	if err != nil {
		return err
	}

	corsRouter := router.SupportCORS(r)
	server.Listen(cfg, router.NoCache{Handler: corsRouter}, router.Admin(version, revision), r.MetricsEngine)

	r.Shutdown()
	return nil
}
