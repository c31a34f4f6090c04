/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/suparena/entityext"
	"github.com/suparena/entityext/processor"
)

var (
	versionFlag = flag.Bool("version", false, "Show version information")
	vFlag       = flag.Bool("v", false, "Show version information (short)")
	configFlag  = flag.String("config", "", "Path to the extension manifest (env EXTGEN_CONFIG)")
	packageFlag = flag.String("package", "", "Package name of the generated file (env EXTGEN_PACKAGE, default $GOPACKAGE)")
	outFlag     = flag.String("out", "", "Output file, stdout when empty")
	debugFlag   = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	if *versionFlag || *vFlag {
		info := entityext.GetVersionInfo()
		fmt.Printf("entityext extgen version %s\n", info.Version)
		fmt.Printf("Git commit: %s\n", info.GitCommit)
		fmt.Printf("Build date: %s\n", info.BuildDate)
		fmt.Printf("Go version: %s\n", info.GoVersion)
		os.Exit(0)
	}

	if *debugFlag {
		log.SetLevel(log.DebugLevel)
	}
	if err := godotenv.Load(); err != nil {
		log.WithError(err).Debug("No .env file found, proceeding with environment variables")
	}

	manifest := firstNonEmpty(*configFlag, os.Getenv("EXTGEN_CONFIG"))
	pkg := firstNonEmpty(*packageFlag, os.Getenv("EXTGEN_PACKAGE"), os.Getenv("GOPACKAGE"))
	if manifest == "" || pkg == "" {
		fmt.Fprintln(os.Stderr, "usage: extgen -config manifest.yaml -package name [-out file.go]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := processor.GenerateFile(manifest, *outFlag, processor.Options{Package: pkg}); err != nil {
		log.WithError(err).Fatal("generation failed")
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
