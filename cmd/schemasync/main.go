package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/luandevpro/typeorm"
	"github.com/luandevpro/typeorm/driver"
	_ "github.com/luandevpro/typeorm/driver/dynamodb"
	_ "github.com/luandevpro/typeorm/driver/postgres"
	"github.com/luandevpro/typeorm/metadata"
)

var (
	versionFlag = flag.Bool("version", false, "Show version information")
	vFlag       = flag.Bool("v", false, "Show version information (short)")

	entitiesFlag = flag.String("entities", "entities.yaml", "Path to the entity definitions file")
	optionsFlag  = flag.String("options", "", "Path to a YAML options file (defaults to environment variables)")
)

func main() {
	// Parse flags early to catch version flag
	flag.Parse()

	// Handle version flag
	if *versionFlag || *vFlag {
		info := typeorm.GetVersionInfo()
		fmt.Printf("TypeORM schemasync version %s\n", info.Version)
		fmt.Printf("Git commit: %s\n", info.GitCommit)
		fmt.Printf("Build date: %s\n", info.BuildDate)
		fmt.Printf("Go version: %s\n", info.GoVersion)
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "schemasync: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	var (
		opts *driver.Options
		err  error
	)
	if *optionsFlag != "" {
		opts, err = driver.LoadOptions(*optionsFlag)
	} else {
		opts, err = driver.OptionsFromEnv()
	}
	if err != nil {
		return err
	}

	ms, err := metadata.LoadFile(*entitiesFlag)
	if err != nil {
		return err
	}

	ctx := context.Background()
	conn, err := typeorm.Open(ctx, opts)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	if err := conn.AddMetadatas(ms...); err != nil {
		return err
	}
	if err := conn.Synchronize(ctx); err != nil {
		return err
	}

	conn.Logger().Info("schema synchronized", "driver", opts.Type, "entities", len(ms))
	return nil
}
