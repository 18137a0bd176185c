// Package main provides the fetch-tempo tool. It populates the granule
// data directory the API server reads from, either by syncing converted
// granules from a mirror or by generating sample data for development.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/clearskies/clearskies/internal/tempo/fetch"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	var (
		dir     = flag.String("dir", "data/granules", "directory to write granule files into")
		mirror  = flag.String("mirror", "", "base URL of a granule mirror to sync from")
		sample  = flag.Bool("sample", false, "generate sample granules instead of downloading")
		count   = flag.Int("count", 8, "number of sample granules to generate")
		spacing = flag.Duration("spacing", time.Hour, "time between sample granule observations")
		timeout = flag.Duration("timeout", 5*time.Minute, "overall timeout for the sync")
	)
	flag.Parse()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", "fetch-tempo").
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Str("dir", *dir).
		Msg("starting granule fetch")

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("failed to create data directory")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch {
	case *sample:
		written, err := fetch.GenerateSamples(*dir, fetch.SampleConfig{
			Count:   *count,
			Spacing: *spacing,
			End:     time.Now().UTC(),
		})
		if err != nil {
			log.Fatal().Err(err).Msg("sample generation failed")
		}
		log.Info().Int("granules", written).Msg("sample granules written")

	case *mirror != "":
		syncer := fetch.NewSyncer(fetch.SyncerConfig{
			MirrorURL: *mirror,
			Dir:       *dir,
			Logger:    log,
		})
		result, err := syncer.Sync(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("mirror sync failed")
		}
		log.Info().
			Int("downloaded", result.Downloaded).
			Int("skipped", result.Skipped).
			Msg("mirror sync completed")

	default:
		fmt.Fprintln(os.Stderr, "either -mirror or -sample is required")
		flag.Usage()
		os.Exit(2)
	}
}
