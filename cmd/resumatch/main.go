// Command resumatch is a local resume retrieval and job matching tool.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	configfile "github.com/custodia-labs/resumatch-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/resumatch-cli/internal/adapters/driven/storage/filesystem"
	"github.com/custodia-labs/resumatch-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/resumatch-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/resumatch-cli/internal/chunker"
	"github.com/custodia-labs/resumatch-cli/internal/core/services"
	"github.com/custodia-labs/resumatch-cli/internal/embedding/hash"
	"github.com/custodia-labs/resumatch-cli/internal/logger"
	vecmemory "github.com/custodia-labs/resumatch-cli/internal/vectorindex/memory"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dataDir := config.GetString(configfile.KeyDataDir)
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	extractorRoot := filepath.Join(filepath.Dir(store.Path()), "pages")
	extractor, err := filesystem.NewExtractor(extractorRoot)
	if err != nil {
		return fmt.Errorf("opening extractor: %w", err)
	}

	dimensions := config.GetInt(configfile.KeyEmbeddingDims)
	if dimensions <= 0 {
		dimensions = hash.DefaultDimensions
	}
	embedder := hash.New(hash.WithDimensions(dimensions))

	// The index lives in memory; rebuild it from stored chunk embeddings.
	index := vecmemory.New(dimensions)
	loaded, err := store.ReindexInto(context.Background(), index)
	if err != nil {
		return fmt.Errorf("rebuilding vector index: %w", err)
	}
	logger.Debug("Rebuilt vector index with %d vectors", loaded)

	chunkOpts := []chunker.Option{}
	if size := config.GetInt(configfile.KeyChunkSize); size > 0 {
		chunkOpts = append(chunkOpts, chunker.WithChunkSize(size))
	}
	if overlap := config.GetInt(configfile.KeyChunkOverlap); overlap > 0 {
		chunkOpts = append(chunkOpts, chunker.WithOverlap(overlap))
	}

	askOpts := []services.AskOption{}
	if hours := config.GetInt(configfile.KeyAskCacheTTLHours); hours > 0 {
		askOpts = append(askOpts, services.WithCacheTTL(time.Duration(hours)*time.Hour))
	}

	resumeStore := store.ResumeStore()

	cli.Configure(cli.Services{
		Ingest: services.NewIngestService(
			resumeStore,
			extractor,
			embedder,
			index,
			store.IdempotencyStore(),
			chunker.New(chunkOpts...),
		),
		Ask:       services.NewAskService(resumeStore, embedder, index, store.QueryCache(), askOpts...),
		Job:       services.NewJobService(store.JobStore(), store.IdempotencyStore()),
		Match:     services.NewMatchService(resumeStore, store.JobStore()),
		Extractor: extractor,
		Config:    config,
	})

	return cli.Execute()
}
