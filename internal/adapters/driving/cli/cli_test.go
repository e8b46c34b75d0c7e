package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resumatch-cli/internal/adapters/driven/storage/filesystem"
	"github.com/custodia-labs/resumatch-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/resumatch-cli/internal/chunker"
	"github.com/custodia-labs/resumatch-cli/internal/core/services"
	"github.com/custodia-labs/resumatch-cli/internal/embedding/hash"
	vecmemory "github.com/custodia-labs/resumatch-cli/internal/vectorindex/memory"
)

// setupTestServices wires the commands to memory-backed services.
func setupTestServices(t *testing.T) func() {
	t.Helper()

	resumeStore := memory.NewResumeStore()
	jobStore := memory.NewJobStore()
	index := vecmemory.New(32)
	embedder := hash.New(hash.WithDimensions(32))
	ext, err := filesystem.NewExtractor(t.TempDir())
	require.NoError(t, err)

	Configure(Services{
		Ingest: services.NewIngestService(
			resumeStore, ext, embedder, index,
			memory.NewIdempotencyStore(),
			chunker.New(chunker.WithChunkSize(40), chunker.WithOverlap(10)),
		),
		Ask:       services.NewAskService(resumeStore, embedder, index, memory.NewQueryCache()),
		Job:       services.NewJobService(jobStore, memory.NewIdempotencyStore()),
		Match:     services.NewMatchService(resumeStore, jobStore),
		Extractor: ext,
	})

	return func() {
		Configure(Services{})
	}
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// Flag values persist across Execute calls; reset to defaults.
	ingestJSON, askJSON, jobJSON, matchJSON, resumeJSON = false, false, false, false, false
	ingestKey, jobKey, resumeStatus = "", "", ""

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// writeResume drops resume text into a temp file for ingestion.
func writeResume(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	out, err := execute(t, "version")
	assert.NoError(t, err)
	assert.Contains(t, out, "resumatch version test-version-1.0.0")
}

func TestIngestCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := execute(t, "ingest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestIngestCmd_IngestsFile(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	path := writeResume(t, "jane.txt", "Jane Doe. Python and Docker experience.")

	out, err := execute(t, "ingest", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Ingested jane.txt")
	assert.Contains(t, out, "completed")
}

func TestIngestCmd_WithoutServices(t *testing.T) {
	cleanup := setupTestServices(t)
	cleanup()

	path := writeResume(t, "jane.txt", "text")

	_, err := execute(t, "ingest", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestAskCmd_ReturnsResults(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	path := writeResume(t, "jane.txt", "Senior Python engineer.")
	_, err := execute(t, "ingest", path)
	require.NoError(t, err)

	out, err := execute(t, "ask", "Python engineer")
	require.NoError(t, err)
	assert.Contains(t, out, "jane.txt")
}

func TestAskCmd_EmptyIndex(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "ask", "anything")
	require.NoError(t, err)
	assert.Contains(t, out, "No matching resumes")
}

func TestAskCmd_HasTopFlag(t *testing.T) {
	flag := askCmd.Flags().Lookup("top")
	require.NotNil(t, flag)
	assert.Equal(t, "k", flag.Shorthand)
	assert.Equal(t, "5", flag.DefValue)
}

func TestJobCreateCmd_ExtractsRequirements(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "job", "create",
		"--title", "Backend Engineer",
		"--description", "Python, Docker")
	require.NoError(t, err)
	assert.Contains(t, out, "Created job job_")
	assert.Contains(t, out, "Python")
	assert.Contains(t, out, "Docker")
}

func TestJobCreateCmd_RequiresTitle(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute(t, "job", "create", "--title", "", "--description", "x")
	assert.Error(t, err)
}

func TestMatchCmd_ReportsMissingRequirements(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	path := writeResume(t, "jane.txt", "Five years of Python.")
	_, err := execute(t, "ingest", path)
	require.NoError(t, err)

	out, err := execute(t, "job", "create",
		"--title", "Backend", "--description", "Python, Docker", "--json")
	require.NoError(t, err)

	var job struct {
		ID string `json:"id"`
	}
	jsonStart := bytes.IndexByte([]byte(out), '{')
	require.GreaterOrEqual(t, jsonStart, 0)
	require.NoError(t, json.Unmarshal([]byte(out[jsonStart:]), &job))

	matchOut, err := execute(t, "match", job.ID)
	require.NoError(t, err)
	assert.Contains(t, matchOut, "jane.txt")
	assert.Contains(t, matchOut, "Missing: Docker")
}

func TestResumeListCmd_Empty(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "resume", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No resumes.")
}

func TestResumeDeleteCmd_RemovesResume(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	path := writeResume(t, "jane.txt", "Some resume text.")
	_, err := execute(t, "ingest", path)
	require.NoError(t, err)

	resumes, err := ingestService.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, resumes, 1)

	out, err := execute(t, "resume", "delete", resumes[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted")

	listOut, err := execute(t, "resume", "list")
	require.NoError(t, err)
	assert.Contains(t, listOut, "No resumes.")
}

func TestWatchCmd_RequiresInbox(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute(t, "watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inbox")
}
