package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeTestManifest(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestManifestStats(t *testing.T) {
	env := setupCLITestEnv(t)
	manifestPath := writeTestManifest(t,
		`{"audio_filepath":"a.wav","video_filepath":"a.mp4","duration":2.0,"text":"hello"}
{"audio_filepath":"b.wav","duration":0.05,"text":"short"}
`)

	out, _, err := runCLI(t, []string{
		"manifest", "stats", manifestPath,
		"--min-duration", "0.1",
	}, env.configPath)
	if err != nil {
		t.Fatalf("manifest stats: %v", err)
	}
	requireContains(t, out, "Entries")
	requireContains(t, out, "Filtered entries")
	requireContains(t, out, "1")
}

func TestManifestStatsRemoteManifest(t *testing.T) {
	env := setupCLITestEnv(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/manifest.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"audio_filepath":"a.wav","duration":2.0,"text":"hello"}` + "\n"))
	}))
	defer server.Close()

	out, _, err := runCLI(t, []string{
		"manifest", "stats", server.URL + "/manifest.json",
	}, env.configPath)
	if err != nil {
		t.Fatalf("manifest stats over http: %v", err)
	}
	requireContains(t, out, "Entries")

	entries, err := os.ReadDir(env.cacheDir)
	if err != nil {
		t.Fatalf("read cache dir: %v", err)
	}
	var cached bool
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) == ".json" {
			cached = true
		}
	}
	if !cached {
		t.Fatal("expected the remote manifest to land in the cache dir")
	}
}

func TestManifestValidateRejectsBadRecord(t *testing.T) {
	env := setupCLITestEnv(t)
	manifestPath := writeTestManifest(t, `{"duration":1.0,"text":"no audio"}`+"\n")

	if _, _, err := runCLI(t, []string{"manifest", "validate", manifestPath}, env.configPath); err == nil {
		t.Fatal("expected error for record without audio filepath")
	}
}

func TestShardsListPartition(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{
		"shards", "list", "/data/shard_{0..3}.tar",
		"--world-size", "2", "--rank", "1",
	}, env.configPath)
	if err != nil {
		t.Fatalf("shards list: %v", err)
	}
	requireContains(t, out, "Expanded 4 shard(s)")
	requireContains(t, out, "/data/shard_2.tar")
	requireContains(t, out, "/data/shard_3.tar")
}
