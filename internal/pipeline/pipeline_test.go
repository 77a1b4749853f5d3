package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hjaltalin/caselink/internal/model"
	"github.com/hjaltalin/caselink/internal/store"
)

// newCourtSite builds an httptest server mimicking both court sites: the
// listing and detail pages of the supreme court plus the appeals-court
// ruling pages reached through cross-reference links. Tests replace or add
// pages via overrides, keyed by path.
func newCourtSite(t *testing.T, overrides map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	pages := map[string]http.HandlerFunc{
		"/domar/": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html><body>
				<a href="/domar/_domur/a1">Case a1</a>
				<a href="/domar/_domur/a2">Case a2</a>
				<a href="/domar/">Listing</a>
			</body></html>`)
		},
		"/akvardanir/": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html><body><a href="/um-rettinn/">About</a></body></html>`)
		},
		"/domar/_domur/a1": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `<html><body>
				<h1>Mál nr. 2024-10</h1>
				<a href="%s/domar-og-urskurdir/domur-urskurdur/x1">appeals ruling</a>
			</body></html>`, server.URL)
		},
		"/domar/_domur/a2": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html><body><h1>Mál nr. 2024-11</h1></body></html>`)
		},
		"/domar-og-urskurdir/domur-urskurdur/x1": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html><body>old ref 5/2015, Mál nr. 12/2020</body></html>`)
		},
	}
	for path, handler := range overrides {
		pages[path] = handler
	}
	for path, handler := range pages {
		mux.HandleFunc(path, handler)
	}

	return server
}

func testConfig(t *testing.T, server *httptest.Server) *model.Config {
	t.Helper()

	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = 5 * time.Second
	cfg.Cache.Enabled = false
	cfg.Robots.Enabled = false
	cfg.Sources.BaseURL = server.URL
	cfg.Sources.AppealsHost = "127.0.0.1"
	cfg.Output.JSONPath = filepath.Join(t.TempDir(), "mapping.json")
	return cfg
}

func serveError(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	server := newCourtSite(t, nil)
	cfg := testConfig(t, server)
	st := store.NewMemoryStore()

	summary, err := NewPipeline(cfg, st).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.VerdictLinks != 2 || summary.DecisionLinks != 0 {
		t.Errorf("Unexpected link counts: %+v", summary)
	}

	// a2 has no cross-reference and is dropped; only a1 survives
	if len(st.Records) != 1 {
		t.Fatalf("Expected 1 persisted record, got %d: %+v", len(st.Records), st.Records)
	}
	r := st.Records[0]
	if r.SupremeCaseNumber != "2024-10" {
		t.Errorf("Unexpected supreme case number: %q", r.SupremeCaseNumber)
	}
	if r.AppealsCaseNumber != "12/2020" {
		t.Errorf("Expected year cutoff to skip 5/2015 and pick 12/2020, got %q", r.AppealsCaseNumber)
	}
	if r.SupremeCaseLink != server.URL+"/domar/_domur/a1" {
		t.Errorf("Unexpected provenance link: %q", r.SupremeCaseLink)
	}
	if r.SourceType != model.SourceVerdict {
		t.Errorf("Unexpected source type: %q", r.SourceType)
	}

	data, err := os.ReadFile(cfg.Output.JSONPath)
	if err != nil {
		t.Fatalf("Mapping not written: %v", err)
	}
	var mapping map[string]map[string]string
	if err := json.Unmarshal(data, &mapping); err != nil {
		t.Fatalf("Mapping is not a bare-object lookup: %v", err)
	}
	entry, ok := mapping["12/2020"]
	if !ok {
		t.Fatalf("Expected key 12/2020 in mapping, got %v", mapping)
	}
	if entry["supreme_case_number"] != "2024-10" {
		t.Errorf("Unexpected mapping entry: %+v", entry)
	}
}

func TestPipeline_Idempotent(t *testing.T) {
	server := newCourtSite(t, nil)
	cfg := testConfig(t, server)
	csvPath := filepath.Join(t.TempDir(), "cases.csv")
	st := store.NewCSVStore(csvPath)

	if _, err := NewPipeline(cfg, st).Run(context.Background()); err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	csvOnce, _ := os.ReadFile(csvPath)
	jsonOnce, _ := os.ReadFile(cfg.Output.JSONPath)

	if _, err := NewPipeline(cfg, st).Run(context.Background()); err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	csvTwice, _ := os.ReadFile(csvPath)
	jsonTwice, _ := os.ReadFile(cfg.Output.JSONPath)

	if string(csvOnce) != string(csvTwice) {
		t.Errorf("CSV changed on second run:\nonce:\n%s\ntwice:\n%s", csvOnce, csvTwice)
	}
	if string(jsonOnce) != string(jsonTwice) {
		t.Errorf("Mapping changed on second run:\nonce:\n%s\ntwice:\n%s", jsonOnce, jsonTwice)
	}
}

func TestPipeline_PriorRecordWins(t *testing.T) {
	server := newCourtSite(t, nil)
	cfg := testConfig(t, server)

	prior := model.Record{
		SupremeCaseNumber: "2024-10",
		SupremeCaseLink:   "https://old.example/d/1",
		AppealsCaseNumber: "99/2023",
		AppealsCaseLink:   "https://appeals.example/r/99",
		SourceType:        model.SourceDecision,
	}
	st := store.NewMemoryStore(prior)

	if _, err := NewPipeline(cfg, st).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(st.Records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(st.Records))
	}
	if st.Records[0] != prior {
		t.Errorf("Prior record was overwritten by re-scrape: %+v", st.Records[0])
	}
}

func TestPipeline_ListingFailureIsFatal(t *testing.T) {
	server := newCourtSite(t, map[string]http.HandlerFunc{
		"/akvardanir/": serveError(http.StatusInternalServerError),
	})

	cfg := testConfig(t, server)
	st := store.NewMemoryStore(model.Record{
		SupremeCaseNumber: "2023-1",
		AppealsCaseNumber: "1/2019",
		SourceType:        model.SourceVerdict,
	})

	_, err := NewPipeline(cfg, st).Run(context.Background())
	if err == nil {
		t.Fatal("Expected fatal error for listing failure")
	}
	if st.Saves != 0 {
		t.Errorf("Store must stay untouched after a fatal error, got %d saves", st.Saves)
	}
	if _, statErr := os.Stat(cfg.Output.JSONPath); statErr == nil {
		t.Error("Mapping must not be written after a fatal error")
	}
}

func TestPipeline_DetailFailureIsAbsorbed(t *testing.T) {
	server := newCourtSite(t, map[string]http.HandlerFunc{
		"/domar/": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html><body>
				<a href="/domar/_domur/a1">Case a1</a>
				<a href="/domar/_domur/a3">Case a3</a>
			</body></html>`)
		},
		"/domar/_domur/a3": serveError(http.StatusInternalServerError),
	})

	cfg := testConfig(t, server)
	st := store.NewMemoryStore()

	if _, err := NewPipeline(cfg, st).Run(context.Background()); err != nil {
		t.Fatalf("Expected detail failure to be absorbed, got %v", err)
	}

	if len(st.Records) != 1 || st.Records[0].SupremeCaseNumber != "2024-10" {
		t.Errorf("Expected only a1's record to survive, got %+v", st.Records)
	}
}

func TestPipeline_CrossRefFailureIsAbsorbed(t *testing.T) {
	server := newCourtSite(t, map[string]http.HandlerFunc{
		"/domar-og-urskurdir/domur-urskurdur/x1": serveError(http.StatusServiceUnavailable),
	})

	cfg := testConfig(t, server)
	st := store.NewMemoryStore()

	if _, err := NewPipeline(cfg, st).Run(context.Background()); err != nil {
		t.Fatalf("Expected cross-reference failure to be absorbed, got %v", err)
	}

	// The unresolved record is dropped by the merge
	if len(st.Records) != 0 {
		t.Errorf("Expected no records, got %+v", st.Records)
	}
}

func TestPipeline_WrongHostCrossRefNeverResolved(t *testing.T) {
	server := newCourtSite(t, map[string]http.HandlerFunc{
		"/domar/_domur/a1": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html><body>
				<h1>Mál nr. 2024-10</h1>
				<a href="https://evil.example/domar-og-urskurdir/domur-urskurdur/zz">fake ruling</a>
			</body></html>`)
		},
	})

	cfg := testConfig(t, server)
	st := store.NewMemoryStore()

	if _, err := NewPipeline(cfg, st).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// The wrong-host link is discarded, so the record has no appeals
	// identifier and never reaches the store
	if len(st.Records) != 0 {
		t.Errorf("Expected wrong-host cross-reference to contribute nothing, got %+v", st.Records)
	}
}

func TestPipeline_RobotsDisallowBlocksListing(t *testing.T) {
	server := newCourtSite(t, map[string]http.HandlerFunc{
		"/robots.txt": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "User-agent: *\nDisallow: /domar/\n")
		},
	})

	cfg := testConfig(t, server)
	cfg.Robots.Enabled = true
	st := store.NewMemoryStore()

	_, err := NewPipeline(cfg, st).Run(context.Background())
	if err == nil {
		t.Fatal("Expected robots.txt disallow to abort the run")
	}
	if st.Saves != 0 {
		t.Errorf("Store must stay untouched, got %d saves", st.Saves)
	}
}
