package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/covidash/covidash/internal/dataset"
)

// stubRuntime stands in for the real chart runtime in render tests.
const stubRuntime = "window.echarts={init:function(){return{setOption:function(){},resize:function(){}}}};"

func TestRenderWritesStandaloneHTML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "daily.html")

	if err := Render(BuildDaily(dailySnapshot(), 5, "Arland"), []byte(stubRuntime), path); err != nil {
		t.Fatalf("render: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	html := string(raw)
	if !strings.Contains(html, "<!DOCTYPE html>") {
		t.Fatal("missing doctype")
	}
	if !strings.Contains(html, "COVID-19 Daily Report") {
		t.Fatal("missing title")
	}
	// Data rides inside the document, not behind a fetch.
	if !strings.Contains(html, `"chart-daily-top"`) {
		t.Fatal("embedded chart payload missing")
	}
	if !strings.Contains(html, "812.5") {
		t.Fatal("snapshot table values missing")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestRenderEmbedsChartRuntime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daily.html")
	if err := Render(BuildDaily(dailySnapshot(), 5, "Arland"), []byte(stubRuntime), path); err != nil {
		t.Fatalf("render: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	html := string(raw)
	// The rendering logic is inlined; the document references no external
	// script, so it works with zero network access.
	if !strings.Contains(html, stubRuntime) {
		t.Fatal("chart runtime not inlined")
	}
	if strings.Contains(html, "<script src=") {
		t.Fatal("document references an external script")
	}
	if strings.Contains(html, "cdn.jsdelivr.net") {
		t.Fatal("document references a CDN")
	}
}

func TestRenderTrendsHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trends.html")
	pop := dataset.Population{"Arland": 1000, "Borland": 2000, "Cydonia": 3000}
	d := BuildTrends(trendsTable(t), pop, 2, 0)
	if err := Render(d, []byte(stubRuntime), path); err != nil {
		t.Fatalf("render: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	html := string(raw)
	if !strings.Contains(html, "tab-worldwide") {
		t.Fatal("worldwide tab missing")
	}
	if !strings.Contains(html, stubRuntime) {
		t.Fatal("chart runtime not inlined")
	}
}

func TestRenderBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "nested", "out.html")
	err := Render(BuildDaily(dailySnapshot(), 3, "Arland"), []byte(stubRuntime), path)
	var se *SerializationError
	if !errors.As(err, &se) {
		t.Fatalf("expected SerializationError, got %v", err)
	}
	if se.Path != path {
		t.Fatalf("error path = %q", se.Path)
	}
}
