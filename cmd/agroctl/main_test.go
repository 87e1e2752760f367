package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agrovision/dashboard-go/internal/config"
)

func run(t *testing.T, backend string, args ...string) (string, error) {
	t.Helper()
	cfg := &config.Config{BackendURL: backend, DemandUnits: 10000, PollInterval: time.Second}
	cmd := newRootCmd(cfg)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func backend(t *testing.T) string {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/retrain/status", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","last_run":"2025-03-01 10:00:00","details":{"models_trained":2}}`))
	})
	mux.HandleFunc("/api/supply", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"allocations":[]}`))
	})
	mux.HandleFunc("/api/prices", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[5,6]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestStatusCommand(t *testing.T) {
	out, err := run(t, backend(t), "status")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Retraining completed successfully") || !strings.Contains(out, `"records_used": "N/A"`) {
		t.Errorf("output = %s", out)
	}
}

func TestSupplyCommand(t *testing.T) {
	url := backend(t)

	if _, err := run(t, url, "supply"); err == nil || !strings.Contains(err.Error(), "Please enter a city") {
		t.Errorf("blank city err = %v", err)
	}

	out, err := run(t, url, "supply", "--city", "Pune")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No stock available") {
		t.Errorf("output = %s", out)
	}
}

func TestPricesAndCropsCommands(t *testing.T) {
	out, err := run(t, backend(t), "prices", "--crop", "maize")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Maize Price Trend") || !strings.Contains(out, `"day": "Day 2"`) {
		t.Errorf("output = %s", out)
	}

	out, err = run(t, "", "crops")
	if err != nil || !strings.Contains(out, "brinjal") {
		t.Errorf("crops: %v %s", err, out)
	}
}

func TestPredictRequiresCity(t *testing.T) {
	if _, err := run(t, backend(t), "predict"); err == nil {
		t.Error("expected missing flag error")
	}
}
