package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/printdeck/internal/karmen"
)

func TestAddPrinterCmd(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/printers", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		_ = json.NewDecoder(r.Body).Decode(&got)
		if got["ip"] == "10.0.0.9" {
			w.WriteHeader(http.StatusConflict)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()
	cfg := writeConfig(t, srv.URL)

	out, err := execute(t, "add-printer", "10.0.0.7:5000", "Bench MK3", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"ip": "10.0.0.7:5000", "name": "Bench MK3"}, got)
	assert.Contains(t, out, "Added Bench MK3 (10.0.0.7:5000).")

	_, err = execute(t, "add-printer", "10.0.0.9", "dup", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestAddPrinterCmd_RejectsBadAddress(t *testing.T) {
	_, err := execute(t, "add-printer", "printer.local", "mk3", "--config", writeConfig(t, "http://127.0.0.1:1"))
	assert.ErrorIs(t, err, karmen.ErrInvalidAddress)
}

func TestRenamePrinterCmd(t *testing.T) {
	var path, name string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		path = r.URL.Path
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		name = body["name"]
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	out, err := execute(t, "rename-printer", "10.0.0.1", "Left", "--config", writeConfig(t, srv.URL))
	require.NoError(t, err)
	assert.Equal(t, "/printers/10.0.0.1", path)
	assert.Equal(t, "Left", name)
	assert.Contains(t, out, "Renamed 10.0.0.1 to Left.")
}

func TestGcodesCmd(t *testing.T) {
	var filter, deleted string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/gcodes":
			filter = r.URL.Query().Get("filter")
			_, _ = w.Write([]byte(`{"items":[{"id":4,"display":"benchy.gcode","filename":"benchy.gcode","size":2048,"uploaded":"2019-10-01T10:00:00Z"}],"next":"/gcodes?start_with=3"}`))
		case r.Method == http.MethodDelete:
			deleted = r.URL.Path
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	cfg := writeConfig(t, srv.URL)

	out, err := execute(t, "gcodes", "--filter", "ben", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "display:ben", filter)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "UPLOADED")
	assert.Contains(t, lines[1], "benchy.gcode")
	assert.Contains(t, lines[1], "2048")
	assert.Equal(t, "more: /gcodes?start_with=3", lines[2])

	out, err = execute(t, "gcodes", "delete", "4", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "/gcodes/4", deleted)
	assert.Contains(t, out, "Removed gcode 4.")

	_, err = execute(t, "gcodes", "delete", "abc", "--config", cfg)
	assert.Error(t, err)
}

func TestPrintCmd(t *testing.T) {
	var body struct {
		Gcode   int64  `json:"gcode"`
		Printer string `json:"printer"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/printjobs", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Printer == "10.0.0.2" {
			w.WriteHeader(http.StatusConflict)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()
	cfg := writeConfig(t, srv.URL)

	out, err := execute(t, "print", "4", "10.0.0.1", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(4), body.Gcode)
	assert.Equal(t, "10.0.0.1", body.Printer)
	assert.Contains(t, out, "started on 10.0.0.1")

	_, err = execute(t, "print", "4", "10.0.0.2", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "busy")
}

func TestSettingsCmd(t *testing.T) {
	var posted []karmen.Setting
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/settings", r.URL.Path)
		if r.Method == http.MethodPost {
			_ = json.NewDecoder(r.Body).Decode(&posted)
			w.WriteHeader(http.StatusCreated)
			return
		}
		_, _ = w.Write([]byte(`[{"key":"network_interface","val":"wlan0"}]`))
	}))
	defer srv.Close()
	cfg := writeConfig(t, srv.URL)

	out, err := execute(t, "settings", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "network_interface")
	assert.Contains(t, out, `"wlan0"`)

	out, err = execute(t, "settings", "set", "network_interface=eth0", "discovery=true", "--config", cfg)
	require.NoError(t, err)
	require.Len(t, posted, 2)
	assert.JSONEq(t, `"eth0"`, string(posted[0].Val))
	assert.JSONEq(t, `true`, string(posted[1].Val))
	assert.Contains(t, out, "Saved 2 setting(s).")

	_, err = execute(t, "settings", "set", "novalue", "--config", cfg)
	assert.Error(t, err)
}
