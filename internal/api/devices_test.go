package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/assetplan/assetmap-core/internal/device"
)

func postJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	body, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func doJSON(t *testing.T, method, url string, v any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if v != nil {
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("build %s %s: %v", method, url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func createTestDevice(t *testing.T, baseURL string, d device.Device) device.Device {
	t.Helper()
	resp := postJSON(t, baseURL+"/api/v1/devices/", d)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create device status = %d", resp.StatusCode)
	}
	var created device.Device
	decodeBody(t, resp, &created)
	return created
}

func sampleDevice() device.Device {
	return device.Device{
		Name:       "Reception Printer",
		Type:       device.TypePrinter,
		IPAddress:  "10.0.0.30",
		LocationID: "loc-hq",
		Lat:        250,
		Lng:        420,
		Status:     device.StatusOnline,
	}
}

func TestCreateDevice(t *testing.T) {
	ts, _, _ := testServer(t)

	created := createTestDevice(t, ts.URL, sampleDevice())
	if created.ID == "" {
		t.Error("created device has no id")
	}
	if created.Lat != 250 || created.Lng != 420 {
		t.Errorf("position = (%v,%v), want (250,420)", created.Lat, created.Lng)
	}

	// The record is retrievable by its new id.
	resp, err := http.Get(ts.URL + "/api/v1/devices/" + created.ID)
	if err != nil {
		t.Fatalf("GET device: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("get status = %d", resp.StatusCode)
	}
}

func TestCreateDeviceValidation(t *testing.T) {
	ts, _, _ := testServer(t)

	tests := []struct {
		name   string
		mutate func(*device.Device)
	}{
		{"empty name", func(d *device.Device) { d.Name = "" }},
		{"empty ip", func(d *device.Device) { d.IPAddress = "" }},
		{"unknown type", func(d *device.Device) { d.Type = "toaster" }},
		{"unknown status", func(d *device.Device) { d.Status = "sleeping" }},
		{"missing location", func(d *device.Device) { d.LocationID = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := sampleDevice()
			tt.mutate(&d)
			resp := postJSON(t, ts.URL+"/api/v1/devices/", d)
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestCreateDeviceUnknownLocation(t *testing.T) {
	ts, _, _ := testServer(t)

	d := sampleDevice()
	d.LocationID = "loc-nowhere"
	resp := postJSON(t, ts.URL+"/api/v1/devices/", d)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for unknown location", resp.StatusCode)
	}
}

func TestCreateDeviceRejectsClientID(t *testing.T) {
	ts, _, _ := testServer(t)

	d := sampleDevice()
	d.ID = "client-chosen"
	resp := postJSON(t, ts.URL+"/api/v1/devices/", d)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 when client supplies an id", resp.StatusCode)
	}
}

func TestUpdateDeviceReplacesWholesale(t *testing.T) {
	ts, _, _ := testServer(t)
	created := createTestDevice(t, ts.URL, sampleDevice())

	created.Status = device.StatusMaintenance
	created.Name = "Reception Printer (service)"
	resp := doJSON(t, http.MethodPut, ts.URL+"/api/v1/devices/"+created.ID, created)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d", resp.StatusCode)
	}

	var updated device.Device
	decodeBody(t, resp, &updated)
	if updated.Status != device.StatusMaintenance {
		t.Errorf("status = %q, want maintenance", updated.Status)
	}
	if updated.Name != "Reception Printer (service)" {
		t.Errorf("name = %q", updated.Name)
	}
}

func TestUpdateDeviceNotFound(t *testing.T) {
	ts, _, _ := testServer(t)

	d := sampleDevice()
	resp := doJSON(t, http.MethodPut, ts.URL+"/api/v1/devices/ghost", d)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestDeleteDeviceIsIdempotent(t *testing.T) {
	ts, _, _ := testServer(t)
	created := createTestDevice(t, ts.URL, sampleDevice())

	for i := 0; i < 2; i++ {
		resp := doJSON(t, http.MethodDelete, ts.URL+"/api/v1/devices/"+created.ID, nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusNoContent {
			t.Errorf("delete attempt %d status = %d, want 204", i+1, resp.StatusCode)
		}
	}

	resp, err := http.Get(ts.URL + "/api/v1/devices/" + created.ID)
	if err != nil {
		t.Fatalf("GET device: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", resp.StatusCode)
	}
}

func TestDeviceStats(t *testing.T) {
	ts, _, _ := testServer(t)
	createTestDevice(t, ts.URL, sampleDevice())

	d2 := sampleDevice()
	d2.Name = "Core Switch"
	d2.Type = device.TypeRouter
	d2.Status = device.StatusOffline
	createTestDevice(t, ts.URL, d2)

	resp, err := http.Get(ts.URL + "/api/v1/devices/stats")
	if err != nil {
		t.Fatalf("GET stats: %v", err)
	}
	defer resp.Body.Close()

	var stats device.Stats
	decodeBody(t, resp, &stats)
	if stats.Total != 2 {
		t.Errorf("total = %d, want 2", stats.Total)
	}
	if stats.ByType[device.TypePrinter] != 1 || stats.ByType[device.TypeRouter] != 1 {
		t.Errorf("by_type = %v", stats.ByType)
	}
	if stats.ByStatus[device.StatusOffline] != 1 {
		t.Errorf("by_status = %v", stats.ByStatus)
	}
}
