package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// scrubEnv blanks every CONNECTBLUE variable and points XDG_CONFIG_HOME at
// an empty temp dir so tests see neither the host's env nor its config.
func scrubEnv(t *testing.T) string {
	t.Helper()
	for _, key := range []string{EnvAddress, EnvName, EnvConnectTimeout, EnvPollInterval, EnvTransport} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func writeDevices(t *testing.T, dir, content string) {
	t.Helper()
	path := filepath.Join(dir, "connectblue", "devices.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	scrubEnv(t)

	target, err := Load("AA:BB:CC:DD:EE:FF", "Foo Headphones", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.ConnectTimeout != DefaultConnectTimeout {
		t.Errorf("ConnectTimeout = %s, want %s", target.ConnectTimeout, DefaultConnectTimeout)
	}
	if target.PollInterval != DefaultPollInterval {
		t.Errorf("PollInterval = %s, want %s", target.PollInterval, DefaultPollInterval)
	}
	if target.Transport != DefaultTransport {
		t.Errorf("Transport = %q, want %q", target.Transport, DefaultTransport)
	}
}

func TestLoadRequiresAddress(t *testing.T) {
	scrubEnv(t)

	if _, err := Load("", "", 0, 0); err == nil {
		t.Fatal("want an error when no address is available anywhere")
	}
}

func TestLoadNameFallsBackToAddress(t *testing.T) {
	scrubEnv(t)

	target, err := Load("AA:BB:CC:DD:EE:FF", "", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.Name != "AA:BB:CC:DD:EE:FF" {
		t.Errorf("Name = %q, want the address", target.Name)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	scrubEnv(t)
	t.Setenv(EnvAddress, "11:22:33:44:55:66")
	t.Setenv(EnvName, "Env Headphones")
	t.Setenv(EnvConnectTimeout, "30s")
	t.Setenv(EnvPollInterval, "250ms")
	t.Setenv(EnvTransport, "bluez")

	target, err := Load("", "", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.Address != "11:22:33:44:55:66" {
		t.Errorf("Address = %q", target.Address)
	}
	if target.Name != "Env Headphones" {
		t.Errorf("Name = %q", target.Name)
	}
	if target.ConnectTimeout != 30*time.Second {
		t.Errorf("ConnectTimeout = %s", target.ConnectTimeout)
	}
	if target.PollInterval != 250*time.Millisecond {
		t.Errorf("PollInterval = %s", target.PollInterval)
	}
	if target.Transport != "bluez" {
		t.Errorf("Transport = %q", target.Transport)
	}
}

func TestLoadFlagsWinOverEnv(t *testing.T) {
	scrubEnv(t)
	t.Setenv(EnvAddress, "11:22:33:44:55:66")
	t.Setenv(EnvConnectTimeout, "30s")

	target, err := Load("AA:BB:CC:DD:EE:FF", "", 5*time.Second, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.Address != "AA:BB:CC:DD:EE:FF" {
		t.Errorf("Address = %q, flag should win", target.Address)
	}
	if target.ConnectTimeout != 5*time.Second {
		t.Errorf("ConnectTimeout = %s, flag should win", target.ConnectTimeout)
	}
}

func TestLoadDevicesFile(t *testing.T) {
	dir := scrubEnv(t)
	writeDevices(t, dir, `[
  {"address": "AA:BB:CC:DD:EE:FF", "name": "Foo Headphones"},
  {"address": "11:22:33:44:55:66", "name": "Backup Buds"}
]`)

	target, err := Load("", "", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.Address != "AA:BB:CC:DD:EE:FF" {
		t.Errorf("Address = %q, want the first devices entry", target.Address)
	}
	if target.Name != "Foo Headphones" {
		t.Errorf("Name = %q", target.Name)
	}
}

func TestLoadDevicesFileNameForGivenAddress(t *testing.T) {
	dir := scrubEnv(t)
	writeDevices(t, dir, `[
  {"address": "AA:BB:CC:DD:EE:FF", "name": "Foo Headphones"},
  {"address": "11:22:33:44:55:66", "name": "Backup Buds"}
]`)

	target, err := Load("11:22:33:44:55:66", "", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.Name != "Backup Buds" {
		t.Errorf("Name = %q, want the entry matching the address", target.Name)
	}
}

func TestLoadBadDevicesFile(t *testing.T) {
	dir := scrubEnv(t)
	writeDevices(t, dir, `{not json`)

	if _, err := Load("", "", 0, 0); err == nil {
		t.Fatal("want a parse error")
	}
}

func TestLoadBadEnvDuration(t *testing.T) {
	scrubEnv(t)
	t.Setenv(EnvConnectTimeout, "soon")

	if _, err := Load("AA:BB:CC:DD:EE:FF", "", 0, 0); err == nil {
		t.Fatal("want a duration parse error")
	}
}
