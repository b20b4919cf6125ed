package ctl

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"plugd/pkg/acplug"
)

func writeStatus(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write status fixture: %v", err)
	}
	return p
}

func TestStatusCommand(t *testing.T) {
	dir := t.TempDir()
	primary := writeStatus(t, dir, "status", "Discharging\n")

	root := buildRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"status", "--bat-primary", primary, "--bat-secondary", filepath.Join(dir, "missing")})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "unplugged" {
		t.Fatalf("status output = %q, want unplugged", got)
	}
}

func TestStatusCommandErrors(t *testing.T) {
	dir := t.TempDir()
	root := buildRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"status", "--bat-primary", filepath.Join(dir, "a"), "--bat-secondary", filepath.Join(dir, "b")})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected error when both attributes are absent")
	}
}

// runListen is the demonstration consumer: it prints one line per real
// transition and ends cleanly when the peer closes.
func TestRunListen(t *testing.T) {
	dir := t.TempDir()
	primary := writeStatus(t, dir, "status", "Discharging\n")
	sock := filepath.Join(dir, "acpid.socket")

	ln, err := net.Listen("unix", sock)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		_, _ = c.Write([]byte("ac_adapter PNP0C0A:00 00000080 00000001\n"))
		_, _ = c.Write([]byte("ac_adapter PNP0C0A:00 00000080 00000001\n")) // duplicate
		_, _ = c.Write([]byte("ac_adapter PNP0C0A:00 00000080 00000000\n"))
		_ = c.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var out bytes.Buffer
	err = runListen(ctx, &out, zerolog.Nop(), acplug.DialConfig{
		Socket:          sock,
		PrimaryStatus:   primary,
		SecondaryStatus: filepath.Join(dir, "missing"),
	})
	if err != nil {
		t.Fatalf("runListen: %v", err)
	}
	want := "plugged\nunplugged\n"
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}
}

func TestRunListenConnectFailure(t *testing.T) {
	dir := t.TempDir()
	err := runListen(context.Background(), new(bytes.Buffer), zerolog.Nop(), acplug.DialConfig{
		Socket: filepath.Join(dir, "nope.socket"),
	})
	if err == nil {
		t.Fatalf("expected connect error")
	}
}
