package cli

import (
	"bytes"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "season-api v"+Version {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSubcommands(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"serve", "provision", "version"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("missing %s command: %v", name, err)
		}
		if name != "version" && cmd.Flags().Lookup("store") == nil {
			t.Fatalf("%s has no --store flag", name)
		}
	}
}

func TestProvisionMemoryStore(t *testing.T) {
	t.Setenv("ENV", "production")
	out, err := run(t, "provision", "--store", "memory", "--log-level", "info")
	if err != nil {
		t.Fatalf("provision: %v\n%s", err, out)
	}
	if !strings.Contains(out, "store provisioned") {
		t.Fatalf("expected provision log line, got %q", out)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	if _, err := run(t, "provision", "--store", "cassandra"); err == nil {
		t.Fatal("expected an error for an unknown store")
	}
}
