package cli

import (
	"strings"
	"testing"
)

func TestFixturesList(t *testing.T) {
	out, err := runHarness(t, "fixtures", "list", "--fixtures", testFixtures)
	if err != nil {
		t.Fatalf("list failed: %v\n%s", err, out)
	}

	for _, want := range []string{"KIND", "diagrams", "etl", "palettes", "default", "forms", "csv"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestFixturesList_OneKind(t *testing.T) {
	out, err := runHarness(t, "fixtures", "list", "diagrams", "--fixtures", testFixtures)
	if err != nil {
		t.Fatalf("list failed: %v\n%s", err, out)
	}
	if strings.Contains(out, "palettes") {
		t.Errorf("palettes listed for diagrams only\n%s", out)
	}
	if !strings.Contains(out, "empty") || !strings.Contains(out, "etl") {
		t.Errorf("diagrams missing\n%s", out)
	}
}

func TestFixturesList_UnknownKind(t *testing.T) {
	if _, err := runHarness(t, "fixtures", "list", "widgets", "--fixtures", testFixtures); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestFixturesValidate(t *testing.T) {
	out, err := runHarness(t, "fixtures", "validate", "--fixtures", testFixtures)
	if err != nil {
		t.Fatalf("validate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "✓ diagrams/etl") {
		t.Errorf("output missing etl result\n%s", out)
	}
	if !strings.Contains(out, "fixtures valid") {
		t.Errorf("output missing summary\n%s", out)
	}
}

func TestFixturesForm(t *testing.T) {
	out, err := runHarness(t, "fixtures", "form", "read_csv", "--fixtures", testFixtures)
	if err != nil {
		t.Fatalf("form failed: %v\n%s", err, out)
	}
	if strings.TrimSpace(out) != "csv" {
		t.Errorf("form = %q, want csv", strings.TrimSpace(out))
	}

	if _, err := runHarness(t, "fixtures", "form", "no_such_op", "--fixtures", testFixtures); err == nil {
		t.Error("expected error for unregistered op")
	}
}

func TestOpsCommand(t *testing.T) {
	out, err := runHarness(t, "ops")
	if err != nil {
		t.Fatalf("ops failed: %v", err)
	}

	for _, want := range []string{
		"OPERATION",
		"setPipelineFlow",
		"Set Node Label",
		"node selected and label non-empty",
		"zoomToRevealLink",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}
