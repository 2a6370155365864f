package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rcliao/person-registry/internal/form"
	"github.com/rcliao/person-registry/internal/registry"
	"github.com/rcliao/person-registry/internal/store"
)

func runScript(t *testing.T, lines ...string) string {
	t.Helper()
	c := form.NewController(registry.New(store.NewMemoryStore()))
	var out bytes.Buffer
	if err := runShell(context.Background(), strings.NewReader(strings.Join(lines, "\n")), &out, c); err != nil {
		t.Fatalf("runShell: %v", err)
	}
	return out.String()
}

func TestShellRegisterAndList(t *testing.T) {
	out := runScript(t,
		"set nationalId 1234567890",
		"set firstNames Juan",
		"set lastNames Perez",
		"set birthDate 2000-01-01",
		"set gender Masculine",
		"set city Quito",
		"submit",
		"list",
		"quit",
	)

	if !strings.Contains(out, "record 1 registered") {
		t.Errorf("expected registration notice, got:\n%s", out)
	}
	if !strings.Contains(out, "1234567890") || !strings.Contains(out, "Perez") {
		t.Errorf("expected record in listing, got:\n%s", out)
	}
}

func TestShellShowsFieldErrors(t *testing.T) {
	out := runScript(t,
		"set nationalId 12345",
		"submit",
		"list",
	)

	if !strings.Contains(out, "! nationalId: national ID must contain exactly 10 digits") {
		t.Errorf("expected national ID error, got:\n%s", out)
	}
	if !strings.Contains(out, "no records") {
		t.Errorf("expected no records after invalid submit, got:\n%s", out)
	}
}

func TestShellEditPrompt(t *testing.T) {
	out := runScript(t,
		"set nid 1234567890",
		"set first Juan",
		"set last Perez",
		"set birth 2000-01-01",
		"set gender F",
		"set city Loja",
		"submit",
		"edit 1",
		"cancel",
		"bogus",
	)

	if !strings.Contains(out, "registry[edit 1]> ") {
		t.Errorf("expected editing prompt, got:\n%s", out)
	}
	if !strings.Contains(out, "edit cancelled") {
		t.Errorf("expected cancel notice, got:\n%s", out)
	}
	if !strings.Contains(out, `unknown command "bogus"`) {
		t.Errorf("expected unknown command message, got:\n%s", out)
	}
}

func TestShellCheckBeforeSubmit(t *testing.T) {
	out := runScript(t,
		"set NationalId 1234567890",
		"set FirstNames Ana",
		"set lastnames Loor",
		"set birthDate 1990-05-05",
		"set gender F",
		"set city Lima",
		"check",
		"set city Loja",
		"check",
		"list",
	)

	if !strings.Contains(out, "! city: city is not in the list of allowed cities") {
		t.Errorf("expected city error from check, got:\n%s", out)
	}
	if !strings.Contains(out, "all fields valid") {
		t.Errorf("expected valid notice after fixing city, got:\n%s", out)
	}
	if !strings.Contains(out, "no records") {
		t.Errorf("check must not register the draft, got:\n%s", out)
	}
}
