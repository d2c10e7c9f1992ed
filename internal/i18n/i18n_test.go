// Copyright (c) 2025 ToeiRei
// gpgsplode - GPG keyring backup tool
// This source code is licensed under the MIT license found in the LICENSE file.
package i18n

import (
	"strings"
	"testing"
)

func TestT_KnownMessage(t *testing.T) {
	Init("en")
	if got := T("export.done"); got != "Done!" {
		t.Fatalf("unexpected translation: %q", got)
	}
}

func TestT_FormatsArgs(t *testing.T) {
	Init("en")
	if got := T("export.keyring", "pubring"); got != "Keyring pubring..." {
		t.Fatalf("unexpected translation: %q", got)
	}
}

func TestT_UnknownFallsBackToID(t *testing.T) {
	Init("en")
	if got := T("no.such.message"); got != "no.such.message" {
		t.Fatalf("expected message id fallback, got %q", got)
	}
}

func TestSetLang(t *testing.T) {
	SetLang("de")
	defer SetLang("en")
	if got := T("export.done"); got != "Fertig!" {
		t.Fatalf("expected German translation, got %q", got)
	}
}

func TestT_UninitializedDefaultsToEnglish(t *testing.T) {
	localizer = nil
	if got := T("export.start"); !strings.Contains(got, "Exporting") {
		t.Fatalf("expected English default, got %q", got)
	}
}
