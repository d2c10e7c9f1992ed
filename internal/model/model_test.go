// Copyright (c) 2025 ToeiRei
// gpgsplode - GPG keyring backup tool
// This source code is licensed under the MIT license found in the LICENSE file.
package model

import (
	"errors"
	"testing"

	"github.com/toeirei/gpgsplode/internal/apperr"
)

// countingArmorer returns a fixed armored block and counts invocations.
type countingArmorer struct {
	calls int
	text  string
	err   error
}

func (a *countingArmorer) ExportArmored(kind KeyKind, keyID string) (string, error) {
	a.calls++
	return a.text, a.err
}

func TestKeyKind_Options(t *testing.T) {
	if got := KindPublic.ListOption(); got != "--list-keys" {
		t.Fatalf("unexpected public list option: %s", got)
	}
	if got := KindSecret.ListOption(); got != "--list-secret-keys" {
		t.Fatalf("unexpected secret list option: %s", got)
	}

	opt, err := KindPublic.ExportOption()
	if err != nil || opt != "--export" {
		t.Fatalf("public export option: %q, %v", opt, err)
	}
	opt, err = KindSecret.ExportOption()
	if err != nil || opt != "--export-secret-keys" {
		t.Fatalf("secret export option: %q, %v", opt, err)
	}
}

func TestKeyKind_UnknownExportOption(t *testing.T) {
	_, err := KeyKind("crt").ExportOption()
	if err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	var ukk apperr.UnsupportedKeyKindError
	if !errors.As(err, &ukk) {
		t.Fatalf("expected UnsupportedKeyKindError, got %T: %v", err, err)
	}
	if ukk.Kind != "crt" {
		t.Fatalf("unexpected kind in error: %s", ukk.Kind)
	}
}

func TestKeyKind_RingName(t *testing.T) {
	if KindPublic.RingName() != "pubring" {
		t.Fatalf("unexpected pubring name: %s", KindPublic.RingName())
	}
	if KindSecret.RingName() != "secring" {
		t.Fatalf("unexpected secring name: %s", KindSecret.RingName())
	}
}

func TestKeyRecord_ExportFilename(t *testing.T) {
	rec := &KeyRecord{Kind: KindPublic, KeyID: "ABCD1234EF567890"}
	if got := rec.ExportFilename(); got != "ABCD1234EF567890.pub.asc" {
		t.Fatalf("unexpected filename: %s", got)
	}
	rec = &KeyRecord{Kind: KindSecret, KeyID: "ABCD1234EF567890"}
	if got := rec.ExportFilename(); got != "ABCD1234EF567890.sec.asc" {
		t.Fatalf("unexpected filename: %s", got)
	}
}

func TestKeyRecord_ArmorMemoized(t *testing.T) {
	armorer := &countingArmorer{text: "ARMOR"}
	rec := &KeyRecord{Kind: KindPublic, KeyID: "AA"}

	for i := 0; i < 3; i++ {
		got, err := rec.Armor(armorer)
		if err != nil {
			t.Fatalf("Armor failed: %v", err)
		}
		if got != "ARMOR" {
			t.Fatalf("unexpected armor: %s", got)
		}
	}
	if armorer.calls != 1 {
		t.Fatalf("expected exactly 1 armorer call, got %d", armorer.calls)
	}
}

func TestKeyRecord_ArmorErrorNotCached(t *testing.T) {
	armorer := &countingArmorer{err: errors.New("boom")}
	rec := &KeyRecord{Kind: KindPublic, KeyID: "AA"}

	if _, err := rec.Armor(armorer); err == nil {
		t.Fatalf("expected error")
	}
	armorer.err = nil
	armorer.text = "ARMOR"
	got, err := rec.Armor(armorer)
	if err != nil || got != "ARMOR" {
		t.Fatalf("retry after error: %q, %v", got, err)
	}
}

func TestKeyRecord_ExportTextFraming(t *testing.T) {
	armorer := &countingArmorer{text: "-----BEGIN PGP PUBLIC KEY BLOCK-----\nxyz\n-----END PGP PUBLIC KEY BLOCK-----"}
	rec := &KeyRecord{
		Kind:  KindPublic,
		KeyID: "ABCD1234EF567890",
		Description: []string{
			"pub   rsa2048/ABCD1234EF567890 2020-01-01 [SC]",
			"uid           [ultimate] Test User <test@example.com>",
		},
	}

	text, err := rec.ExportText(armorer)
	if err != nil {
		t.Fatalf("ExportText failed: %v", err)
	}
	want := "pub   rsa2048/ABCD1234EF567890 2020-01-01 [SC]\n" +
		"uid           [ultimate] Test User <test@example.com>\n" +
		"\n" +
		"-----BEGIN PGP PUBLIC KEY BLOCK-----\nxyz\n-----END PGP PUBLIC KEY BLOCK-----\n"
	if text != want {
		t.Fatalf("unexpected export text:\n%q\nwant:\n%q", text, want)
	}
}

func TestNormalizeOwnertrust_Deterministic(t *testing.T) {
	a := "BBB:6:\n# gpg generated this\nAAA:5:\n"
	b := "# a different comment\nAAA:5:\nBBB:6:"

	na := NormalizeOwnertrust(a)
	nb := NormalizeOwnertrust(b)
	if na != nb {
		t.Fatalf("normalization not deterministic: %q vs %q", na, nb)
	}
	if na != "AAA:5:\nBBB:6:" {
		t.Fatalf("unexpected normalized output: %q", na)
	}
}

func TestNormalizeOwnertrust_Empty(t *testing.T) {
	if got := NormalizeOwnertrust(""); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
	if got := NormalizeOwnertrust("# only comments\n"); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
