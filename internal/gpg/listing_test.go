// Copyright (c) 2025 ToeiRei
// gpgsplode - GPG keyring backup tool
// This source code is licensed under the MIT license found in the LICENSE file.
package gpg

import (
	"errors"
	"testing"

	"github.com/toeirei/gpgsplode/internal/apperr"
	"github.com/toeirei/gpgsplode/internal/model"
)

func TestParseListing_TwoGroups(t *testing.T) {
	lines := []string{
		"/home/user/.gnupg/pubring.kbx",
		"-----------------------------",
		"pub   rsa2048/ABCD1234EF567890 2020-01-01 [SC]",
		"uid           [ultimate] Test User <test@example.com>",
		"",
		"pub   ed25519/1122334455667788 2021-06-15 [SC]",
		"uid           [full] Other User <other@example.com>",
		"sub   cv25519/99AABBCCDDEEFF00 2021-06-15 [E]",
		"",
	}

	records, err := ParseListing(lines)
	if err != nil {
		t.Fatalf("ParseListing failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Kind != model.KindPublic || records[0].KeyID != "ABCD1234EF567890" {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if len(records[0].Description) != 2 {
		t.Fatalf("expected 2 description lines, got %d", len(records[0].Description))
	}
	if records[1].KeyID != "1122334455667788" {
		t.Fatalf("unexpected second key id: %s", records[1].KeyID)
	}
	if len(records[1].Description) != 3 {
		t.Fatalf("expected 3 description lines, got %d", len(records[1].Description))
	}
}

func TestParseListing_TrailingGroupWithoutBlank(t *testing.T) {
	lines := []string{
		"/home/user/.gnupg/pubring.kbx",
		"---",
		"pub   rsa2048/ABCD1234EF567890 2020-01-01 [SC]",
	}
	records, err := ParseListing(lines)
	if err != nil {
		t.Fatalf("ParseListing failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected trailing group to be captured, got %d records", len(records))
	}
}

func TestParseListing_OnlyBlankLines(t *testing.T) {
	lines := []string{
		"/home/user/.gnupg/pubring.kbx",
		"---",
		"",
		"",
	}
	records, err := ParseListing(lines)
	if err != nil {
		t.Fatalf("ParseListing failed: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestParseListing_EmptyKeyring(t *testing.T) {
	records, err := ParseListing([]string{""})
	if err != nil {
		t.Fatalf("ParseListing failed: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records for short output, got %d", len(records))
	}
}

func TestParseListing_BadBanner(t *testing.T) {
	lines := []string{
		"gpg: keybox created",
		"---",
		"pub   rsa2048/ABCD1234EF567890 2020-01-01 [SC]",
	}
	_, err := ParseListing(lines)
	var fe apperr.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FormatError, got %T: %v", err, err)
	}
}

func TestParseListing_BadSeparator(t *testing.T) {
	lines := []string{
		"/home/user/.gnupg/pubring.kbx",
		"===",
		"pub   rsa2048/ABCD1234EF567890 2020-01-01 [SC]",
	}
	_, err := ParseListing(lines)
	var fe apperr.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FormatError, got %T: %v", err, err)
	}
}

func TestParseListing_TooFewFields(t *testing.T) {
	lines := []string{
		"/ring",
		"---",
		"pub",
	}
	_, err := ParseListing(lines)
	var fe apperr.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FormatError, got %T: %v", err, err)
	}
}

func TestParseListing_MissingSlash(t *testing.T) {
	lines := []string{
		"/ring",
		"---",
		"pub   ABCD1234EF567890 2020-01-01",
	}
	_, err := ParseListing(lines)
	var fe apperr.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FormatError, got %T: %v", err, err)
	}
}

func TestParseListing_UnknownKindParsesButCannotExport(t *testing.T) {
	// The parser keeps whatever kind token gpg emitted; the failure must
	// happen at export time, not silently during parsing.
	lines := []string{
		"/ring",
		"---",
		"crt   rsa2048/ABCD1234EF567890 2020-01-01",
	}
	records, err := ParseListing(lines)
	if err != nil {
		t.Fatalf("ParseListing failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if _, err := records[0].Kind.ExportOption(); err == nil {
		t.Fatalf("expected export option failure for crt kind")
	}
}
