// Copyright (c) 2025 ToeiRei
// gpgsplode - GPG keyring backup tool
// This source code is licensed under the MIT license found in the LICENSE file.

package gpg

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/toeirei/gpgsplode/internal/apperr"
	"github.com/toeirei/gpgsplode/internal/model"
)

// separatorLine matches the all-dash ruler gpg prints under the keyring path
// banner. The two header lines are this program's canary for a changed
// listing format.
var separatorLine = regexp.MustCompile(`^-+$`)

// ParseListing converts raw `gpg --list-keys` output lines into key records.
// The first line must be the keyring path banner (starts with '/'), the
// second the dash separator; both are discarded. The remaining lines form
// blank-line-separated groups, one record per group, kept verbatim as the
// record's description.
func ParseListing(lines []string) ([]*model.KeyRecord, error) {
	if len(lines) < 2 {
		// An empty keyring produces no banner at all.
		return nil, nil
	}
	if !strings.HasPrefix(lines[0], "/") {
		return nil, apperr.FormatError{Reason: "could not detect keyring path at start of gpg output"}
	}
	if !separatorLine.MatchString(lines[1]) {
		return nil, apperr.FormatError{Reason: "could not understand gpg output: missing separator line"}
	}

	var records []*model.KeyRecord
	for _, group := range groupLines(lines[2:]) {
		rec, err := parseGroup(group)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// groupLines splits lines into maximal runs of consecutive non-blank lines.
// Blank lines are strictly separators; a trailing group without a following
// blank line is still captured, and a run of only blank lines yields nothing.
func groupLines(lines []string) [][]string {
	var groups [][]string
	var group []string
	for _, line := range lines {
		if line == "" {
			if len(group) > 0 {
				groups = append(groups, group)
				group = nil
			}
			continue
		}
		group = append(group, line)
	}
	if len(group) > 0 {
		groups = append(groups, group)
	}
	return groups
}

// parseGroup extracts the kind token and long key id from a group's first
// line: `<kind> <algo>/<long-id> ...`.
func parseGroup(group []string) (*model.KeyRecord, error) {
	fields := strings.Fields(group[0])
	if len(fields) < 2 {
		return nil, apperr.FormatError{Reason: fmt.Sprintf("key listing line %q has too few fields", group[0])}
	}
	idParts := strings.Split(fields[1], "/")
	if len(idParts) < 2 {
		return nil, apperr.FormatError{Reason: fmt.Sprintf("key listing field %q is missing the algo/keyid separator", fields[1])}
	}
	return &model.KeyRecord{
		Kind:        model.KeyKind(fields[0]),
		KeyID:       idParts[1],
		Description: group,
	}, nil
}

// LoadKeyring lists and parses one keyring through the gateway. The result
// is constructed once per export run and never mutated.
func LoadKeyring(g *Gateway, kind model.KeyKind) (*model.Keyring, error) {
	lines, err := g.ListKeys(kind)
	if err != nil {
		return nil, err
	}
	records, err := ParseListing(lines)
	if err != nil {
		return nil, err
	}
	return &model.Keyring{Name: kind.RingName(), Records: records}, nil
}
