// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/steward/lib/vault"
)

func TestParseIdentifier(t *testing.T) {
	tests := []struct {
		identifier string
		wantOwner  string
		wantName   string
		wantErr    bool
	}{
		{"octocat/hello", "octocat", "hello", false},
		{"group/sub/project", "group/sub", "project", false},
		{"noslash", "", "", true},
		{"/leading", "", "", true},
		{"trailing/", "", "", true},
		{"", "", "", true},
		{"/", "", "", true},
	}
	for _, test := range tests {
		t.Run(test.identifier, func(t *testing.T) {
			owner, name, err := ParseIdentifier(test.identifier)
			if test.wantErr {
				if err == nil {
					t.Fatalf("ParseIdentifier(%q): expected error", test.identifier)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseIdentifier(%q): %v", test.identifier, err)
			}
			if owner != test.wantOwner || name != test.wantName {
				t.Errorf("ParseIdentifier(%q) = %q, %q; want %q, %q",
					test.identifier, owner, name, test.wantOwner, test.wantName)
			}
		})
	}
}

func TestSyncSkipsExistingMirror(t *testing.T) {
	reposDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(reposDir, "hello"), 0755); err != nil {
		t.Fatal(err)
	}

	g, calls := recordingGit("", nil)
	syncer := &Syncer{ReposDir: reposDir, Git: g}

	outcomes, err := syncer.Sync(context.Background(), []string{"octocat/hello"})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if len(*calls) != 0 {
		t.Errorf("git invoked %d times for an existing mirror, want 0", len(*calls))
	}
	if len(outcomes) != 1 || outcomes[0].Action != vault.ActionSkipped {
		t.Errorf("outcomes = %+v, want one skip", outcomes)
	}
}

func TestSyncClonesMissingMirror(t *testing.T) {
	reposDir := t.TempDir()

	g, calls := recordingGit("", nil)
	syncer := &Syncer{ReposDir: reposDir, Token: "ghp_secret", Git: g}

	outcomes, err := syncer.Sync(context.Background(), []string{"octocat/hello"})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if len(*calls) != 1 {
		t.Fatalf("git invoked %d times, want 1", len(*calls))
	}
	args := (*calls)[0]
	if args[0] != "clone" {
		t.Errorf("first arg = %q, want clone", args[0])
	}
	if !strings.Contains(args[1], "x-access-token:ghp_secret@github.com/octocat/hello.git") {
		t.Errorf("clone URL = %q, want token-authenticated GitHub URL", args[1])
	}
	wantDir := filepath.Join(reposDir, "hello")
	if args[2] != wantDir {
		t.Errorf("target = %q, want %q", args[2], wantDir)
	}
	if len(outcomes) != 1 || outcomes[0].Action != vault.ActionApplied {
		t.Errorf("outcomes = %+v, want one applied", outcomes)
	}
	if outcomes[0].Path != wantDir {
		t.Errorf("outcome path = %q, want %q", outcomes[0].Path, wantDir)
	}
}

func TestSyncDirectoryFromTrailingSegment(t *testing.T) {
	reposDir := t.TempDir()

	g, calls := recordingGit("", nil)
	syncer := &Syncer{ReposDir: reposDir, Git: g}

	if _, err := syncer.Sync(context.Background(), []string{"group/sub/project"}); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	args := (*calls)[0]
	if want := filepath.Join(reposDir, "project"); args[2] != want {
		t.Errorf("target = %q, want trailing segment %q", args[2], want)
	}
}

func TestSyncFailFast(t *testing.T) {
	reposDir := t.TempDir()

	cloneError := errors.New("remote not found")
	g, calls := recordingGit("", cloneError)
	syncer := &Syncer{ReposDir: reposDir, Git: g}

	_, err := syncer.Sync(context.Background(), []string{"a/first", "b/second"})
	if err == nil {
		t.Fatal("expected error from failing clone")
	}
	if len(*calls) != 1 {
		t.Errorf("git invoked %d times after first failure, want 1", len(*calls))
	}
	if !strings.Contains(err.Error(), "a/first") {
		t.Errorf("error = %v, want to name the failing repository", err)
	}
}

func TestSyncMalformedIdentifierFailsBeforeAnyClone(t *testing.T) {
	reposDir := t.TempDir()

	g, calls := recordingGit("", nil)
	syncer := &Syncer{ReposDir: reposDir, Git: g}

	_, err := syncer.Sync(context.Background(), []string{"a/ok", "malformed"})
	if err == nil {
		t.Fatal("expected error for malformed identifier")
	}
	if len(*calls) != 0 {
		t.Errorf("git invoked %d times despite malformed identifier, want 0", len(*calls))
	}
}

func TestSyncScrubsTokenFromErrors(t *testing.T) {
	reposDir := t.TempDir()

	token := "ghp_supersecret"
	g := &Git{
		runFunc: func(ctx context.Context, args ...string) (string, error) {
			// git echoing the authenticated URL back in its error.
			return "", fmt.Errorf("fatal: repository %q not found", args[1])
		},
	}
	syncer := &Syncer{ReposDir: reposDir, Token: token, Git: g}

	_, err := syncer.Sync(context.Background(), []string{"octocat/gone"})
	if err == nil {
		t.Fatal("expected error")
	}
	if strings.Contains(err.Error(), token) {
		t.Errorf("token leaked into error: %v", err)
	}
	if !strings.Contains(err.Error(), "***") {
		t.Errorf("error = %v, want scrubbed marker", err)
	}
}
