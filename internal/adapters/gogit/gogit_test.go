package gogit

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	git "gopkg.in/src-d/go-git.v4"
	gitconfig "gopkg.in/src-d/go-git.v4/config"
	"gopkg.in/src-d/go-git.v4/plumbing/object"

	"github.com/mcdonaldj/reltag/internal/ports"
)

// initRepo creates a repository with a single commit, entirely in-process.
func initRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit failed: %v", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree failed: %v", err)
	}

	manifest := filepath.Join(dir, "pyproject.toml")
	if err := os.WriteFile(manifest, []byte("[project]\nversion = \"1.0.0\"\n"), 0644); err != nil {
		t.Fatalf("Failed to write manifest: %v", err)
	}
	if _, err := wt.Add("pyproject.toml"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	_, err = wt.Commit("initial commit", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test User",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	return dir, repo
}

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		client := New()
		if client.taggerName != "reltag" {
			t.Errorf("taggerName = %q, expected %q", client.taggerName, "reltag")
		}
		if client.sshKeyPath != "" {
			t.Errorf("sshKeyPath = %q, expected empty", client.sshKeyPath)
		}
	})

	t.Run("options", func(t *testing.T) {
		client := New(WithSSHKey("/keys/id_ed25519"), WithTaggerName("release-bot"))
		if client.sshKeyPath != "/keys/id_ed25519" {
			t.Errorf("sshKeyPath = %q, unexpected", client.sshKeyPath)
		}
		if client.taggerName != "release-bot" {
			t.Errorf("taggerName = %q, unexpected", client.taggerName)
		}
	})
}

func TestIsRepo(t *testing.T) {
	client := New()

	if client.IsRepo(t.TempDir()) {
		t.Error("expected false for plain directory")
	}

	dir, _ := initRepo(t)
	if !client.IsRepo(dir) {
		t.Error("expected true for initialized repository")
	}
}

func TestHead(t *testing.T) {
	dir, repo := initRepo(t)
	client := New()

	head, err := client.Head(dir)
	if err != nil {
		t.Fatalf("Head failed: %v", err)
	}

	ref, err := repo.Head()
	if err != nil {
		t.Fatalf("repo.Head failed: %v", err)
	}
	if head != ref.Hash().String() {
		t.Errorf("Head = %q, expected %q", head, ref.Hash().String())
	}
}

func TestHeadNoCommits(t *testing.T) {
	dir := t.TempDir()
	if _, err := git.PlainInit(dir, false); err != nil {
		t.Fatalf("PlainInit failed: %v", err)
	}

	client := New()
	if _, err := client.Head(dir); err == nil {
		t.Error("Head should fail for repository without commits")
	}
}

func TestTagLifecycle(t *testing.T) {
	dir, _ := initRepo(t)
	client := New()

	exists, err := client.TagExists(dir, "v1.0.0")
	if err != nil {
		t.Fatalf("TagExists failed: %v", err)
	}
	if exists {
		t.Error("TagExists should be false before CreateTag")
	}

	if err := client.CreateTag(dir, "v1.0.0", ports.TagOptions{}); err != nil {
		t.Fatalf("CreateTag failed: %v", err)
	}

	exists, err = client.TagExists(dir, "v1.0.0")
	if err != nil {
		t.Fatalf("TagExists failed: %v", err)
	}
	if !exists {
		t.Error("TagExists should be true after CreateTag")
	}

	tags, err := client.ListTags(dir)
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	if len(tags) != 1 || tags[0] != "v1.0.0" {
		t.Errorf("ListTags = %v, expected [v1.0.0]", tags)
	}

	if err := client.CreateTag(dir, "v1.0.0", ports.TagOptions{}); err == nil {
		t.Error("CreateTag should fail for existing tag")
	}
}

func TestCreateAnnotatedTag(t *testing.T) {
	dir, repo := initRepo(t)
	client := New(WithTaggerName("release-bot"))

	opts := ports.TagOptions{Annotated: true, Message: "Release v2.0.0"}
	if err := client.CreateTag(dir, "v2.0.0", opts); err != nil {
		t.Fatalf("CreateTag failed: %v", err)
	}

	ref, err := repo.Tag("v2.0.0")
	if err != nil {
		t.Fatalf("Tag lookup failed: %v", err)
	}

	// Annotated tags point at a tag object carrying message and tagger
	tagObj, err := repo.TagObject(ref.Hash())
	if err != nil {
		t.Fatalf("TagObject failed, tag is not annotated: %v", err)
	}
	if tagObj.Message != "Release v2.0.0\n" && tagObj.Message != "Release v2.0.0" {
		t.Errorf("tag message = %q, expected %q", tagObj.Message, "Release v2.0.0")
	}
	if tagObj.Tagger.Name != "release-bot" {
		t.Errorf("tagger = %q, expected %q", tagObj.Tagger.Name, "release-bot")
	}
}

func TestLightweightTagHasNoObject(t *testing.T) {
	dir, repo := initRepo(t)
	client := New()

	if err := client.CreateTag(dir, "v1.0.0", ports.TagOptions{}); err != nil {
		t.Fatalf("CreateTag failed: %v", err)
	}

	ref, err := repo.Tag("v1.0.0")
	if err != nil {
		t.Fatalf("Tag lookup failed: %v", err)
	}
	if _, err := repo.TagObject(ref.Hash()); err == nil {
		t.Error("lightweight tag should not have a tag object")
	}
}

func TestRemoteURL(t *testing.T) {
	dir, repo := initRepo(t)
	client := New()

	_, err := repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:mcdonaldj/reltag.git"},
	})
	if err != nil {
		t.Fatalf("CreateRemote failed: %v", err)
	}

	url, err := client.RemoteURL(dir, "origin")
	if err != nil {
		t.Fatalf("RemoteURL failed: %v", err)
	}
	if url != "git@github.com:mcdonaldj/reltag.git" {
		t.Errorf("RemoteURL = %q, unexpected", url)
	}

	if _, err := client.RemoteURL(dir, "upstream"); err == nil {
		t.Error("RemoteURL should fail for unknown remote")
	}
}

func TestPushTagsNoRemote(t *testing.T) {
	dir, _ := initRepo(t)
	client := New()

	if err := client.PushTags(context.Background(), dir, "origin"); err == nil {
		t.Error("PushTags should fail when remote is not configured")
	}
}

// Pushing over the file transport shells out to git-receive-pack.

func requireReceivePack(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if _, err := exec.LookPath("git-receive-pack"); err != nil {
		t.Skip("git-receive-pack not installed, skipping integration test")
	}
}

func TestIntegrationPushTags(t *testing.T) {
	requireReceivePack(t)

	remoteDir := t.TempDir()
	if _, err := git.PlainInit(remoteDir, true); err != nil {
		t.Fatalf("PlainInit bare failed: %v", err)
	}

	dir, repo := initRepo(t)
	_, err := repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{remoteDir},
	})
	if err != nil {
		t.Fatalf("CreateRemote failed: %v", err)
	}

	client := New()
	if err := client.CreateTag(dir, "v1.0.0", ports.TagOptions{}); err != nil {
		t.Fatalf("CreateTag failed: %v", err)
	}

	if err := client.PushTags(context.Background(), dir, "origin"); err != nil {
		t.Fatalf("PushTags failed: %v", err)
	}

	// The tag should now exist in the bare remote
	remoteRepo, err := git.PlainOpen(remoteDir)
	if err != nil {
		t.Fatalf("PlainOpen remote failed: %v", err)
	}
	if _, err := remoteRepo.Tag("v1.0.0"); err != nil {
		t.Errorf("remote should have the pushed tag: %v", err)
	}

	// A second push with nothing new is a success, not an error
	if err := client.PushTags(context.Background(), dir, "origin"); err != nil {
		t.Errorf("PushTags on up-to-date remote should succeed: %v", err)
	}
}

func TestImplementsInterface(t *testing.T) {
	var _ ports.GitClient = (*GoGitClient)(nil)
}
