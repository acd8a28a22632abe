// Package vcs tags released versions in the git repository that holds the chart.
package vcs

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/rs/zerolog/log"
)

// ErrTagExists is returned when the tag to create is already present.
var ErrTagExists = git.ErrTagExists

// Tag creates a lightweight tag called name at HEAD of the repository containing repoDir.
func Tag(repoDir, name string) (*plumbing.Reference, error) {
	if _, err := semver.NewVersion(name); err != nil {
		log.Warn().Msgf("tag %q is not a semantic version", name)
	}

	repo, err := open(repoDir)
	if err != nil {
		return nil, err
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}

	ref, err := repo.CreateTag(name, head.Hash(), nil)
	if err != nil {
		return nil, fmt.Errorf("create tag %q: %w", name, err)
	}
	log.Info().Msgf("tagged %s as %s", head.Hash().String()[:7], name)
	return ref, nil
}

// Push pushes the tag called name to remote. An empty token pushes without authentication.
func Push(ctx context.Context, repoDir, remote, name, token string) error {
	repo, err := open(repoDir)
	if err != nil {
		return err
	}

	if _, err := repo.Remote(remote); err != nil {
		return fmt.Errorf("remote %q: %w", remote, err)
	}

	refName := plumbing.NewTagReferenceName(name)
	opts := &git.PushOptions{
		RemoteName: remote,
		RefSpecs:   []config.RefSpec{config.RefSpec(refName + ":" + refName)},
	}
	if token != "" {
		opts.Auth = &http.BasicAuth{Username: "ftctl", Password: token}
	}

	log.Info().Msgf("pushing %s to %s...", name, remote)
	if err := repo.PushContext(ctx, opts); err != nil {
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			log.Info().Msgf("%s already up to date on %s", name, remote)
			return nil
		}
		return fmt.Errorf("push tag %q to %q: %w", name, remote, err)
	}
	return nil
}

func open(dir string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository at %q: %w", dir, err)
	}
	return repo, nil
}
