package main

import (
	"context"
	"strings"
	"time"

	"github.com/example/hokusai/internal/registry"
	"github.com/example/hokusai/internal/shell"
	"github.com/example/hokusai/internal/ui"
)

// fakeRunner records every external invocation and serves canned output.
type fakeRunner struct {
	commands []shell.Command
	outputs  map[string]string
	errs     map[string]error
}

func commandKey(c shell.Command) string {
	return c.Name + " " + strings.Join(c.Args, " ")
}

func (f *fakeRunner) Run(_ context.Context, _ *ui.Output, c shell.Command) error {
	f.commands = append(f.commands, c)
	return f.errs[commandKey(c)]
}

func (f *fakeRunner) Output(_ context.Context, _ *ui.Output, c shell.Command) ([]byte, error) {
	f.commands = append(f.commands, c)
	if err := f.errs[commandKey(c)]; err != nil {
		return nil, err
	}
	return []byte(f.outputs[commandKey(c)]), nil
}

// fakeRegistry satisfies registryService without touching AWS.
type fakeRegistry struct {
	uri         string
	ensured     bool
	images      []registry.Image
	tags        map[string]bool
	retags      [][2]string
	credentials [3]string
}

func (f *fakeRegistry) Credentials(context.Context) (string, string, string, error) {
	return f.credentials[0], f.credentials[1], f.credentials[2], nil
}

func (f *fakeRegistry) EnsureRepository(context.Context) error {
	f.ensured = true
	return nil
}

func (f *fakeRegistry) RepositoryExists(context.Context) (bool, error) {
	return f.ensured, nil
}

func (f *fakeRegistry) ListImages(context.Context) ([]registry.Image, error) {
	return f.images, nil
}

func (f *fakeRegistry) TagExists(_ context.Context, tag string) (bool, error) {
	return f.tags[tag], nil
}

func (f *fakeRegistry) Retag(_ context.Context, sourceTag, aliasTag string) error {
	f.retags = append(f.retags, [2]string{sourceTag, aliasTag})
	return nil
}

func (f *fakeRegistry) RepositoryURI() string { return f.uri }

func sampleImages() []registry.Image {
	pushed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return []registry.Image{
		{Tags: []string{"v2", "latest"}, Digest: "sha256:bbb", PushedAt: pushed},
		{Tags: nil, Digest: "sha256:aaa", PushedAt: pushed.Add(-24 * time.Hour)},
	}
}
