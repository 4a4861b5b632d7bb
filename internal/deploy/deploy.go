// Package deploy implements the multi-step release sequences: deploy,
// promote, and refresh. No step is transactional; a failing cluster or
// registry call halts the sequence with the step named, and earlier steps
// are never rolled back.
package deploy

import (
	"context"
	"fmt"

	"github.com/example/hokusai/internal/ui"
)

// Cluster is the slice of the cluster adapter a release sequence touches.
type Cluster interface {
	CurrentImage(ctx context.Context, o *ui.Output) (string, error)
	SetImage(ctx context.Context, o *ui.Output, image string) error
	RolloutRestart(ctx context.Context, o *ui.Output) error
}

// ImageStore resolves and re-tags images in the project registry.
type ImageStore interface {
	TagExists(ctx context.Context, tag string) (bool, error)
	Retag(ctx context.Context, sourceTag, aliasTag string) error
}

type Deployer struct {
	Project     string
	RegistryURI string
	Cluster     Cluster
	Registry    ImageStore
}

// Deploy points the environment's deployment at tag, then repoints the
// environment's floating tag at the same image. An empty tag means latest.
func (d *Deployer) Deploy(ctx context.Context, o *ui.Output, environment, tag string) error {
	if tag == "" {
		tag = "latest"
	}

	exists, err := d.Registry.TagExists(ctx, tag)
	if err != nil {
		return fmt.Errorf("resolve image tag: %w", err)
	}
	if !exists {
		return fmt.Errorf("resolve image tag: tag %q not found in %s", tag, d.RegistryURI)
	}
	image := d.RegistryURI + ":" + tag

	if err := d.Cluster.SetImage(ctx, o, image); err != nil {
		return fmt.Errorf("update deployment: %w", err)
	}

	if err := d.Registry.Retag(ctx, tag, environment); err != nil {
		return fmt.Errorf("update floating tag %s: %w", environment, err)
	}

	o.Green("Deployed %s to %s", image, environment)
	return nil
}

// Refresh forces a rolling restart of the environment's deployment without
// changing the image reference.
func (d *Deployer) Refresh(ctx context.Context, o *ui.Output, environment string) error {
	if err := d.Cluster.RolloutRestart(ctx, o); err != nil {
		return fmt.Errorf("restart deployment: %w", err)
	}
	o.Green("Refreshed stack %s", environment)
	return nil
}

// Promote reads the tag staging currently runs and deploys it to production.
// Whatever staging last successfully referenced is what ships.
func Promote(ctx context.Context, o *ui.Output, staging Cluster, production *Deployer) error {
	image, err := staging.CurrentImage(ctx, o)
	if err != nil {
		return fmt.Errorf("read staging deployment: %w", err)
	}
	tag := tagOf(image)
	if tag == "" {
		return fmt.Errorf("read staging deployment: image %q carries no tag", image)
	}
	o.Plain("Promoting %s from staging to production", tag)
	return production.Deploy(ctx, o, "production", tag)
}

// tagOf extracts the tag from an image reference, tolerating registry ports.
func tagOf(image string) string {
	for i := len(image) - 1; i >= 0; i-- {
		switch image[i] {
		case ':':
			return image[i+1:]
		case '/':
			return ""
		}
	}
	return ""
}
