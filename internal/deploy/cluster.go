package deploy

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/hokusai/internal/kubectl"
	"github.com/example/hokusai/internal/ui"
	appsv1 "k8s.io/api/apps/v1"
)

// KubectlCluster adapts the kubectl CLI to the Cluster interface for one
// project deployment. The scaffolded manifests name both the deployment and
// its container after the project.
type KubectlCluster struct {
	CLI     *kubectl.CLI
	Project string
}

func (c *KubectlCluster) CurrentImage(ctx context.Context, o *ui.Output) (string, error) {
	raw, err := c.CLI.GetJSON(ctx, o, "deployment", c.Project, "")
	if err != nil {
		return "", err
	}
	var d appsv1.Deployment
	if err := json.Unmarshal(raw, &d); err != nil {
		return "", fmt.Errorf("parse deployment %s: %w", c.Project, err)
	}
	containers := d.Spec.Template.Spec.Containers
	if len(containers) == 0 {
		return "", fmt.Errorf("deployment %s has no containers", c.Project)
	}
	return containers[0].Image, nil
}

func (c *KubectlCluster) SetImage(ctx context.Context, o *ui.Output, image string) error {
	return c.CLI.SetImage(ctx, o, c.Project, c.Project, image)
}

func (c *KubectlCluster) RolloutRestart(ctx context.Context, o *ui.Output) error {
	return c.CLI.RolloutRestart(ctx, o, "app="+c.Project)
}
