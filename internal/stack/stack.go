// Package stack manages the lifecycle of one environment's stack: the
// declarative manifest at hokusai/<context>.yml handed to the cluster CLI,
// plus the environment ConfigMap created alongside it.
package stack

import (
	"context"
	"fmt"
	"os"

	"github.com/example/hokusai/internal/config"
	"github.com/example/hokusai/internal/ui"
)

type cluster interface {
	ApplyFile(ctx context.Context, o *ui.Output, path string) error
	DeleteFile(ctx context.Context, o *ui.Output, path string) error
	GetJSON(ctx context.Context, o *ui.Output, kind, name, selector string) ([]byte, error)
}

type envStore interface {
	Create(ctx context.Context, o *ui.Output) error
	Delete(ctx context.Context, o *ui.Output) error
	Name() string
}

type Manager struct {
	cluster cluster
	env     envStore
	project string
	root    string
}

func NewManager(c cluster, env envStore, project, root string) *Manager {
	return &Manager{cluster: c, env: env, project: project, root: root}
}

// manifest resolves the stack definition file for the context, failing with
// a remediation hint when it was never rendered.
func (m *Manager) manifest(kubeContext string) (string, error) {
	path := config.StackPath(m.root, kubeContext)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("yaml file %s does not exist for context %s", path, kubeContext)
	}
	return path, nil
}

// Create brings up the stack: the environment ConfigMap first, then the
// manifest.
func (m *Manager) Create(ctx context.Context, o *ui.Output, kubeContext string) error {
	path, err := m.manifest(kubeContext)
	if err != nil {
		return err
	}
	if err := m.env.Create(ctx, o); err != nil {
		return err
	}
	o.Green("Created configmap %s", m.env.Name())
	if err := m.cluster.ApplyFile(ctx, o, path); err != nil {
		return fmt.Errorf("apply stack %s: %w", kubeContext, err)
	}
	o.Green("Created stack %s", kubeContext)
	return nil
}

// Update re-applies the manifest.
func (m *Manager) Update(ctx context.Context, o *ui.Output, kubeContext string) error {
	path, err := m.manifest(kubeContext)
	if err != nil {
		return err
	}
	if err := m.cluster.ApplyFile(ctx, o, path); err != nil {
		return fmt.Errorf("apply stack %s: %w", kubeContext, err)
	}
	o.Green("Updated stack %s", kubeContext)
	return nil
}

// Delete tears down the stack and its environment ConfigMap.
func (m *Manager) Delete(ctx context.Context, o *ui.Output, kubeContext string) error {
	path, err := m.manifest(kubeContext)
	if err != nil {
		return err
	}
	if err := m.env.Delete(ctx, o); err != nil {
		return err
	}
	o.Green("Deleted configmap %s", m.env.Name())
	if err := m.cluster.DeleteFile(ctx, o, path); err != nil {
		return fmt.Errorf("delete stack %s: %w", kubeContext, err)
	}
	o.Green("Deleted stack %s", kubeContext)
	return nil
}
