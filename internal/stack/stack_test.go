package stack

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/hokusai/internal/config"
	"github.com/example/hokusai/internal/ui"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
)

type fakeCluster struct {
	applied []string
	deleted []string
	json    map[string][]byte
}

func (f *fakeCluster) ApplyFile(_ context.Context, _ *ui.Output, path string) error {
	f.applied = append(f.applied, path)
	return nil
}

func (f *fakeCluster) DeleteFile(_ context.Context, _ *ui.Output, path string) error {
	f.deleted = append(f.deleted, path)
	return nil
}

func (f *fakeCluster) GetJSON(_ context.Context, _ *ui.Output, kind, _, _ string) ([]byte, error) {
	return f.json[kind], nil
}

type fakeEnvStore struct {
	created int
	deleted int
}

func (f *fakeEnvStore) Create(context.Context, *ui.Output) error { f.created++; return nil }
func (f *fakeEnvStore) Delete(context.Context, *ui.Output) error { f.deleted++; return nil }
func (f *fakeEnvStore) Name() string                             { return "my-app-environment" }

func writeManifest(t *testing.T, root, environment string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(root, config.Dir), 0o755); err != nil {
		t.Fatal(err)
	}
	path := config.StackPath(root, environment)
	if err := os.WriteFile(path, []byte("kind: Deployment\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testOutput() *ui.Output {
	return ui.New(&bytes.Buffer{}, &bytes.Buffer{}, false)
}

func TestCreateAppliesEnvThenManifest(t *testing.T) {
	root := t.TempDir()
	path := writeManifest(t, root, "staging")
	cluster := &fakeCluster{}
	env := &fakeEnvStore{}
	m := NewManager(cluster, env, "my-app", root)

	if err := m.Create(context.Background(), testOutput(), "staging"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if env.created != 1 {
		t.Errorf("configmap created %d times, want 1", env.created)
	}
	if len(cluster.applied) != 1 || cluster.applied[0] != path {
		t.Errorf("applied = %v, want [%s]", cluster.applied, path)
	}
}

func TestCreateMissingManifestFails(t *testing.T) {
	cluster := &fakeCluster{}
	env := &fakeEnvStore{}
	m := NewManager(cluster, env, "my-app", t.TempDir())

	err := m.Create(context.Background(), testOutput(), "staging")
	if err == nil || !strings.Contains(err.Error(), "does not exist for context staging") {
		t.Fatalf("expected missing manifest error, got %v", err)
	}
	if env.created != 0 || len(cluster.applied) != 0 {
		t.Error("cluster touched despite missing manifest")
	}
}

func TestDeleteRemovesEnvAndManifest(t *testing.T) {
	root := t.TempDir()
	path := writeManifest(t, root, "production")
	cluster := &fakeCluster{}
	env := &fakeEnvStore{}
	m := NewManager(cluster, env, "my-app", root)

	if err := m.Delete(context.Background(), testOutput(), "production"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if env.deleted != 1 {
		t.Errorf("configmap deleted %d times, want 1", env.deleted)
	}
	if len(cluster.deleted) != 1 || cluster.deleted[0] != path {
		t.Errorf("deleted = %v, want [%s]", cluster.deleted, path)
	}
}

func TestStatusSummarizesDeploymentsAndServices(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "staging")

	replicas := int32(2)
	deployments := appsv1.DeploymentList{Items: []appsv1.Deployment{{
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Template: corev1.PodTemplateSpec{Spec: corev1.PodSpec{Containers: []corev1.Container{{
				Image: "repo/my-app:abc123",
			}}}},
		},
		Status: appsv1.DeploymentStatus{AvailableReplicas: 2},
	}}}
	deployments.Items[0].Name = "my-app"
	services := corev1.ServiceList{Items: []corev1.Service{{
		Spec: corev1.ServiceSpec{
			Selector:  map[string]string{"app": "my-app"},
			ClusterIP: "10.0.0.1",
			Ports:     []corev1.ServicePort{{Port: 80}},
		},
	}}}

	rawDeployments, _ := json.Marshal(&deployments)
	rawServices, _ := json.Marshal(&services)
	cluster := &fakeCluster{json: map[string][]byte{
		"deployments": rawDeployments,
		"services":    rawServices,
	}}
	m := NewManager(cluster, &fakeEnvStore{}, "my-app", root)

	var out bytes.Buffer
	o := ui.New(&out, &bytes.Buffer{}, false)
	if err := m.Status(context.Background(), o, "staging"); err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"my-app", "abc123", "10.0.0.1", "desiredReplicas: 2"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("status output missing %q:\n%s", want, out.String())
		}
	}
}

func TestDeploymentTag(t *testing.T) {
	d := &appsv1.Deployment{Spec: appsv1.DeploymentSpec{
		Template: corev1.PodTemplateSpec{Spec: corev1.PodSpec{Containers: []corev1.Container{{
			Image: "registry:5000/my-app:v3",
		}}}},
	}}
	if got := deploymentTag(d); got != "v3" {
		t.Fatalf("tag = %q, want v3", got)
	}
	d.Spec.Template.Spec.Containers[0].Image = "registry:5000/my-app"
	if got := deploymentTag(d); got != "" {
		t.Fatalf("tag = %q, want empty", got)
	}
}
