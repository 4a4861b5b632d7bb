package stack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/example/hokusai/internal/ui"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/yaml"
)

// DeploymentStatus summarizes one deployment of the stack.
type DeploymentStatus struct {
	Name                string `json:"name"`
	DesiredReplicas     int32  `json:"desiredReplicas"`
	AvailableReplicas   int32  `json:"availableReplicas"`
	UnavailableReplicas int32  `json:"unavailableReplicas"`
	Tag                 string `json:"tag"`
}

// ServiceStatus summarizes one service of the stack.
type ServiceStatus struct {
	Target    string               `json:"target"`
	ClusterIP string               `json:"clusterIP"`
	Ports     []corev1.ServicePort `json:"ports"`
}

// Status prints a YAML summary of the stack's deployments and services.
func (m *Manager) Status(ctx context.Context, o *ui.Output, kubeContext string) error {
	selector := "app=" + m.project

	rawDeployments, err := m.cluster.GetJSON(ctx, o, "deployments", "", selector)
	if err != nil {
		return fmt.Errorf("get deployments: %w", err)
	}
	var deployments appsv1.DeploymentList
	if err := json.Unmarshal(rawDeployments, &deployments); err != nil {
		return fmt.Errorf("parse deployments: %w", err)
	}

	rawServices, err := m.cluster.GetJSON(ctx, o, "services", "", selector)
	if err != nil {
		return fmt.Errorf("get services: %w", err)
	}
	var services corev1.ServiceList
	if err := json.Unmarshal(rawServices, &services); err != nil {
		return fmt.Errorf("parse services: %w", err)
	}

	deploymentData := make([]DeploymentStatus, 0, len(deployments.Items))
	for _, item := range deployments.Items {
		status := DeploymentStatus{
			Name:                item.Name,
			AvailableReplicas:   item.Status.AvailableReplicas,
			UnavailableReplicas: item.Status.UnavailableReplicas,
			Tag:                 deploymentTag(&item),
		}
		if item.Spec.Replicas != nil {
			status.DesiredReplicas = *item.Spec.Replicas
		}
		deploymentData = append(deploymentData, status)
	}

	serviceData := make([]ServiceStatus, 0, len(services.Items))
	for _, item := range services.Items {
		serviceData = append(serviceData, ServiceStatus{
			Target:    item.Spec.Selector["app"],
			ClusterIP: item.Spec.ClusterIP,
			Ports:     item.Spec.Ports,
		})
	}

	deploymentYaml, err := yaml.Marshal(deploymentData)
	if err != nil {
		return fmt.Errorf("render deployment status: %w", err)
	}
	serviceYaml, err := yaml.Marshal(serviceData)
	if err != nil {
		return fmt.Errorf("render service status: %w", err)
	}

	o.Plain("")
	o.Green("Stack %s status", kubeContext)
	o.Plain("")
	o.Green("Deployments")
	o.Green(strings.Repeat("-", 59))
	o.Plain("%s", string(deploymentYaml))
	o.Green("Services")
	o.Green(strings.Repeat("-", 59))
	o.Plain("%s", string(serviceYaml))
	return nil
}

// deploymentTag extracts the image tag of the deployment's first container.
func deploymentTag(d *appsv1.Deployment) string {
	containers := d.Spec.Template.Spec.Containers
	if len(containers) == 0 {
		return ""
	}
	image := containers[0].Image
	if idx := strings.LastIndex(image, ":"); idx >= 0 && !strings.Contains(image[idx:], "/") {
		return image[idx+1:]
	}
	return ""
}
