package k8s

import (
	"testing"

	"github.com/stretchr/testify/require"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
)

func deploymentWithStatus(desired, ready int32, available bool) *appsv1.Deployment {
	status := corev1.ConditionFalse
	if available {
		status = corev1.ConditionTrue
	}

	return &appsv1.Deployment{
		Spec: appsv1.DeploymentSpec{Replicas: &desired},
		Status: appsv1.DeploymentStatus{
			Replicas:          ready,
			ReadyReplicas:     ready,
			AvailableReplicas: ready,
			UpdatedReplicas:   ready,
			Conditions: []appsv1.DeploymentCondition{
				{Type: appsv1.DeploymentAvailable, Status: status},
			},
		},
	}
}

func TestDeploymentReady(t *testing.T) {
	require.True(t, DeploymentReady(deploymentWithStatus(3, 3, true)))
}

func TestDeploymentNotReadyWhileRollingOut(t *testing.T) {
	require.False(t, DeploymentReady(deploymentWithStatus(3, 2, true)))
}

func TestDeploymentNotReadyWithoutAvailableCondition(t *testing.T) {
	require.False(t, DeploymentReady(deploymentWithStatus(3, 3, false)))
}

func TestDeploymentNotReadyOnStaleObservation(t *testing.T) {
	deployment := deploymentWithStatus(3, 3, true)
	deployment.Generation = 2
	deployment.Status.ObservedGeneration = 1
	require.False(t, DeploymentReady(deployment))
}
