package k8s

import (
	"context"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"

	"github.com/opsline/accountd/internal"
)

// DeploymentReady reports whether the rollout is complete: the Available
// condition holds and every replica counter agrees with the desired count.
func DeploymentReady(deployment *appsv1.Deployment) bool {
	_, available := internal.Find(deployment.Status.Conditions, func(condition appsv1.DeploymentCondition) bool {
		return condition.Type == appsv1.DeploymentAvailable && condition.Status == corev1.ConditionTrue
	})
	if !available {
		return false
	}

	desired := int32(1)
	if deployment.Spec.Replicas != nil {
		desired = *deployment.Spec.Replicas
	}

	status := deployment.Status
	for _, count := range []int32{status.Replicas, status.AvailableReplicas, status.ReadyReplicas, status.UpdatedReplicas} {
		if count != desired {
			return false
		}
	}

	return deployment.Status.ObservedGeneration >= deployment.Generation
}

// WaitDeploymentReady polls the deployment until it is ready or ctx expires.
func (client Client) WaitDeploymentReady(ctx context.Context, namespace, name string, poll time.Duration) error {
	defer internal.DebugTimer(ctx, fmt.Sprintf("wait for deployment %s/%s", namespace, name))()

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		deployment, err := client.GetDeployment(ctx, namespace, name)
		if err != nil {
			return fmt.Errorf("failed to get deployment %s/%s: %w", namespace, name, err)
		}
		if DeploymentReady(deployment) {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("deployment %s/%s not ready: %w", namespace, name, context.Cause(ctx))
		case <-ticker.C:
		}
	}
}
