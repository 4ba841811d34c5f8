package jobs

import (
	"context"
	"time"

	v1 "github.com/emrgen/modelhub/apis/v1"
	"github.com/sirupsen/logrus"
)

type Resyncer interface {
	Resync(ctx context.Context, request *v1.ResyncRequest) (*v1.ResyncResponse, error)
}

// ConsistencyTask periodically re-derives every mirror, repairing drift left
// by writes that bypassed the service.
type ConsistencyTask struct {
	library Resyncer
	cron    string
	timeout time.Duration
}

func NewConsistencyTask(schedule string, library Resyncer) *ConsistencyTask {
	return &ConsistencyTask{
		library: library,
		cron:    schedule,
		timeout: time.Minute,
	}
}

func (c *ConsistencyTask) Name() string {
	return "mirror_consistency"
}

func (c *ConsistencyTask) Schedule() string {
	return c.cron
}

func (c *ConsistencyTask) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	res, err := c.library.Resync(ctx, &v1.ResyncRequest{})
	if err != nil {
		logrus.Errorf("mirror consistency pass failed: %v", err)
		return
	}

	logrus.Debugf("mirror consistency pass: %d public, %d project mirrors", res.PublicMirrors, res.ProjectMirrors)
}
