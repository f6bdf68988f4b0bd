package scheduler

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const TaskLeadRescore = "leads.rescore"

const TaskLeadRescoreAll = "leads.rescore_all"

type LeadRescorePayload struct {
	LeadID string `json:"leadId"`
}

type LeadRescoreAllPayload struct {
	Statuses []string `json:"statuses,omitempty"`
}

func NewLeadRescoreTask(payload LeadRescorePayload) (*asynq.Task, error) {
	if payload.LeadID == "" {
		return nil, fmt.Errorf("lead id is required")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadRescore, data), nil
}

func ParseLeadRescorePayload(task *asynq.Task) (LeadRescorePayload, error) {
	var payload LeadRescorePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadRescorePayload{}, err
	}
	return payload, nil
}

func NewLeadRescoreAllTask(payload LeadRescoreAllPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadRescoreAll, data), nil
}

func ParseLeadRescoreAllPayload(task *asynq.Task) (LeadRescoreAllPayload, error) {
	var payload LeadRescoreAllPayload
	if len(task.Payload()) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadRescoreAllPayload{}, err
	}
	return payload, nil
}
