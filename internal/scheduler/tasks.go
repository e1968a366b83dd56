package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskProspectLeads = "leads.prospect"

type ProspectLeadsPayload struct {
	TriggeredBy string    `json:"triggeredBy"`
	RequestedAt time.Time `json:"requestedAt"`
}

func NewProspectLeadsTask(payload ProspectLeadsPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskProspectLeads, data), nil
}

func ParseProspectLeadsPayload(task *asynq.Task) (ProspectLeadsPayload, error) {
	var payload ProspectLeadsPayload
	if len(task.Payload()) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ProspectLeadsPayload{}, err
	}
	return payload, nil
}
