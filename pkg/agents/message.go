// Package agents implements the five-stage analysis pipeline. Each stage is
// an independent agent holding only its own transient state; stages exchange
// immutable messages and never read each other's internals, so any stage can
// be swapped or tested in isolation.
package agents

import (
	"time"

	"github.com/google/uuid"
)

// Message is the only channel between agents. Values are immutable once
// created; payloads are stage-specific typed structs.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Type      string    `json:"type"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

func newMessage(sender, recipient, msgType string, payload any) Message {
	return Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Recipient: recipient,
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// Role identifies an agent's responsibility in the pipeline.
type Role string

const (
	RoleMonitoring     Role = "monitoring"
	RoleDetection      Role = "detection"
	RoleClassification Role = "classification"
	RoleExplanation    Role = "explanation"
	RoleResponse       Role = "response"
)

// Agent IDs used as message senders/recipients.
const (
	monitorAgentID  = "monitor-agent"
	detectAgentID   = "detect-agent"
	classifyAgentID = "classify-agent"
	explainAgentID  = "explain-agent"
	responseAgentID = "response-agent"
)

// Agent is the shared surface of the five pipeline stages.
type Agent interface {
	ID() string
	Role() Role
	Status() string
}

// agentCore carries the bookkeeping every stage shares. Status is transient
// per invocation; a pipeline run is synchronous, so it never races within
// one orchestrator.
type agentCore struct {
	id     string
	role   Role
	status string
}

func newAgentCore(id string, role Role) agentCore {
	return agentCore{id: id, role: role, status: "idle"}
}

// ID returns the agent identifier.
func (a *agentCore) ID() string { return a.id }

// Role returns the agent's pipeline role.
func (a *agentCore) Role() Role { return a.role }

// Status reports the transient stage state (idle or busy).
func (a *agentCore) Status() string { return a.status }
