package notify

import (
	"time"

	"github.com/google/uuid"
)

// Intent is a handler's request to notify one recipient. It carries
// everything the builder needs to materialize a stored notification:
// the template to render, the data to render it with, and the channels
// the recipient should be reached on.
type Intent struct {
	Type          string
	RecipientID   string
	TemplateName  string
	TemplateData  map[string]interface{}
	Channels      []string
	CorrelationID uuid.UUID
	ScheduledFor  *time.Time
	Metadata      map[string]interface{}
}
