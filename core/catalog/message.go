package catalog

import (
	"strconv"
	"time"
)

type MessageType int

const (
	MessageUnknown      MessageType = -1
	MessagePreValidate  MessageType = 10
	MessagePostValidate MessageType = 20
	MessagePreExecute   MessageType = 30
	MessagePostExecute  MessageType = 40
	MessageStatusChange MessageType = 50
	MessageProgress     MessageType = 60
	MessageInformation  MessageType = 70
	MessageQueryCancel  MessageType = 100
	MessageWarning      MessageType = 110
	MessageError        MessageType = 120
	MessageTaskFailed   MessageType = 130
)

var messageTypeText = map[MessageType]string{
	MessageUnknown:      "Unknown",
	MessagePreValidate:  "Pre-validate",
	MessagePostValidate: "Post-validate",
	MessagePreExecute:   "Pre-execute",
	MessagePostExecute:  "Post-execute",
	MessageStatusChange: "StatusChange",
	MessageProgress:     "Progress",
	MessageInformation:  "Information",
	MessageQueryCancel:  "QueryCancel",
	MessageWarning:      "Warning",
	MessageError:        "Error",
	MessageTaskFailed:   "TaskFailed",
}

// DiagnosticMessageTypes are shown by default when inspecting an execution
var DiagnosticMessageTypes = []MessageType{MessageError, MessageTaskFailed, MessageWarning}

// String falls back to the numeric code for types without a label
func (t MessageType) String() string {
	if text, ok := messageTypeText[t]; ok {
		return text
	}
	return strconv.Itoa(int(t))
}

type OperationMessage struct {
	ID   int64
	Time time.Time
	Type MessageType
	Text string
}
