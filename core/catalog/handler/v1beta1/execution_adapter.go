package v1beta1

import (
	"time"

	"github.com/goto/jobtrail/core/catalog"
)

// catalog times are rendered in UTC
const timeFormat = time.DateTime

type executionResponse struct {
	ExecutionID int64   `json:"execution_id"`
	StartTime   string  `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Status      int     `json:"status"`
	StatusText  string  `json:"status_text"`
}

func toExecutionResponse(execution *catalog.Execution) executionResponse {
	return executionResponse{
		ExecutionID: int64(execution.ID),
		StartTime:   execution.StartTime.UTC().Format(timeFormat),
		EndTime:     formatOptional(execution.EndTime),
		Status:      execution.Status.Code(),
		StatusText:  execution.Status.String(),
	}
}

type overviewResponse struct {
	ExecutionID int64   `json:"execution_id"`
	FolderName  string  `json:"folder_name"`
	ProjectName string  `json:"project_name"`
	PackageName string  `json:"package_name"`
	Status      int     `json:"status"`
	StatusText  string  `json:"status_text"`
	StartTime   string  `json:"start_time"`
	EndTime     *string `json:"end_time"`
}

type messageResponse struct {
	ID              int64  `json:"operation_message_id"`
	MessageTime     string `json:"message_time"`
	MessageType     int    `json:"message_type"`
	MessageTypeText string `json:"message_type_text"`
	Message         string `json:"message"`
}

type executionDetailResponse struct {
	Overview overviewResponse  `json:"overview"`
	Messages []messageResponse `json:"messages"`
}

func toExecutionDetailResponse(detail *catalog.ExecutionDetail) executionDetailResponse {
	execution := detail.Execution
	messages := make([]messageResponse, len(detail.Messages))
	for i, message := range detail.Messages {
		messages[i] = messageResponse{
			ID:              message.ID,
			MessageTime:     message.Time.UTC().Format(timeFormat),
			MessageType:     int(message.Type),
			MessageTypeText: message.Type.String(),
			Message:         message.Text,
		}
	}

	return executionDetailResponse{
		Overview: overviewResponse{
			ExecutionID: int64(execution.ID),
			FolderName:  execution.Folder,
			ProjectName: execution.Project,
			PackageName: execution.Package,
			Status:      execution.Status.Code(),
			StatusText:  execution.Status.String(),
			StartTime:   execution.StartTime.UTC().Format(timeFormat),
			EndTime:     formatOptional(execution.EndTime),
		},
		Messages: messages,
	}
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(timeFormat)
	return &formatted
}
