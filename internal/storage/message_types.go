package storage

import "time"

// ResumeUploadedMessage 上传入口发布、分析消费者订阅的事件消息
type ResumeUploadedMessage struct {
	AnalysisID       string    `json:"analysis_id"`
	UserID           string    `json:"user_id"`
	OriginalFilename string    `json:"original_filename"`
	FilePathOSS      string    `json:"file_path_oss"`
	UploadedAt       time.Time `json:"uploaded_at"`
}
