package types

// SubmitUploadRequest is the body of POST /api/self/v1/uploads
type SubmitUploadRequest struct {
	Files      []string `json:"files,omitempty"`      // absolute paths or file:// URLs
	FolderPath string   `json:"folderPath,omitempty"` // every file directly inside this folder
	Recursive  bool     `json:"recursive,omitempty"`
}

// SubmitUploadResponse is returned after a batch has been submitted.
type SubmitUploadResponse struct {
	BatchId   string      `json:"batchId"`
	SessionId string      `json:"sessionId"`
	Tasks     []TaskEvent `json:"tasks"`
}

// UploadListResponse is returned by GET /api/self/v1/uploads
type UploadListResponse struct {
	SessionId string      `json:"sessionId"`
	Tasks     []TaskEvent `json:"tasks"`
}

// ProbeResult reports reachability of the upload server host.
type ProbeResult struct {
	Host        string  `json:"host"`
	Reachable   bool    `json:"reachable"`
	PacketsSent int     `json:"packetsSent"`
	PacketsRecv int     `json:"packetsRecv"`
	AvgRttMs    float64 `json:"avgRttMs"`
}
