package types

// ConfigResponse is the JSON shape for GET/PATCH /api/self/v1/config.
type ConfigResponse struct {
	FormAction      string `json:"form_action"`
	UID             string `json:"uid"`
	Port            int    `json:"port"`
	SniffContent    bool   `json:"sniff_content"`
	NotifySocket    string `json:"notify_socket"`
	NotifyWebsocket bool   `json:"notify_websocket"`
	TaskRetention   int    `json:"task_retention"`
}

// ConfigPatchRequest is the JSON body for PATCH /api/self/v1/config (partial update, all fields optional).
type ConfigPatchRequest struct {
	FormAction      *string `json:"form_action"`
	UID             *string `json:"uid"`
	SniffContent    *bool   `json:"sniff_content"`
	NotifySocket    *string `json:"notify_socket"`
	NotifyWebsocket *bool   `json:"notify_websocket"`
	TaskRetention   *int    `json:"task_retention"`
}
