package types

// ModelInfo describes one model family exposed by GET /models.
type ModelInfo struct {
	// Stable identifier for the family.
	// example: efficientsam
	ID string `json:"id" example:"efficientsam"`
	// Human-friendly name.
	// example: EfficientSAM
	Name string `json:"name" example:"EfficientSAM"`
	// Short description of the model family.
	Description string `json:"description,omitempty"`
	// Axis order required for input images.
	// example: yxc
	Axes string `json:"axes" example:"yxc"`
	// Whether the backend runtime dependencies for this family are present.
	// example: false
	Installed bool `json:"installed" example:"false"`
}

// ModelsResponse wraps the list of model families returned by GET /models.
type ModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// OpenSessionRequest asks the daemon to bind a model to one image.
type OpenSessionRequest struct {
	// Model family identifier. If empty, the server default is used.
	// example: efficientsam
	Model string `json:"model,omitempty" example:"efficientsam"`
	// Path to the image to encode.
	// example: /home/user/images/cells_0041.png
	ImagePath string `json:"image_path" example:"/home/user/images/cells_0041.png"`
}

// SessionResponse identifies a newly opened session.
type SessionResponse struct {
	// Opaque session identifier.
	// example: 7f9c44a0-9c63-4a55-a8f4-1f2f0f6d9c11
	SessionID string `json:"session_id" example:"7f9c44a0-9c63-4a55-a8f4-1f2f0f6d9c11"`
	// Model family serving the session.
	// example: efficientsam
	Model string `json:"model" example:"efficientsam"`
	// Image the session is bound to.
	// example: /home/user/images/cells_0041.png
	ImagePath string `json:"image_path" example:"/home/user/images/cells_0041.png"`
}

// PointsRequest is a point-prompt segmentation request.
type PointsRequest struct {
	// Positive points (inside the object). At least one is required.
	Points []Point `json:"points"`
	// Negative points (outside the object). May be empty.
	NegPoints []Point `json:"neg_points,omitempty"`
}

// BoxRequest is a bounding-box-prompt segmentation request.
type BoxRequest struct {
	// Min corner of the box.
	Min Point `json:"min"`
	// Max corner of the box.
	Max Point `json:"max"`
}

// MaskRequest is a mask-prompt segmentation request.
type MaskRequest struct {
	Mask Raster `json:"mask"`
}

// SegmentationResponse carries the polygons produced by a segmentation call.
// On backend failure it holds exactly one zero-vertex polygon.
type SegmentationResponse struct {
	Polygons []Polygon `json:"polygons"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: session not found
	Error string `json:"error" example:"session not found"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}

// SessionStatus summarizes one live session for /status.
type SessionStatus struct {
	// Session identifier.
	SessionID string `json:"session_id"`
	// Model family serving the session.
	// example: efficientsam
	Model string `json:"model" example:"efficientsam"`
	// Image the session is bound to.
	ImagePath string `json:"image_path"`
	// Last time this session served a request (unix seconds).
	// example: 1700000000
	LastUsed int64 `json:"last_used_unix" example:"1700000000"`
	// TCP port used by the backend process.
	// example: 30001
	Port int `json:"port,omitempty" example:"30001"`
	// Process ID of the backend process.
	// example: 12345
	PID int `json:"pid,omitempty" example:"12345"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Live sessions.
	Sessions []SessionStatus `json:"sessions"`
	// Uptime of the daemon in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
	// Total sessions opened since start.
	// example: 12
	OpensTotal uint64 `json:"opens_total" example:"12"`
	// Total segmentation calls that were contained as empty results.
	// example: 2
	ContainedFailuresTotal uint64 `json:"contained_failures_total" example:"2"`
	// Last error observed by the manager (if any).
	LastError string `json:"last_error,omitempty"`
}
