package transport

// LoginRequest is the JSON body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateTaskRequest is the JSON body of POST /api/tasks.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
}

// PatchTaskRequest is the JSON body of PUT /api/tasks/{id}. Pointer fields
// distinguish "absent" from "present but zero" so any subset applies.
type PatchTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Done        *bool   `json:"done"`
	DueDate     *string `json:"due_date"`
}
