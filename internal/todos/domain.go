package todos

// ListPath is the page whose cached rendering todo mutations invalidate.
const ListPath = "/dashboard/todos"

// Todo is one entry of a user's todo list. complete is stored as 0 or 1.
type Todo struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Content  string `json:"content"`
	Complete bool   `json:"complete"`
}
