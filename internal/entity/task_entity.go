package entity

// Task status options in the tasks database. ListDue treats anything other
// than Done as open.
const (
	TaskStatusTodo = "Todo"
	TaskStatusDone = "Done"
)
