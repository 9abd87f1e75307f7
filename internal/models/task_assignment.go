package models

// TaskAssignment is the pure association between a task and an assignee.
// The composite primary key makes a (task, user) pair unique.
type TaskAssignment struct {
	TaskID uint64 `gorm:"primarykey" json:"task_id"`
	UserID uint64 `gorm:"primarykey;index" json:"user_id"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}
