// Package board builds the kanban view of tasks: the filtered subset
// grouped into one column per status.
package board

import "github.com/mtlprog/momentum/internal/domain"

// Column is one status column of the board.
type Column struct {
	Status domain.Status `json:"status"`
	Tasks  []domain.Task `json:"tasks"`
}

// Board is the grouped, filtered task list.
type Board struct {
	Columns []Column            `json:"columns"`
	Filters []domain.FilterChip `json:"filters"`
	Total   int                 `json:"total"`
}

// Visible returns the tasks matching the applied selection, preserving order.
// Within a category any criterion may match; across categories all must.
func Visible(tasks []domain.Task, applied domain.FilterSelection) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for i := range tasks {
		if applied.Matches(&tasks[i]) {
			out = append(out, tasks[i])
		}
	}
	return out
}

// Group buckets tasks by status id in the given column order. Each bucket
// lists its tasks newest first (reverse of input order). Every status in
// order gets a bucket, even when empty; tasks with other statuses are dropped.
func Group(tasks []domain.Task, order []int) [][]domain.Task {
	index := make(map[int]int, len(order))
	groups := make([][]domain.Task, len(order))
	for i, id := range order {
		index[id] = i
		groups[i] = []domain.Task{}
	}

	for i := len(tasks) - 1; i >= 0; i-- {
		if col, ok := index[tasks[i].Status.ID]; ok {
			groups[col] = append(groups[col], tasks[i])
		}
	}
	return groups
}

// Build filters and groups tasks into named columns in domain.StatusOrder.
// Status names come from statuses; unknown ids get an empty name.
func Build(tasks []domain.Task, applied domain.FilterSelection, statuses []domain.Status) Board {
	names := make(map[int]string, len(statuses))
	for _, s := range statuses {
		names[s.ID] = s.Name
	}

	visible := Visible(tasks, applied)
	groups := Group(visible, domain.StatusOrder)

	b := Board{
		Columns: make([]Column, len(groups)),
		Filters: applied.Chips(),
	}
	for i, id := range domain.StatusOrder {
		b.Columns[i] = Column{
			Status: domain.Status{ID: id, Name: names[id]},
			Tasks:  groups[i],
		}
		b.Total += len(groups[i])
	}
	return b
}
