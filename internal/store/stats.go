package store

import (
	"context"
	"math"
)

// Stats aggregates the project listing into overall counts. It re-derives
// everything from ListProjects so the numbers can never drift from the rows.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	projects, err := s.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{TotalProjects: len(projects)}
	for _, p := range projects {
		stats.TotalTasks += p.TaskCount
		if p.TaskCount > 0 {
			stats.ProjectsWithTasks++
		} else {
			stats.EmptyProjects++
		}
	}
	if stats.TotalProjects > 0 {
		avg := float64(stats.TotalTasks) / float64(stats.TotalProjects)
		stats.AverageTasksPerProject = math.Round(avg*100) / 100
	}
	return stats, nil
}
