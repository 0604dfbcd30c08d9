package jobboard

import (
	"context"

	"CampusHire-backend/internal/model"
)

// DashboardStats summarizes the jobs and applications visible to an actor
type DashboardStats struct {
	// TotalJobs counts every visible job, expired ones included
	TotalJobs int `json:"total_jobs"`
	// ActiveJobs counts visible jobs whose deadline has not passed
	ActiveJobs   int `json:"active_jobs"`
	ExpiringSoon int `json:"expiring_soon"`
	// Applications counts applications to the college's jobs, or the student's own applications
	Applications int                             `json:"applications"`
	ByStatus     map[model.ApplicationStatus]int `json:"by_status"`
}

func newDashboardStats() DashboardStats {
	byStatus := make(map[model.ApplicationStatus]int, len(model.ApplicationStatuses))
	for _, status := range model.ApplicationStatuses {
		byStatus[status] = 0
	}
	return DashboardStats{ByStatus: byStatus}
}

// Stats computes the dashboard counters for the actor
func (s *Service) Stats(ctx context.Context, actor model.Actor) (DashboardStats, error) {
	stats := newDashboardStats()

	jobs, err := s.ListVisibleJobs(ctx, actor, JobFilter{})
	if err != nil {
		return stats, err
	}

	now := s.now()
	stats.TotalJobs = len(jobs)
	for _, job := range jobs {
		if !job.Expired(now) {
			stats.ActiveJobs++
		}
		if job.ExpiringSoon(now) {
			stats.ExpiringSoon++
		}
	}

	switch a := actor.(type) {
	case model.College:
		for _, job := range jobs {
			for _, application := range job.Applications {
				stats.Applications++
				stats.ByStatus[application.Status]++
			}
		}
	case model.Student:
		applications, err := s.ListApplicationsForStudent(ctx, a)
		if err != nil {
			return stats, err
		}
		for _, application := range applications {
			stats.Applications++
			stats.ByStatus[application.Status]++
		}
	}
	return stats, nil
}
