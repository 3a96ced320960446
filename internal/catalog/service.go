// Package catalog backs the home and my-learning screens: the public course
// list, the enrolled list with enrollment status, and enrollment requests.
package catalog

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/TalelKhemiri/GoCodeMobile/internal/domain"
)

type API interface {
	GetCourses(ctx context.Context) ([]domain.Course, error)
	GetMyCourses(ctx context.Context) ([]domain.Course, error)
	EnrollCourse(ctx context.Context, courseID int64) error
}

type Config struct {
	API API
}

type Service struct {
	api API
}

func NewService(c Config) *Service {
	return &Service{api: c.API}
}

// Courses returns the public catalog.
func (s *Service) Courses(ctx context.Context) ([]domain.Course, error) {
	return s.api.GetCourses(ctx)
}

// MyCourses returns the signed-in user's courses with their enrollment
// status (pending, rejected, or playable).
func (s *Service) MyCourses(ctx context.Context) ([]domain.Course, error) {
	return s.api.GetMyCourses(ctx)
}

// Enroll requests access to a course. Approval is the monitor's call; the
// course shows up as pending until then.
func (s *Service) Enroll(ctx context.Context, courseID int64) error {
	return s.api.EnrollCourse(ctx, courseID)
}

type Overview struct {
	Catalog []domain.Course
	Mine    []domain.Course
}

// Refresh fetches the catalog and the user's courses concurrently. Either
// failure fails the whole refresh.
func (s *Service) Refresh(ctx context.Context) (*Overview, error) {
	var o Overview

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		courses, err := s.api.GetCourses(ctx)
		o.Catalog = courses
		return err
	})
	g.Go(func() error {
		mine, err := s.api.GetMyCourses(ctx)
		o.Mine = mine
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &o, nil
}
