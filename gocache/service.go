package gocache

import (
	"context"

	"github.com/samarthsinh2660/fluentify"
)

// CourseService reads courses through the cache.
type CourseService struct {
	cache *Cache
	next  fluentify.CourseLister
}

// NewCourseService wraps next with read-through caching in c.
func NewCourseService(c *Cache, next fluentify.CourseLister) *CourseService {
	return &CourseService{cache: c, next: next}
}

// Courses returns the course list, fetching it on a miss.
func (s *CourseService) Courses(ctx context.Context) ([]fluentify.CourseSummary, error) {
	if v, ok := s.cache.Get("courses"); ok {
		return v.([]fluentify.CourseSummary), nil
	}
	courses, err := s.next.Courses(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(courses, "courses")
	return courses, nil
}

// Course returns one course, fetching it on a miss.
func (s *CourseService) Course(ctx context.Context, id int) (fluentify.CourseSummary, error) {
	if v, ok := s.cache.Get("course", id); ok {
		return v.(fluentify.CourseSummary), nil
	}
	course, err := s.next.Course(ctx, id)
	if err != nil {
		return fluentify.CourseSummary{}, err
	}
	s.cache.Set(course, "course", id)
	return course, nil
}
