package http

import (
	"context"
	"strconv"

	"github.com/samarthsinh2660/fluentify"
)

// Courses lists the learner's courses.
func (c *Client) Courses(ctx context.Context) ([]fluentify.CourseSummary, error) {
	var courses []fluentify.CourseSummary
	if err := c.getJSON(ctx, coursesPath, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// Course fetches one course by id.
func (c *Client) Course(ctx context.Context, id int) (fluentify.CourseSummary, error) {
	var course fluentify.CourseSummary
	if err := c.getJSON(ctx, coursesPath+"/"+strconv.Itoa(id), &course); err != nil {
		return fluentify.CourseSummary{}, err
	}
	return course, nil
}
