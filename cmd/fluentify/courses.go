package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/samarthsinh2660/fluentify"
	"github.com/samarthsinh2660/fluentify/gocache"
	fluentifyhttp "github.com/samarthsinh2660/fluentify/http"
)

func runCourses(ctx context.Context, args []string, env envConfig, stdout io.Writer) error {
	var fl flagConfig
	fs := flag.NewFlagSet("courses", flag.ContinueOnError)
	addCommonFlags(fs, &fl)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := resolveConfig(fl, env)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg.logFile, cfg.logFormat)
	if err != nil {
		return err
	}
	defer closeLog.Close()
	creds, err := credentials(cfg, time.Now())
	if err != nil {
		return err
	}

	cache := gocache.New(gocache.DefaultTTL, gocache.DefaultCleanupInterval, logger)
	svc := gocache.NewCourseService(cache, fluentifyhttp.New(cfg.baseURL, creds))

	var courses []fluentify.CourseSummary
	switch fs.NArg() {
	case 0:
		if courses, err = svc.Courses(ctx); err != nil {
			return err
		}
	case 1:
		id, err := strconv.Atoi(fs.Arg(0))
		if err != nil {
			return fmt.Errorf("invalid course id %q", fs.Arg(0))
		}
		c, err := svc.Course(ctx, id)
		if err != nil {
			return err
		}
		courses = append(courses, c)
	default:
		return fmt.Errorf("usage: fluentify courses [flags] [id]")
	}
	return printCourses(stdout, courses)
}

func printCourses(w io.Writer, courses []fluentify.CourseSummary) error {
	if len(courses) == 0 {
		_, err := fmt.Fprintln(w, "No courses yet.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLANGUAGE\tDURATION\tUNITS\tTITLE")
	for _, c := range courses {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", c.ID, c.Language, c.ExpectedDuration, c.TotalUnits, c.Title)
	}
	return tw.Flush()
}
