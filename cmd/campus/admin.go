package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"slices"
	"strconv"
	"text/tabwriter"

	"github.com/mmcdole/campus/internal/domain"
	"github.com/mmcdole/campus/internal/state"
)

// courseStore is the store surface the course commands drive
type courseStore interface {
	Dispatch(a state.Action)
	State() state.AppState
	Wait()
}

type catalogReader interface {
	GetCourses(ctx context.Context) ([]domain.Course, error)
}

type feedbackAdmin interface {
	All(ctx context.Context) ([]domain.Feedback, error)
	Update(ctx context.Context, id int64, f domain.Feedback) (domain.Feedback, error)
	Delete(ctx context.Context, id int64) (string, error)
	InstructorFeedbackCount(ctx context.Context, instructorID int64) (int64, error)
}

type enrollmentLister interface {
	Enrollments(ctx context.Context) ([]domain.RawEnrollment, error)
}

type instructorLookup interface {
	Details(ctx context.Context, id int64) (domain.InstructorDetails, error)
	Courses(ctx context.Context, id int64) ([]domain.InstructorCourse, error)
	AverageRating(ctx context.Context, id int64) (*float64, error)
	EnrollmentCount(ctx context.Context, id int64) (int64, error)
}

// commands runs the non-interactive admin and instructor commands
type commands struct {
	out         io.Writer
	store       courseStore
	catalog     catalogReader
	feedback    feedbackAdmin
	users       enrollmentLister
	instructors instructorLookup
}

// courseFlags binds course fields onto c, which supplies the defaults
func courseFlags(name string, c *domain.Course) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&c.Title, "title", c.Title, "course title")
	fs.StringVar(&c.Body, "body", c.Body, "course description")
	fs.StringVar(&c.ImageURL, "image", c.ImageURL, "image URL")
	fs.Float64Var(&c.Price, "price", c.Price, "price")
	fs.StringVar(&c.Instructor, "instructor", c.Instructor, "instructor name")
	fs.Int64Var(&c.InstructorID, "instructor-id", c.InstructorID, "instructor id")
	return fs
}

func (c *commands) courses(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: campus courses add|edit <id> [flags]")
	}

	var action state.Action
	switch args[0] {
	case "add":
		var course domain.Course
		if err := courseFlags("courses add", &course).Parse(args[1:]); err != nil {
			return err
		}
		action = state.AddCourse{Course: course}
	case "edit":
		if len(args) < 2 {
			return fmt.Errorf("usage: campus courses edit <id> [flags]")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		all, err := c.catalog.GetCourses(ctx)
		if err != nil {
			return fmt.Errorf("failed to load courses: %s", domain.Message(err, "Failed to load courses"))
		}
		i := slices.IndexFunc(all, func(x domain.Course) bool { return x.CourseID() == id })
		if i < 0 {
			return fmt.Errorf("course %d not found", id)
		}
		course := all[i]
		if err := courseFlags("courses edit", &course).Parse(args[2:]); err != nil {
			return err
		}
		action = state.UpdateCourse{Course: course}
	default:
		return fmt.Errorf("unknown courses command %q", args[0])
	}

	c.store.Dispatch(action)
	c.store.Wait()

	st := c.store.State()
	if msg := state.SelectError(st); msg != "" {
		return fmt.Errorf("%s", msg)
	}
	fmt.Fprintf(c.out, "✓ %s\n", state.SelectMessage(st))
	return nil
}

func (c *commands) feedbackCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: campus feedback list|edit <id>|delete <id>")
	}

	switch args[0] {
	case "list":
		all, err := c.feedback.All(ctx)
		if err != nil {
			return fmt.Errorf("%s", domain.Message(err, "Failed to load feedback"))
		}
		if len(all) == 0 {
			fmt.Fprintln(c.out, "No feedback yet.")
			return nil
		}
		w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCOURSE\tUSER\tRATING\tCOMMENTS")
		for _, f := range all {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%s\n", optionalID(f.ID), f.CourseName, f.Username, f.Rating, f.Comments)
		}
		return w.Flush()

	case "edit":
		if len(args) < 2 {
			return fmt.Errorf("usage: campus feedback edit <id> [-rating r] [-comments text]")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		all, err := c.feedback.All(ctx)
		if err != nil {
			return fmt.Errorf("%s", domain.Message(err, "Failed to load feedback"))
		}
		i := slices.IndexFunc(all, func(f domain.Feedback) bool { return f.ID != nil && *f.ID == id })
		if i < 0 {
			return fmt.Errorf("feedback %d not found", id)
		}
		f := all[i]
		fs := flag.NewFlagSet("feedback edit", flag.ContinueOnError)
		fs.Float64Var(&f.Rating, "rating", f.Rating, "rating from 0.5 to 5")
		fs.StringVar(&f.Comments, "comments", f.Comments, "review text")
		if err := fs.Parse(args[2:]); err != nil {
			return err
		}
		if _, err := c.feedback.Update(ctx, id, f); err != nil {
			return fmt.Errorf("%s", domain.Message(err, "Failed to update feedback"))
		}
		fmt.Fprintf(c.out, "✓ Feedback %d updated\n", id)
		return nil

	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: campus feedback delete <id>")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		msg, err := c.feedback.Delete(ctx, id)
		if err != nil {
			return fmt.Errorf("%s", domain.Message(err, "Failed to delete feedback"))
		}
		if msg == "" {
			msg = fmt.Sprintf("Feedback %d deleted", id)
		}
		fmt.Fprintf(c.out, "✓ %s\n", msg)
		return nil

	default:
		return fmt.Errorf("unknown feedback command %q", args[0])
	}
}

func (c *commands) enrollments(ctx context.Context) error {
	rows, err := c.users.Enrollments(ctx)
	if err != nil {
		return fmt.Errorf("%s", domain.Message(err, "Failed to load enrollments"))
	}
	if len(rows) == 0 {
		fmt.Fprintln(c.out, "No enrollments yet.")
		return nil
	}
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "USER\tCOURSE ID\tCOURSE")
	for _, e := range rows {
		fmt.Fprintf(w, "%s\t%d\t%s\n", e.Username, e.CourseID, e.CourseName)
	}
	return w.Flush()
}

// instructor prints a profile with its stats. Stats that fail to load are
// reported as unavailable rather than failing the command.
func (c *commands) instructor(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: campus instructor <id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	d, err := c.instructors.Details(ctx, id)
	if err != nil {
		return fmt.Errorf("%s", domain.Message(err, "Failed to load instructor"))
	}

	fmt.Fprintln(c.out, d.Name)
	if d.Email != "" {
		fmt.Fprintln(c.out, d.Email)
	}
	fmt.Fprintln(c.out)

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	rating := "no ratings yet"
	if r, err := c.instructors.AverageRating(ctx, id); err != nil {
		rating = "unavailable"
	} else if r != nil {
		rating = fmt.Sprintf("%.1f", *r)
	}
	fmt.Fprintf(w, "Rating\t%s\n", rating)
	fmt.Fprintf(w, "Enrollments\t%s\n", countOrUnavailable(c.instructors.EnrollmentCount(ctx, id)))
	fmt.Fprintf(w, "Reviews\t%s\n", countOrUnavailable(c.feedback.InstructorFeedbackCount(ctx, id)))
	if err := w.Flush(); err != nil {
		return err
	}

	taught, err := c.instructors.Courses(ctx, id)
	if err != nil || len(taught) == 0 {
		return nil
	}
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "Courses:")
	for _, t := range taught {
		fmt.Fprintf(c.out, "  %-40s $%.2f\n", t.Title, t.Price)
	}
	return nil
}

func countOrUnavailable(n int64, err error) string {
	if err != nil {
		return "unavailable"
	}
	return strconv.FormatInt(n, 10)
}

func optionalID(id *int64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatInt(*id, 10)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
