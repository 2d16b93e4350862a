package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"sync"

	"github.com/asistoya/shared-services/internal/client"
	"github.com/asistoya/shared-services/internal/core/domain"
	"github.com/asistoya/shared-services/internal/core/validation"
)

const usage = `usage: asistoya <command> [flags]

commands:
  signin   -email -password
  signout
  whoami
  mark     -student -name -school-id -school-code -status [-course -date -time -method -teacher -notes]
  summary  -school-id [-date]
  stats    -student [-from -to]
  watch    -course [-date]
`

var ErrNotSignedIn = errors.New("not signed in")

type app struct {
	svc    client.Services
	clock  domain.Clock
	out    io.Writer
	errOut io.Writer

	mu sync.Mutex
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing command\n%s", usage)
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "signin":
		return a.signIn(ctx, rest)
	case "signout":
		return a.svc.Auth.SignOut(ctx)
	case "whoami":
		return a.whoami(ctx)
	case "mark":
		return a.mark(ctx, rest)
	case "summary":
		return a.summary(ctx, rest)
	case "stats":
		return a.stats(ctx, rest)
	case "watch":
		return a.watch(ctx, rest)
	}
	return fmt.Errorf("unknown command %q\n%s", cmd, usage)
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func (a *app) today() string {
	return a.clock.Now().Format(domain.DateLayout)
}

func (a *app) print(v any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) signIn(ctx context.Context, args []string) error {
	var req validation.LoginRequest
	fs := a.flags("signin")
	fs.StringVar(&req.Email, "email", "", "account email")
	fs.StringVar(&req.Password, "password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := validation.Validate(&req); err != nil {
		return err
	}

	session, err := a.svc.Auth.SignIn(ctx, req.SignIn())
	if err != nil {
		return err
	}
	return a.print(map[string]any{
		"userId":    session.User.ID,
		"email":     session.User.Email,
		"expiresAt": session.ExpiresAt,
	})
}

func (a *app) whoami(ctx context.Context) error {
	if profile := a.svc.Auth.GetCurrentUserProfile(ctx); profile != nil {
		return a.print(profile)
	}
	if user := a.svc.Auth.GetCurrentUser(ctx); user != nil {
		return a.print(user)
	}
	return ErrNotSignedIn
}

func (a *app) mark(ctx context.Context, args []string) error {
	var req validation.MarkAttendanceRequest
	var status, method string
	fs := a.flags("mark")
	fs.StringVar(&req.StudentCode, "student", "", "student code")
	fs.StringVar(&req.StudentName, "name", "", "student name")
	fs.StringVar(&req.SchoolID, "school-id", "", "school id")
	fs.StringVar(&req.SchoolCode, "school-code", "", "school code")
	fs.StringVar(&req.CourseCode, "course", "", "course code")
	fs.StringVar(&req.Date, "date", a.today(), "date, YYYY-MM-DD")
	fs.StringVar(&req.Time, "time", "", "time, HH:MM:SS")
	fs.StringVar(&status, "status", "", "present, late, absent or excused")
	fs.StringVar(&method, "method", "", "manual, face_recognition, qr_code or auto")
	fs.StringVar(&req.TeacherCode, "teacher", "", "marking teacher code")
	fs.StringVar(&req.Notes, "notes", "", "free text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req.Status = domain.AttendanceStatus(status)
	req.Method = domain.AttendanceMethod(method)
	if err := validation.Validate(&req); err != nil {
		return err
	}

	rec, err := a.svc.Attendance.MarkAttendance(ctx, req.Input())
	if err != nil {
		return err
	}
	return a.print(rec)
}

func (a *app) summary(ctx context.Context, args []string) error {
	fs := a.flags("summary")
	schoolID := fs.String("school-id", "", "school id")
	date := fs.String("date", a.today(), "date, YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := validation.NonEmpty("schoolId", *schoolID); err != nil {
		return err
	}

	s, err := a.svc.Attendance.GetDailySummary(ctx, *schoolID, *date)
	if err != nil {
		return err
	}
	return a.print(s)
}

func (a *app) stats(ctx context.Context, args []string) error {
	fs := a.flags("stats")
	code := fs.String("student", "", "student code")
	from := fs.String("from", "", "first date, YYYY-MM-DD")
	to := fs.String("to", "", "last date, YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := validation.NonEmpty("studentCode", *code); err != nil {
		return err
	}

	return a.print(a.svc.Attendance.GetStudentStats(ctx, *code, domain.DateRange{Start: *from, End: *to}))
}

// watch prints the course's attendance for the day on every change until
// ctx is cancelled.
func (a *app) watch(ctx context.Context, args []string) error {
	fs := a.flags("watch")
	course := fs.String("course", "", "course code")
	date := fs.String("date", a.today(), "date, YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := validation.NonEmpty("courseCode", *course); err != nil {
		return err
	}

	initial, err := a.svc.Attendance.GetCourseAttendance(ctx, *course, *date)
	if err != nil {
		return err
	}
	if err := a.print(initial); err != nil {
		return err
	}

	sub, err := a.svc.Attendance.SubscribeToAttendance(ctx, *course, *date, func(recs []domain.AttendanceRecord) {
		if err := a.print(recs); err != nil {
			fmt.Fprintln(a.errOut, "asistoya: print:", err)
		}
	})
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	<-ctx.Done()
	return nil
}
