package services

import (
	"context"
	"fmt"

	"github.com/asistoya/shared-services/internal/core/apperr"
	"github.com/asistoya/shared-services/internal/core/domain"
	"github.com/asistoya/shared-services/internal/core/mapper"
	"github.com/asistoya/shared-services/internal/core/ports"
	"github.com/asistoya/shared-services/internal/logger"
)

type AttendanceService struct {
	store ports.Store
	feed  ports.ChangeFeed
	clock domain.Clock
}

func NewAttendanceService(store ports.Store, feed ports.ChangeFeed, clock domain.Clock) *AttendanceService {
	return &AttendanceService{store: store, feed: feed, clock: clock}
}

// MarkAttendance records one student's attendance. Date and time default to
// the current local date and wall-clock time.
func (s *AttendanceService) MarkAttendance(ctx context.Context, in domain.MarkAttendanceInput) (*domain.AttendanceRecord, error) {
	if err := firstMissing(
		[2]string{"studentCode", in.StudentCode},
		[2]string{"schoolId", in.SchoolID},
		[2]string{"status", string(in.Status)},
	); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	raw, err := s.store.Insert(ctx, tableAttendance, mapper.NewAttendanceRow(in, now))
	if err != nil {
		return nil, fail("AttendanceService.MarkAttendance", err, "studentCode", in.StudentCode)
	}
	rec, err := mapRow(raw, now, mapper.AttendanceFromRow)
	if err != nil {
		return nil, fail("AttendanceService.MarkAttendance", err)
	}

	logger.Success("AttendanceService", "Attendance marked", "studentCode", rec.StudentCode, "status", rec.Status)
	return rec, nil
}

// GetStudentAttendance returns the record of code on date, or nil when there
// is none or the lookup fails.
func (s *AttendanceService) GetStudentAttendance(ctx context.Context, code, date string) *domain.AttendanceRecord {
	raws, err := s.store.Select(ctx, tableAttendance, ports.Query{
		Where: []ports.Filter{ports.Eq("student_code", code), ports.Eq("date", date)},
		Limit: 1,
	})
	if err != nil {
		apperr.Log("AttendanceService.GetStudentAttendance", apperr.Classify(err), "studentCode", code)
		return nil
	}
	if len(raws) == 0 {
		return nil
	}
	rec, err := mapRow(raws[0], s.clock.Now(), mapper.AttendanceFromRow)
	if err != nil {
		apperr.Log("AttendanceService.GetStudentAttendance", err)
		return nil
	}
	return rec
}

func (s *AttendanceService) GetStudentAttendanceHistory(ctx context.Context, code string, r domain.DateRange) ([]domain.AttendanceRecord, error) {
	q := ports.Query{
		Where:   []ports.Filter{ports.Eq("student_code", code)},
		OrderBy: []ports.Order{{Column: "date", Descending: true}},
	}
	if r.Start != "" {
		q.Where = append(q.Where, ports.Gte("date", r.Start))
	}
	if r.End != "" {
		q.Where = append(q.Where, ports.Lte("date", r.End))
	}
	return s.list(ctx, "AttendanceService.GetStudentAttendanceHistory", q)
}

func (s *AttendanceService) GetCourseAttendance(ctx context.Context, courseCode, date string) ([]domain.AttendanceRecord, error) {
	return s.list(ctx, "AttendanceService.GetCourseAttendance", ports.Query{
		Where:   []ports.Filter{ports.Eq("course_code", courseCode), ports.Eq("date", date)},
		OrderBy: []ports.Order{{Column: "student_name"}},
	})
}

func (s *AttendanceService) GetSchoolAttendance(ctx context.Context, schoolID, date string) ([]domain.AttendanceRecord, error) {
	return s.list(ctx, "AttendanceService.GetSchoolAttendance", ports.Query{
		Where:   []ports.Filter{ports.Eq("school_id", schoolID), ports.Eq("date", date)},
		OrderBy: []ports.Order{{Column: "student_name"}},
	})
}

func (s *AttendanceService) list(ctx context.Context, tag string, q ports.Query) ([]domain.AttendanceRecord, error) {
	raws, err := s.store.Select(ctx, tableAttendance, q)
	if err != nil {
		return nil, fail(tag, err)
	}
	recs, err := mapRows(raws, s.clock.Now(), mapper.AttendanceFromRow)
	if err != nil {
		return nil, fail(tag, err)
	}
	return recs, nil
}

// UpdateAttendance edits a record and stamps who modified it and when.
func (s *AttendanceService) UpdateAttendance(ctx context.Context, id string, u domain.AttendanceUpdate, modifiedBy string) (*domain.AttendanceRecord, error) {
	if err := required("id", id); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	patch := mapper.AttendancePatch(u)
	patch["modified_at"] = timestamp(now)
	patch["modified_by"] = nil
	if modifiedBy != "" {
		patch["modified_by"] = modifiedBy
	}

	raws, err := s.store.Update(ctx, tableAttendance, patch, ports.Query{Where: []ports.Filter{ports.Eq("id", id)}})
	if err != nil {
		return nil, fail("AttendanceService.UpdateAttendance", err, "id", id)
	}
	if len(raws) == 0 {
		return nil, fail("AttendanceService.UpdateAttendance", apperr.NotFound("Attendance record", ""), "id", id)
	}
	rec, err := mapRow(raws[0], now, mapper.AttendanceFromRow)
	if err != nil {
		return nil, fail("AttendanceService.UpdateAttendance", err)
	}

	logger.Success("AttendanceService", "Attendance updated", "id", id)
	return rec, nil
}

// GetStudentStats tallies code's history in r. A failed history fetch yields
// all-zero stats.
func (s *AttendanceService) GetStudentStats(ctx context.Context, code string, r domain.DateRange) domain.AttendanceStats {
	recs, err := s.GetStudentAttendanceHistory(ctx, code, r)
	if err != nil {
		return domain.AttendanceStats{}
	}
	return Tally(recs)
}

// Tally counts records per status and derives the attendance and
// punctuality rates as percentages.
func Tally(recs []domain.AttendanceRecord) domain.AttendanceStats {
	var st domain.AttendanceStats
	for _, r := range recs {
		switch r.Status {
		case domain.StatusPresent:
			st.TotalPresent++
		case domain.StatusLate:
			st.TotalLate++
		case domain.StatusAbsent:
			st.TotalAbsent++
		case domain.StatusExcused:
			st.TotalExcused++
		}
	}

	attended := st.TotalPresent + st.TotalLate
	if len(recs) > 0 {
		st.AttendanceRate = float64(attended) / float64(len(recs)) * 100
	}
	denom := attended
	if denom == 0 {
		denom = 1
	}
	st.PunctualityRate = float64(st.TotalPresent) / float64(denom) * 100
	return st
}

func (s *AttendanceService) GetDailySummary(ctx context.Context, schoolID, date string) (*domain.DailyAttendanceSummary, error) {
	recs, err := s.GetSchoolAttendance(ctx, schoolID, date)
	if err != nil {
		return nil, err
	}
	st := Tally(recs)
	sum := &domain.DailyAttendanceSummary{
		Date:    date,
		Present: st.TotalPresent,
		Late:    st.TotalLate,
		Absent:  st.TotalAbsent,
		Excused: st.TotalExcused,
		Total:   len(recs),
	}
	if sum.Total > 0 {
		sum.Percentage = float64(sum.Present+sum.Late) / float64(sum.Total) * 100
	}
	return sum, nil
}

// SubscribeToAttendance calls fn with the full attendance of courseCode on
// date after every change to it. A failed refetch is logged and skipped.
func (s *AttendanceService) SubscribeToAttendance(ctx context.Context, courseCode, date string, fn func([]domain.AttendanceRecord)) (ports.Subscription, error) {
	filter := ports.Eq("course_code", courseCode)
	spec := ports.ChannelSpec{
		Name:   fmt.Sprintf("attendance-%s-%s", courseCode, date),
		Table:  tableAttendance,
		Event:  ports.ChangeAll,
		Filter: &filter,
	}
	bg := detached(ctx)
	sub, err := s.feed.Subscribe(ctx, spec, func(ports.ChangeEvent) {
		recs, err := s.GetCourseAttendance(bg, courseCode, date)
		if err != nil {
			return
		}
		fn(recs)
	})
	if err != nil {
		return nil, fail("AttendanceService.SubscribeToAttendance", err, "channel", spec.Name)
	}
	return sub, nil
}
